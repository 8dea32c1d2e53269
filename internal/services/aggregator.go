package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/promptmaster/backend/internal/models"
	"github.com/promptmaster/backend/internal/repository"
)

const (
	topCategoryCount = 3
	topTagCount      = 5
)

// UsageProfile summarizes a user's all-time usage history: the categories and
// tags they reach for most often.
type UsageProfile struct {
	Categories []models.Category
	Tags       []string
}

func (p *UsageProfile) Empty() bool {
	return len(p.Categories) == 0 && len(p.Tags) == 0
}

// UsageAggregator computes per-user category and tag frequencies from the
// usage event log. All counting happens in memory over materialized rows.
type UsageAggregator struct {
	events    repository.UsageEventRepository
	templates repository.TemplateRepository
}

func NewUsageAggregator(events repository.UsageEventRepository, templates repository.TemplateRepository) *UsageAggregator {
	return &UsageAggregator{events: events, templates: templates}
}

// Profile returns the user's top 3 categories and top 5 tags by event
// frequency. Each usage event contributes its template's category once and
// each of its tags once, so a template used five times counts five times.
// An empty history yields an empty profile, not an error.
func (a *UsageAggregator) Profile(ctx context.Context, userID uuid.UUID) (*UsageProfile, error) {
	events, err := a.events.Find(ctx, repository.UsageEventFilter{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load usage events: %w", err)
	}
	if len(events) == 0 {
		return &UsageProfile{}, nil
	}

	templates, err := a.templates.GetByIDs(ctx, distinctTemplateIDs(events))
	if err != nil {
		return nil, fmt.Errorf("failed to load used templates: %w", err)
	}

	byID := make(map[uuid.UUID]*models.Template, len(templates))
	for i := range templates {
		byID[templates[i].ID] = &templates[i]
	}

	categoryCounts := make(map[models.Category]int)
	tagCounts := make(map[string]int)
	for _, ev := range events {
		t, ok := byID[ev.TemplateID]
		if !ok {
			// Event survived its template (seeded data); skip rather than fail.
			continue
		}
		categoryCounts[t.Category]++
		for _, tag := range t.TagList() {
			tagCounts[tag]++
		}
	}

	return &UsageProfile{
		Categories: rankByCount(categoryCounts, topCategoryCount),
		Tags:       rankByCount(tagCounts, topTagCount),
	}, nil
}

// rankByCount orders keys by count descending and returns the first k.
// Equal counts are broken lexicographically ascending, which keeps the
// ranking deterministic regardless of map iteration order.
func rankByCount[T ~string](counts map[T]int, k int) []T {
	keys := make([]T, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > k {
		keys = keys[:k]
	}
	return keys
}

func distinctTemplateIDs(events []models.UsageEvent) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(events))
	ids := make([]uuid.UUID, 0, len(events))
	for _, ev := range events {
		if _, ok := seen[ev.TemplateID]; ok {
			continue
		}
		seen[ev.TemplateID] = struct{}{}
		ids = append(ids, ev.TemplateID)
	}
	return ids
}
