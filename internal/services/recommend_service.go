package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/promptmaster/backend/internal/dto"
	"github.com/promptmaster/backend/internal/models"
	"github.com/promptmaster/backend/internal/repository"
)

const maxRecommendations = 10

// RecommendService ranks unused templates by how well they match the caller's
// usage profile, combined with global quality signals.
type RecommendService struct {
	aggregator *UsageAggregator
	templates  repository.TemplateRepository
	events     repository.UsageEventRepository
	users      repository.UserRepository
}

func NewRecommendService(
	aggregator *UsageAggregator,
	templates repository.TemplateRepository,
	events repository.UsageEventRepository,
	users repository.UserRepository,
) *RecommendService {
	return &RecommendService{
		aggregator: aggregator,
		templates:  templates,
		events:     events,
		users:      users,
	}
}

// Recommend returns up to 10 templates the user has not used yet, drawn from
// their top categories or top tags (either match qualifies), ordered by
// rating, then usage count, then id. The ordering is fully deterministic for
// a fixed data snapshot.
//
// A user without history gets an empty list rather than a popularity
// fallback.
func (s *RecommendService) Recommend(ctx context.Context, userID uuid.UUID) ([]dto.TemplateResponse, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	profile, err := s.aggregator.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.Empty() {
		return []dto.TemplateResponse{}, nil
	}

	candidates, err := s.templates.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	usedIDs, err := s.events.UsedTemplateIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load used templates: %w", err)
	}
	used := make(map[uuid.UUID]struct{}, len(usedIDs))
	for _, id := range usedIDs {
		used[id] = struct{}{}
	}

	wantCategories := make(map[models.Category]struct{}, len(profile.Categories))
	for _, c := range profile.Categories {
		wantCategories[c] = struct{}{}
	}
	wantTags := make(map[string]struct{}, len(profile.Tags))
	for _, t := range profile.Tags {
		wantTags[t] = struct{}{}
	}

	matched := make([]models.Template, 0, len(candidates))
	for _, t := range candidates {
		if _, already := used[t.ID]; already {
			continue
		}
		_, categoryHit := wantCategories[t.Category]
		if categoryHit || t.HasAnyTag(wantTags) {
			matched = append(matched, t)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Rating != matched[j].Rating {
			return matched[i].Rating > matched[j].Rating
		}
		if matched[i].UsageCount != matched[j].UsageCount {
			return matched[i].UsageCount > matched[j].UsageCount
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	if len(matched) > maxRecommendations {
		matched = matched[:maxRecommendations]
	}

	resp := make([]dto.TemplateResponse, len(matched))
	for i := range matched {
		resp[i] = mapTemplateToResponse(&matched[i])
	}
	return resp, nil
}
