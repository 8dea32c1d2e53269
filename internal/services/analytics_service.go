package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/promptmaster/backend/internal/dto"
	"github.com/promptmaster/backend/internal/models"
	"github.com/promptmaster/backend/internal/repository"
)

var ErrInvalidTimeRange = errors.New("time range must be one of week, month, quarter")

// windowDays maps the named report windows to their length.
var windowDays = map[string]int{
	"week":    7,
	"month":   30,
	"quarter": 90,
}

const (
	popularTagCount  = 20
	topTemplateCount = 10
)

// AnalyticsService builds the usage report for a named time window: the
// per-day usage trend, the distribution over categories, the most-used tags
// and the most-used templates. All aggregation runs in memory over the
// in-window event rows.
type AnalyticsService struct {
	events    repository.UsageEventRepository
	templates repository.TemplateRepository

	now func() time.Time
}

func NewAnalyticsService(events repository.UsageEventRepository, templates repository.TemplateRepository) *AnalyticsService {
	return &AnalyticsService{
		events:    events,
		templates: templates,
		now:       time.Now,
	}
}

// Report validates the window name before touching the store, then assembles
// all four sub-reports from a single event scan.
func (s *AnalyticsService) Report(ctx context.Context, rangeName string) (*dto.AnalyticsReport, error) {
	days, ok := windowDays[rangeName]
	if !ok {
		return nil, ErrInvalidTimeRange
	}

	since := s.now().AddDate(0, 0, -days)
	events, err := s.events.Find(ctx, repository.UsageEventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("failed to load usage events: %w", err)
	}

	templates, err := s.templates.GetByIDs(ctx, distinctTemplateIDs(events))
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	byID := make(map[uuid.UUID]*models.Template, len(templates))
	for i := range templates {
		byID[templates[i].ID] = &templates[i]
	}

	return &dto.AnalyticsReport{
		Range:                rangeName,
		UsageTrend:           buildUsageTrend(events),
		CategoryDistribution: buildCategoryDistribution(events, byID),
		PopularTags:          buildPopularTags(events, byID),
		TopTemplates:         buildTopTemplates(events, byID),
	}, nil
}

// buildUsageTrend counts events per calendar day (server time zone) and
// returns the days that had activity in chronological order. Gap days are
// not zero-filled; charting clients see only days with events.
func buildUsageTrend(events []models.UsageEvent) dto.UsageTrend {
	counts := make(map[string]int64)
	for _, ev := range events {
		counts[ev.UsedAt.Format("2006-01-02")]++
	}

	dates := make([]string, 0, len(counts))
	for date := range counts {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	trend := dto.UsageTrend{
		Dates:  dates,
		Counts: make([]int64, len(dates)),
	}
	for i, date := range dates {
		trend.Counts[i] = counts[date]
	}
	return trend
}

// buildCategoryDistribution counts in-window events per category. Every
// category appears, zero-filled, ordered by count descending with name as
// the stable tie-break.
func buildCategoryDistribution(events []models.UsageEvent, byID map[uuid.UUID]*models.Template) []dto.CategoryCount {
	counts := make(map[models.Category]int64, len(models.AllCategories))
	for _, c := range models.AllCategories {
		counts[c] = 0
	}
	for _, ev := range events {
		if t, ok := byID[ev.TemplateID]; ok {
			counts[t.Category]++
		}
	}

	dist := make([]dto.CategoryCount, 0, len(counts))
	for _, c := range models.AllCategories {
		dist = append(dist, dto.CategoryCount{Category: c, Count: counts[c]})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Category < dist[j].Category
	})
	return dist
}

// buildPopularTags counts events per individual tag: each event contributes
// one count to every tag on its template.
func buildPopularTags(events []models.UsageEvent, byID map[uuid.UUID]*models.Template) []dto.TagCount {
	counts := make(map[string]int64)
	for _, ev := range events {
		t, ok := byID[ev.TemplateID]
		if !ok {
			continue
		}
		for _, tag := range t.TagList() {
			counts[tag]++
		}
	}

	tags := make([]dto.TagCount, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, dto.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})
	if len(tags) > popularTagCount {
		tags = tags[:popularTagCount]
	}
	return tags
}

// buildTopTemplates ranks in-window-active templates by their in-window
// event count and annotates the top 10 with that count.
func buildTopTemplates(events []models.UsageEvent, byID map[uuid.UUID]*models.Template) []dto.TopTemplate {
	counts := make(map[uuid.UUID]int64)
	for _, ev := range events {
		if _, ok := byID[ev.TemplateID]; ok {
			counts[ev.TemplateID]++
		}
	}

	top := make([]dto.TopTemplate, 0, len(counts))
	for id, count := range counts {
		top = append(top, dto.TopTemplate{
			Template:      mapTemplateToResponse(byID[id]),
			UsageInWindow: count,
		})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].UsageInWindow != top[j].UsageInWindow {
			return top[i].UsageInWindow > top[j].UsageInWindow
		}
		return top[i].Template.ID.String() < top[j].Template.ID.String()
	})
	if len(top) > topTemplateCount {
		top = top[:topTemplateCount]
	}
	return top
}
