package dto

import "github.com/promptmaster/backend/internal/models"

// UsageTrend holds parallel arrays of day labels (YYYY-MM-DD) and event
// counts, chronological. Days without events do not appear.
type UsageTrend struct {
	Dates  []string `json:"dates"`
	Counts []int64  `json:"counts"`
}

type CategoryCount struct {
	Category models.Category `json:"category"`
	Count    int64           `json:"count"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

type TopTemplate struct {
	Template TemplateResponse `json:"template"`
	// UsageInWindow counts only events inside the requested window, unlike
	// the template's lifetime usage_count.
	UsageInWindow int64 `json:"usage_in_window"`
}

type AnalyticsReport struct {
	Range                string          `json:"range"`
	UsageTrend           UsageTrend      `json:"usage_trend"`
	CategoryDistribution []CategoryCount `json:"category_distribution"`
	PopularTags          []TagCount      `json:"popular_tags"`
	TopTemplates         []TopTemplate   `json:"top_templates"`
}
