package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptmaster/backend/internal/models"
)

func TestProfileRanksByEventFrequency(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("alice")

	coding := store.addTemplate("Code Review", models.CategoryCoding, []string{"golang", "review"}, 4, 0)
	writing := store.addTemplate("Email Draft", models.CategoryWriting, []string{"email"}, 4, 0)
	analysis := store.addTemplate("Trend Report", models.CategoryAnalysis, []string{"data", "report"}, 4, 0)

	// coding x3, writing x2, analysis x1: repeated use counts every time
	now := time.Now()
	for i := 0; i < 3; i++ {
		store.addEvent(user.ID, coding.ID, now)
	}
	store.addEvent(user.ID, writing.ID, now)
	store.addEvent(user.ID, writing.ID, now)
	store.addEvent(user.ID, analysis.ID, now)

	agg := NewUsageAggregator(store, store)
	profile, err := agg.Profile(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, []models.Category{models.CategoryCoding, models.CategoryWriting, models.CategoryAnalysis}, profile.Categories)
	// golang and review ride every coding event, so they lead
	assert.Equal(t, []string{"golang", "review", "email", "data", "report"}, profile.Tags)
}

func TestProfileCapsCategoriesAndTags(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("bob")

	now := time.Now()
	tmpls := []*models.Template{
		store.addTemplate("a", models.CategoryAnalysis, []string{"t1", "t2"}, 0, 0),
		store.addTemplate("b", models.CategoryWriting, []string{"t3", "t4"}, 0, 0),
		store.addTemplate("c", models.CategoryCoding, []string{"t5", "t6"}, 0, 0),
		store.addTemplate("d", models.CategoryMarketing, []string{"t7"}, 0, 0),
	}
	for _, tmpl := range tmpls {
		store.addEvent(user.ID, tmpl.ID, now)
	}

	agg := NewUsageAggregator(store, store)
	profile, err := agg.Profile(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Len(t, profile.Categories, 3)
	assert.Len(t, profile.Tags, 5)
}

func TestProfileTieBreaksLexicographically(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("carol")

	now := time.Now()
	w := store.addTemplate("w", models.CategoryWriting, []string{"zeta", "alpha"}, 0, 0)
	c := store.addTemplate("c", models.CategoryCoding, nil, 0, 0)
	store.addEvent(user.ID, w.ID, now)
	store.addEvent(user.ID, c.ID, now)

	agg := NewUsageAggregator(store, store)
	profile, err := agg.Profile(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, []models.Category{models.CategoryCoding, models.CategoryWriting}, profile.Categories)
	assert.Equal(t, []string{"alpha", "zeta"}, profile.Tags)
}

func TestProfileEmptyHistory(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("dave")

	agg := NewUsageAggregator(store, store)
	profile, err := agg.Profile(context.Background(), user.ID)
	require.NoError(t, err)

	assert.True(t, profile.Empty())
	assert.Empty(t, profile.Categories)
	assert.Empty(t, profile.Tags)
}

func TestRankByCount(t *testing.T) {
	counts := map[string]int{"b": 2, "a": 2, "c": 5, "d": 1}
	assert.Equal(t, []string{"c", "a", "b"}, rankByCount(counts, 3))
	assert.Equal(t, []string{"c", "a", "b", "d"}, rankByCount(counts, 10))
}
