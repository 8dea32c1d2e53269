package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptmaster/backend/internal/models"
)

func newSceneService(store *fakeStore) *SceneService {
	agg := NewUsageAggregator(store, store)
	return NewSceneService(sceneRepo{store}, agg, userRepo{store})
}

func TestSceneRecommendedByTagOverlap(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("alice")

	tmpl := store.addTemplate("t", models.CategoryCoding, []string{"review", "golang"}, 0, 0)
	store.addEvent(user.ID, tmpl.ID, time.Now())

	match := store.addScene("Code Review", []string{"review", "refactor"})
	store.addScene("Content Calendar", []string{"social", "blog"})

	got, err := newSceneService(store).Recommended(context.Background(), user.ID)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, match.ID, got[0].ID)
}

func TestSceneRecommendedEmptyHistory(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("bob")
	store.addScene("Code Review", []string{"review"})

	got, err := newSceneService(store).Recommended(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSceneRecommendedUnknownUser(t *testing.T) {
	store := newFakeStore()

	_, err := newSceneService(store).Recommended(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSceneList(t *testing.T) {
	store := newFakeStore()
	store.addScene("Weekly Report", []string{"report", "summary"})
	store.addScene("Launch Prep", []string{"copy"})

	got, err := newSceneService(store).List(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Weekly Report", got[0].Name)
	assert.Equal(t, []string{"report", "summary"}, got[0].Tags)
}
