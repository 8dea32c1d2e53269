package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptmaster/backend/internal/dto"
	"github.com/promptmaster/backend/internal/models"
	"github.com/promptmaster/backend/internal/repository"
)

func newTemplateService(store *fakeStore) *TemplateService {
	return NewTemplateService(store, store, userRepo{store})
}

func TestCreateTemplateValidation(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("alice")
	svc := newTemplateService(store)
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.CreateTemplateRequest
		want error
	}{
		{"missing name", dto.CreateTemplateRequest{Content: "c", Category: models.CategoryCoding}, ErrNameRequired},
		{"blank name", dto.CreateTemplateRequest{Name: "   ", Content: "c", Category: models.CategoryCoding}, ErrNameRequired},
		{"missing content", dto.CreateTemplateRequest{Name: "n", Category: models.CategoryCoding}, ErrContentRequired},
		{"bad category", dto.CreateTemplateRequest{Name: "n", Content: "c", Category: "devops"}, ErrInvalidCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, user.ID, &tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	created, err := svc.Create(ctx, user.ID, &dto.CreateTemplateRequest{
		Name:     "Code Review",
		Content:  "Review this diff: {input}",
		Category: models.CategoryCoding,
		Tags:     []string{"golang", "review"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"golang", "review"}, created.Tags)
	assert.Zero(t, created.Rating)
	assert.Zero(t, created.UsageCount)
}

func TestListTagFilterAndPagination(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < 25; i++ {
		tags := []string{"other"}
		if i%2 == 0 {
			tags = []string{"golang"}
		}
		store.addTemplate(fmt.Sprintf("t%02d", i), models.CategoryCoding, tags, 0, 0)
	}
	svc := newTemplateService(store)
	ctx := context.Background()

	page1, err := svc.List(ctx, TemplateListParams{Tag: "golang", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 13, page1.Total)
	assert.Len(t, page1.Templates, 10)
	for _, tmpl := range page1.Templates {
		assert.Contains(t, tmpl.Tags, "golang")
	}

	page2, err := svc.List(ctx, TemplateListParams{Tag: "golang", Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page2.Templates, 3)

	// a page past the end is empty, not an error
	page9, err := svc.List(ctx, TemplateListParams{Tag: "golang", Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page9.Templates)
	assert.Equal(t, 13, page9.Total)
}

func TestListRejectsBadInputs(t *testing.T) {
	store := newFakeStore()
	svc := newTemplateService(store)
	ctx := context.Background()

	_, err := svc.List(ctx, TemplateListParams{Category: "devops"})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = svc.List(ctx, TemplateListParams{Sort: "name"})
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestGetIncludesComments(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("alice")
	tmpl := store.addTemplate("t", models.CategoryWriting, nil, 0, 0)
	store.seedComment(tmpl.ID, user.ID, 5)
	store.seedComment(tmpl.ID, user.ID, 3)

	svc := newTemplateService(store)
	got, err := svc.Get(context.Background(), tmpl.ID)
	require.NoError(t, err)

	assert.Equal(t, tmpl.ID, got.ID)
	assert.Equal(t, 2, got.CommentCount)
	assert.Len(t, got.Comments, 2)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestAddCommentRecomputesRating(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("alice")
	tmpl := store.addTemplate("t", models.CategoryCoding, nil, 0, 0)
	svc := newTemplateService(store)
	ctx := context.Background()

	for _, rating := range []int{5, 4} {
		_, err := svc.AddComment(ctx, tmpl.ID, user.ID, &dto.AddCommentRequest{Content: "ok", Rating: rating})
		require.NoError(t, err)
	}
	resp, err := svc.AddComment(ctx, tmpl.ID, user.ID, &dto.AddCommentRequest{Content: "ok", Rating: 5})
	require.NoError(t, err)
	assert.InDelta(t, 4.67, resp.Rating, 0.01)

	// one harsh review drags the mean down, never replaces it
	resp, err = svc.AddComment(ctx, tmpl.ID, user.ID, &dto.AddCommentRequest{Content: "meh", Rating: 1})
	require.NoError(t, err)
	assert.InDelta(t, 3.75, resp.Rating, 0.01)

	stored, err := store.GetByID(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.75, stored.Rating, 0.01)
}

func TestAddCommentValidatesBeforeWriting(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("alice")
	tmpl := store.addTemplate("t", models.CategoryCoding, nil, 0, 0)
	svc := newTemplateService(store)
	ctx := context.Background()

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.AddComment(ctx, tmpl.ID, user.ID, &dto.AddCommentRequest{Content: "ok", Rating: rating})
		assert.ErrorIs(t, err, ErrInvalidRating)
	}
	_, err := svc.AddComment(ctx, tmpl.ID, user.ID, &dto.AddCommentRequest{Content: "  ", Rating: 3})
	assert.ErrorIs(t, err, ErrContentRequired)

	comments, err := store.ListByTemplate(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Empty(t, comments, "rejected comments must leave no trace")

	_, err = svc.AddComment(ctx, uuid.New(), user.ID, &dto.AddCommentRequest{Content: "ok", Rating: 3})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestRecordUsage(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("alice")
	tmpl := store.addTemplate("t", models.CategoryCoding, nil, 0, 0)
	svc := newTemplateService(store)
	ctx := context.Background()

	err := svc.RecordUsage(ctx, tmpl.ID, user.ID, map[string]interface{}{"success": true})
	require.NoError(t, err)

	stored, err := store.GetByID(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.UsageCount)

	ids, err := store.UsedTemplateIDs(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{tmpl.ID}, ids)

	err = svc.RecordUsage(ctx, uuid.New(), user.ID, nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	err = svc.RecordUsage(ctx, tmpl.ID, uuid.New(), nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAddCommentConcurrent(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("alice")
	tmpl := store.addTemplate("t", models.CategoryCoding, nil, 0, 0)
	svc := newTemplateService(store)
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		rating := i%5 + 1
		go func() {
			defer wg.Done()
			_, err := svc.AddComment(ctx, tmpl.ID, user.ID, &dto.AddCommentRequest{Content: "ok", Rating: rating})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	comments, err := store.ListByTemplate(ctx, tmpl.ID)
	require.NoError(t, err)
	require.Len(t, comments, n)

	stored, err := store.GetByID(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.InDelta(t, models.MeanRating(comments), stored.Rating, 1e-9,
		"stored rating must equal the mean over every comment, none dropped")
}

func TestRecordUsageConcurrent(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("alice")
	tmpl := store.addTemplate("t", models.CategoryCoding, nil, 0, 0)
	svc := newTemplateService(store)
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.RecordUsage(ctx, tmpl.ID, user.ID, nil))
		}()
	}
	wg.Wait()

	stored, err := store.GetByID(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), stored.UsageCount, "counter must count every event exactly once")

	events, err := store.Find(ctx, repository.UsageEventFilter{UserID: &user.ID})
	require.NoError(t, err)
	assert.Len(t, events, n)
}
