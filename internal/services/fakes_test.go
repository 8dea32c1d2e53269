package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/promptmaster/backend/internal/models"
	"github.com/promptmaster/backend/internal/repository"
)

// fakeStore is a mutex-guarded in-memory stand-in for the Postgres
// repositories. It implements every repository interface so a single
// instance can back a whole service graph in tests.
type fakeStore struct {
	mu        sync.Mutex
	templates map[uuid.UUID]*models.Template
	comments  map[uuid.UUID][]models.Comment
	events    []models.UsageEvent
	users     map[uuid.UUID]*models.User
	scenes    []models.Scene
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		templates: make(map[uuid.UUID]*models.Template),
		comments:  make(map[uuid.UUID][]models.Comment),
		users:     make(map[uuid.UUID]*models.User),
	}
}

func (f *fakeStore) addUser(username string) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) addTemplate(name string, category models.Category, tags []string, rating float64, usageCount int64) *models.Template {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &models.Template{
		ID:         uuid.New(),
		Name:       name,
		Category:   category,
		Content:    "content of " + name,
		Rating:     rating,
		UsageCount: usageCount,
		CreatedAt:  time.Now(),
	}
	if err := t.SetTags(tags); err != nil {
		panic(err)
	}
	f.templates[t.ID] = t
	return t
}

func (f *fakeStore) addEvent(userID, templateID uuid.UUID, usedAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, models.UsageEvent{
		ID:         uuid.New(),
		TemplateID: templateID,
		UserID:     userID,
		UsedAt:     usedAt,
	})
}

func (f *fakeStore) addScene(name string, tags []string) *models.Scene {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := models.Scene{ID: uuid.New(), Name: name}
	raw, err := json.Marshal(tags)
	if err != nil {
		panic(err)
	}
	s.Tags = raw
	f.scenes = append(f.scenes, s)
	return &f.scenes[len(f.scenes)-1]
}

// --- TemplateRepository ---

func (f *fakeStore) Create(_ context.Context, t *models.Template) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	f.templates[t.ID] = &cp
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*models.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) GetByIDs(_ context.Context, ids []uuid.UUID) ([]models.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Template, 0, len(ids))
	for _, id := range ids {
		if t, ok := f.templates[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeStore) List(_ context.Context, category models.Category, search string, sortKey repository.TemplateSort) ([]models.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Template, 0, len(f.templates))
	for _, t := range f.templates {
		if category != "" && t.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		switch sortKey {
		case repository.SortByRating:
			return out[i].Rating > out[j].Rating
		case repository.SortByUsage:
			return out[i].UsageCount > out[j].UsageCount
		default:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
	})
	return out, nil
}

func (f *fakeStore) All(_ context.Context) ([]models.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Template, 0, len(f.templates))
	for _, t := range f.templates {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeStore) RecordUsage(_ context.Context, ev *models.UsageEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.templates[ev.TemplateID]
	if !ok {
		return repository.ErrNotFound
	}
	t.UsageCount++
	f.events = append(f.events, *ev)
	return nil
}

// --- CommentRepository ---

func (f *fakeStore) Add(_ context.Context, c *models.Comment) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.templates[c.TemplateID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	f.comments[c.TemplateID] = append(f.comments[c.TemplateID], *c)
	t.Rating = models.MeanRating(f.comments[c.TemplateID])
	return t.Rating, nil
}

func (f *fakeStore) ListByTemplate(_ context.Context, templateID uuid.UUID) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Comment(nil), f.comments[templateID]...), nil
}

// seedComment inserts a comment without going through the service layer.
func (f *fakeStore) seedComment(templateID, userID uuid.UUID, rating int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments[templateID] = append(f.comments[templateID], models.Comment{
		ID:         uuid.New(),
		TemplateID: templateID,
		UserID:     userID,
		Content:    "seeded",
		Rating:     rating,
	})
	if t, ok := f.templates[templateID]; ok {
		t.Rating = models.MeanRating(f.comments[templateID])
	}
}

// --- UsageEventRepository ---

func (f *fakeStore) Find(_ context.Context, filter repository.UsageEventFilter) ([]models.UsageEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.UsageEvent, 0, len(f.events))
	for _, ev := range f.events {
		if filter.UserID != nil && ev.UserID != *filter.UserID {
			continue
		}
		if filter.TemplateID != nil && ev.TemplateID != *filter.TemplateID {
			continue
		}
		if filter.Since != nil && ev.UsedAt.Before(*filter.Since) {
			continue
		}
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UsedAt.Before(out[j].UsedAt) })
	return out, nil
}

func (f *fakeStore) UsedTemplateIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, ev := range f.events {
		if ev.UserID != userID {
			continue
		}
		if _, ok := seen[ev.TemplateID]; ok {
			continue
		}
		seen[ev.TemplateID] = struct{}{}
		ids = append(ids, ev.TemplateID)
	}
	return ids, nil
}

// --- UserRepository ---

func (f *fakeStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// --- SceneRepository ---

func (f *fakeStore) AllScenes(_ context.Context) ([]models.Scene, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Scene(nil), f.scenes...), nil
}

// userRepo and sceneRepo adapt fakeStore to interfaces whose method names
// collide with TemplateRepository's.
type userRepo struct{ *fakeStore }

func (r userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.GetUser(ctx, id)
}

type sceneRepo struct{ *fakeStore }

func (r sceneRepo) All(ctx context.Context) ([]models.Scene, error) {
	return r.AllScenes(ctx)
}
