package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/promptmaster/backend/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when an atomic counter/rating update still
	// fails after bounded retries.
	ErrConflict = errors.New("concurrent update conflict")
)

// TemplateSort is the closed set of list orderings. Callers never pass raw
// column names to the store.
type TemplateSort string

const (
	SortByCreated TemplateSort = "created_at"
	SortByRating  TemplateSort = "rating"
	SortByUsage   TemplateSort = "usage_count"
)

// ParseTemplateSort maps a query-string value onto the sort enum. Empty input
// falls back to newest-first.
func ParseTemplateSort(s string) (TemplateSort, error) {
	switch TemplateSort(s) {
	case "":
		return SortByCreated, nil
	case SortByCreated, SortByRating, SortByUsage:
		return TemplateSort(s), nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// UsageEventFilter mirrors the store's abstract query contract: any subset of
// user, template and lower time bound.
type UsageEventFilter struct {
	UserID     *uuid.UUID
	TemplateID *uuid.UUID
	Since      *time.Time
}

type TemplateRepository interface {
	Create(ctx context.Context, t *models.Template) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Template, error)
	// List filters by category/search in the store and orders by the given
	// sort key. Tag filtering happens in memory above this layer.
	List(ctx context.Context, category models.Category, search string, sort TemplateSort) ([]models.Template, error)
	All(ctx context.Context) ([]models.Template, error)
	// RecordUsage appends one usage event and increments the template's
	// usage counter as a single atomic unit.
	RecordUsage(ctx context.Context, ev *models.UsageEvent) error
}

type CommentRepository interface {
	// Add inserts the comment and recomputes the template's rating from the
	// full comment set in one transaction. Returns the new rating.
	Add(ctx context.Context, c *models.Comment) (float64, error)
	ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]models.Comment, error)
}

type UsageEventRepository interface {
	Find(ctx context.Context, f UsageEventFilter) ([]models.UsageEvent, error)
	UsedTemplateIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type SceneRepository interface {
	All(ctx context.Context) ([]models.Scene, error)
}

const maxRetries = 3

// withRetry re-runs an atomic update a bounded number of times when Postgres
// reports a serialization failure or deadlock, then surfaces ErrConflict.
func withRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = fn()
		if err == nil || !isTransient(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrConflict, err)
}

func isTransient(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "could not serialize access")
}
