package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/promptmaster/backend/internal/models"
	"gorm.io/gorm"
)

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(ctx context.Context, t *models.Template) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (r *templateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	var t models.Template
	err := r.db.WithContext(ctx).Preload("Creator").First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *templateRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Template, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var templates []models.Template
	err := r.db.WithContext(ctx).Preload("Creator").Where("id IN ?", ids).Find(&templates).Error
	return templates, err
}

// sortClauses is the only place a sort key becomes SQL.
var sortClauses = map[TemplateSort]string{
	SortByCreated: "created_at DESC",
	SortByRating:  "rating DESC",
	SortByUsage:   "usage_count DESC",
}

func (r *templateRepository) List(ctx context.Context, category models.Category, search string, sort TemplateSort) ([]models.Template, error) {
	order, ok := sortClauses[sort]
	if !ok {
		order = sortClauses[SortByCreated]
	}

	query := r.db.WithContext(ctx).Preload("Creator").Order(order)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("(name ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}

	var templates []models.Template
	err := query.Find(&templates).Error
	return templates, err
}

func (r *templateRepository) All(ctx context.Context) ([]models.Template, error) {
	var templates []models.Template
	err := r.db.WithContext(ctx).Preload("Creator").Find(&templates).Error
	return templates, err
}

func (r *templateRepository) RecordUsage(ctx context.Context, ev *models.UsageEvent) error {
	return withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// SQL-level increment so concurrent writers never lose updates.
			res := tx.Model(&models.Template{}).
				Where("id = ?", ev.TemplateID).
				UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
			return tx.Create(ev).Error
		})
	})
}
