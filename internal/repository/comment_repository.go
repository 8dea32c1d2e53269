package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/promptmaster/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Add writes the comment and the recomputed template rating in one
// transaction. The template row is locked FOR UPDATE first, so concurrent
// writers to the same template serialize and each mean is computed over the
// full comment set; writers to other templates are unaffected.
func (r *commentRepository) Add(ctx context.Context, c *models.Comment) (float64, error) {
	var rating float64
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var exists models.Template
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("id").First(&exists, "id = ?", c.TemplateID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}

			if err := tx.Create(c).Error; err != nil {
				return err
			}

			var comments []models.Comment
			if err := tx.Where("template_id = ?", c.TemplateID).Find(&comments).Error; err != nil {
				return err
			}

			rating = models.MeanRating(comments)
			return tx.Model(&models.Template{}).
				Where("id = ?", c.TemplateID).
				UpdateColumn("rating", rating).Error
		})
	})
	if err != nil {
		return 0, err
	}
	return rating, nil
}

func (r *commentRepository) ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("template_id = ?", templateID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}
