package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/promptmaster/backend/internal/models"
	"gorm.io/gorm"
)

type usageEventRepository struct {
	db *gorm.DB
}

func NewUsageEventRepository(db *gorm.DB) UsageEventRepository {
	return &usageEventRepository{db: db}
}

func (r *usageEventRepository) Find(ctx context.Context, f UsageEventFilter) ([]models.UsageEvent, error) {
	query := r.db.WithContext(ctx).Order("used_at ASC")
	if f.UserID != nil {
		query = query.Where("user_id = ?", *f.UserID)
	}
	if f.TemplateID != nil {
		query = query.Where("template_id = ?", *f.TemplateID)
	}
	if f.Since != nil {
		query = query.Where("used_at >= ?", *f.Since)
	}

	var events []models.UsageEvent
	err := query.Find(&events).Error
	return events, err
}

func (r *usageEventRepository) UsedTemplateIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.UsageEvent{}).
		Distinct("template_id").
		Where("user_id = ?", userID).
		Pluck("template_id", &ids).Error
	return ids, err
}
