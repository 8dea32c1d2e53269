package repository

import (
	"context"

	"github.com/promptmaster/backend/internal/models"
	"gorm.io/gorm"
)

type sceneRepository struct {
	db *gorm.DB
}

func NewSceneRepository(db *gorm.DB) SceneRepository {
	return &sceneRepository{db: db}
}

func (r *sceneRepository) All(ctx context.Context) ([]models.Scene, error) {
	var scenes []models.Scene
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&scenes).Error
	return scenes, err
}
