package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/promptmaster/backend/internal/dto"
	"github.com/promptmaster/backend/internal/models"
	"github.com/promptmaster/backend/internal/repository"
)

const maxSceneRecommendations = 10

type SceneService struct {
	scenes     repository.SceneRepository
	aggregator *UsageAggregator
	users      repository.UserRepository
}

func NewSceneService(scenes repository.SceneRepository, aggregator *UsageAggregator, users repository.UserRepository) *SceneService {
	return &SceneService{scenes: scenes, aggregator: aggregator, users: users}
}

func (s *SceneService) List(ctx context.Context) ([]dto.SceneResponse, error) {
	scenes, err := s.scenes.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}
	resp := make([]dto.SceneResponse, len(scenes))
	for i := range scenes {
		resp[i] = mapSceneToResponse(&scenes[i])
	}
	return resp, nil
}

// Recommended returns scenes whose tag set overlaps the caller's top usage
// tags, capped at 10. Like template recommendations, an empty history gives
// an empty result.
func (s *SceneService) Recommended(ctx context.Context, userID uuid.UUID) ([]dto.SceneResponse, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	profile, err := s.aggregator.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(profile.Tags) == 0 {
		return []dto.SceneResponse{}, nil
	}

	wantTags := make(map[string]struct{}, len(profile.Tags))
	for _, t := range profile.Tags {
		wantTags[t] = struct{}{}
	}

	scenes, err := s.scenes.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}

	resp := make([]dto.SceneResponse, 0, maxSceneRecommendations)
	for i := range scenes {
		if !scenes[i].HasAnyTag(wantTags) {
			continue
		}
		resp = append(resp, mapSceneToResponse(&scenes[i]))
		if len(resp) == maxSceneRecommendations {
			break
		}
	}
	return resp, nil
}

func mapSceneToResponse(s *models.Scene) dto.SceneResponse {
	tags := s.TagList()
	if tags == nil {
		tags = []string{}
	}
	return dto.SceneResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Tags:        tags,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
