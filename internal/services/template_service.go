package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/promptmaster/backend/internal/dto"
	"github.com/promptmaster/backend/internal/models"
	"github.com/promptmaster/backend/internal/repository"
	"gorm.io/datatypes"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrNameRequired     = errors.New("name is required")
	ErrContentRequired  = errors.New("content is required")
	ErrInvalidCategory  = errors.New("category must be one of analysis, writing, coding, marketing")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrInvalidSort      = errors.New("sort must be one of created_at, rating, usage_count")
)

type TemplateListParams struct {
	Category string
	Tag      string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

type TemplateService struct {
	templates repository.TemplateRepository
	comments  repository.CommentRepository
	users     repository.UserRepository

	now func() time.Time
}

func NewTemplateService(
	templates repository.TemplateRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
) *TemplateService {
	return &TemplateService{
		templates: templates,
		comments:  comments,
		users:     users,
		now:       time.Now,
	}
}

func (s *TemplateService) Create(ctx context.Context, creatorID uuid.UUID, req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrContentRequired
	}
	if !models.ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	t := models.Template{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Content:     req.Content,
		Usage:       req.Usage,
		Example:     req.Example,
		CreatorID:   creatorID,
	}
	if err := t.SetTags(req.Tags); err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	if err := s.templates.Create(ctx, &t); err != nil {
		return nil, err
	}

	created, err := s.templates.GetByID(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	resp := mapTemplateToResponse(created)
	return &resp, nil
}

// List filters and pages the catalog. Category and search narrowing happen in
// the store; tag matching is an explicit membership check over the decoded
// tag slice, applied here.
func (s *TemplateService) List(ctx context.Context, params TemplateListParams) (*dto.TemplateListResponse, error) {
	var category models.Category
	if params.Category != "" {
		category = models.Category(params.Category)
		if !models.ValidCategory(category) {
			return nil, ErrInvalidCategory
		}
	}

	sortKey, err := repository.ParseTemplateSort(params.Sort)
	if err != nil {
		return nil, ErrInvalidSort
	}

	templates, err := s.templates.List(ctx, category, params.Search, sortKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	if params.Tag != "" {
		want := map[string]struct{}{params.Tag: {}}
		filtered := templates[:0]
		for _, t := range templates {
			if t.HasAnyTag(want) {
				filtered = append(filtered, t)
			}
		}
		templates = filtered
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	total := len(templates)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	pageItems := templates[start:end]

	resp := &dto.TemplateListResponse{
		Templates: make([]dto.TemplateResponse, len(pageItems)),
		Total:     total,
		Page:      page,
		Limit:     limit,
	}
	for i := range pageItems {
		resp.Templates[i] = mapTemplateToResponse(&pageItems[i])
	}
	return resp, nil
}

func (s *TemplateService) Get(ctx context.Context, id uuid.UUID) (*dto.TemplateDetailResponse, error) {
	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	comments, err := s.comments.ListByTemplate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	resp := &dto.TemplateDetailResponse{
		TemplateResponse: mapTemplateToResponse(t),
		Comments:         make([]dto.CommentResponse, len(comments)),
		CommentCount:     len(comments),
	}
	for i := range comments {
		resp.Comments[i] = mapCommentToResponse(&comments[i])
	}
	return resp, nil
}

// RecordUsage appends one usage event and bumps the template's counter by
// exactly one. The two writes are a single atomic unit in the store; conflict
// retries are handled below the repository contract.
func (s *TemplateService) RecordUsage(ctx context.Context, templateID, userID uuid.UUID, usageContext map[string]interface{}) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if usageContext == nil {
		usageContext = map[string]interface{}{}
	}
	raw, err := json.Marshal(usageContext)
	if err != nil {
		return fmt.Errorf("failed to encode usage context: %w", err)
	}

	ev := models.UsageEvent{
		ID:         uuid.New(),
		TemplateID: templateID,
		UserID:     userID,
		UsedAt:     s.now(),
		Context:    datatypes.JSON(raw),
	}

	if err := s.templates.RecordUsage(ctx, &ev); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	return nil
}

// AddComment validates, persists the comment together with the recomputed
// mean rating, and returns the template's new rating.
func (s *TemplateService) AddComment(ctx context.Context, templateID, userID uuid.UUID, req *dto.AddCommentRequest) (*dto.AddCommentResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrContentRequired
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	comment := models.Comment{
		ID:         uuid.New(),
		TemplateID: templateID,
		UserID:     userID,
		Content:    req.Content,
		Rating:     req.Rating,
		CreatedAt:  s.now(),
	}

	rating, err := s.comments.Add(ctx, &comment)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	comment.User = *user
	return &dto.AddCommentResponse{
		Comment: mapCommentToResponse(&comment),
		Rating:  rating,
	}, nil
}

func mapTemplateToResponse(t *models.Template) dto.TemplateResponse {
	tags := t.TagList()
	if tags == nil {
		tags = []string{}
	}
	return dto.TemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		Content:     t.Content,
		Usage:       t.Usage,
		Example:     t.Example,
		Creator:     mapUserToResponse(&t.Creator),
		Tags:        tags,
		Rating:      t.Rating,
		UsageCount:  t.UsageCount,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func mapCommentToResponse(c *models.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        c.ID,
		User:      mapUserToResponse(&c.User),
		Content:   c.Content,
		Rating:    c.Rating,
		CreatedAt: c.CreatedAt,
	}
}
