package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/promptmaster/backend/internal/models"
)

type CreateTemplateRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    models.Category `json:"category"`
	Content     string          `json:"content"`
	Usage       string          `json:"usage"`
	Example     string          `json:"example"`
	Tags        []string        `json:"tags"`
}

// RecordUsageRequest carries the free-form invocation context, e.g.
// {"input_params": {...}, "duration": 42, "success": true}.
type RecordUsageRequest struct {
	Context map[string]interface{} `json:"context"`
}

type AddCommentRequest struct {
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

type AddCommentResponse struct {
	Comment CommentResponse `json:"comment"`
	// Rating is the template's recomputed aggregate rating.
	Rating float64 `json:"rating"`
}

type CommentResponse struct {
	ID        uuid.UUID    `json:"id"`
	User      UserResponse `json:"user"`
	Content   string       `json:"content"`
	Rating    int          `json:"rating"`
	CreatedAt time.Time    `json:"created_at"`
}

type TemplateResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    models.Category `json:"category"`
	Content     string          `json:"content"`
	Usage       string          `json:"usage"`
	Example     string          `json:"example"`
	Creator     UserResponse    `json:"creator"`
	Tags        []string        `json:"tags"`
	Rating      float64         `json:"rating"`
	UsageCount  int64           `json:"usage_count"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type TemplateDetailResponse struct {
	TemplateResponse
	Comments     []CommentResponse `json:"comments"`
	CommentCount int               `json:"comment_count"`
}

type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
	Total     int                `json:"total"`
	Page      int                `json:"page"`
	Limit     int                `json:"limit"`
}

type SceneResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
