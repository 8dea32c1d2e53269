package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UsageEvent is an append-only record that a user invoked a template. Context
// carries free-form invocation metadata (input params, duration, success flag).
type UsageEvent struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TemplateID uuid.UUID      `gorm:"type:uuid;not null;index" json:"template_id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	UsedAt     time.Time      `gorm:"not null;index" json:"used_at"`
	Context    datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"context"`
	CreatedAt  time.Time      `json:"created_at"`
}
