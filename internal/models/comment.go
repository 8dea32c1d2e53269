package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is an immutable rated review of a template. Rating is always 1..5,
// enforced before the row is written.
type Comment struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TemplateID uuid.UUID `gorm:"type:uuid;not null;index" json:"template_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"user"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
}

// MeanRating returns the arithmetic mean of the given comment ratings, 0 for
// an empty set. This is the single source of truth for Template.Rating.
func MeanRating(comments []Comment) float64 {
	if len(comments) == 0 {
		return 0
	}
	sum := 0
	for _, c := range comments {
		sum += c.Rating
	}
	return float64(sum) / float64(len(comments))
}
