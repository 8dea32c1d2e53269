package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Scene groups templates by working context (e.g. "weekly report", "code
// review"). Scenes carry their own tag set and are recommended by tag overlap
// with the caller's usage history.
type Scene struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatorID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"creator_id"`
	Tags        datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"tags"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Scene) TagList() []string {
	if len(s.Tags) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(s.Tags, &tags); err != nil {
		return nil
	}
	return tags
}

func (s *Scene) HasAnyTag(tags map[string]struct{}) bool {
	for _, tag := range s.TagList() {
		if _, ok := tags[tag]; ok {
			return true
		}
	}
	return false
}
