package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Category partitions templates by domain. The set is closed; anything else
// is rejected at the validation boundary.
type Category string

const (
	CategoryAnalysis  Category = "analysis"
	CategoryWriting   Category = "writing"
	CategoryCoding    Category = "coding"
	CategoryMarketing Category = "marketing"
)

// AllCategories lists every category in a fixed order, used by analytics to
// zero-fill distributions for categories without activity.
var AllCategories = []Category{CategoryAnalysis, CategoryWriting, CategoryCoding, CategoryMarketing}

func ValidCategory(c Category) bool {
	switch c {
	case CategoryAnalysis, CategoryWriting, CategoryCoding, CategoryMarketing:
		return true
	}
	return false
}

// Template is a reusable prompt artifact. Rating and UsageCount are derived
// counters: rating is recomputed from the full comment set on every comment
// write, usage_count is incremented together with each usage event.
type Template struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Category    Category       `gorm:"size:20;not null;index" json:"category"`
	Content     string         `gorm:"type:text" json:"content"`
	Usage       string         `gorm:"type:text" json:"usage"`
	Example     string         `gorm:"type:text" json:"example"`
	CreatorID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator     User           `gorm:"foreignKey:CreatorID" json:"creator"`
	Tags        datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"tags"`
	Rating      float64        `gorm:"default:0" json:"rating"`
	UsageCount  int64          `gorm:"default:0" json:"usage_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TagList decodes the tags column. A malformed or empty value decodes to nil;
// ranking code treats that the same as no tags.
func (t *Template) TagList() []string {
	if len(t.Tags) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(t.Tags, &tags); err != nil {
		return nil
	}
	return tags
}

// SetTags encodes the given tags into the JSON column.
func (t *Template) SetTags(tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	t.Tags = datatypes.JSON(raw)
	return nil
}

// HasAnyTag reports whether the template's tag set intersects the given set.
// Containment is checked here in memory rather than pushed into the store.
func (t *Template) HasAnyTag(tags map[string]struct{}) bool {
	if len(tags) == 0 {
		return false
	}
	for _, tag := range t.TagList() {
		if _, ok := tags[tag]; ok {
			return true
		}
	}
	return false
}
