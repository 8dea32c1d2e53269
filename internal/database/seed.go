package database

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/promptmaster/backend/internal/models"
)

const (
	seedUserCount     = 20
	seedTemplateCount = 100
	seedEventCount    = 2000
	seedHistoryDays   = 180
	seedPassword      = "password123"
)

var seedTagsByCategory = map[models.Category][]string{
	models.CategoryAnalysis:  {"data", "report", "summary", "research", "finance", "metrics"},
	models.CategoryWriting:   {"email", "blog", "story", "translation", "editing", "outline"},
	models.CategoryCoding:    {"golang", "python", "review", "debug", "sql", "refactor"},
	models.CategoryMarketing: {"copy", "social", "seo", "campaign", "branding", "ads"},
}

var seedNameStems = map[models.Category][]string{
	models.CategoryAnalysis:  {"Data Summary", "Trend Report", "Risk Assessment", "Survey Digest", "KPI Review"},
	models.CategoryWriting:   {"Email Draft", "Blog Outline", "Story Starter", "Meeting Notes", "Press Release"},
	models.CategoryCoding:    {"Code Review", "Bug Triage", "SQL Helper", "Refactor Plan", "Test Generator"},
	models.CategoryMarketing: {"Ad Copy", "Landing Page", "Social Post", "Campaign Brief", "Product Pitch"},
}

var seedScenes = []struct {
	Name        string
	Description string
	Tags        []string
}{
	{"Weekly Report", "Condense the week's work into a status update", []string{"report", "summary", "email"}},
	{"Code Review", "Walk through a diff and flag problems", []string{"review", "golang", "refactor"}},
	{"Content Calendar", "Plan a month of posts in one sitting", []string{"social", "blog", "campaign"}},
	{"Data Deep Dive", "Interrogate a dataset until it talks", []string{"data", "metrics", "sql"}},
	{"Launch Prep", "Everything written before a product ships", []string{"copy", "branding", "press"}},
}

// Seed fills an empty database with demo users, templates, scenes, comments
// and usage history. It is a no-op when templates already exist, so it is
// safe to leave SEED_DB=true across restarts.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Template{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing templates: %w", err)
	}
	if count > 0 {
		slog.Info("seed skipped, templates already present", "count", count)
		return nil
	}

	rng := rand.New(rand.NewSource(42))

	users, err := seedUsers(db)
	if err != nil {
		return err
	}
	templates, err := seedTemplates(db, rng, users)
	if err != nil {
		return err
	}
	if err := seedComments(db, rng, users, templates); err != nil {
		return err
	}
	if err := seedUsageEvents(db, rng, users, templates); err != nil {
		return err
	}
	if err := seedSceneRows(db, users); err != nil {
		return err
	}

	slog.Info("seed complete",
		"users", len(users), "templates", len(templates), "scenes", len(seedScenes))
	return nil
}

func seedUsers(db *gorm.DB) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	users := make([]models.User, 0, seedUserCount)
	for i := 0; i < seedUserCount; i++ {
		users = append(users, models.User{
			Username:  fmt.Sprintf("demo_user_%02d", i+1),
			Email:     fmt.Sprintf("demo%02d@example.com", i+1),
			Password:  string(hash),
			FirstName: fmt.Sprintf("Demo%02d", i+1),
			LastName:  "User",
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	return users, nil
}

func seedTemplates(db *gorm.DB, rng *rand.Rand, users []models.User) ([]models.Template, error) {
	templates := make([]models.Template, 0, seedTemplateCount)
	for i := 0; i < seedTemplateCount; i++ {
		category := models.AllCategories[i%len(models.AllCategories)]
		stems := seedNameStems[category]
		vocab := seedTagsByCategory[category]

		// two or three tags drawn from the category vocabulary
		tagCount := 2 + rng.Intn(2)
		picked := rng.Perm(len(vocab))[:tagCount]
		tags := make([]string, 0, tagCount)
		for _, idx := range picked {
			tags = append(tags, vocab[idx])
		}
		rawTags, _ := json.Marshal(tags)

		stem := stems[rng.Intn(len(stems))]
		t := models.Template{
			Name:        fmt.Sprintf("%s #%d", stem, i+1),
			Description: fmt.Sprintf("A %s template for %s work.", stem, category),
			Category:    category,
			Content:     fmt.Sprintf("You are an expert in %s. %s the following input: {input}", category, stem),
			Usage:       "Replace {input} with your material and run.",
			Example:     fmt.Sprintf("Example run of %q against sample input.", stem),
			CreatorID:   users[rng.Intn(len(users))].ID,
			Tags:        datatypes.JSON(rawTags),
		}
		templates = append(templates, t)
	}
	if err := db.Create(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to seed templates: %w", err)
	}
	return templates, nil
}

func seedComments(db *gorm.DB, rng *rand.Rand, users []models.User, templates []models.Template) error {
	// weighted toward 4s and 5s, the way real catalogs skew
	ratings := []int{1, 2, 3, 3, 4, 4, 4, 5, 5, 5}
	bodies := []string{
		"Works well for my daily workflow.",
		"Solid starting point, needed light edits.",
		"Saved me a good hour this week.",
		"Output was a bit generic for my case.",
		"Exactly what I was looking for.",
		"Decent, but the example could be clearer.",
	}

	comments := make([]models.Comment, 0, len(templates)*3)
	for ti := range templates {
		n := 1 + rng.Intn(5)
		sum := 0
		for j := 0; j < n; j++ {
			rating := ratings[rng.Intn(len(ratings))]
			sum += rating
			comments = append(comments, models.Comment{
				TemplateID: templates[ti].ID,
				UserID:     users[rng.Intn(len(users))].ID,
				Content:    bodies[rng.Intn(len(bodies))],
				Rating:     rating,
			})
		}
		templates[ti].Rating = float64(sum) / float64(n)
	}
	if err := db.Create(&comments).Error; err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	// write back the derived ratings
	for _, t := range templates {
		if err := db.Model(&models.Template{}).Where("id = ?", t.ID).
			UpdateColumn("rating", t.Rating).Error; err != nil {
			return fmt.Errorf("failed to seed template rating: %w", err)
		}
	}
	return nil
}

func seedUsageEvents(db *gorm.DB, rng *rand.Rand, users []models.User, templates []models.Template) error {
	now := time.Now().UTC()
	events := make([]models.UsageEvent, 0, seedEventCount)
	usageCounts := make(map[string]int64, len(templates))

	for i := 0; i < seedEventCount; i++ {
		t := templates[rng.Intn(len(templates))]
		ctx, _ := json.Marshal(map[string]interface{}{
			"input_params": map[string]interface{}{"input": fmt.Sprintf("sample-%d", i)},
			"duration_ms":  200 + rng.Intn(4800),
			"success":      rng.Intn(10) > 0,
		})
		events = append(events, models.UsageEvent{
			TemplateID: t.ID,
			UserID:     users[rng.Intn(len(users))].ID,
			UsedAt:     now.AddDate(0, 0, -rng.Intn(seedHistoryDays)).Add(-time.Duration(rng.Intn(86400)) * time.Second),
			Context:    datatypes.JSON(ctx),
		})
		usageCounts[t.ID.String()]++
	}
	if err := db.CreateInBatches(&events, 500).Error; err != nil {
		return fmt.Errorf("failed to seed usage events: %w", err)
	}

	for _, t := range templates {
		if n := usageCounts[t.ID.String()]; n > 0 {
			if err := db.Model(&models.Template{}).Where("id = ?", t.ID).
				UpdateColumn("usage_count", n).Error; err != nil {
				return fmt.Errorf("failed to seed usage counts: %w", err)
			}
		}
	}
	return nil
}

func seedSceneRows(db *gorm.DB, users []models.User) error {
	scenes := make([]models.Scene, 0, len(seedScenes))
	for _, s := range seedScenes {
		raw, _ := json.Marshal(s.Tags)
		scenes = append(scenes, models.Scene{
			Name:        s.Name,
			Description: s.Description,
			CreatorID:   users[0].ID,
			Tags:        datatypes.JSON(raw),
		})
	}
	if err := db.Create(&scenes).Error; err != nil {
		return fmt.Errorf("failed to seed scenes: %w", err)
	}
	return nil
}
