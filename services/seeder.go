package services

import (
	"fmt"
	"time"

	lorem "github.com/HandmadeNetwork/golorem"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"digital-ledger/models"
)

// SeedVersion identifies the current demo dataset. The marker row storing it
// is the only idempotency guard; row counts are never consulted.
const SeedVersion = "2025.2"

// Seed-defined row counts. Force-seeding always converges to exactly these.
const (
	SeedContributorCount = 4
	SeedArticleCount     = 12
	SeedPodcastCount     = 8
	SeedCategoryCount    = 5
	SeedDiscussionsPer   = 3
	SeedRepliesPer       = 2
	SeedResourceCount    = 6
	SeedToolboxCount     = 6
)

type SeedResult struct {
	Status  string `json:"status"` // "already-seeded" or "seeded"
	Version string `json:"version"`
	Forced  bool   `json:"forced"`
}

// Seeder populates a fresh environment with representative content.
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// Run seeds the database. Without force it is a no-op when the marker row
// exists. With force it clears all content tables (children before parents,
// admin users preserved by role) and re-inserts the dataset. The whole
// operation is one transaction: a mid-sequence failure leaves no partial
// seed state.
func (s *Seeder) Run(force bool) (*SeedResult, error) {
	if !force {
		var count int64
		if err := s.db.Model(&models.SeedMarker{}).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return &SeedResult{Status: "already-seeded", Version: SeedVersion}, nil
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if force {
			if err := clearContent(tx); err != nil {
				return err
			}
		}

		contributors, err := seedContributors(tx)
		if err != nil {
			return err
		}
		if err := seedArticles(tx, contributors); err != nil {
			return err
		}
		if err := seedPodcasts(tx); err != nil {
			return err
		}
		if err := seedForum(tx, contributors); err != nil {
			return err
		}
		if err := seedResources(tx); err != nil {
			return err
		}
		if err := seedToolbox(tx); err != nil {
			return err
		}
		if err := reconcileCounters(tx); err != nil {
			return err
		}

		marker := models.SeedMarker{Version: SeedVersion, SeededAt: time.Now()}
		return tx.Create(&marker).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("database seeded", zap.String("version", SeedVersion), zap.Bool("forced", force))
	return &SeedResult{Status: "seeded", Version: SeedVersion, Forced: force}, nil
}

// clearContent deletes seedable rows children-first so foreign keys never
// dangle mid-transaction. Admin accounts survive by role, not by email list.
func clearContent(tx *gorm.DB) error {
	ordered := []interface{}{
		&models.Like{},
		&models.Comment{},
		&models.ForumReply{},
		&models.ForumDiscussion{},
		&models.ForumCategory{},
		&models.Article{},
		&models.PodcastEpisode{},
		&models.Resource{},
		&models.ToolboxApp{},
		&models.UserInvitation{},
		&models.Subscriber{},
		&models.SeedMarker{},
	}
	for _, target := range ordered {
		if err := tx.Where("1 = 1").Delete(target).Error; err != nil {
			return fmt.Errorf("clear %T: %w", target, err)
		}
	}
	return tx.Where("role <> ?", models.RoleAdmin).Delete(&models.User{}).Error
}

func seedContributors(tx *gorm.DB) ([]models.User, error) {
	contributors := []models.User{
		{Email: "maria@digitalledger.app", Name: "Maria Keller", Role: models.RoleEditor, Active: true},
		{Email: "jonas@digitalledger.app", Name: "Jonas Brandt", Role: models.RoleEditor, Active: true},
		{Email: "sofia@digitalledger.app", Name: "Sofia Lindqvist", Role: models.RoleContributor, Active: true},
		{Email: "david@digitalledger.app", Name: "David Okafor", Role: models.RoleContributor, Active: true},
	}
	for i := range contributors {
		contributors[i].Bio = lorem.Sentence(4, 12)
		if err := tx.Create(&contributors[i]).Error; err != nil {
			return nil, fmt.Errorf("seed contributor %s: %w", contributors[i].Email, err)
		}
	}
	return contributors, nil
}

func seedArticles(tx *gorm.DB, contributors []models.User) error {
	for i := 0; i < SeedArticleCount; i++ {
		published := time.Now().AddDate(0, 0, -i)
		article := models.Article{
			Title:       lorem.Sentence(3, 8),
			Content:     lorem.Paragraph(3, 6),
			Excerpt:     lorem.Sentence(8, 16),
			Category:    models.ArticleCategories[i%len(models.ArticleCategories)],
			Source:      "The Digital Ledger editorial team",
			Featured:    i == 0,
			PublishedAt: &published,
			AuthorID:    contributors[i%len(contributors)].ID,
		}
		if err := tx.Create(&article).Error; err != nil {
			return fmt.Errorf("seed article %d: %w", i, err)
		}
	}
	return nil
}

func seedPodcasts(tx *gorm.DB) error {
	for i := 0; i < SeedPodcastCount; i++ {
		episode := models.PodcastEpisode{
			EpisodeNumber: i + 1,
			Title:         fmt.Sprintf("Episode %d: %s", i+1, lorem.Sentence(2, 6)),
			Description:   lorem.Paragraph(1, 3),
			Host:          "Maria Keller",
			Guests:        lorem.Word(4, 10) + " " + lorem.Word(4, 10),
			Duration:      fmt.Sprintf("%d:%02d", 25+i*3, (i*17)%60),
			Featured:      i == SeedPodcastCount-1,
		}
		if err := tx.Create(&episode).Error; err != nil {
			return fmt.Errorf("seed podcast %d: %w", i+1, err)
		}
	}
	return nil
}

func seedForum(tx *gorm.DB, contributors []models.User) error {
	categories := []models.ForumCategory{
		{Name: "General", Description: "Anything and everything", Color: "#4c6ef5"},
		{Name: "Automation", Description: "Scripts, bots and workflows", Color: "#12b886"},
		{Name: "Reporting", Description: "Dashboards and monthly closes", Color: "#fab005"},
		{Name: "Career", Description: "Jobs, growth and interviews", Color: "#e64980"},
		{Name: "Tooling", Description: "Software the community runs on", Color: "#7950f2"},
	}
	for ci := range categories {
		if err := tx.Create(&categories[ci]).Error; err != nil {
			return fmt.Errorf("seed category %s: %w", categories[ci].Name, err)
		}
		for di := 0; di < SeedDiscussionsPer; di++ {
			discussion := models.ForumDiscussion{
				CategoryID: categories[ci].ID,
				AuthorID:   contributors[(ci+di)%len(contributors)].ID,
				Title:      lorem.Sentence(3, 9),
				Body:       lorem.Paragraph(1, 4),
				Pinned:     di == 0 && ci == 0,
			}
			if err := tx.Create(&discussion).Error; err != nil {
				return fmt.Errorf("seed discussion: %w", err)
			}
			for ri := 0; ri < SeedRepliesPer; ri++ {
				reply := models.ForumReply{
					DiscussionID: discussion.ID,
					AuthorID:     contributors[(ci+di+ri+1)%len(contributors)].ID,
					Body:         lorem.Paragraph(1, 2),
				}
				if err := tx.Create(&reply).Error; err != nil {
					return fmt.Errorf("seed reply: %w", err)
				}
			}
		}
	}
	return nil
}

func seedResources(tx *gorm.DB) error {
	for i := 0; i < SeedResourceCount; i++ {
		resource := models.Resource{
			Title:       lorem.Sentence(2, 6),
			Description: lorem.Paragraph(1, 2),
			Type:        models.ResourceTypes[i%len(models.ResourceTypes)],
			Category:    models.ArticleCategories[i%len(models.ArticleCategories)],
		}
		if err := tx.Create(&resource).Error; err != nil {
			return fmt.Errorf("seed resource %d: %w", i, err)
		}
	}
	return nil
}

func seedToolbox(tx *gorm.DB) error {
	for i := 0; i < SeedToolboxCount; i++ {
		app := models.ToolboxApp{
			Name:         lorem.Word(5, 12),
			Description:  lorem.Sentence(6, 14),
			Section:      models.ToolboxSections[i%len(models.ToolboxSections)],
			Status:       models.ToolboxStatuses[i%len(models.ToolboxStatuses)],
			DisplayOrder: i,
			Active:       true,
		}
		if err := tx.Create(&app).Error; err != nil {
			return fmt.Errorf("seed toolbox app %d: %w", i, err)
		}
	}
	return nil
}

// reconcileCounters derives every denormalized counter from the real rows.
// Ad hoc increments during normal operation keep them current; after a seed
// run they are recomputed wholesale so they can never start out divergent.
func reconcileCounters(tx *gorm.DB) error {
	if err := tx.Exec(`UPDATE forum_categories SET discussion_count =
		(SELECT COUNT(*) FROM forum_discussions WHERE forum_discussions.category_id = forum_categories.id)`).Error; err != nil {
		return err
	}
	if err := tx.Exec(`UPDATE forum_discussions SET reply_count =
		(SELECT COUNT(*) FROM forum_replies WHERE forum_replies.discussion_id = forum_discussions.id)`).Error; err != nil {
		return err
	}
	return tx.Exec(`UPDATE forum_discussions SET last_reply_at =
		(SELECT MAX(created_at) FROM forum_replies WHERE forum_replies.discussion_id = forum_discussions.id)`).Error
}
