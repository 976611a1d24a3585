package services

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"digital-ledger/models"
)

// DigestService assembles and dispatches the newsletter digest. It runs from
// the cron entry in main.
type DigestService struct {
	db     *gorm.DB
	mailer *Mailer
	logger *zap.Logger
}

func NewDigestService(db *gorm.DB, mailer *Mailer, logger *zap.Logger) *DigestService {
	return &DigestService{db: db, mailer: mailer, logger: logger}
}

func lookback(frequency string) time.Duration {
	switch frequency {
	case "daily":
		return 24 * time.Hour
	case "monthly":
		return 30 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// due reports whether a subscriber with the given frequency should receive a
// digest today. Weekly goes out on Mondays, monthly on the 1st.
func due(frequency string, now time.Time) bool {
	switch frequency {
	case "daily":
		return true
	case "weekly":
		return now.Weekday() == time.Monday
	case "monthly":
		return now.Day() == 1
	default:
		return false
	}
}

// Run sends the digest to every subscriber whose frequency is due. A failed
// send is logged and skipped; one bad address never stops the batch.
func (s *DigestService) Run(now time.Time) (int, error) {
	var subscribers []models.Subscriber
	if err := s.db.Find(&subscribers).Error; err != nil {
		return 0, err
	}

	sent := 0
	for _, sub := range subscribers {
		if !due(sub.Frequency, now) {
			continue
		}

		var articles []models.Article
		q := s.db.Where("archived = ? AND created_at > ?", false, now.Add(-lookback(sub.Frequency)))
		// An empty preference means every category.
		if sub.Categories != "" {
			q = q.Where("category IN ?", strings.Split(sub.Categories, ","))
		}
		if err := q.Order("created_at desc").Limit(10).Find(&articles).Error; err != nil {
			return sent, err
		}
		if len(articles) == 0 {
			continue
		}

		vars := map[string]interface{}{
			"Frequency": sub.Frequency,
			"Articles":  articles,
		}
		if err := s.mailer.Send(TemplateDigest, sub.Email, vars); err != nil {
			s.logger.Error("digest send failed", zap.String("email", sub.Email), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}
