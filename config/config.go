package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every configuration parameter, injected via environment variables.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort    string `envconfig:"HTTP_PORT" default:"4300"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`

	// Identity tokens are issued by an external provider; we only verify them.
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	S3Key           string `envconfig:"S3_ACCESS_KEY" required:"true"`
	S3Secret        string `envconfig:"S3_SECRET_KEY" required:"true"`
	S3URL           string `envconfig:"S3_ENDPOINT" required:"true"`
	S3Region        string `envconfig:"S3_REGION" required:"true"`
	S3Bucket        string `envconfig:"S3_BUCKET" required:"true"`
	S3PublicBaseURL string `envconfig:"S3_PUBLIC_BASE_URL" required:"true"`
	UploadTTLMins   int    `envconfig:"UPLOAD_TTL_MINUTES" default:"15"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"The Digital Ledger <noreply@digitalledger.app>"`

	// Cron expression for the newsletter digest dispatch.
	DigestSchedule string `envconfig:"DIGEST_SCHEDULE" default:"0 7 * * *"`
}

// DSN returns the data source name for the PostgreSQL connection.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
