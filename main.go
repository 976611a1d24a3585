package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"digital-ledger/config"
	"digital-ledger/models"
	"digital-ledger/services"
	"digital-ledger/storage"
)

var (
	likesCounter      prometheus.Counter
	uploadsAuthorized prometheus.Counter
)

func init() {
	likesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_likes_total",
			Help: "Total number of likes recorded across all entities.",
		},
	)
	uploadsAuthorized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_uploads_authorized_total",
			Help: "Total number of presigned upload URLs issued.",
		},
	)
	prometheus.MustRegister(likesCounter, uploadsAuthorized)
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Connected to database")

	if err := db.AutoMigrate(models.All()...); err != nil {
		logger.Fatal("Auto-migration failed", zap.Error(err))
	}

	store, err := storage.NewS3Store(cfg)
	if err != nil {
		logger.Fatal("Object store setup failed", zap.Error(err))
	}

	mailer, err := services.NewMailer(cfg, logger)
	if err != nil {
		logger.Fatal("Mailer setup failed", zap.Error(err))
	}

	digest := services.NewDigestService(db, mailer, logger)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.DigestSchedule, func() {
		logger.Info("Running scheduled digest dispatch")
		sent, err := digest.Run(time.Now())
		if err != nil {
			logger.Error("Digest dispatch failed", zap.Error(err))
			return
		}
		logger.Info("Digest dispatch completed", zap.Int("sent", sent))
	}); err != nil {
		logger.Fatal("Invalid digest schedule", zap.String("schedule", cfg.DigestSchedule), zap.Error(err))
	}
	scheduler.Start()

	router := newRouter(cfg, db, store, mailer, logger)

	logger.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("Failed to run server", zap.Error(err))
	}
}
