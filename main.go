package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"comment-censor/internal/changefeed"
	"comment-censor/internal/config"
	"comment-censor/internal/publisher"
	"comment-censor/internal/repository"
	"comment-censor/internal/server"
	"comment-censor/internal/service"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	log "github.com/sirupsen/logrus"

	"github.com/labstack/echo/v4"
)

func main() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	log.SetOutput(os.Stdout)

	if err := godotenv.Load(); err != nil {
		log.Warn("Could not load .env file.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Could not load configuration")
	}

	configureLogging(cfg.Log)

	log.Info("Starting database migration...")
	m, err := migrate.New(cfg.DB.MigrationsPath, cfg.DB.URL)
	if err != nil {
		log.WithField("error", err).Fatal("Could not create migrate instance")
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.WithField("error", err).Fatal("Could not apply migration")
	}
	log.Info("Database migration finished successfully.")

	db, err := sql.Open("postgres", cfg.DB.URL)
	if err != nil {
		log.WithField("error", err).Fatal("Could not connect to the database")
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.DB.ConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		log.WithField("error", err).Fatal("Could not ping the database")
	}
	log.Info("Successfully connected to the PostgreSQL database.")

	// Create repositories
	commentRepository := repository.NewPostgresCommentRepository(db)
	phraseRepository := repository.NewPostgresPhraseRepository(db)

	// Audit is optional
	var auditPublisher service.AuditPublisher
	closeAudit := func() {}
	if cfg.AuditEnabled() {
		p, err := publisher.NewAuditPublisher(cfg.Kafka.BootstrapServers, cfg.Kafka.AuditTopic, cfg.Kafka.DeliveryTimeout)
		if err != nil {
			log.WithError(err).Fatal("Could not create audit publisher")
		}
		defer p.Close()
		closeAudit = p.Close
		auditPublisher = p
	} else {
		log.Info("KAFKA_BOOTSTRAP_SERVERS is not set, redaction audit is disabled")
	}

	// Create services
	feed := changefeed.NewFeed(db, cfg.DB.URL, changefeed.Options{
		MinReconnectInterval: cfg.Feed.MinReconnectInterval,
		MaxReconnectInterval: cfg.Feed.MaxReconnectInterval,
		PingInterval:         cfg.Feed.PingInterval,
		BatchSize:            cfg.Feed.BatchSize,
	})
	censor := service.NewCensor(feed, commentRepository, phraseRepository,
		service.NewAuditService(auditPublisher), cfg.Censor.Replacement)
	phraseService := service.NewPhraseService(phraseRepository, cfg.Censor.Replacement)

	// Create server
	srv := server.NewServer(phraseService, censor, db)

	// Setup Echo
	e := echo.New()
	e.HideBanner = true

	e.GET("/health", srv.HealthCheck)

	api := e.Group("/api")
	api.GET("/censor/status", srv.CensorStatus)

	phrases := api.Group("/phrases")
	phrases.GET("", srv.ListPhrases)
	phrases.POST("", srv.CreatePhrase)
	phrases.DELETE("/:id", srv.DeletePhrase)

	go func() {
		log.WithField("port", cfg.HTTP.Port).Info("Censor HTTP server is starting with Echo")
		if err := e.Start(":" + cfg.HTTP.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithField("error", err).Error("Echo server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := censor.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Echo server did not shut down cleanly")
	}

	if runErr != nil {
		// log.Fatal skips deferred calls.
		closeAudit()
		db.Close()
		log.WithError(runErr).Fatal("Censor stopped")
	}
	log.Info("Listener has been manually shut down")
}

func configureLogging(cfg config.Log) {
	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.WithField("level", cfg.Level).Warn("Unknown LOG_LEVEL, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
