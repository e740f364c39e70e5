package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/virasat-labs/heritage-archive/internal/chat"       // Websocket relay hub
	"github.com/virasat-labs/heritage-archive/internal/config"     // Internal config loader
	"github.com/virasat-labs/heritage-archive/internal/database"   // MySQL pool setup
	"github.com/virasat-labs/heritage-archive/internal/handler"    // HTTP handlers
	"github.com/virasat-labs/heritage-archive/internal/media"      // Media provider client
	"github.com/virasat-labs/heritage-archive/internal/middleware" // Cache and rate limiting
	"github.com/virasat-labs/heritage-archive/internal/queue"      // Broker consumer + mailer
	"github.com/virasat-labs/heritage-archive/internal/repository" // DB repositories
	"github.com/virasat-labs/heritage-archive/internal/router"     // Route registration
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the dropdown response cache and the credential rate
	// limiter.  A nil client degrades both to pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Repositories.
	users := repository.NewUserRepo(db)
	resets := repository.NewResetTokenRepo(db)
	subs := repository.NewSubmissionRepo(db)
	moderation := repository.NewModerationRepo(db)
	approved := repository.NewApprovedRepo(db)
	taxonomies := repository.NewTaxonomyRepo(db)
	collabs := repository.NewCollaborationRepo(db)

	// Optional subsystems.
	var mailer queue.Mailer
	if cfg.MailConfigured() {
		mailer = &queue.SMTPMailer{
			Host: cfg.SMTPHost, Port: cfg.SMTPPort,
			User: cfg.SMTPUser, Pass: cfg.SMTPPass, From: cfg.SMTPFrom,
		}
	}
	var store *media.Store
	if cfg.MediaConfigured() {
		store = media.NewStore(cfg.MediaCloudName, cfg.MediaAPIKey, cfg.MediaAPISecret)
	}

	// Background consumer: audit log + contributor notification for every
	// moderation decision.  Reconnects on its own; never blocks startup.
	go func() {
		if err := queue.StartModerationConsumer(mailer); err != nil {
			log.Printf("moderation consumer stopped: %v", err)
		}
	}()

	e := echo.New()

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewBrowseHandler(cfg, subs, taxonomies, approved), cache)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, resets, subs, mailer), cfg.JWTSecret, limiter)
	router.RegisterUser(e,
		handler.NewSubmissionHandler(subs, taxonomies),
		handler.NewUploadHandler(cfg, store),
		handler.NewCollaborationHandler(collabs, users),
		handler.NewChatHandler(chat.NewHub(), collabs),
		cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(cfg, users, subs, moderation, approved), cfg.JWTSecret)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
