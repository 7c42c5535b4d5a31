package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"mentordesk/internal/config"
	"mentordesk/internal/gemini"
	"mentordesk/internal/http"
	"mentordesk/internal/persona"
	"mentordesk/internal/service"
	"mentordesk/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize the record store
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	conversationRepo := storage.NewConversationRepo(db)
	scoreRepo := storage.NewScoreRepo(db)

	// Persona catalog (static configuration data)
	personas := persona.NewMemoryStore(persona.Seed())

	// Gemini client (external service layer). The key is resolved per call
	// so a missing key surfaces as a structured request error, not a crash.
	geminiClient := gemini.NewClient(cfg.GeminiBaseURL, config.ResolveAPIKey, cfg.GeminiTimeout)
	if config.ResolveAPIKey() == "" {
		slog.Warn("GEMINI_API_KEY is not set; generation requests will fail until it is configured")
	}

	// Conversation orchestrator
	conversations := service.NewConversationService(geminiClient, personas, conversationRepo, cfg.GeminiModel)
	slog.Info("Conversation service initialized", "model", cfg.GeminiModel)

	// Create router with dependencies
	deps := &http.Deps{
		Conversations: conversations,
		Generator:     geminiClient,
		Personas:      personas,
		Scores:        scoreRepo,
		APIKey:        config.ResolveAPIKey,
		DB:            db,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("Gemini configuration", "base_url", cfg.GeminiBaseURL, "model", cfg.GeminiModel)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
