package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"mentordesk/internal/gemini"
	"mentordesk/internal/handlers"
	"mentordesk/internal/persona"
	"mentordesk/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Conversations service.ConversationService
	Generator     service.Generator
	Personas      persona.Store
	Scores        handlers.ScoreStore
	APIKey        gemini.KeyFunc
	DB            *sql.DB
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)

	gatewayHandler := handlers.NewGatewayHandler(deps.Generator, deps.APIKey)
	conversationHandler := handlers.NewConversationHandler(deps.Conversations, deps.Personas)
	transcriptHandler := handlers.NewTranscriptHandler(deps.Conversations, deps.Personas)
	scoreHandler := handlers.NewScoreHandler(deps.Scores)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	// The gateway owns its CORS headers (wildcard origin and an exact
	// preflight header set on every response, 405s included), so it is
	// mounted outside the cors middleware.
	r.Handle("/api/generate", gatewayHandler)

	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		r.Route("/api", func(r chi.Router) {
			r.Method(http.MethodGet, "/health", healthHandler)
			r.Get("/personas", conversationHandler.ListPersonas)
			r.Post("/conversations", conversationHandler.Create)
			r.Get("/conversations/{conversationID}", conversationHandler.GetTranscript)
			r.Post("/conversations/{conversationID}/messages", conversationHandler.PostMessage)
			r.Post("/scores", scoreHandler.Save)
			r.Get("/scores", scoreHandler.ListByStudent)
		})

		r.Get("/conversations/{conversationID}", transcriptHandler.Export)
	})

	return r
}
