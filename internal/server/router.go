package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightpath-learning/brightpath/internal/api"
	"github.com/brightpath-learning/brightpath/internal/api/handlers"
	"github.com/brightpath-learning/brightpath/internal/api/middleware"
)

type RouterConfig struct {
	SearchHandler    *handlers.SearchHandler
	RecommendHandler *handlers.RecommendHandler
	ContentHandler   *handlers.ContentHandler
	LessonHandler    *handlers.LessonHandler
	ConceptHandler   *handlers.ConceptHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.Sentry)
	r.Use(middleware.UserIdentity)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/search", cfg.SearchHandler.Search)
	r.Post("/search/feedback", cfg.SearchHandler.SearchFeedback)

	r.Get("/recommendations", cfg.RecommendHandler.List)

	r.Route("/content", func(r chi.Router) {
		r.Post("/", cfg.ContentHandler.Create)
		r.Get("/", cfg.ContentHandler.List)
	})

	r.Post("/lessons/{id}/reindex", cfg.LessonHandler.Reindex)

	r.Get("/concepts/{term}/related", cfg.ConceptHandler.Related)

	return r
}
