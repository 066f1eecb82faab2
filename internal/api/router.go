package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hoanghai1803/newsbrief/internal/api/handlers"
)

// NewRouter creates the read-only browse API over the article collections.
func NewRouter(store handlers.ArticleReader, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(Recovery(logger))
	r.Use(CORS)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		api.Get("/collections/{collection}/articles", handlers.ListArticles(store))
		api.Get("/collections/{collection}/articles/{id}", handlers.GetArticle(store))
	})

	return r
}
