package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hoanghai1803/newsbrief/internal/models"
	"github.com/hoanghai1803/newsbrief/internal/storage"
)

// ArticleReader is the read side of the record store used by the browse API.
type ArticleReader interface {
	ListArticles(ctx context.Context, collection string) ([]models.ArticleRecord, error)
	GetArticle(ctx context.Context, collection, id string) (*models.ArticleRecord, error)
}

// ListArticles handles GET /api/collections/{collection}/articles.
func ListArticles(store ArticleReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collection := chi.URLParam(r, "collection")

		articles, err := store.ListArticles(r.Context(), collection)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidCollection) {
				writeError(w, http.StatusBadRequest, "Invalid collection name")
				return
			}
			slog.Error("failed to list articles", "collection", collection, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list articles")
			return
		}

		writeJSON(w, http.StatusOK, articles)
	}
}

// GetArticle handles GET /api/collections/{collection}/articles/{id}.
func GetArticle(store ArticleReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collection := chi.URLParam(r, "collection")

		id, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		article, err := store.GetArticle(r.Context(), collection, id)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				writeError(w, http.StatusNotFound, "Article not found")
			case errors.Is(err, storage.ErrInvalidCollection):
				writeError(w, http.StatusBadRequest, "Invalid collection name")
			default:
				slog.Error("failed to get article", "collection", collection, "id", id, "error", err)
				writeError(w, http.StatusInternalServerError, "Failed to get article")
			}
			return
		}

		writeJSON(w, http.StatusOK, article)
	}
}
