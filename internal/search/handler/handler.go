package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"calldex/internal/search/models"
	"calldex/internal/transport/http/shared"
	id "calldex/pkg/domain"
	dErrors "calldex/pkg/domain-errors"
	"calldex/pkg/requestcontext"
)

// Service defines the search operation the handler delegates to.
type Service interface {
	Search(ctx context.Context, requestingUserID id.UserID, query string) ([]models.ScoredMatch, error)
}

// Handler serves the authenticated contact search route.
type Handler struct {
	search Service
	logger *slog.Logger
}

func New(search Service, logger *slog.Logger) *Handler {
	return &Handler{search: search, logger: logger}
}

// Register mounts the search route under the caller's auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/search_contact/", h.handleSearch)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	matches, err := h.search.Search(ctx, userID, r.URL.Query().Get("query"))
	if err != nil {
		h.logger.ErrorContext(ctx, "search failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, matches)
}
