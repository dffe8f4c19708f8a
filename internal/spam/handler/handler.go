package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"calldex/internal/transport/http/shared"
	id "calldex/pkg/domain"
	dErrors "calldex/pkg/domain-errors"
	"calldex/pkg/requestcontext"
)

// Service defines the spam ledger operation the handler delegates to.
type Service interface {
	ReportSpam(ctx context.Context, reporterID id.UserID, number string) error
}

// Handler serves the authenticated spam report route.
type Handler struct {
	spam   Service
	logger *slog.Logger
}

func New(spam Service, logger *slog.Logger) *Handler {
	return &Handler{spam: spam, logger: logger}
}

// Register mounts the spam route under the caller's auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/spam_contact/", h.handleReport)
}

type reportRequest struct {
	PhoneNumber string `json:"phone_number"`
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reporterID := requestcontext.UserID(ctx)
	if reporterID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.PhoneNumber == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "phone_number is required"))
		return
	}

	if err := h.spam.ReportSpam(ctx, reporterID, req.PhoneNumber); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to report spam",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, map[string]string{
		"detail": "Phone number marked as spam.",
	})
}
