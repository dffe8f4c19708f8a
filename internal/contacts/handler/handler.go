package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"calldex/internal/contacts/models"
	"calldex/internal/transport/http/shared"
	id "calldex/pkg/domain"
	dErrors "calldex/pkg/domain-errors"
	"calldex/pkg/requestcontext"
)

// Service defines the contact book operations the handler delegates to.
type Service interface {
	AddContact(ctx context.Context, ownerID id.UserID, number, name string) (*models.Contact, error)
	ListContacts(ctx context.Context, ownerID id.UserID) ([]models.ContactEntry, error)
}

// Handler serves the authenticated contact book routes.
type Handler struct {
	contacts Service
	logger   *slog.Logger
}

func New(contacts Service, logger *slog.Logger) *Handler {
	return &Handler{contacts: contacts, logger: logger}
}

// Register mounts the contact routes. The caller wraps them in the auth
// middleware; these handlers assume a trusted user ID in context.
func (h *Handler) Register(r chi.Router) {
	r.Get("/user_contact/", h.handleList)
	r.Post("/user_contact/", h.handleAdd)
}

type addContactRequest struct {
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := requestcontext.UserID(ctx)
	if ownerID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req addContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := shared.ValidatePhoneNumber(req.PhoneNumber); err != nil {
		shared.WriteError(w, err)
		return
	}

	if _, err := h.contacts.AddContact(ctx, ownerID, req.PhoneNumber, req.Name); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to add contact",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "Contact added successfully",
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := requestcontext.UserID(ctx)
	if ownerID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	entries, err := h.contacts.ListContacts(ctx, ownerID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list contacts",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, entries)
}
