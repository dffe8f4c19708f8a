package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"calldex/internal/directory/models"
	"calldex/internal/directory/service"
	"calldex/internal/transport/http/shared"
	id "calldex/pkg/domain"
	dErrors "calldex/pkg/domain-errors"
	"calldex/pkg/requestcontext"
)

// Service defines the directory operations the handler delegates to.
type Service interface {
	Register(ctx context.Context, input service.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	VerifyOTP(ctx context.Context, email, code string) error
	ResendOTP(ctx context.Context, email string) error
	Countries(ctx context.Context) ([]models.Country, error)
	Cities(ctx context.Context, countryID id.CountryID) ([]models.City, error)
}

// Handler serves the unauthenticated account and reference-data routes.
type Handler struct {
	directory Service
	logger    *slog.Logger
}

func New(directory Service, logger *slog.Logger) *Handler {
	return &Handler{directory: directory, logger: logger}
}

// Register mounts the public routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register/", h.handleRegister)
	r.Post("/auth/login/", h.handleLogin)
	r.Post("/auth/verify_otp/", h.handleVerifyOTP)
	r.Post("/auth/resend_otp/", h.handleResendOTP)
	r.Get("/country/", h.handleCountries)
	r.Get("/city/{countryID}", h.handleCities)
}

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	CityID      string `json:"city_id,omitempty"`
	CountryID   string `json:"country_id,omitempty"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := shared.ValidatePhoneNumber(req.PhoneNumber); err != nil {
		shared.WriteError(w, err)
		return
	}

	input := service.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	}
	if req.CityID != "" {
		cityID, err := id.ParseCityID(req.CityID)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		input.CityID = &cityID
	}
	if req.CountryID != "" {
		countryID, err := id.ParseCountryID(req.CountryID)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		input.CountryID = &countryID
	}

	if _, err := h.directory.Register(ctx, input); err != nil {
		h.logFailure(ctx, "registration failed", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "Account created. A verification code has been sent to your email.",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "email and password are required"))
		return
	}

	token, user, err := h.directory.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logFailure(ctx, "login failed", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"email":        user.Email,
		"name":         user.Name,
		"is_verified":  user.IsVerified,
		"access_token": token,
		"token_type":   "Bearer",
	})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (h *Handler) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Email == "" || req.OTP == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "email and otp are required"))
		return
	}

	if err := h.directory.VerifyOTP(ctx, req.Email, req.OTP); err != nil {
		h.logFailure(ctx, "otp verification failed", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Account verified successfully.",
	})
}

type resendOTPRequest struct {
	Email string `json:"email"`
}

func (h *Handler) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Email == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "email is required"))
		return
	}

	if err := h.directory.ResendOTP(ctx, req.Email); err != nil {
		h.logFailure(ctx, "otp resend failed", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Verification code sent.",
	})
}

func (h *Handler) handleCountries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	countries, err := h.directory.Countries(ctx)
	if err != nil {
		h.logFailure(ctx, "country listing failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, countries)
}

func (h *Handler) handleCities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	countryID, err := id.ParseCountryID(chi.URLParam(r, "countryID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	cities, err := h.directory.Cities(ctx, countryID)
	if err != nil {
		h.logFailure(ctx, "city listing failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, cities)
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	if !dErrors.HasCode(err, dErrors.CodeInternal) {
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
}
