package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"calldex/internal/directory/models"
	"calldex/internal/directory/store"
	"calldex/internal/platform/events"
	"calldex/internal/platform/mailer"
	"calldex/internal/platform/metrics"
	id "calldex/pkg/domain"
	dErrors "calldex/pkg/domain-errors"
	"calldex/pkg/platform/sentinel"
	"calldex/pkg/requestcontext"
)

const minPasswordLength = 8

// Registry is the slice of the phone registry the directory needs: a new
// account claims its own number as registered.
type Registry interface {
	MarkRegistered(ctx context.Context, number string) error
}

// TokenIssuer mints access tokens for verified accounts.
type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID, email string, expiresIn time.Duration) (string, error)
}

// Service owns account lifecycle: registration, OTP verification, login,
// and the reference data registration clients need.
type Service struct {
	store          store.Store
	registry       Registry
	tokens         TokenIssuer
	mail           mailer.Mailer
	otpTTL         time.Duration
	accessTokenTTL time.Duration
	logger         *slog.Logger
	metrics        *metrics.Metrics
	publisher      events.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPublisher(pub events.Publisher) Option {
	return func(s *Service) {
		s.publisher = pub
	}
}

func New(st store.Store, registry Registry, tokens TokenIssuer, mail mailer.Mailer, otpTTL, accessTokenTTL time.Duration, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("directory store is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token issuer is required")
	}
	if mail == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	svc := &Service{
		store:          st,
		registry:       registry,
		tokens:         tokens,
		mail:           mail,
		otpTTL:         otpTTL,
		accessTokenTTL: accessTokenTTL,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// RegisterInput carries the fields of a registration request. PhoneNumber
// arrives already format-validated.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	CityID      *id.CityID
	CountryID   *id.CountryID
}

// Register creates an unverified account, claims its phone number in the
// registry, and mails the first verification code.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.Name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if input.Email == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "password must be at least %d characters", minPasswordLength)
	}
	if input.PhoneNumber == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "phone number is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user := &models.User{
		ID:           id.NewUserID(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		PhoneNumber:  input.PhoneNumber,
		CityID:       input.CityID,
		CountryID:    input.CountryID,
		IsActive:     true,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "an account with this email or phone number already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
	}

	if err := s.registry.MarkRegistered(ctx, user.PhoneNumber); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to claim phone number")
	}

	s.issueOTP(ctx, user)

	if s.metrics != nil {
		s.metrics.UsersRegistered.Inc()
	}
	s.logger.InfoContext(ctx, "account registered",
		"user_id", user.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	events.Emit(ctx, s.publisher, s.logger, events.Event{
		Type:        events.TypeUserRegistered,
		UserID:      user.ID.String(),
		PhoneNumber: user.PhoneNumber,
		Device:      requestcontext.DeviceLabel(ctx),
		OccurredAt:  user.CreatedAt,
	})
	return user, nil
}

// Login exchanges valid credentials on a verified account for an access
// token. Unknown email and wrong password are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}
	if !user.IsActive {
		return "", nil, dErrors.New(dErrors.CodeForbidden, "account is disabled")
	}
	if !user.IsVerified {
		return "", nil, dErrors.New(dErrors.CodeForbidden, "account is not verified")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, s.accessTokenTTL)
	if err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue access token")
	}
	return token, user, nil
}

// VerifyOTP marks the account verified when code matches the most recently
// issued, unexpired verification code. Older codes are dead the moment a
// newer one is issued.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) error {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account")
	}
	if user.IsVerified {
		return dErrors.New(dErrors.CodeBadRequest, "account is already verified")
	}

	otp, err := s.store.LatestOTP(ctx, user.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeBadRequest, "no verification code issued")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up verification code")
	}
	if requestcontext.Now(ctx).After(otp.ExpireAt) {
		return dErrors.New(dErrors.CodeBadRequest, "verification code has expired")
	}
	if otp.Code != code {
		return dErrors.New(dErrors.CodeBadRequest, "invalid verification code")
	}

	if err := s.store.MarkVerified(ctx, user.ID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark account verified")
	}
	s.logger.InfoContext(ctx, "account verified", "user_id", user.ID)
	return nil
}

// ResendOTP issues a fresh verification code, invalidating the previous one.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account")
	}
	if user.IsVerified {
		return dErrors.New(dErrors.CodeBadRequest, "account is already verified")
	}
	s.issueOTP(ctx, user)
	return nil
}

// Countries lists the registration reference countries.
func (s *Service) Countries(ctx context.Context) ([]models.Country, error) {
	countries, err := s.store.ListCountries(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list countries")
	}
	return countries, nil
}

// Cities lists the cities of one country.
func (s *Service) Cities(ctx context.Context, countryID id.CountryID) ([]models.City, error) {
	cities, err := s.store.ListCities(ctx, countryID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cities")
	}
	return cities, nil
}

// VerifiedUserCount reports the size of the verified population. Search uses
// it as the spam-likelihood denominator.
func (s *Service) VerifiedUserCount(ctx context.Context) (int, error) {
	count, err := s.store.CountVerified(ctx)
	if err != nil {
		return 0, fmt.Errorf("count verified users: %w", err)
	}
	return count, nil
}

// issueOTP stores and mails a fresh code. Delivery failure is logged, not
// fatal: the account exists either way and the resend endpoint recovers.
func (s *Service) issueOTP(ctx context.Context, user *models.User) {
	code, err := generateOTP()
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to generate verification code",
			"user_id", user.ID,
			"error", err.Error(),
		)
		return
	}

	now := requestcontext.Now(ctx)
	otp := &models.OTP{
		ID:        id.NewOTPID(),
		UserID:    user.ID,
		Code:      code,
		CreatedAt: now,
		ExpireAt:  now.Add(s.otpTTL),
	}
	if err := s.store.CreateOTP(ctx, otp); err != nil {
		s.logger.ErrorContext(ctx, "failed to store verification code",
			"user_id", user.ID,
			"error", err.Error(),
		)
		return
	}

	body := fmt.Sprintf("Your calldex verification code is %s. It expires in %s.", code, s.otpTTL)
	if err := s.mail.Send(ctx, user.Email, "Verify your calldex account", body); err != nil {
		s.logger.WarnContext(ctx, "failed to send verification code",
			"user_id", user.ID,
			"error", err.Error(),
		)
	}
}

// generateOTP returns a uniformly random six digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
