package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"calldex/internal/platform/events"
	"calldex/internal/platform/metrics"
	regmodels "calldex/internal/registry/models"
	"calldex/internal/spam/models"
	"calldex/internal/spam/store"
	id "calldex/pkg/domain"
	dErrors "calldex/pkg/domain-errors"
	"calldex/pkg/platform/sentinel"
	"calldex/pkg/requestcontext"
)

// Registry is the slice of the phone registry the spam ledger needs. The
// ledger is the only component allowed to drive the spam counter.
type Registry interface {
	FindByNumber(ctx context.Context, number string) (*regmodels.PhoneNumber, error)
	IncrementSpamCount(ctx context.Context, phoneNumberID id.PhoneNumberID) error
}

// Service owns the one-report-per-user-per-number transition.
type Service struct {
	store     store.Store
	registry  Registry
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher events.Publisher
	tracer    trace.Tracer
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

func New(st store.Store, registry Registry, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("spam store is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	svc := &Service{
		store:    st,
		registry: registry,
		logger:   slog.Default(),
		tracer:   otel.Tracer("calldex/spam"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ReportSpam records reporterID's report against number and bumps the shared
// counter by exactly one. Unknown numbers are a not_found rejection; a second
// report by the same reporter is a conflict, never silently ignored. The
// application-level duplicate check is only the friendly fast path - the
// unique constraint behind store.Create is what actually prevents double
// counting under concurrency.
func (s *Service) ReportSpam(ctx context.Context, reporterID id.UserID, number string) error {
	if reporterID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "reporter is required")
	}

	ctx, span := s.tracer.Start(ctx, "spam.ReportSpam")
	defer span.End()

	phone, err := s.registry.FindByNumber(ctx, number)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			s.record("not_found")
			return dErrors.New(dErrors.CodeNotFound, "phone number not found")
		}
		s.record("error")
		return err
	}

	reported, err := s.store.HasReported(ctx, reporterID, phone.ID)
	if err != nil {
		s.record("error")
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing report")
	}
	if reported {
		s.record("already_reported")
		return dErrors.New(dErrors.CodeConflict, "you have already reported this number as spam")
	}

	report := &models.Report{
		ID:            id.NewReportID(),
		UserID:        reporterID,
		PhoneNumberID: phone.ID,
		ReportDate:    requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, report); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Lost a race against our own duplicate request.
			s.record("already_reported")
			return dErrors.New(dErrors.CodeConflict, "you have already reported this number as spam")
		}
		s.record("error")
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record spam report")
	}

	if err := s.registry.IncrementSpamCount(ctx, phone.ID); err != nil {
		// The fact is durable but the counter missed it. Surface loudly;
		// counts only drift if this ever happens.
		s.logger.ErrorContext(ctx, "spam report recorded but counter increment failed",
			"phone_number_id", phone.ID,
			"error", err.Error(),
		)
		s.record("error")
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update spam count")
	}

	s.record("accepted")
	s.logger.InfoContext(ctx, "number reported as spam",
		"reporter_id", reporterID,
		"phone_number_id", phone.ID,
	)
	events.Emit(ctx, s.publisher, s.logger, events.Event{
		Type:        events.TypeSpamReported,
		UserID:      reporterID.String(),
		PhoneNumber: phone.Number,
		Device:      requestcontext.DeviceLabel(ctx),
		OccurredAt:  report.ReportDate,
	})
	return nil
}

func (s *Service) record(result string) {
	if s.metrics != nil {
		s.metrics.RecordSpamReport(result)
	}
}
