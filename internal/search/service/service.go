package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"calldex/internal/platform/metrics"
	redisplatform "calldex/internal/platform/redis"
	"calldex/internal/search/models"
	"calldex/internal/search/store"
	id "calldex/pkg/domain"
	dErrors "calldex/pkg/domain-errors"
	"calldex/pkg/platform/sentinel"
)

const (
	verifiedCountKey = "calldex:verified_user_count"

	// Enrichment issues one directory lookup per result row; the limit keeps
	// a broad query from monopolizing the connection pool.
	enrichConcurrency = 8
)

// Directory is the slice of the user directory search depends on.
type Directory interface {
	VerifiedUserCount(ctx context.Context) (int, error)
}

// Service runs the three-tier alias search. Tier order is prefix matches,
// then contains-but-not-prefix matches, then exact number matches; the tiers
// are concatenated without deduplication, so a row satisfying two tiers
// appears twice. Callers depend on that ordering and multiplicity.
type Service struct {
	store     store.Store
	directory Directory
	cache     *redisplatform.Client
	cacheTTL  time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
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

// WithCache enables Redis caching of the verified user count. A nil client
// leaves caching disabled.
func WithCache(cache *redisplatform.Client, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func New(st store.Store, directory Directory, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("search store is required")
	}
	if directory == nil {
		return nil, fmt.Errorf("directory is required")
	}
	svc := &Service{
		store:     st,
		directory: directory,
		logger:    slog.Default(),
		tracer:    otel.Tracer("calldex/search"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Search resolves query against the shared alias graph and returns scored,
// enriched matches. An empty query after trimming returns an empty result
// without touching storage.
func (s *Service) Search(ctx context.Context, requestingUserID id.UserID, query string) ([]models.ScoredMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.ScoredMatch{}, nil
	}

	ctx, span := s.tracer.Start(ctx, "search.Search",
		trace.WithAttributes(attribute.Int("query_length", len(query))))
	defer span.End()

	start := time.Now()

	// One count per call; every row in this response is scored against the
	// same denominator.
	totalVerified, err := s.verifiedCount(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read verified user count")
	}

	prefix, err := s.store.MatchNamePrefix(ctx, query)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search contacts")
	}
	contains, err := s.store.MatchNameContains(ctx, query)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search contacts")
	}
	exact, err := s.store.MatchNumber(ctx, query)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search contacts")
	}

	rows := make([]models.Row, 0, len(prefix)+len(contains)+len(exact))
	rows = append(rows, prefix...)
	rows = append(rows, contains...)
	rows = append(rows, exact...)

	out := make([]models.ScoredMatch, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, row := range rows {
		g.Go(func() error {
			match := models.ScoredMatch{
				Name:           row.Name,
				Number:         row.Number,
				SpamLikelihood: likelihood(row.SpamCount, totalVerified),
			}
			email, err := s.store.EmailFor(gctx, requestingUserID, row.Number)
			switch {
			case err == nil:
				match.Email = email
			case errors.Is(err, sentinel.ErrNotFound):
				// No visible account behind this number. Ordinary outcome.
			default:
				return fmt.Errorf("enrich result for %s: %w", row.Number, err)
			}
			out[i] = match
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to enrich search results")
	}

	span.SetAttributes(attribute.Int("result_count", len(out)))
	if s.metrics != nil {
		s.metrics.Searches.Inc()
		s.metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}
	return out, nil
}

// likelihood scores a row as the percentage of verified users who flagged
// the number, rounded to two decimals. No verified users means no signal.
func likelihood(spamCount, totalVerified int) float64 {
	if totalVerified == 0 {
		return 0
	}
	return math.Round(float64(spamCount)/float64(totalVerified)*100*100) / 100
}

func (s *Service) verifiedCount(ctx context.Context) (int, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, verifiedCountKey).Result()
		switch {
		case err == nil:
			if n, convErr := strconv.Atoi(raw); convErr == nil {
				return n, nil
			}
		case !errors.Is(err, redis.Nil):
			s.logger.WarnContext(ctx, "verified count cache read failed", "error", err.Error())
		}
	}

	n, err := s.directory.VerifiedUserCount(ctx)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, verifiedCountKey, strconv.Itoa(n), s.cacheTTL).Err(); err != nil {
			s.logger.WarnContext(ctx, "verified count cache write failed", "error", err.Error())
		}
	}
	return n, nil
}
