package store

import (
	"context"

	"calldex/internal/search/models"
	id "calldex/pkg/domain"
)

// Store is the read model behind search. The three match methods mirror the
// three tiers; each returns alias rows joined with the target's registry
// entry so the service never issues per-row lookups for the spam count.
type Store interface {
	// MatchNamePrefix returns aliases whose name starts with query.
	MatchNamePrefix(ctx context.Context, query string) ([]models.Row, error)
	// MatchNameContains returns aliases whose name contains query but does
	// not start with it. The exclusion keeps prefix hits out of this tier.
	MatchNameContains(ctx context.Context, query string) ([]models.Row, error)
	// MatchNumber returns aliases whose target number equals query exactly.
	MatchNumber(ctx context.Context, query string) ([]models.Row, error)

	// EmailFor returns the verified account email behind number, but only
	// when ownerID holds an alias for that number. sentinel.ErrNotFound
	// means "no email visible", which is an ordinary outcome.
	EmailFor(ctx context.Context, ownerID id.UserID, number string) (string, error)
}
