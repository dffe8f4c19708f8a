package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"calldex/internal/search/models"
	id "calldex/pkg/domain"
	"calldex/pkg/platform/sentinel"
)

// Postgres reads alias matches straight from the contact and registry
// tables. Ordering inside a tier is by alias name so result order is stable
// across calls.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) MatchNamePrefix(ctx context.Context, query string) ([]models.Row, error) {
	return s.rows(ctx, `
		SELECT cn.name, pn.number, pn.spam_count
		FROM contact_names cn
		JOIN phone_numbers pn ON pn.id = cn.phone_number_id
		WHERE cn.name LIKE $1
		ORDER BY cn.name, pn.number
	`, escapeLike(query)+"%")
}

func (s *Postgres) MatchNameContains(ctx context.Context, query string) ([]models.Row, error) {
	// Prefix hits are excluded here; they already surfaced in the prefix
	// tier and must not repeat in this one.
	return s.rows(ctx, `
		SELECT cn.name, pn.number, pn.spam_count
		FROM contact_names cn
		JOIN phone_numbers pn ON pn.id = cn.phone_number_id
		WHERE cn.name LIKE $1 AND cn.name NOT LIKE $2
		ORDER BY cn.name, pn.number
	`, "%"+escapeLike(query)+"%", escapeLike(query)+"%")
}

func (s *Postgres) MatchNumber(ctx context.Context, query string) ([]models.Row, error) {
	return s.rows(ctx, `
		SELECT cn.name, pn.number, pn.spam_count
		FROM contact_names cn
		JOIN phone_numbers pn ON pn.id = cn.phone_number_id
		WHERE pn.number = $1
		ORDER BY cn.name
	`, query)
}

func (s *Postgres) EmailFor(ctx context.Context, ownerID id.UserID, number string) (string, error) {
	var email string
	err := s.db.QueryRow(ctx, `
		SELECT u.email
		FROM contact_names cn
		JOIN phone_numbers pn ON pn.id = cn.phone_number_id
		JOIN users u ON u.phone_number = pn.number
		WHERE cn.user_id = $1 AND pn.number = $2 AND u.is_verified
		LIMIT 1
	`, ownerID, number).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("look up contact email: %w", err)
	}
	return email, nil
}

func (s *Postgres) rows(ctx context.Context, query string, args ...any) ([]models.Row, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query aliases: %w", err)
	}
	defer rows.Close()

	var out []models.Row
	for rows.Next() {
		var row models.Row
		if err := rows.Scan(&row.Name, &row.Number, &row.SpamCount); err != nil {
			return nil, fmt.Errorf("scan alias row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alias rows: %w", err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters so user input always matches
// literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
