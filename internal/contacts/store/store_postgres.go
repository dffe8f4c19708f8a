package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"calldex/internal/contacts/models"
	id "calldex/pkg/domain"
	"calldex/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// Postgres persists contact names in PostgreSQL.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, contact *models.Contact) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO contact_names (id, user_id, phone_number_id, name)
		VALUES ($1, $2, $3, $4)
	`, contact.ID, contact.UserID, contact.PhoneNumberID, contact.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (s *Postgres) ListByOwner(ctx context.Context, ownerID id.UserID) ([]models.ContactEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT cn.name, pn.number
		FROM contact_names cn
		JOIN phone_numbers pn ON pn.id = cn.phone_number_id
		WHERE cn.user_id = $1
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var entries []models.ContactEntry
	for rows.Next() {
		var entry models.ContactEntry
		if err := rows.Scan(&entry.Name, &entry.Number); err != nil {
			return nil, fmt.Errorf("scan contact row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact rows: %w", err)
	}
	return entries, nil
}
