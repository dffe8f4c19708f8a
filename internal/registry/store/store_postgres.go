package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"calldex/internal/registry/models"
	id "calldex/pkg/domain"
	"calldex/pkg/platform/sentinel"
)

// Postgres persists canonical phone numbers in PostgreSQL. The unique
// constraint on phone_numbers.number is the authority for entry identity.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) ResolveOrCreate(ctx context.Context, number string) (*models.PhoneNumber, error) {
	// Fast path: the entry usually exists already.
	entry, err := s.FindByNumber(ctx, number)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}

	// DO NOTHING makes a racing insert a non-event: whoever loses the race
	// simply re-reads the winner's row.
	newID := id.NewPhoneNumberID()
	tag, err := s.db.Exec(ctx, `
		INSERT INTO phone_numbers (id, number, is_registered, spam_count)
		VALUES ($1, $2, FALSE, 0)
		ON CONFLICT (number) DO NOTHING
	`, newID, number)
	if err != nil {
		return nil, fmt.Errorf("insert phone number: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return &models.PhoneNumber{ID: newID, Number: number}, nil
	}
	return s.FindByNumber(ctx, number)
}

func (s *Postgres) FindByNumber(ctx context.Context, number string) (*models.PhoneNumber, error) {
	entry := &models.PhoneNumber{}
	err := s.db.QueryRow(ctx, `
		SELECT id, number, is_registered, spam_count
		FROM phone_numbers
		WHERE number = $1
	`, number).Scan(&entry.ID, &entry.Number, &entry.IsRegistered, &entry.SpamCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find phone number: %w", err)
	}
	return entry, nil
}

func (s *Postgres) FindByID(ctx context.Context, phoneNumberID id.PhoneNumberID) (*models.PhoneNumber, error) {
	entry := &models.PhoneNumber{}
	err := s.db.QueryRow(ctx, `
		SELECT id, number, is_registered, spam_count
		FROM phone_numbers
		WHERE id = $1
	`, phoneNumberID).Scan(&entry.ID, &entry.Number, &entry.IsRegistered, &entry.SpamCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find phone number by id: %w", err)
	}
	return entry, nil
}

func (s *Postgres) MarkRegistered(ctx context.Context, number string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO phone_numbers (id, number, is_registered, spam_count)
		VALUES ($1, $2, TRUE, 0)
		ON CONFLICT (number) DO UPDATE SET is_registered = TRUE
	`, id.NewPhoneNumberID(), number)
	if err != nil {
		return fmt.Errorf("mark registered: %w", err)
	}
	return nil
}

func (s *Postgres) IncrementSpamCount(ctx context.Context, phoneNumberID id.PhoneNumberID) error {
	// Single atomic update: concurrent increments serialize on the row and
	// none are lost, unlike a read-modify-write round trip.
	tag, err := s.db.Exec(ctx, `
		UPDATE phone_numbers
		SET spam_count = spam_count + 1
		WHERE id = $1
	`, phoneNumberID)
	if err != nil {
		return fmt.Errorf("increment spam count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
