package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"calldex/internal/spam/models"
	id "calldex/pkg/domain"
	"calldex/pkg/platform/sentinel"
)

// Postgres persists spam report facts in PostgreSQL.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, report *models.Report) error {
	// DO NOTHING turns a lost race between two reports from the same user
	// into a clean conflict instead of a driver error.
	tag, err := s.db.Exec(ctx, `
		INSERT INTO spam_reports (id, user_id, phone_number_id, report_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, phone_number_id) DO NOTHING
	`, report.ID, report.UserID, report.PhoneNumberID, report.ReportDate)
	if err != nil {
		return fmt.Errorf("insert spam report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) HasReported(ctx context.Context, userID id.UserID, phoneNumberID id.PhoneNumberID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM spam_reports
			WHERE user_id = $1 AND phone_number_id = $2
		)
	`, userID, phoneNumberID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check spam report: %w", err)
	}
	return exists, nil
}
