package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"calldex/internal/directory/models"
	id "calldex/pkg/domain"
	"calldex/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// Postgres persists directory accounts in PostgreSQL.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, phone_number, city_id, country_id, is_verified, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.PhoneNumber,
		user.CityID, user.CountryID, user.IsVerified, user.IsActive, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

const userColumns = `id, name, email, password_hash, phone_number, city_id, country_id, is_verified, is_active, created_at`

func (s *Postgres) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *Postgres) FindUserByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
}

func (s *Postgres) findUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.PhoneNumber,
		&user.CityID, &user.CountryID, &user.IsVerified, &user.IsActive, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &user, nil
}

func (s *Postgres) MarkVerified(ctx context.Context, userID id.UserID) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET is_verified = TRUE WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("mark user verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) CountVerified(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM users WHERE is_verified AND is_active
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count verified users: %w", err)
	}
	return count, nil
}

func (s *Postgres) CreateOTP(ctx context.Context, otp *models.OTP) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_otps (id, user_id, otp, created_at, expire_at)
		VALUES ($1, $2, $3, $4, $5)
	`, otp.ID, otp.UserID, otp.Code, otp.CreatedAt, otp.ExpireAt)
	if err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

func (s *Postgres) LatestOTP(ctx context.Context, userID id.UserID) (*models.OTP, error) {
	var otp models.OTP
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, otp, created_at, expire_at
		FROM user_otps
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID).Scan(&otp.ID, &otp.UserID, &otp.Code, &otp.CreatedAt, &otp.ExpireAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select latest otp: %w", err)
	}
	return &otp, nil
}

func (s *Postgres) ListCountries(ctx context.Context) ([]models.Country, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM countries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()

	var countries []models.Country
	for rows.Next() {
		var country models.Country
		if err := rows.Scan(&country.ID, &country.Name); err != nil {
			return nil, fmt.Errorf("scan country row: %w", err)
		}
		countries = append(countries, country)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate country rows: %w", err)
	}
	return countries, nil
}

func (s *Postgres) ListCities(ctx context.Context, countryID id.CountryID) ([]models.City, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, country_id FROM cities WHERE country_id = $1 ORDER BY name
	`, countryID)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	var cities []models.City
	for rows.Next() {
		var city models.City
		if err := rows.Scan(&city.ID, &city.Name, &city.CountryID); err != nil {
			return nil, fmt.Errorf("scan city row: %w", err)
		}
		cities = append(cities, city)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate city rows: %w", err)
	}
	return cities, nil
}
