package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/school-registry/internal/model"
)

// PostgresSchoolRepository reads and writes the schools table directly.
// The column names match the hosted table, including the quoted "schoolName".
type PostgresSchoolRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresSchoolRepository creates a new PostgresSchoolRepository.
func NewPostgresSchoolRepository(pool *pgxpool.Pool, table string) *PostgresSchoolRepository {
	return &PostgresSchoolRepository{pool: pool, table: pgx.Identifier{table}.Sanitize()}
}

// Insert adds a school and scans back its id.
func (r *PostgresSchoolRepository) Insert(ctx context.Context, s *model.School) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO `+r.table+` ("schoolName", address, city, email, image_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		s.SchoolName, s.Address, s.City, s.Email, s.ImageURL,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInsertFailed, err)
	}
	return nil
}

// ListAll retrieves all schools, newest first.
func (r *PostgresSchoolRepository) ListAll(ctx context.Context) ([]model.School, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, "schoolName", address, city, email, COALESCE(image_url, '')
		 FROM `+r.table+` ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer rows.Close()

	schools := []model.School{}
	for rows.Next() {
		var s model.School
		if err := rows.Scan(&s.ID, &s.SchoolName, &s.Address, &s.City, &s.Email, &s.ImageURL); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
		}
		schools = append(schools, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return schools, nil
}
