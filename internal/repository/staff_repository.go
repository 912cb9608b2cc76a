package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-catalog/internal/domain"
)

// StaffRepository handles persistence for staff records.
// Lookups of absent records return pgx.ErrNoRows.
type StaffRepository interface {
	List(ctx context.Context) ([]domain.Staff, error)
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
	FindByNameFold(ctx context.Context, name string) (*domain.Staff, error)
	Create(ctx context.Context, staff *domain.Staff) error
	Update(ctx context.Context, staff *domain.Staff) error
	Delete(ctx context.Context, id string) error
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the Postgres repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

func (r *staffRepository) List(ctx context.Context) ([]domain.Staff, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM staff ORDER BY name COLLATE "C" ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Staff{}
	for rows.Next() {
		var staff domain.Staff
		if err := rows.Scan(&staff.ID, &staff.Name, &staff.CreatedAt, &staff.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, staff)
	}
	return result, rows.Err()
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM staff WHERE id=$1`

	var staff domain.Staff
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&staff.ID,
		&staff.Name,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) FindByNameFold(ctx context.Context, name string) (*domain.Staff, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM staff WHERE lower(name) = lower($1)
        ORDER BY created_at ASC LIMIT 1`

	var staff domain.Staff
	if err := r.pool.QueryRow(ctx, query, name).Scan(
		&staff.ID,
		&staff.Name,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	const query = `
        INSERT INTO staff (name)
        VALUES ($1)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query, staff.Name).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.Staff) error {
	const query = `
        UPDATE staff SET name=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query, staff.Name, staff.ID).Scan(&staff.CreatedAt, &staff.UpdatedAt)
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM staff WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
