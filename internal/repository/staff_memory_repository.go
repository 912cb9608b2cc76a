package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/staff-catalog/internal/domain"
)

// memoryStaffRepository keeps staff records in process memory.
// It backs the service when no Postgres DSN is configured.
type memoryStaffRepository struct {
	mu      sync.RWMutex
	records map[string]domain.Staff
	now     func() time.Time
}

// NewMemoryStaffRepository instantiates an empty in-memory repository.
func NewMemoryStaffRepository() StaffRepository {
	return &memoryStaffRepository{
		records: make(map[string]domain.Staff),
		now:     time.Now,
	}
}

func (r *memoryStaffRepository) List(ctx context.Context) ([]domain.Staff, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	result := make([]domain.Staff, 0, len(r.records))
	for _, staff := range r.records {
		result = append(result, staff)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *memoryStaffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	staff, ok := r.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &staff, nil
}

func (r *memoryStaffRepository) FindByNameFold(ctx context.Context, name string) (*domain.Staff, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *domain.Staff
	for _, staff := range r.records {
		if !strings.EqualFold(staff.Name, name) {
			continue
		}
		if found == nil || staff.CreatedAt.Before(found.CreatedAt) {
			match := staff
			found = &match
		}
	}
	if found == nil {
		return nil, pgx.ErrNoRows
	}
	return found, nil
}

func (r *memoryStaffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := r.now()
	staff.ID = uuid.NewString()
	staff.Name = strings.Clone(staff.Name)
	staff.CreatedAt = now
	staff.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[staff.ID] = *staff
	return nil
}

func (r *memoryStaffRepository) Update(ctx context.Context, staff *domain.Staff) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.records[staff.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Name = strings.Clone(staff.Name)
	existing.UpdatedAt = r.now()
	r.records[existing.ID] = existing

	staff.CreatedAt = existing.CreatedAt
	staff.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *memoryStaffRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.records, id)
	return nil
}
