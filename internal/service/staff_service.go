package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-catalog/internal/domain"
	"github.com/spec-kit/staff-catalog/internal/events"
	"github.com/spec-kit/staff-catalog/internal/repository"
	apperrors "github.com/spec-kit/staff-catalog/pkg/util/errorutil"
)

// NameGuard serializes creates of the same case-folded name.
type NameGuard interface {
	Acquire(ctx context.Context, name string) (release func(), acquired bool, err error)
}

// StaffService implements the staff catalog workflows.
type StaffService struct {
	staff      repository.StaffRepository
	guard      NameGuard
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// StaffDependencies encapsulates collaborators of the staff service.
// NameGuard and Dispatcher are optional.
type StaffDependencies struct {
	StaffRepo  repository.StaffRepository
	NameGuard  NameGuard
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewStaffService constructs the service.
func NewStaffService(deps StaffDependencies) *StaffService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{
		staff:      deps.StaffRepo,
		guard:      deps.NameGuard,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ListStaff returns every record ordered by name.
func (s *StaffService) ListStaff(ctx context.Context) ([]domain.Staff, error) {
	list, err := s.staff.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// GetStaff fetches a record. Malformed ids are reported as not found.
func (s *StaffService) GetStaff(ctx context.Context, id string) (*domain.Staff, error) {
	if !validID(id) {
		return nil, staffNotFound(id)
	}
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, staffNotFound(id)
		}
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// CreateStaff validates rawName and stores a new record unless one with the
// same name (ignoring case) exists, in which case that record is returned
// and created is false. On validation failure the unsaved, sanitized record
// is returned along with the error.
func (s *StaffService) CreateStaff(ctx context.Context, rawName string) (staff *domain.Staff, created bool, err error) {
	name, fields := NormalizeStaffName(rawName)
	staff = &domain.Staff{Name: name}
	if len(fields) > 0 {
		return staff, false, apperrors.NewFieldValidationError(fields)
	}

	release, err := s.lockName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	defer release()

	existing, err := s.staff.FindByNameFold(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, apperrors.MapError(err)
	}

	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, false, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventStaffCreated, staff.ID, events.StaffPayload{Name: staff.Name})
	return staff, true, nil
}

// UpdateStaff replaces the name of the record at id. Unlike CreateStaff it
// does not look for other records carrying the same name.
func (s *StaffService) UpdateStaff(ctx context.Context, id, rawName string) (*domain.Staff, error) {
	name, fields := NormalizeStaffName(rawName)
	staff := &domain.Staff{ID: id, Name: name}
	if len(fields) > 0 {
		return staff, apperrors.NewFieldValidationError(fields)
	}
	if !validID(id) {
		return nil, staffNotFound(id)
	}

	if err := s.staff.Update(ctx, staff); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, staffNotFound(id)
		}
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventStaffUpdated, staff.ID, events.StaffPayload{Name: staff.Name})
	return staff, nil
}

// DeleteStaff removes the record at id.
func (s *StaffService) DeleteStaff(ctx context.Context, id string) error {
	staff, err := s.GetStaff(ctx, id)
	if err != nil {
		return err
	}
	if err := s.staff.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return staffNotFound(id)
		}
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventStaffDeleted, id, events.StaffPayload{Name: staff.Name})
	return nil
}

func (s *StaffService) lockName(ctx context.Context, name string) (func(), error) {
	noop := func() {}
	if s.guard == nil {
		return noop, nil
	}
	release, acquired, err := s.guard.Acquire(ctx, name)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, apperrors.MapError(ctxErr)
		}
		s.logger.Warn("staff name lock unavailable; continuing unlocked", zap.String("name", name), zap.Error(err))
		return noop, nil
	}
	if !acquired {
		return nil, apperrors.NewConflict("a staff record with this name is being created, try again", map[string]any{"name": name})
	}
	return release, nil
}

func (s *StaffService) publish(ctx context.Context, eventType events.EventType, staffID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		StaffID:   staffID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish staff event", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func staffNotFound(id string) error {
	return apperrors.NewNotFound("staff", map[string]any{"id": id})
}
