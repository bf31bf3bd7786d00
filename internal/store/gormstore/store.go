// Package gormstore implements store.Store on MySQL via gorm.
package gormstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/models"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/store"
)

type Store struct {
	db *gorm.DB
}

// New wraps an already-opened gorm handle. The handle is constructed once in
// main and injected; there is no package-level singleton.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var emp models.Employee
	err := s.db.WithContext(ctx).Preload("Schedule").First(&emp, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &emp, nil
}

func (s *Store) GetEmployeeByNumber(ctx context.Context, number string) (*models.Employee, error) {
	var emp models.Employee
	err := s.db.WithContext(ctx).Preload("Schedule").First(&emp, "employee_number = ?", number).Error
	if err != nil {
		return nil, translate(err)
	}
	return &emp, nil
}

func (s *Store) SaveEmployeePinState(ctx context.Context, emp *models.Employee) error {
	return s.db.WithContext(ctx).Model(&models.Employee{}).
		Where("id = ?", emp.ID).
		Updates(map[string]interface{}{
			"pin_attempts":     emp.PinAttempts,
			"pin_locked_until": emp.PinLockedUntil,
		}).Error
}

func (s *Store) GetOfficeLocation(ctx context.Context) (*models.OfficeLocation, error) {
	var office models.OfficeLocation
	err := s.db.WithContext(ctx).Order("created_at asc").First(&office).Error
	if err != nil {
		return nil, translate(err)
	}
	return &office, nil
}

// EnsureOfficeLocation seeds the office row at startup when none exists yet.
func (s *Store) EnsureOfficeLocation(ctx context.Context, office *models.OfficeLocation) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.OfficeLocation{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(office).Error
}

func (s *Store) ActiveFaceReferences(ctx context.Context, employeeID uuid.UUID) ([]models.FaceReference, error) {
	var refs []models.FaceReference
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND is_active = ?", employeeID, true).
		Order("created_at asc").
		Find(&refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}

func (s *Store) CreateFaceReference(ctx context.Context, ref *models.FaceReference) error {
	return s.db.WithContext(ctx).Create(ref).Error
}

func (s *Store) DeactivateFaceReferences(ctx context.Context, employeeID uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.FaceReference{}).
		Where("employee_id = ? AND is_active = ?", employeeID, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

func (s *Store) FindEventForDay(ctx context.Context, employeeID uuid.UUID, eventType string, eventDate string) (*models.AttendanceEvent, error) {
	var event models.AttendanceEvent
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND event_type = ? AND event_date = ?", employeeID, eventType, eventDate).
		First(&event).Error
	if err != nil {
		return nil, translate(err)
	}
	return &event, nil
}

func (s *Store) CreateAttendanceEvent(ctx context.Context, event *models.AttendanceEvent) error {
	return s.db.WithContext(ctx).Create(event).Error
}

func (s *Store) ListEventsForEmployee(ctx context.Context, employeeID uuid.UUID, limit int) ([]models.AttendanceEvent, error) {
	var events []models.AttendanceEvent
	query := s.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("timestamp desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Store) RecordAudit(ctx context.Context, rec *models.AuditRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

// WithEmployeeLock opens a transaction and takes a FOR UPDATE row lock on the
// employee, serializing concurrent submissions for the same employee. The
// callback receives a Store bound to the transaction so all reads and writes
// inside it share the lock.
func (s *Store) WithEmployeeLock(ctx context.Context, employeeID uuid.UUID, fn func(ctx context.Context, tx store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var emp models.Employee
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&emp, "id = ?", employeeID).Error
		if err != nil {
			return translate(err)
		}
		return fn(ctx, &Store{db: tx})
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}
