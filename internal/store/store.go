// Package store defines the durable storage contract consumed by the
// attendance core. Implementations live in gormstore (MySQL via gorm) and
// memory (tests and dev).
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/models"
)

var ErrNotFound = errors.New("not found")

// Store is the transactional storage surface for the decision engine.
//
// WithEmployeeLock serializes its callback against other callbacks for the
// same employee: the PIN attempts/lock update and the duplicate-check-then-
// insert sequence both run inside it. Callbacks for different employees may
// run in parallel.
type Store interface {
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	GetEmployeeByNumber(ctx context.Context, number string) (*models.Employee, error)
	SaveEmployeePinState(ctx context.Context, emp *models.Employee) error

	GetOfficeLocation(ctx context.Context) (*models.OfficeLocation, error)

	ActiveFaceReferences(ctx context.Context, employeeID uuid.UUID) ([]models.FaceReference, error)
	CreateFaceReference(ctx context.Context, ref *models.FaceReference) error
	DeactivateFaceReferences(ctx context.Context, employeeID uuid.UUID) (int64, error)

	FindEventForDay(ctx context.Context, employeeID uuid.UUID, eventType string, eventDate string) (*models.AttendanceEvent, error)
	CreateAttendanceEvent(ctx context.Context, event *models.AttendanceEvent) error
	ListEventsForEmployee(ctx context.Context, employeeID uuid.UUID, limit int) ([]models.AttendanceEvent, error)

	RecordAudit(ctx context.Context, rec *models.AuditRecord) error

	WithEmployeeLock(ctx context.Context, employeeID uuid.UUID, fn func(ctx context.Context, tx Store) error) error
}
