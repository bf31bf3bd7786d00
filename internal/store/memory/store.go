// Package memory is an in-memory Store used by tests and dev environments.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/models"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/store"
)

type Store struct {
	mu            sync.Mutex
	employeeLocks map[uuid.UUID]*sync.Mutex

	employees map[uuid.UUID]*models.Employee
	office    *models.OfficeLocation
	faceRefs  []models.FaceReference
	events    []models.AttendanceEvent
	audits    []models.AuditRecord
}

func New() *Store {
	return &Store{
		employeeLocks: make(map[uuid.UUID]*sync.Mutex),
		employees:     make(map[uuid.UUID]*models.Employee),
	}
}

// SeedEmployee registers an employee (and assigns an ID when missing).
func (s *Store) SeedEmployee(emp *models.Employee) *models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if emp.ID == uuid.Nil {
		emp.ID = uuid.New()
	}
	copied := *emp
	s.employees[emp.ID] = &copied
	return emp
}

// SeedOffice sets the single office row.
func (s *Store) SeedOffice(office *models.OfficeLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if office.ID == uuid.Nil {
		office.ID = uuid.New()
	}
	copied := *office
	s.office = &copied
}

func (s *Store) GetEmployee(_ context.Context, id uuid.UUID) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	emp, ok := s.employees[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *emp
	return &copied, nil
}

func (s *Store) GetEmployeeByNumber(_ context.Context, number string) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, emp := range s.employees {
		if emp.EmployeeNumber == number {
			copied := *emp
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) SaveEmployeePinState(_ context.Context, emp *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.employees[emp.ID]
	if !ok {
		return store.ErrNotFound
	}
	stored.PinAttempts = emp.PinAttempts
	stored.PinLockedUntil = emp.PinLockedUntil
	return nil
}

func (s *Store) GetOfficeLocation(_ context.Context) (*models.OfficeLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.office == nil {
		return nil, store.ErrNotFound
	}
	copied := *s.office
	return &copied, nil
}

func (s *Store) ActiveFaceReferences(_ context.Context, employeeID uuid.UUID) ([]models.FaceReference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var refs []models.FaceReference
	for _, ref := range s.faceRefs {
		if ref.EmployeeID == employeeID && ref.IsActive {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func (s *Store) CreateFaceReference(_ context.Context, ref *models.FaceReference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref.ID == uuid.Nil {
		ref.ID = uuid.New()
	}
	s.faceRefs = append(s.faceRefs, *ref)
	return nil
}

func (s *Store) DeactivateFaceReferences(_ context.Context, employeeID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for i := range s.faceRefs {
		if s.faceRefs[i].EmployeeID == employeeID && s.faceRefs[i].IsActive {
			s.faceRefs[i].IsActive = false
			count++
		}
	}
	return count, nil
}

func (s *Store) FindEventForDay(_ context.Context, employeeID uuid.UUID, eventType string, eventDate string) (*models.AttendanceEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, event := range s.events {
		if event.EmployeeID == employeeID && event.EventType == eventType && event.EventDate == eventDate {
			copied := event
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateAttendanceEvent(_ context.Context, event *models.AttendanceEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	s.events = append(s.events, *event)
	return nil
}

func (s *Store) ListEventsForEmployee(_ context.Context, employeeID uuid.UUID, limit int) ([]models.AttendanceEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var events []models.AttendanceEvent
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].EmployeeID == employeeID {
			events = append(events, s.events[i])
			if limit > 0 && len(events) >= limit {
				break
			}
		}
	}
	return events, nil
}

func (s *Store) RecordAudit(_ context.Context, rec *models.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	s.audits = append(s.audits, *rec)
	return nil
}

// WithEmployeeLock serializes callbacks per employee with a dedicated mutex.
func (s *Store) WithEmployeeLock(ctx context.Context, employeeID uuid.UUID, fn func(ctx context.Context, tx store.Store) error) error {
	s.mu.Lock()
	lock, ok := s.employeeLocks[employeeID]
	if !ok {
		lock = &sync.Mutex{}
		s.employeeLocks[employeeID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(ctx, s)
}

// Events returns a copy of all persisted attendance events. Test-only helper.
func (s *Store) Events() []models.AttendanceEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AttendanceEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Audits returns a copy of all audit records. Test-only helper.
func (s *Store) Audits() []models.AuditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AuditRecord, len(s.audits))
	copy(out, s.audits)
	return out
}
