// Package pinauth implements PIN verification with attempt counting and
// temporary lockout. All state transitions must run inside the store's
// per-employee lock so that concurrent attempts cannot lose an increment or
// double-lock.
package pinauth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/models"
)

// Policy is the PIN portion of the office authentication policy.
type Policy struct {
	Required       bool
	MaxAttempts    int
	LockoutMinutes int
}

type Outcome string

const (
	OutcomeVerified  Outcome = "verified"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeLocked    Outcome = "locked"
)

type Result struct {
	Outcome              Outcome
	RemainingLockSeconds int
}

// Store is the slice of the durable store the verifier needs.
type Store interface {
	SaveEmployeePinState(ctx context.Context, emp *models.Employee) error
	RecordAudit(ctx context.Context, rec *models.AuditRecord) error
}

// HashPin produces the salted hash stored on the employee row.
func HashPin(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify runs one PIN attempt against the employee's stored hash.
//
// While the account is locked the supplied PIN is never compared, so a caller
// cannot probe candidate PINs during the lockout window. A successful attempt
// resets the counter and clears the lock; a failed attempt increments it and
// locks the account once MaxAttempts is reached. Every attempt is audited.
func Verify(ctx context.Context, st Store, emp *models.Employee, suppliedPin string, policy Policy, now time.Time) (Result, error) {
	if emp.PinLockedUntil != nil && emp.PinLockedUntil.After(now) {
		remaining := int(emp.PinLockedUntil.Sub(now).Seconds())
		if remaining < 1 {
			remaining = 1
		}
		_ = st.RecordAudit(ctx, &models.AuditRecord{
			EmployeeID: emp.ID,
			Method:     models.AuditMethodPin,
			Outcome:    "blocked",
			Detail:     "attempt during lockout",
		})
		return Result{Outcome: OutcomeLocked, RemainingLockSeconds: remaining}, nil
	}

	// An expired lock opens a fresh attempt window.
	if emp.PinLockedUntil != nil {
		emp.PinAttempts = 0
		emp.PinLockedUntil = nil
	}

	if bcrypt.CompareHashAndPassword([]byte(emp.PinHash), []byte(suppliedPin)) == nil {
		emp.PinAttempts = 0
		emp.PinLockedUntil = nil
		if err := st.SaveEmployeePinState(ctx, emp); err != nil {
			return Result{}, err
		}
		_ = st.RecordAudit(ctx, &models.AuditRecord{
			EmployeeID: emp.ID,
			Method:     models.AuditMethodPin,
			Outcome:    "success",
		})
		return Result{Outcome: OutcomeVerified}, nil
	}

	emp.PinAttempts++
	outcome := "failed"
	if policy.MaxAttempts > 0 && emp.PinAttempts >= policy.MaxAttempts {
		lockedUntil := now.Add(time.Duration(policy.LockoutMinutes) * time.Minute)
		emp.PinLockedUntil = &lockedUntil
		outcome = "locked"
	}
	if err := st.SaveEmployeePinState(ctx, emp); err != nil {
		return Result{}, err
	}
	_ = st.RecordAudit(ctx, &models.AuditRecord{
		EmployeeID: emp.ID,
		Method:     models.AuditMethodPin,
		Outcome:    outcome,
	})
	return Result{Outcome: OutcomeIncorrect}, nil
}
