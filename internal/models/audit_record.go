package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit methods.
const (
	AuditMethodPin      = "pin"
	AuditMethodFace     = "face"
	AuditMethodDecision = "decision"
)

// AuditRecord is an append-only log entry for every verification attempt and
// every terminal attendance decision, success or failure.
type AuditRecord struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:char(36);index;not null" json:"employeeId"`
	Method     string    `gorm:"size:20;not null" json:"method"`
	Outcome    string    `gorm:"size:40;not null" json:"outcome"`
	Detail     string    `gorm:"size:255" json:"detail,omitempty"`
	Similarity *float64  `json:"similarity,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

func (r *AuditRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
