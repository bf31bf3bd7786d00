package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FaceReference stores one enrolled face descriptor for an employee.
// Enrollment creates new rows; reset flips IsActive instead of deleting, so
// the enrollment history survives for audit purposes.
type FaceReference struct {
	ID         uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	EmployeeID uuid.UUID       `gorm:"type:char(36);index;not null" json:"employeeId"`
	Descriptor json.RawMessage `gorm:"type:json;not null" json:"-"`
	IsActive   bool            `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (r *FaceReference) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
