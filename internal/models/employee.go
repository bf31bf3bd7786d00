package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID             uuid.UUID     `gorm:"type:char(36);primaryKey" json:"id"`
	EmployeeNumber string        `gorm:"uniqueIndex;size:50;not null" json:"employeeNumber"`
	Name           string        `gorm:"size:255;not null" json:"name"`
	PinHash        string        `gorm:"size:255;not null" json:"-"`
	PinAttempts    int           `gorm:"not null;default:0" json:"-"`
	PinLockedUntil *time.Time    `json:"-"`
	ScheduleID     *uuid.UUID    `gorm:"type:char(36);index" json:"scheduleId,omitempty"`
	Schedule       *WorkSchedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`
	IsActive       bool          `gorm:"not null;default:true" json:"isActive"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
