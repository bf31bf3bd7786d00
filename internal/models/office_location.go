package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Authentication modes for attendance submissions.
const (
	AuthModeFaceOnly   = "face-only"
	AuthModePinOnly    = "pin-only"
	AuthModeFaceAndPin = "face-and-pin"
)

// OfficeLocation defines the geofence and the authentication policy in force
// at decision time. It is re-read from the store on every submission so policy
// changes apply without a restart.
type OfficeLocation struct {
	ID                uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name              string    `gorm:"size:120;not null" json:"name"`
	Latitude          float64   `gorm:"not null" json:"latitude"`
	Longitude         float64   `gorm:"not null" json:"longitude"`
	RadiusMeters      float64   `gorm:"not null" json:"radiusMeters"`
	AuthMode          string    `gorm:"size:20;not null;default:face-and-pin" json:"authMode"`
	PinRequired       bool      `gorm:"not null;default:true" json:"pinRequired"`
	PinMaxAttempts    int       `gorm:"not null;default:3" json:"pinMaxAttempts"`
	PinLockoutMinutes int       `gorm:"not null;default:15" json:"pinLockoutMinutes"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (o *OfficeLocation) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// RequiresFace reports whether the auth mode includes the face factor.
func (o *OfficeLocation) RequiresFace() bool {
	return o.AuthMode == AuthModeFaceOnly || o.AuthMode == AuthModeFaceAndPin
}

// RequiresPin reports whether the auth mode includes the PIN factor and the
// PIN policy is switched on.
func (o *OfficeLocation) RequiresPin() bool {
	if !o.PinRequired {
		return false
	}
	return o.AuthMode == AuthModePinOnly || o.AuthMode == AuthModeFaceAndPin
}
