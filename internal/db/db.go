package db

import (
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func Open(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(
		&models.WorkSchedule{},
		&models.Employee{},
		&models.FaceReference{},
		&models.OfficeLocation{},
		&models.AttendanceEvent{},
		&models.AuditRecord{},
	); err != nil {
		return nil, err
	}

	return database, nil
}
