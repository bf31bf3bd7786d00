package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/attendance"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/config"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/db"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/facedetect"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/facematch"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/models"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/routes"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/store/gormstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("timezone error: %v", err)
	}

	database, err := db.Open(cfg.DbDsn)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}

	st := gormstore.New(database)
	if err := st.EnsureOfficeLocation(context.Background(), &models.OfficeLocation{
		Name:              cfg.OfficeName,
		Latitude:          cfg.OfficeLatitude,
		Longitude:         cfg.OfficeLongitude,
		RadiusMeters:      cfg.OfficeRadiusMeters,
		AuthMode:          cfg.AuthMode,
		PinRequired:       cfg.PinRequired,
		PinMaxAttempts:    cfg.PinMaxAttempts,
		PinLockoutMinutes: cfg.PinLockoutMinutes,
	}); err != nil {
		log.Fatalf("office seed error: %v", err)
	}

	detector := facedetect.NewClient(cfg.DetectorURL)

	faceCfg := facematch.DefaultConfig()
	faceCfg.Strategy = cfg.FaceStrategy
	faceCfg.Threshold = cfg.FaceThreshold
	faceCfg.HighBand = cfg.FaceHighBand
	faceCfg.MediumBand = cfg.FaceMediumBand

	composer := attendance.NewComposer(
		st,
		detector,
		location,
		faceCfg,
		time.Duration(cfg.DetectorTimeoutSeconds)*time.Second,
	)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	routes.Register(router, st, composer, detector, cfg)

	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
