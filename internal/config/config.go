package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv           string
	Addr             string
	DbDsn            string
	JwtSecret        string
	JwtAccessMinutes int

	Timezone string

	DetectorURL            string
	DetectorTimeoutSeconds int

	OfficeName         string
	OfficeLatitude     float64
	OfficeLongitude    float64
	OfficeRadiusMeters float64
	AuthMode           string
	PinRequired        bool
	PinMaxAttempts     int
	PinLockoutMinutes  int

	FaceStrategy   string
	FaceThreshold  float64
	FaceHighBand   float64
	FaceMediumBand float64

	AllowedOriginsRaw string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:           getEnv("APP_ENV", "local"),
		Addr:             getEnv("APP_ADDR", ":8080"),
		DbDsn:            os.Getenv("DB_DSN"),
		JwtSecret:        os.Getenv("JWT_SECRET"),
		JwtAccessMinutes: getEnvInt("JWT_ACCESS_MINUTES", 720),

		Timezone: getEnv("APP_TIMEZONE", "Asia/Jakarta"),

		DetectorURL:            os.Getenv("DETECTOR_URL"),
		DetectorTimeoutSeconds: getEnvInt("DETECTOR_TIMEOUT_SECONDS", 10),

		OfficeName:         getEnv("OFFICE_NAME", "Head Office"),
		OfficeLatitude:     getEnvFloat("OFFICE_LATITUDE", 0),
		OfficeLongitude:    getEnvFloat("OFFICE_LONGITUDE", 0),
		OfficeRadiusMeters: getEnvFloat("OFFICE_RADIUS_METERS", 100),
		AuthMode:           getEnv("AUTH_MODE", "face-and-pin"),
		PinRequired:        getEnvBool("PIN_REQUIRED", true),
		PinMaxAttempts:     getEnvInt("PIN_MAX_ATTEMPTS", 3),
		PinLockoutMinutes:  getEnvInt("PIN_LOCKOUT_MINUTES", 15),

		FaceStrategy:   getEnv("FACE_STRATEGY", "auto"),
		FaceThreshold:  getEnvFloat("FACE_THRESHOLD", 0.65),
		FaceHighBand:   getEnvFloat("FACE_HIGH_BAND", 0.80),
		FaceMediumBand: getEnvFloat("FACE_MEDIUM_BAND", 0.65),

		AllowedOriginsRaw: getEnv("ALLOWED_ORIGINS", ""),
	}

	missing := []string{}
	if cfg.DbDsn == "" {
		missing = append(missing, "DB_DSN")
	}
	if cfg.JwtSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.DetectorURL == "" {
		missing = append(missing, "DETECTOR_URL")
	}

	if len(missing) > 0 {
		return cfg, errors.New("missing env: " + strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
