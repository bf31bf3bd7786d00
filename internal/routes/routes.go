package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/attendance"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/config"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/handlers"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/middleware"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/store"
)

func Register(router *gin.Engine, st store.Store, composer *attendance.Composer, detector attendance.Detector, cfg config.Config) {
	router.Use(corsMiddleware(cfg.AllowedOriginsRaw))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "api-presensi"})
	})

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handlers.NewAuthHandler(st, composer, cfg)
	attendanceHandler := handlers.NewAttendanceHandler(composer, st)
	faceHandler := handlers.NewFaceHandler(st, detector, time.Duration(cfg.DetectorTimeoutSeconds)*time.Second)

	api := router.Group("/api")
	{
		api.POST("/auth/token", authHandler.Token)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthRequired(cfg.JwtSecret))
	{
		protected.GET("/attendance", attendanceHandler.List)
		protected.POST("/attendance/checkin", attendanceHandler.CheckIn)
		protected.POST("/attendance/checkout", attendanceHandler.CheckOut)
		protected.POST("/attendance/verify-pin", attendanceHandler.VerifyPin)

		protected.POST("/faces/enroll", faceHandler.Enroll)
		protected.POST("/faces/reset", faceHandler.Reset)
	}
}

func corsMiddleware(allowed string) gin.HandlerFunc {
	origins := []string{}
	for _, origin := range strings.Split(allowed, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	allowAll := len(origins) == 0

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowedOrigin := range origins {
				if origin == allowedOrigin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					c.Writer.Header().Set("Vary", "Origin")
					break
				}
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
