package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/attendance"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/middleware"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/models"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/store"
)

const maxPhotoBytes = 8 << 20

type AttendanceHandler struct {
	Composer *attendance.Composer
	Store    store.Store
}

func NewAttendanceHandler(composer *attendance.Composer, st store.Store) *AttendanceHandler {
	return &AttendanceHandler{Composer: composer, Store: st}
}

func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	h.submit(c, models.EventClockIn)
}

func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	h.submit(c, models.EventClockOut)
}

// submit reads a multipart submission (photo file plus pin/latitude/longitude
// form fields) and hands it to the composer. The employee comes from the
// bearer token, never from the form.
func (h *AttendanceHandler) submit(c *gin.Context, eventType string) {
	employeeID, ok := contextEmployeeID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	latitude, err := strconv.ParseFloat(c.PostForm("latitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude"})
		return
	}
	longitude, err := strconv.ParseFloat(c.PostForm("longitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude"})
		return
	}

	photo, err := readPhoto(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid photo"})
		return
	}

	sub := attendance.Submission{
		EmployeeID: employeeID,
		Photo:      photo,
		Pin:        c.PostForm("pin"),
		Latitude:   latitude,
		Longitude:  longitude,
		Now:        time.Now(),
	}

	var decision attendance.Decision
	if eventType == models.EventClockIn {
		decision, err = h.Composer.SubmitClockIn(c.Request.Context(), sub)
	} else {
		decision, err = h.Composer.SubmitClockOut(c.Request.Context(), sub)
	}
	if err != nil {
		writeComposerError(c, err)
		return
	}

	c.JSON(statusForDecision(decision), decision)
}

type verifyPinRequest struct {
	Pin string `json:"pin" binding:"required"`
}

func (h *AttendanceHandler) VerifyPin(c *gin.Context) {
	employeeID, ok := contextEmployeeID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req verifyPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	result, err := h.Composer.VerifyPin(c.Request.Context(), employeeID, req.Pin, time.Now())
	if err != nil {
		writeComposerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outcome":              result.Outcome,
		"remainingLockSeconds": result.RemainingLockSeconds,
	})
}

func (h *AttendanceHandler) List(c *gin.Context) {
	employeeID, ok := contextEmployeeID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	events, err := h.Store.ListEventsForEmployee(c.Request.Context(), employeeID, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load attendance"})
		return
	}
	c.JSON(http.StatusOK, events)
}

func contextEmployeeID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(middleware.ContextEmployeeID)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func readPhoto(c *gin.Context) ([]byte, error) {
	file, _, err := c.Request.FormFile("photo")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxPhotoBytes))
}

func writeComposerError(c *gin.Context, err error) {
	if err == attendance.ErrEmployeeNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "submission failed"})
}

// statusForDecision maps reason codes to HTTP statuses following the error
// taxonomy: authorization failures 403, not-found 404, conflicts 409,
// retryable detector timeouts 504, malformed input 400. A rest day is not a
// failure and stays 200.
func statusForDecision(decision attendance.Decision) int {
	if decision.Accepted {
		return http.StatusCreated
	}
	switch decision.ReasonCode {
	case attendance.ReasonNotAWorkDay:
		return http.StatusOK
	case attendance.ReasonNoScheduleAssigned, attendance.ReasonNoReferenceEnrolled:
		return http.StatusNotFound
	case attendance.ReasonDuplicateEvent, attendance.ReasonNotClockedIn:
		return http.StatusConflict
	case attendance.ReasonOutsideWindow, attendance.ReasonOutOfRange,
		attendance.ReasonPinLocked, attendance.ReasonPinIncorrect,
		attendance.ReasonNoMatch, attendance.ReasonEmployeeInactive:
		return http.StatusForbidden
	case attendance.ReasonDetectionTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadRequest
	}
}
