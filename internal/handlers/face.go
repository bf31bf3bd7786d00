package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/attendance"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/facematch"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/models"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/store"
)

type FaceHandler struct {
	Store         store.Store
	Detector      attendance.Detector
	DetectTimeout time.Duration
}

func NewFaceHandler(st store.Store, detector attendance.Detector, detectTimeout time.Duration) *FaceHandler {
	return &FaceHandler{Store: st, Detector: detector, DetectTimeout: detectTimeout}
}

// Enroll detects exactly one face in the uploaded photo and stores its
// descriptor as a new active reference. Existing references stay active;
// matching keeps the best score across all of them.
func (h *FaceHandler) Enroll(c *gin.Context) {
	employeeID, ok := contextEmployeeID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	photo, err := readPhoto(c)
	if err != nil || len(photo) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.DetectTimeout)
	defer cancel()
	faces, err := h.Detector.Detect(ctx, photo)
	if err != nil {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "face detection failed"})
		return
	}
	if len(faces) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no face detected"})
		_ = h.Store.RecordAudit(c.Request.Context(), &models.AuditRecord{
			EmployeeID: employeeID,
			Method:     models.AuditMethodFace,
			Outcome:    "enroll_no_face",
		})
		return
	}
	if len(faces) > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multiple faces detected, retake the photo"})
		return
	}

	descriptor, err := facematch.EncodeDescriptor(faces[0].Descriptor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enroll failed"})
		return
	}

	ref := &models.FaceReference{
		EmployeeID: employeeID,
		Descriptor: descriptor,
		IsActive:   true,
	}
	if err := h.Store.CreateFaceReference(c.Request.Context(), ref); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enroll failed"})
		return
	}

	_ = h.Store.RecordAudit(c.Request.Context(), &models.AuditRecord{
		EmployeeID: employeeID,
		Method:     models.AuditMethodFace,
		Outcome:    "enrolled",
	})

	c.JSON(http.StatusCreated, gin.H{"id": ref.ID, "isActive": true})
}

// Reset deactivates all active references; history rows are kept.
func (h *FaceHandler) Reset(c *gin.Context) {
	employeeID, ok := contextEmployeeID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	count, err := h.Store.DeactivateFaceReferences(c.Request.Context(), employeeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset failed"})
		return
	}

	_ = h.Store.RecordAudit(c.Request.Context(), &models.AuditRecord{
		EmployeeID: employeeID,
		Method:     models.AuditMethodFace,
		Outcome:    "references_reset",
	})

	c.JSON(http.StatusOK, gin.H{"deactivated": count})
}
