package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/attendance"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/config"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/pinauth"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/store"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/utils"
)

type AuthHandler struct {
	Store    store.Store
	Composer *attendance.Composer
	Cfg      config.Config
}

func NewAuthHandler(st store.Store, composer *attendance.Composer, cfg config.Config) *AuthHandler {
	return &AuthHandler{Store: st, Composer: composer, Cfg: cfg}
}

type tokenRequest struct {
	EmployeeNumber string `json:"employeeNumber" binding:"required"`
	Pin            string `json:"pin" binding:"required"`
}

// Token exchanges an employee number and PIN for a bearer token. The PIN
// check goes through the same verifier as attendance submissions, so failed
// logins count toward the lockout and locked accounts cannot mint tokens.
func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	emp, err := h.Store.GetEmployeeByNumber(c.Request.Context(), req.EmployeeNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if !emp.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "employee inactive"})
		return
	}

	result, err := h.Composer.VerifyPin(c.Request.Context(), emp.ID, req.Pin, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	switch result.Outcome {
	case pinauth.OutcomeLocked:
		c.JSON(http.StatusForbidden, gin.H{
			"error":                "pin locked",
			"remainingLockSeconds": result.RemainingLockSeconds,
		})
		return
	case pinauth.OutcomeIncorrect:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := utils.GenerateAccessToken(emp.ID.String(), h.Cfg.JwtSecret, h.Cfg.JwtAccessMinutes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"employeeId":  emp.ID,
		"name":        emp.Name,
	})
}
