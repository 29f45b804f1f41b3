package handler

import (
	"net/http"

	"carelog/internal/logger"
	"carelog/internal/middleware"
	"carelog/internal/model"
	"carelog/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ auth *service.AuthService }

func NewAuthHandler(auth *service.AuthService) *AuthHandler { return &AuthHandler{auth: auth} }

// Register handles POST /api/register. The account stays inactive until approved.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	staff, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": staff.ID, "pending_approval": true})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	staff, err := h.auth.Login(c.Request.Context(), req.LoginID, req.Password)
	if err != nil {
		logger.Warn("login.failed", "login_id", req.LoginID)
		fail(c, err)
		return
	}

	logger.Info("login.ok", "staff", staff.ID, "name", staff.Name)

	token, err := middleware.IssueToken(staff.ID, staff.Name, staff.Role)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, model.LoginResponse{
		Token: token,
		User: model.User{
			ID: staff.ID, Name: staff.Name, Role: staff.Role,
			JobTypeID: staff.JobTypeID, CurrentPoints: staff.CurrentPoints,
		},
	})
}

// UpdateProfile handles PUT /api/profile for the signed-in staff member.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.auth.UpdateProfile(c.Request.Context(), c.GetInt("staff_id"), req); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UpdatePassword handles PUT /api/profile/password.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req model.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.auth.UpdatePassword(c.Request.Context(), c.GetInt("staff_id"), req.CurrentPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Staff handles GET /api/staff, the active staff list for the mention picker.
func (h *AuthHandler) Staff(c *gin.Context) {
	staff, err := h.auth.ActiveStaff(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

// JobTypes handles GET /api/job_types.
func (h *AuthHandler) JobTypes(c *gin.Context) {
	jobs, err := h.auth.JobTypes(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}
