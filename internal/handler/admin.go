package handler

import (
	"net/http"
	"strconv"

	"carelog/internal/model"
	"carelog/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	admin   *service.AdminService
	diaries *service.DiaryService
}

func NewAdminHandler(admin *service.AdminService, diaries *service.DiaryService) *AdminHandler {
	return &AdminHandler{admin: admin, diaries: diaries}
}

// Pending handles GET /api/admin/staff/pending.
func (h *AdminHandler) Pending(c *gin.Context) {
	staff, err := h.admin.PendingStaff(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

// Approve handles POST /api/admin/staff/:id/approve.
func (h *AdminHandler) Approve(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.admin.Approve(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SetRole handles PUT /api/admin/staff/:id/role.
func (h *AdminHandler) SetRole(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.admin.SetRole(c.Request.Context(), id, req.Role); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UpdateStaff handles PUT /api/admin/staff/:id (job type and/or role).
func (h *AdminHandler) UpdateStaff(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req model.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.admin.UpdateStaff(c.Request.Context(), id, req); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SetHidden handles PUT /api/admin/diaries/:id/hidden.
func (h *AdminHandler) SetHidden(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Hidden bool `json:"hidden"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.diaries.SetHidden(c.Request.Context(), id, req.Hidden); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ExportPoints handles GET /api/admin/points/export and returns the ledger as xlsx.
func (h *AdminHandler) ExportPoints(c *gin.Context) {
	f, err := h.admin.ExportPointLedger(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="point_ledger.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		fail(c, err)
	}
}
