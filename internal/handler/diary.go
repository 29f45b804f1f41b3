package handler

import (
	"net/http"
	"strconv"

	"carelog/internal/model"
	"carelog/internal/service"

	"github.com/gin-gonic/gin"
)

type DiaryHandler struct {
	diaries *service.DiaryService
	status  *service.StatusService
	auth    *service.AuthService
}

func NewDiaryHandler(diaries *service.DiaryService, status *service.StatusService, auth *service.AuthService) *DiaryHandler {
	return &DiaryHandler{diaries: diaries, status: status, auth: auth}
}

func diaryID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func isAdmin(c *gin.Context) bool { return c.GetString("staff_role") == model.RoleAdmin }

// Create handles POST /api/diaries. It posts an entry or a reply and awards
// the creation points.
func (h *DiaryHandler) Create(c *gin.Context) {
	var req model.CreateDiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	diary, err := h.diaries.Create(c.Request.Context(), c.GetInt("staff_id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, diary)
}

// List handles GET /api/diaries?date=YYYY-MM-DD.
func (h *DiaryHandler) List(c *gin.Context) {
	views, err := h.diaries.ListByDate(c.Request.Context(), c.Query("date"))
	if err != nil {
		fail(c, err)
		return
	}
	if views == nil {
		views = []model.DiaryView{}
	}
	c.JSON(http.StatusOK, views)
}

// Get handles GET /api/diaries/:id.
func (h *DiaryHandler) Get(c *gin.Context) {
	id, ok := diaryID(c)
	if !ok {
		return
	}
	view, err := h.diaries.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Update handles PUT /api/diaries/:id.
func (h *DiaryHandler) Update(c *gin.Context) {
	id, ok := diaryID(c)
	if !ok {
		return
	}
	var req model.UpdateDiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.diaries.Update(c.Request.Context(), id, c.GetInt("staff_id"), isAdmin(c), req); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete handles DELETE /api/diaries/:id as a soft delete.
func (h *DiaryHandler) Delete(c *gin.Context) {
	id, ok := diaryID(c)
	if !ok {
		return
	}
	if err := h.diaries.Delete(c.Request.Context(), id, c.GetInt("staff_id"), isAdmin(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Toggle handles POST /api/diaries/:id/status.
func (h *DiaryHandler) Toggle(c *gin.Context) {
	id, ok := diaryID(c)
	if !ok {
		return
	}
	var req model.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	off, diaryStatus, err := h.status.Toggle(c.Request.Context(), id, c.GetInt("staff_id"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ToggleResponse{Success: true, IsToggleOff: off, DiaryStatus: diaryStatus})
}

// Categories handles GET /api/categories.
func (h *DiaryHandler) Categories(c *gin.Context) {
	categories, err := h.diaries.Categories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// ResolveMentions handles POST /api/mentions/resolve. It previews which staff
// a body text would address.
func (h *DiaryHandler) ResolveMentions(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	staff, err := h.auth.ActiveStaff(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	jobs, err := h.auth.JobTypes(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ids := service.ResolveMentions(req.Text, staff, jobs)
	if ids == nil {
		ids = []int{}
	}
	c.JSON(http.StatusOK, gin.H{"staff_ids": ids})
}
