package handler

import (
	"net/http"

	"carelog/internal/model"
	"carelog/internal/service"

	"github.com/gin-gonic/gin"
)

type RankingHandler struct {
	ranking *service.RankingService
	points  *service.PointService
}

func NewRankingHandler(ranking *service.RankingService, points *service.PointService) *RankingHandler {
	return &RankingHandler{ranking: ranking, points: points}
}

// Ranking handles GET /api/ranking?category=&period=&day_of_week=&time_slot=.
func (h *RankingHandler) Ranking(c *gin.Context) {
	var filter model.RankingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter"})
		return
	}
	entries, err := h.ranking.Compute(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	if entries == nil {
		entries = []model.RankingEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// History handles GET /api/points/history.
func (h *RankingHandler) History(c *gin.Context) {
	logs, err := h.points.History(c.Request.Context(), c.GetInt("staff_id"), 100)
	if err != nil {
		fail(c, err)
		return
	}
	if logs == nil {
		logs = []model.PointLog{}
	}
	c.JSON(http.StatusOK, logs)
}

// Monthly handles GET /api/points/monthly.
func (h *RankingHandler) Monthly(c *gin.Context) {
	total, err := h.points.MonthlyTotal(c.Request.Context(), c.GetInt("staff_id"))
	if err != nil {
		fail(c, err)
		return
	}
	current, err := h.points.CurrentPoints(c.Request.Context(), c.GetInt("staff_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"monthly_points": total, "current_points": current})
}
