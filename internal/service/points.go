package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carelog/internal/model"

	"gorm.io/gorm"
)

// Point amounts per action type.
const (
	PointsConfirmed = 1
	PointsWorking   = 5
	PointsSolved    = 10
	PointsReply     = 3
	PointsPostDiary = 2
)

// PointsFor returns the award for an action type; unknown actions earn 0.
func PointsFor(action string) int {
	switch action {
	case model.StatusConfirmed:
		return PointsConfirmed
	case model.StatusWorking:
		return PointsWorking
	case model.StatusSolved:
		return PointsSolved
	case model.ActionReply:
		return PointsReply
	case model.ActionPostDiary:
		return PointsPostDiary
	default:
		return 0
	}
}

// PointService is the ledger: every settlement appends a PointLog row and
// moves the denormalized running total on the staff row in the same
// transaction, so the total never drifts from the ledger sum.
type PointService struct {
	db *gorm.DB
}

func NewPointService(db *gorm.DB) *PointService { return &PointService{db: db} }

// Award settles a signed delta for one staff member. Negative amounts
// revoke; the running total is not clamped at zero.
func (s *PointService) Award(ctx context.Context, staffID, amount int, reason string, diaryID *int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return award(tx, staffID, amount, reason, diaryID)
	})
}

// award runs inside the caller's transaction so the ledger entry and the
// total increment commit or roll back together with the caller's writes.
func award(tx *gorm.DB, staffID, amount int, reason string, diaryID *int) error {
	entry := model.PointLog{StaffID: staffID, Amount: amount, Reason: reason, DiaryID: diaryID}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("append point log: %w", err)
	}
	res := tx.Model(&model.Staff{}).Where("id = ?", staffID).
		Update("current_points", gorm.Expr("current_points + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("update staff points: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("staff %d: %w", staffID, ErrNotFound)
	}
	return nil
}

// History returns the newest ledger entries for one staff member.
func (s *PointService) History(ctx context.Context, staffID, limit int) ([]model.PointLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var logs []model.PointLog
	err := s.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("query point logs: %w", err)
	}
	return logs, nil
}

// MonthlyTotal sums this month's ledger entries for one staff member.
func (s *PointService) MonthlyTotal(ctx context.Context, staffID int) (int, error) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var total int
	err := s.db.WithContext(ctx).Model(&model.PointLog{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("staff_id = ? AND created_at >= ?", staffID, startOfMonth).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum monthly points: %w", err)
	}
	return total, nil
}

// CurrentPoints reads the denormalized running total.
func (s *PointService) CurrentPoints(ctx context.Context, staffID int) (int, error) {
	var staff model.Staff
	if err := s.db.WithContext(ctx).First(&staff, staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("staff %d: %w", staffID, ErrNotFound)
		}
		return 0, fmt.Errorf("query staff: %w", err)
	}
	return staff.CurrentPoints, nil
}
