package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"carelog/internal/logger"
	"carelog/internal/model"

	"gorm.io/gorm"
)

// lockStripes bounds the toggle lock table. A stripe collision between two
// unrelated (diary, staff) pairs only widens the critical section; it never
// changes the outcome.
const lockStripes = 64

// StatusService toggles a staff member's personal status on a diary and
// keeps the action log, the point ledger and the diary's aggregate status
// consistent. The whole read-decide-write bundle runs under a striped
// per-(diary,staff) lock inside one transaction, so a rapid double-toggle
// cannot double-award or miss a revoke.
type StatusService struct {
	db    *gorm.DB
	locks [lockStripes]sync.Mutex
}

func NewStatusService(db *gorm.DB) *StatusService {
	return &StatusService{db: db}
}

func (s *StatusService) pairLock(diaryID, staffID int) *sync.Mutex {
	return &s.locks[(uint(diaryID)*31+uint(staffID))%lockStripes]
}

func validToggleStatus(status string) bool {
	switch status {
	case model.StatusConfirmed, model.StatusWorking, model.StatusSolved:
		return true
	}
	return false
}

// Toggle applies requested as the staff member's personal status on the
// diary. Requesting the current status deactivates it back to UNREAD and
// revokes the earlier award; anything else activates it and awards points
// once (re-sending the same activation is a paid no-op). Returns whether
// the call was a deactivation and the diary's resulting aggregate status.
func (s *StatusService) Toggle(ctx context.Context, diaryID, staffID int, requested string) (isToggleOff bool, diaryStatus string, err error) {
	if !validToggleStatus(requested) {
		return false, "", fmt.Errorf("status %q: %w", requested, ErrInvalidStatus)
	}

	l := s.pairLock(diaryID, staffID)
	l.Lock()
	defer l.Unlock()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var diary model.Diary
		if err := tx.First(&diary, diaryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("diary %d: %w", diaryID, ErrNotFound)
			}
			return fmt.Errorf("query diary: %w", err)
		}
		if diary.IsDeleted {
			return fmt.Errorf("diary %d: %w", diaryID, ErrNotFound)
		}
		var staff model.Staff
		if err := tx.First(&staff, staffID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("staff %d: %w", staffID, ErrNotFound)
			}
			return fmt.Errorf("query staff: %w", err)
		}

		current := model.StatusUnread
		var uds model.UserDiaryStatus
		found := true
		if err := tx.Where("diary_id = ? AND staff_id = ?", diaryID, staffID).First(&uds).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("query user status: %w", err)
			}
			found = false
		} else {
			current = uds.Status
		}

		isToggleOff = requested == current
		next := requested
		if isToggleOff {
			next = model.StatusUnread
		}

		if found {
			if err := tx.Model(&uds).Updates(map[string]interface{}{
				"status":     next,
				"updated_at": time.Now(),
			}).Error; err != nil {
				return fmt.Errorf("update user status: %w", err)
			}
		} else {
			uds = model.UserDiaryStatus{DiaryID: diaryID, StaffID: staffID, Status: next}
			if err := tx.Create(&uds).Error; err != nil {
				return fmt.Errorf("insert user status: %w", err)
			}
		}

		if isToggleOff {
			if err := s.revoke(tx, diaryID, staffID, requested); err != nil {
				return err
			}
		} else {
			if err := s.activate(tx, diaryID, staffID, requested); err != nil {
				return err
			}
		}

		diaryStatus, err = s.reconcileAggregate(tx, &diary, staffID, requested, isToggleOff)
		return err
	})
	if err != nil {
		return false, "", err
	}

	logger.Info("status.toggle", "diary", diaryID, "staff", staffID,
		"status", requested, "off", isToggleOff, "aggregate", diaryStatus)
	return isToggleOff, diaryStatus, nil
}

// activate awards points for the action exactly once: an existing action
// log row means this activation was already paid.
func (s *StatusService) activate(tx *gorm.DB, diaryID, staffID int, action string) error {
	var al model.ActionLog
	err := tx.Where("diary_id = ? AND staff_id = ? AND action_type = ?", diaryID, staffID, action).
		First(&al).Error
	if err == nil {
		return nil // already paid
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("query action log: %w", err)
	}

	pts := PointsFor(action)
	did := diaryID
	al = model.ActionLog{DiaryID: &did, StaffID: staffID, ActionType: action, PointsAwarded: pts}
	if err := tx.Create(&al).Error; err != nil {
		return fmt.Errorf("insert action log: %w", err)
	}
	return award(tx, staffID, pts, "action: "+action, &did)
}

// revoke deletes the action log row and claws the points back. A missing
// row means nothing was awarded; that is a benign no-op.
func (s *StatusService) revoke(tx *gorm.DB, diaryID, staffID int, action string) error {
	var al model.ActionLog
	err := tx.Where("diary_id = ? AND staff_id = ? AND action_type = ?", diaryID, staffID, action).
		First(&al).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("query action log: %w", err)
	}

	if err := tx.Delete(&al).Error; err != nil {
		return fmt.Errorf("delete action log: %w", err)
	}
	did := diaryID
	return award(tx, staffID, -al.PointsAwarded, "revoke: "+action, &did)
}

// reconcileAggregate recomputes the diary's visible status after a toggle.
// SOLVED dominates: one participant marking solved sets the diary solved
// regardless of everyone else, and while solved no other toggle changes the
// aggregate. Un-solving does not restore the previous value; it falls back
// to a scan of the remaining per-user statuses (WORKING wins over
// CONFIRMED). Other activations are last-write-wins.
func (s *StatusService) reconcileAggregate(tx *gorm.DB, diary *model.Diary, staffID int, toggled string, off bool) (string, error) {
	set := func(updates map[string]interface{}) (string, error) {
		if err := tx.Model(&model.Diary{}).Where("id = ?", diary.ID).Updates(updates).Error; err != nil {
			return "", fmt.Errorf("update diary status: %w", err)
		}
		return updates["current_status"].(string), nil
	}

	switch {
	case toggled == model.StatusSolved && !off:
		now := time.Now()
		return set(map[string]interface{}{
			"current_status": model.StatusSolved,
			"solved_by":      staffID,
			"solved_at":      now,
		})

	case toggled == model.StatusSolved && off:
		next, err := s.fallbackStatus(tx, diary.ID)
		if err != nil {
			return "", err
		}
		return set(map[string]interface{}{
			"current_status": next,
			"solved_by":      nil,
			"solved_at":      nil,
		})

	case diary.CurrentStatus == model.StatusSolved:
		// solved dominates until explicitly un-solved
		return diary.CurrentStatus, nil

	case !off:
		return set(map[string]interface{}{"current_status": toggled})

	default:
		// deactivation of a non-SOLVED status: recompute from what remains
		next, err := s.fallbackStatus(tx, diary.ID)
		if err != nil {
			return "", err
		}
		return set(map[string]interface{}{"current_status": next})
	}
}

// fallbackStatus scans the remaining non-UNREAD per-user statuses:
// WORKING beats CONFIRMED, otherwise the diary reverts to UNREAD.
func (s *StatusService) fallbackStatus(tx *gorm.DB, diaryID int) (string, error) {
	var rows []model.UserDiaryStatus
	err := tx.Where("diary_id = ? AND status <> ?", diaryID, model.StatusUnread).Find(&rows).Error
	if err != nil {
		return "", fmt.Errorf("scan user statuses: %w", err)
	}

	next := model.StatusUnread
	for _, r := range rows {
		if r.Status == model.StatusWorking {
			return model.StatusWorking, nil
		}
		if r.Status == model.StatusConfirmed {
			next = model.StatusConfirmed
		}
	}
	return next, nil
}
