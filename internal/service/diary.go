package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carelog/internal/logger"
	"carelog/internal/model"

	"gorm.io/gorm"
)

type DiaryService struct {
	db *gorm.DB
}

func NewDiaryService(db *gorm.DB) *DiaryService { return &DiaryService{db: db} }

// Create posts a diary or a threaded reply. Replies inherit the parent's
// category and target date and cannot themselves be replied to. The
// creation award (POST_DIARY or REPLY) is recorded in the action log and
// settled on the ledger in the same transaction as the row itself.
func (s *DiaryService) Create(ctx context.Context, staffID int, req model.CreateDiaryRequest) (*model.Diary, error) {
	if req.Content == "" {
		return nil, invalid("content", "required")
	}

	diary := model.Diary{
		StaffID:       staffID,
		Title:         req.Title,
		Content:       req.Content,
		IsUrgent:      req.IsUrgent,
		Deadline:      req.Deadline,
		CurrentStatus: model.StatusUnread,
	}

	action := model.ActionPostDiary
	if req.ParentID != nil {
		var parent model.Diary
		if err := s.db.WithContext(ctx).First(&parent, *req.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("parent diary %d: %w", *req.ParentID, ErrNotFound)
			}
			return nil, fmt.Errorf("query parent: %w", err)
		}
		if parent.IsDeleted {
			return nil, fmt.Errorf("parent diary %d: %w", *req.ParentID, ErrNotFound)
		}
		if parent.ParentID != nil {
			return nil, invalid("parent_id", "cannot reply to a reply")
		}
		diary.ParentID = req.ParentID
		diary.CategoryID = parent.CategoryID
		diary.TargetDate = parent.TargetDate
		action = model.ActionReply
	} else {
		if req.Title == "" {
			return nil, invalid("title", "required")
		}
		if req.TargetDate == "" {
			req.TargetDate = time.Now().Format("2006-01-02")
		}
		var category model.Category
		err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", req.CategoryID, true).First(&category).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, invalid("category_id", "unknown or inactive category")
			}
			return nil, fmt.Errorf("query category: %w", err)
		}
		diary.CategoryID = req.CategoryID
		diary.TargetDate = req.TargetDate
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&diary).Error; err != nil {
			return fmt.Errorf("insert diary: %w", err)
		}
		pts := PointsFor(action)
		al := model.ActionLog{DiaryID: &diary.ID, StaffID: staffID, ActionType: action, PointsAwarded: pts}
		if err := tx.Create(&al).Error; err != nil {
			return fmt.Errorf("insert action log: %w", err)
		}
		return award(tx, staffID, pts, "post: "+action, &diary.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("diary.created", "diary", diary.ID, "staff", staffID, "action", action)
	return &diary, nil
}

// ListByDate returns the visible top-level diaries for one target date,
// newest first, with participant statuses and replies attached.
func (s *DiaryService) ListByDate(ctx context.Context, targetDate string) ([]model.DiaryView, error) {
	if targetDate == "" {
		targetDate = time.Now().Format("2006-01-02")
	}

	var diaries []model.Diary
	err := s.db.WithContext(ctx).
		Where("target_date = ? AND parent_id IS NULL AND is_deleted = ? AND is_hidden = ?",
			targetDate, false, false).
		Order("created_at DESC").Find(&diaries).Error
	if err != nil {
		return nil, fmt.Errorf("query diaries: %w", err)
	}

	views := make([]model.DiaryView, 0, len(diaries))
	for _, d := range diaries {
		v, err := s.buildView(ctx, d, true)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Get returns one diary with statuses and replies.
func (s *DiaryService) Get(ctx context.Context, diaryID int) (*model.DiaryView, error) {
	var diary model.Diary
	if err := s.db.WithContext(ctx).First(&diary, diaryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("diary %d: %w", diaryID, ErrNotFound)
		}
		return nil, fmt.Errorf("query diary: %w", err)
	}
	if diary.IsDeleted {
		return nil, fmt.Errorf("diary %d: %w", diaryID, ErrNotFound)
	}
	v, err := s.buildView(ctx, diary, diary.ParentID == nil)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *DiaryService) buildView(ctx context.Context, d model.Diary, withReplies bool) (model.DiaryView, error) {
	v := model.DiaryView{Diary: d}

	var category model.Category
	if err := s.db.WithContext(ctx).First(&category, d.CategoryID).Error; err == nil {
		v.CategoryName = category.Name
	}
	var author model.Staff
	if err := s.db.WithContext(ctx).First(&author, d.StaffID).Error; err == nil {
		v.StaffName = author.Name
	}

	var statuses []model.UserDiaryStatus
	err := s.db.WithContext(ctx).
		Where("diary_id = ? AND status <> ?", d.ID, model.StatusUnread).
		Order("updated_at").Find(&statuses).Error
	if err != nil {
		return v, fmt.Errorf("query user statuses: %w", err)
	}
	for _, st := range statuses {
		sv := model.StatusView{StaffID: st.StaffID, Status: st.Status, UpdatedAt: st.UpdatedAt}
		var staff model.Staff
		if err := s.db.WithContext(ctx).First(&staff, st.StaffID).Error; err == nil {
			sv.StaffName = staff.Name
		}
		v.Statuses = append(v.Statuses, sv)
	}

	if withReplies {
		var replies []model.Diary
		err := s.db.WithContext(ctx).
			Where("parent_id = ? AND is_deleted = ?", d.ID, false).
			Order("created_at").Find(&replies).Error
		if err != nil {
			return v, fmt.Errorf("query replies: %w", err)
		}
		for _, r := range replies {
			rv, err := s.buildView(ctx, r, false)
			if err != nil {
				return v, err
			}
			v.Replies = append(v.Replies, rv)
		}
	}
	return v, nil
}

// Update edits title/content/urgency/deadline and stamps the editor. Only
// the author or an admin may edit. Category and target date are fixed at
// creation so reply inheritance never diverges.
func (s *DiaryService) Update(ctx context.Context, diaryID, editorID int, isAdmin bool, req model.UpdateDiaryRequest) error {
	if req.Content == "" {
		return invalid("content", "required")
	}

	var diary model.Diary
	if err := s.db.WithContext(ctx).First(&diary, diaryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("diary %d: %w", diaryID, ErrNotFound)
		}
		return fmt.Errorf("query diary: %w", err)
	}
	if diary.IsDeleted {
		return fmt.Errorf("diary %d: %w", diaryID, ErrNotFound)
	}
	if diary.StaffID != editorID && !isAdmin {
		return ErrForbidden
	}

	now := time.Now()
	err := s.db.WithContext(ctx).Model(&diary).Updates(map[string]interface{}{
		"title":     req.Title,
		"content":   req.Content,
		"is_urgent": req.IsUrgent,
		"deadline":  req.Deadline,
		"edited_by": editorID,
		"edited_at": now,
	}).Error
	if err != nil {
		return fmt.Errorf("update diary: %w", err)
	}
	logger.Info("diary.edited", "diary", diaryID, "editor", editorID)
	return nil
}

// Delete soft-deletes a diary. Only the author or an admin may delete.
func (s *DiaryService) Delete(ctx context.Context, diaryID, staffID int, isAdmin bool) error {
	var diary model.Diary
	if err := s.db.WithContext(ctx).First(&diary, diaryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("diary %d: %w", diaryID, ErrNotFound)
		}
		return fmt.Errorf("query diary: %w", err)
	}
	if diary.StaffID != staffID && !isAdmin {
		return ErrForbidden
	}
	if err := s.db.WithContext(ctx).Model(&diary).Update("is_deleted", true).Error; err != nil {
		return fmt.Errorf("delete diary: %w", err)
	}
	logger.Info("diary.deleted", "diary", diaryID, "staff", staffID)
	return nil
}

// SetHidden hides or unhides a diary from the list view.
func (s *DiaryService) SetHidden(ctx context.Context, diaryID int, hidden bool) error {
	res := s.db.WithContext(ctx).Model(&model.Diary{}).
		Where("id = ? AND is_deleted = ?", diaryID, false).
		Update("is_hidden", hidden)
	if res.Error != nil {
		return fmt.Errorf("update diary: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("diary %d: %w", diaryID, ErrNotFound)
	}
	return nil
}

// Categories lists the active categories for the post form.
func (s *DiaryService) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	return categories, nil
}
