package service

import (
	"context"
	"errors"
	"fmt"

	"carelog/internal/logger"
	"carelog/internal/model"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService { return &AdminService{db: db} }

// PendingStaff lists registrations waiting for approval, newest first.
func (s *AdminService) PendingStaff(ctx context.Context) ([]model.Staff, error) {
	var staff []model.Staff
	err := s.db.WithContext(ctx).Where("is_active = ?", false).
		Order("created_at DESC").Find(&staff).Error
	if err != nil {
		return nil, fmt.Errorf("query staff: %w", err)
	}
	return staff, nil
}

// Approve activates a pending staff account.
func (s *AdminService) Approve(ctx context.Context, staffID int) error {
	res := s.db.WithContext(ctx).Model(&model.Staff{}).
		Where("id = ?", staffID).Update("is_active", true)
	if res.Error != nil {
		return fmt.Errorf("approve staff: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("staff %d: %w", staffID, ErrNotFound)
	}
	logger.Info("staff.approved", "staff", staffID)
	return nil
}

// SetRole changes a staff member's system role.
func (s *AdminService) SetRole(ctx context.Context, staffID int, role string) error {
	if role != model.RoleAdmin && role != model.RoleMember {
		return invalid("role", "must be admin or member")
	}
	res := s.db.WithContext(ctx).Model(&model.Staff{}).
		Where("id = ?", staffID).Update("role", role)
	if res.Error != nil {
		return fmt.Errorf("set role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("staff %d: %w", staffID, ErrNotFound)
	}
	logger.Info("staff.role_changed", "staff", staffID, "role", role)
	return nil
}

// UpdateStaff changes a staff member's job type and/or role in one edit.
// Nil fields are left untouched.
func (s *AdminService) UpdateStaff(ctx context.Context, staffID int, req model.UpdateStaffRequest) error {
	updates := map[string]interface{}{}
	if req.JobTypeID != nil {
		var job model.JobType
		err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", *req.JobTypeID, true).First(&job).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid("job_type_id", "unknown or inactive job type")
			}
			return fmt.Errorf("query job type: %w", err)
		}
		updates["job_type_id"] = *req.JobTypeID
	}
	if req.Role != nil {
		if *req.Role != model.RoleAdmin && *req.Role != model.RoleMember {
			return invalid("role", "must be admin or member")
		}
		updates["role"] = *req.Role
	}
	if len(updates) == 0 {
		return invalid("staff", "nothing to update")
	}

	res := s.db.WithContext(ctx).Model(&model.Staff{}).Where("id = ?", staffID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update staff: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("staff %d: %w", staffID, ErrNotFound)
	}
	logger.Info("staff.updated", "staff", staffID, "fields", len(updates))
	return nil
}

// ExportPointLedger dumps the full ledger to a spreadsheet for offline
// reconciliation, newest entries first.
func (s *AdminService) ExportPointLedger(ctx context.Context) (*excelize.File, error) {
	var logs []model.PointLog
	err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("query point logs: %w", err)
	}

	var staff []model.Staff
	if err := s.db.WithContext(ctx).Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("query staff: %w", err)
	}
	names := make(map[int]string, len(staff))
	for _, st := range staff {
		names[st.ID] = st.Name
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"ID", "Staff", "Amount", "Reason", "Diary", "Created"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, log := range logs {
		diary := ""
		if log.DiaryID != nil {
			diary = fmt.Sprintf("%d", *log.DiaryID)
		}
		row := []interface{}{
			log.ID, names[log.StaffID], log.Amount, log.Reason, diary,
			log.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	return f, nil
}
