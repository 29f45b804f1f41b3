package service

import (
	"context"
	"errors"
	"fmt"

	"carelog/internal/logger"
	"carelog/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService { return &AuthService{db: db} }

// Register creates a staff account that stays inactive until an admin
// approves it.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.Staff, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Staff{}).
		Where("login_id = ?", req.LoginID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("query staff: %w", err)
	}
	if count > 0 {
		return nil, invalid("login_id", "already taken")
	}

	var job model.JobType
	err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", req.JobTypeID, true).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("job_type_id", "unknown or inactive job type")
		}
		return nil, fmt.Errorf("query job type: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	staff := model.Staff{
		Name:         req.Name,
		LoginID:      req.LoginID,
		PasswordHash: string(hash),
		Email:        req.Email,
		JobTypeID:    req.JobTypeID,
		Role:         model.RoleMember,
		IsActive:     false,
	}
	if err := s.db.WithContext(ctx).Create(&staff).Error; err != nil {
		return nil, fmt.Errorf("insert staff: %w", err)
	}

	logger.Info("staff.registered", "staff", staff.ID, "login", staff.LoginID)
	return &staff, nil
}

// Login authenticates by login id and password; unapproved accounts are
// rejected after the password check so probing cannot tell them apart
// from wrong passwords without valid credentials.
func (s *AuthService) Login(ctx context.Context, loginID, password string) (*model.Staff, error) {
	var staff model.Staff
	if err := s.db.WithContext(ctx).Where("login_id = ?", loginID).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoginFailed
		}
		return nil, fmt.Errorf("query staff: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)) != nil {
		return nil, ErrLoginFailed
	}
	if !staff.IsActive {
		return nil, ErrInactiveStaff
	}
	return &staff, nil
}

// UpdateProfile lets staff change their own display name and email. Blank
// fields keep their current value.
func (s *AuthService) UpdateProfile(ctx context.Context, staffID int, req model.UpdateProfileRequest) error {
	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if len(updates) == 0 {
		return invalid("profile", "nothing to update")
	}

	res := s.db.WithContext(ctx).Model(&model.Staff{}).Where("id = ?", staffID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update staff: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("staff %d: %w", staffID, ErrNotFound)
	}
	logger.Info("staff.profile_updated", "staff", staffID)
	return nil
}

// UpdatePassword re-hashes after verifying the current password, so a
// stolen token alone cannot lock the owner out.
func (s *AuthService) UpdatePassword(ctx context.Context, staffID int, current, next string) error {
	if len(next) < 8 {
		return invalid("new_password", "must be at least 8 characters")
	}

	var staff model.Staff
	if err := s.db.WithContext(ctx).First(&staff, staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("staff %d: %w", staffID, ErrNotFound)
		}
		return fmt.Errorf("query staff: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(current)) != nil {
		return ErrLoginFailed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&staff).Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	logger.Info("staff.password_changed", "staff", staffID)
	return nil
}

// ActiveStaff lists approved staff ordered by name, for the mention picker.
func (s *AuthService) ActiveStaff(ctx context.Context) ([]model.Staff, error) {
	var staff []model.Staff
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&staff).Error
	if err != nil {
		return nil, fmt.Errorf("query staff: %w", err)
	}
	return staff, nil
}

// JobTypes lists active job types for registration and mention matching.
func (s *AuthService) JobTypes(ctx context.Context) ([]model.JobType, error) {
	var jobs []model.JobType
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("query job types: %w", err)
	}
	return jobs, nil
}
