package service

import (
	"testing"

	"carelog/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func registerRequest(job int) model.RegisterRequest {
	return model.RegisterRequest{
		Name:      "新人 花子",
		LoginID:   "hanako",
		Password:  "correct-horse",
		Email:     "hanako@clinic.example",
		JobTypeID: job,
	}
}

func TestRegisterCreatesInactiveAccount(t *testing.T) {
	db := openTestDB(t)
	svc := NewAuthService(db)
	job := seedJobType(t, db, "看護師")

	staff, err := svc.Register(ctx(), registerRequest(job.ID))
	require.NoError(t, err)
	assert.False(t, staff.IsActive)
	assert.Equal(t, model.RoleMember, staff.Role)
	assert.Zero(t, staff.CurrentPoints)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(staff.PasswordHash), []byte("correct-horse")))
}

func TestRegisterRejectsDuplicateLoginID(t *testing.T) {
	db := openTestDB(t)
	svc := NewAuthService(db)
	job := seedJobType(t, db, "受付")

	_, err := svc.Register(ctx(), registerRequest(job.ID))
	require.NoError(t, err)
	_, err = svc.Register(ctx(), registerRequest(job.ID))
	assert.True(t, IsValidation(err))
}

func TestRegisterRejectsUnknownJobType(t *testing.T) {
	db := openTestDB(t)
	svc := NewAuthService(db)

	_, err := svc.Register(ctx(), registerRequest(77))
	assert.True(t, IsValidation(err))
}

func TestUpdateProfile(t *testing.T) {
	db := openTestDB(t)
	svc := NewAuthService(db)
	staff := seedStaff(t, db, "prof_target", 0)

	require.NoError(t, svc.UpdateProfile(ctx(), staff.ID, model.UpdateProfileRequest{
		Name: "改名 太郎", Email: "taro@clinic.example",
	}))

	var got model.Staff
	require.NoError(t, db.First(&got, staff.ID).Error)
	assert.Equal(t, "改名 太郎", got.Name)
	assert.Equal(t, "taro@clinic.example", got.Email)

	require.NoError(t, svc.UpdateProfile(ctx(), staff.ID, model.UpdateProfileRequest{
		Email: "taro2@clinic.example",
	}))
	require.NoError(t, db.First(&got, staff.ID).Error)
	assert.Equal(t, "改名 太郎", got.Name, "blank fields keep their value")
	assert.Equal(t, "taro2@clinic.example", got.Email)

	assert.True(t, IsValidation(svc.UpdateProfile(ctx(), staff.ID, model.UpdateProfileRequest{})))
	assert.ErrorIs(t, svc.UpdateProfile(ctx(), 9999, model.UpdateProfileRequest{Name: "x"}), ErrNotFound)
}

func TestUpdatePassword(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuthService(db)
	admin := NewAdminService(db)
	job := seedJobType(t, db, "看護師")

	staff, err := auth.Register(ctx(), registerRequest(job.ID))
	require.NoError(t, err)
	require.NoError(t, admin.Approve(ctx(), staff.ID))

	assert.ErrorIs(t, auth.UpdatePassword(ctx(), staff.ID, "wrong", "brand-new-pass"), ErrLoginFailed)
	assert.True(t, IsValidation(auth.UpdatePassword(ctx(), staff.ID, "correct-horse", "short")))

	require.NoError(t, auth.UpdatePassword(ctx(), staff.ID, "correct-horse", "brand-new-pass"))

	_, err = auth.Login(ctx(), "hanako", "correct-horse")
	assert.ErrorIs(t, err, ErrLoginFailed, "old password no longer works")
	got, err := auth.Login(ctx(), "hanako", "brand-new-pass")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, got.ID)
}

func TestLoginLifecycle(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuthService(db)
	admin := NewAdminService(db)
	job := seedJobType(t, db, "医師")

	staff, err := auth.Register(ctx(), registerRequest(job.ID))
	require.NoError(t, err)

	_, err = auth.Login(ctx(), "hanako", "correct-horse")
	assert.ErrorIs(t, err, ErrInactiveStaff, "pending accounts cannot log in")

	require.NoError(t, admin.Approve(ctx(), staff.ID))

	got, err := auth.Login(ctx(), "hanako", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, got.ID)

	_, err = auth.Login(ctx(), "hanako", "wrong")
	assert.ErrorIs(t, err, ErrLoginFailed)
	_, err = auth.Login(ctx(), "nobody", "correct-horse")
	assert.ErrorIs(t, err, ErrLoginFailed)
}
