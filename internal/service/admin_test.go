package service

import (
	"testing"

	"carelog/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingStaffListsUnapprovedOnly(t *testing.T) {
	db := openTestDB(t)
	svc := NewAdminService(db)
	active := seedStaff(t, db, "active_one", 0)

	pending := model.Staff{Name: "waiting", LoginID: "waiting1", PasswordHash: "x", JobTypeID: 1}
	require.NoError(t, db.Create(&pending).Error)

	got, err := svc.PendingStaff(ctx())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pending.ID, got[0].ID)
	assert.NotEqual(t, active.ID, got[0].ID)
}

func TestApprove(t *testing.T) {
	db := openTestDB(t)
	svc := NewAdminService(db)

	pending := model.Staff{Name: "waiting", LoginID: "waiting2", PasswordHash: "x", JobTypeID: 1}
	require.NoError(t, db.Create(&pending).Error)

	require.NoError(t, svc.Approve(ctx(), pending.ID))

	var got model.Staff
	require.NoError(t, db.First(&got, pending.ID).Error)
	assert.True(t, got.IsActive)

	assert.ErrorIs(t, svc.Approve(ctx(), 9999), ErrNotFound)
}

func TestSetRole(t *testing.T) {
	db := openTestDB(t)
	svc := NewAdminService(db)
	staff := seedStaff(t, db, "role_target", 0)

	require.NoError(t, svc.SetRole(ctx(), staff.ID, model.RoleAdmin))

	var got model.Staff
	require.NoError(t, db.First(&got, staff.ID).Error)
	assert.Equal(t, model.RoleAdmin, got.Role)

	assert.True(t, IsValidation(svc.SetRole(ctx(), staff.ID, "superuser")))
	assert.ErrorIs(t, svc.SetRole(ctx(), 9999, model.RoleMember), ErrNotFound)
}

func TestUpdateStaff(t *testing.T) {
	db := openTestDB(t)
	svc := NewAdminService(db)
	staff := seedStaff(t, db, "edit_target", 0)
	seedJobType(t, db, "医師")
	job := seedJobType(t, db, "受付")
	require.NotEqual(t, staff.JobTypeID, job.ID)

	require.NoError(t, svc.UpdateStaff(ctx(), staff.ID, model.UpdateStaffRequest{
		JobTypeID: &job.ID,
	}))

	var got model.Staff
	require.NoError(t, db.First(&got, staff.ID).Error)
	assert.Equal(t, job.ID, got.JobTypeID)
	assert.Equal(t, model.RoleMember, got.Role, "role untouched when nil")

	role := model.RoleAdmin
	require.NoError(t, svc.UpdateStaff(ctx(), staff.ID, model.UpdateStaffRequest{Role: &role}))
	require.NoError(t, db.First(&got, staff.ID).Error)
	assert.Equal(t, model.RoleAdmin, got.Role)
	assert.Equal(t, job.ID, got.JobTypeID, "job type untouched when nil")

	unknown := 999
	assert.True(t, IsValidation(svc.UpdateStaff(ctx(), staff.ID, model.UpdateStaffRequest{JobTypeID: &unknown})))
	bad := "superuser"
	assert.True(t, IsValidation(svc.UpdateStaff(ctx(), staff.ID, model.UpdateStaffRequest{Role: &bad})))
	assert.True(t, IsValidation(svc.UpdateStaff(ctx(), staff.ID, model.UpdateStaffRequest{})))
	assert.ErrorIs(t, svc.UpdateStaff(ctx(), 9999, model.UpdateStaffRequest{Role: &role}), ErrNotFound)
}

func TestExportPointLedger(t *testing.T) {
	db := openTestDB(t)
	admin := NewAdminService(db)
	points := NewPointService(db)
	staff := seedStaff(t, db, "exporter", 0)

	require.NoError(t, points.Award(ctx(), staff.ID, 5, "action: WORKING", nil))
	require.NoError(t, points.Award(ctx(), staff.ID, -5, "revoke: WORKING", nil))

	f, err := admin.ExportPointLedger(ctx())
	require.NoError(t, err)
	sheet := f.GetSheetName(0)

	header, err := f.GetCellValue(sheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Staff", header)

	name, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "exporter", name)

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3, "header plus two ledger entries")
}
