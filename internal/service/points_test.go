package service

import (
	"testing"

	"carelog/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsForLiterals(t *testing.T) {
	assert.Equal(t, 1, PointsFor(model.StatusConfirmed))
	assert.Equal(t, 5, PointsFor(model.StatusWorking))
	assert.Equal(t, 10, PointsFor(model.StatusSolved))
	assert.Equal(t, 3, PointsFor(model.ActionReply))
	assert.Equal(t, 2, PointsFor(model.ActionPostDiary))
	assert.Equal(t, 0, PointsFor(model.StatusUnread))
	assert.Equal(t, 0, PointsFor("SOMETHING_ELSE"))
}

func TestAwardKeepsTotalEqualToLedgerSum(t *testing.T) {
	db := openTestDB(t)
	svc := NewPointService(db)
	staff := seedStaff(t, db, "aoki", 0)

	require.NoError(t, svc.Award(ctx(), staff.ID, 5, "action: WORKING", nil))
	require.NoError(t, svc.Award(ctx(), staff.ID, -3, "adjustment", nil))

	assert.Equal(t, 2, currentPoints(t, db, staff.ID))
	assert.Equal(t, 2, ledgerSum(t, db, staff.ID))
}

func TestAwardAllowsNegativeRunningTotal(t *testing.T) {
	db := openTestDB(t)
	svc := NewPointService(db)
	staff := seedStaff(t, db, "baba", 0)

	require.NoError(t, svc.Award(ctx(), staff.ID, -10, "revoke: SOLVED", nil))

	assert.Equal(t, -10, currentPoints(t, db, staff.ID))
	assert.Equal(t, -10, ledgerSum(t, db, staff.ID))
}

func TestAwardUnknownStaffLeavesNoPartialState(t *testing.T) {
	db := openTestDB(t)
	svc := NewPointService(db)

	err := svc.Award(ctx(), 9999, 5, "action: WORKING", nil)
	require.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&model.PointLog{}).Count(&count).Error)
	assert.Zero(t, count, "ledger entry must roll back with the failed total update")
}

func TestCurrentPoints(t *testing.T) {
	db := openTestDB(t)
	svc := NewPointService(db)
	staff := seedStaff(t, db, "doi", 7)

	got, err := svc.CurrentPoints(ctx(), staff.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	_, err = svc.CurrentPoints(ctx(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHistoryNewestFirst(t *testing.T) {
	db := openTestDB(t)
	svc := NewPointService(db)
	staff := seedStaff(t, db, "chiba", 0)

	require.NoError(t, svc.Award(ctx(), staff.ID, 2, "post: POST_DIARY", nil))
	require.NoError(t, svc.Award(ctx(), staff.ID, 5, "action: WORKING", nil))

	logs, err := svc.History(ctx(), staff.ID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, 5, logs[0].Amount)
	assert.Equal(t, 2, logs[1].Amount)
}
