package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"carelog/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// openTestDB opens a fresh named in-memory SQLite database. The shared
// cache keeps every pooled connection on the same database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:carelog_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.Entities()...))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedStaff(t *testing.T, db *gorm.DB, name string, points int) model.Staff {
	t.Helper()
	staff := model.Staff{
		Name:          name,
		LoginID:       fmt.Sprintf("%s_%d", name, testDBSeq.Add(1)),
		PasswordHash:  "x",
		JobTypeID:     1,
		Role:          model.RoleMember,
		IsActive:      true,
		CurrentPoints: points,
	}
	require.NoError(t, db.Create(&staff).Error)
	return staff
}

func seedCategory(t *testing.T, db *gorm.DB, name string) model.Category {
	t.Helper()
	category := model.Category{Name: name, IsActive: true}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func seedJobType(t *testing.T, db *gorm.DB, name string) model.JobType {
	t.Helper()
	job := model.JobType{Name: name, IsActive: true}
	require.NoError(t, db.Create(&job).Error)
	return job
}

func seedDiary(t *testing.T, db *gorm.DB, staffID, categoryID int) model.Diary {
	t.Helper()
	diary := model.Diary{
		StaffID:       staffID,
		CategoryID:    categoryID,
		Title:         "handoff note",
		Content:       "please check",
		TargetDate:    "2026-01-10",
		CurrentStatus: model.StatusUnread,
	}
	require.NoError(t, db.Create(&diary).Error)
	return diary
}

func ledgerSum(t *testing.T, db *gorm.DB, staffID int) int {
	t.Helper()
	var sum int
	require.NoError(t, db.Model(&model.PointLog{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("staff_id = ?", staffID).Scan(&sum).Error)
	return sum
}

func currentPoints(t *testing.T, db *gorm.DB, staffID int) int {
	t.Helper()
	var staff model.Staff
	require.NoError(t, db.First(&staff, staffID).Error)
	return staff.CurrentPoints
}

func ctx() context.Context { return context.Background() }
