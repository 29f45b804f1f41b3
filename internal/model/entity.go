package model

import "time"

// Status values shared by diaries and per-user statuses.
const (
	StatusUnread    = "UNREAD"
	StatusConfirmed = "CONFIRMED"
	StatusWorking   = "WORKING"
	StatusSolved    = "SOLVED"
)

// Action types recorded in the action log. The status actions reuse the
// status names; posting and replying are creation-time actions.
const (
	ActionPostDiary = "POST_DIARY"
	ActionReply     = "REPLY"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Staff struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	Name          string    `json:"name"`
	LoginID       string    `gorm:"uniqueIndex" json:"login_id"`
	PasswordHash  string    `json:"-"`
	Email         string    `json:"email"`
	JobTypeID     int       `json:"job_type_id"`
	Role          string    `gorm:"default:member" json:"role"`
	IsActive      bool      `json:"is_active"`
	CurrentPoints int       `json:"current_points"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type JobType struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"uniqueIndex" json:"name"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

type Category struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"uniqueIndex" json:"name"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// Diary is a posted entry or a threaded reply (ParentID set). A reply
// inherits its parent's category and target date at creation time and
// never carries children of its own.
type Diary struct {
	ID            int        `gorm:"primaryKey" json:"id"`
	ParentID      *int       `gorm:"index" json:"parent_id"`
	CategoryID    int        `gorm:"index" json:"category_id"`
	StaffID       int        `json:"staff_id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	TargetDate    string     `gorm:"type:date;index" json:"target_date"`
	IsUrgent      bool       `json:"is_urgent"`
	Deadline      *string    `gorm:"type:date" json:"deadline,omitempty"`
	IsHidden      bool       `json:"is_hidden"`
	IsDeleted     bool       `json:"is_deleted"`
	CurrentStatus string     `gorm:"default:UNREAD" json:"current_status"`
	SolvedBy      *int       `json:"solved_by"`
	SolvedAt      *time.Time `json:"solved_at"`
	EditedBy      *int       `json:"edited_by"`
	EditedAt      *time.Time `json:"edited_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// UserDiaryStatus holds one staff member's personal status for one diary.
// The (diary, staff) pair is unique; the diary's aggregate status is
// derived from these rows.
type UserDiaryStatus struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	DiaryID   int       `gorm:"uniqueIndex:uk_diary_staff" json:"diary_id"`
	StaffID   int       `gorm:"uniqueIndex:uk_diary_staff" json:"staff_id"`
	Status    string    `gorm:"default:UNREAD" json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActionLog records that a point award for (diary, staff, action type) has
// been granted. Row existence is the idempotence key for toggling.
type ActionLog struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	DiaryID       *int      `gorm:"index" json:"diary_id"`
	StaffID       int       `gorm:"index" json:"staff_id"`
	ActionType    string    `gorm:"size:20" json:"action_type"`
	PointsAwarded int       `json:"points_awarded"`
	CreatedAt     time.Time `json:"created_at"`
}

// PointLog is the append-only ledger of signed point deltas. The sum of a
// staff member's entries equals Staff.CurrentPoints.
type PointLog struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	StaffID   int       `gorm:"index" json:"staff_id"`
	Amount    int       `json:"amount"`
	Reason    string    `gorm:"size:255" json:"reason"`
	DiaryID   *int      `json:"diary_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Staff) TableName() string           { return "staff" }
func (JobType) TableName() string         { return "job_types" }
func (Category) TableName() string        { return "categories" }
func (Diary) TableName() string           { return "diaries" }
func (UserDiaryStatus) TableName() string { return "user_diary_statuses" }
func (ActionLog) TableName() string       { return "action_logs" }
func (PointLog) TableName() string        { return "point_logs" }

// Entities lists every table for auto-migration.
func Entities() []any {
	return []any{
		&Staff{}, &JobType{}, &Category{},
		&Diary{}, &UserDiaryStatus{}, &ActionLog{}, &PointLog{},
	}
}
