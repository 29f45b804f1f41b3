package model

import "time"

type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	LoginID   string `json:"login_id" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
	Email     string `json:"email" binding:"required,email"`
	JobTypeID int    `json:"job_type_id" binding:"required"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// UpdateStaffRequest is the admin-side staff edit; nil fields are left alone.
type UpdateStaffRequest struct {
	JobTypeID *int    `json:"job_type_id,omitempty"`
	Role      *string `json:"role,omitempty"`
}

type LoginRequest struct {
	LoginID  string `json:"login_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type User struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	JobTypeID     int    `json:"job_type_id"`
	CurrentPoints int    `json:"current_points"`
}

type CreateDiaryRequest struct {
	ParentID   *int    `json:"parent_id,omitempty"`
	CategoryID int     `json:"category_id"`
	Title      string  `json:"title"`
	Content    string  `json:"content" binding:"required"`
	TargetDate string  `json:"target_date"`
	IsUrgent   bool    `json:"is_urgent"`
	Deadline   *string `json:"deadline,omitempty"`
}

type UpdateDiaryRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content" binding:"required"`
	IsUrgent bool    `json:"is_urgent"`
	Deadline *string `json:"deadline,omitempty"`
}

type ToggleRequest struct {
	Status string `json:"status" binding:"required"`
}

type ToggleResponse struct {
	Success     bool   `json:"success"`
	IsToggleOff bool   `json:"is_toggle_off"`
	DiaryStatus string `json:"diary_status"`
}

// StatusView is one participant's status on a diary, with the name
// resolved for display.
type StatusView struct {
	StaffID   int       `json:"staff_id"`
	StaffName string    `json:"staff_name"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DiaryView is a diary with its participants and replies attached.
type DiaryView struct {
	Diary
	CategoryName string       `json:"category_name"`
	StaffName    string       `json:"staff_name"`
	Statuses     []StatusView `json:"statuses"`
	Replies      []DiaryView  `json:"replies,omitempty"`
}

// RankingFilter selects which logs count toward the leaderboard. Empty or
// "all" fields are inactive.
type RankingFilter struct {
	Category  string `form:"category" json:"category"`
	Period    string `form:"period" json:"period"`         // all | this_week | this_month | last_month
	DayOfWeek string `form:"day_of_week" json:"day_of_week"` // 0 (Sun) .. 6 (Sat)
	TimeSlot  string `form:"time_slot" json:"time_slot"`   // morning (0-12h) | afternoon (12-24h)
}

type RankingEntry struct {
	StaffID     int    `json:"staff_id"`
	Name        string `json:"name"`
	JobTypeName string `json:"job_type_name"`
	TotalPoints int    `json:"total_points"`
	Rank        int    `json:"rank"`
}
