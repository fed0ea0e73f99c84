package attendance

import (
	"errors"
	"time"
)

// Record is a single attendance span for a user. It is created on check-in
// with CheckOutTime unset and mutated exactly once on check-out. A user has
// at most one open Record at any time.
type Record struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	UserID       int64      `json:"user_id" gorm:"column:user_id;not null"`
	CheckInTime  time.Time  `json:"check_in_time" gorm:"column:check_in_time;not null"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty" gorm:"column:check_out_time"`
	TotalHours   *float64   `json:"-" gorm:"column:total_hours"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at"`

	User   *UserSummary `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Breaks []Break      `json:"breaks" gorm:"foreignKey:RecordID"`
}

func (Record) TableName() string {
	return "attendance_records"
}

// IsOpen reports whether the record has not been checked out yet.
func (r *Record) IsOpen() bool {
	return r.CheckOutTime == nil
}

// Break is a pause inside an open attendance record. At most one Break per
// Record may be open, and breaks are only creatable while the parent record
// is open.
type Break struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	RecordID  int64      `json:"attendance_record_id" gorm:"column:attendance_record_id;not null"`
	StartTime time.Time  `json:"start_time" gorm:"column:start_time;not null"`
	EndTime   *time.Time `json:"end_time,omitempty" gorm:"column:end_time"`
	CreatedAt time.Time  `json:"created_at" gorm:"column:created_at"`
}

func (Break) TableName() string {
	return "break_intervals"
}

func (b *Break) IsOpen() bool {
	return b.EndTime == nil
}

// UserSummary is the slice of the users table embedded into history responses.
type UserSummary struct {
	ID        int64  `json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Workplace string `json:"workplace"`
}

func (UserSummary) TableName() string {
	return "users"
}

var (
	ErrAlreadyCheckedIn   = errors.New("user already has an open attendance record")
	ErrNoActiveAttendance = errors.New("no active attendance record for user")
	ErrBreakAlreadyActive = errors.New("a break is already active for this attendance record")
	ErrNoActiveBreak      = errors.New("no active break for this attendance record")
)
