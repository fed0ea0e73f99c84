package vacation

import (
	"errors"
	"time"
)

// Request is a vacation request. Created pending by an employee, resolved
// exactly once by an admin action, terminal thereafter.
type Request struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	UserID       int64     `json:"user_id" gorm:"column:user_id;not null"`
	StartDate    time.Time `json:"start_date" gorm:"column:start_date;type:date;not null"`
	EndDate      time.Time `json:"end_date" gorm:"column:end_date;type:date;not null"`
	EmployeeNote string    `json:"employee_note" gorm:"column:employee_note"`
	AdminNote    *string   `json:"admin_note,omitempty" gorm:"column:admin_note"`
	Status       string    `json:"status" gorm:"column:status;default:pending"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`

	User *UserSummary `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

func (Request) TableName() string {
	return "vacation_requests"
}

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// IsResolved reports whether the request has reached a terminal status.
func (r *Request) IsResolved() bool {
	return r.Status != StatusPending
}

// UserSummary is the slice of the users table embedded into responses.
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
	ErrRequestNotFound = errors.New("vacation request not found")
	ErrAlreadyResolved = errors.New("vacation request is already resolved")
)
