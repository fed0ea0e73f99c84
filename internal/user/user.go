package user

import (
	"errors"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleWorker = "worker"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	FirstName    string    `json:"first_name" gorm:"column:first_name;not null"`
	LastName     string    `json:"last_name" gorm:"column:last_name;not null"`
	Email        string    `json:"email" gorm:"column:email;uniqueIndex;not null"`
	Phone        string    `json:"phone" gorm:"column:phone"`
	Workplace    string    `json:"workplace" gorm:"column:workplace"`
	Role         string    `json:"role" gorm:"column:role;default:worker"`
	PasswordHash string    `json:"-" gorm:"column:password_hash"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsActiveUser() bool {
	return u.IsActive
}

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("user with this email already exists")
)
