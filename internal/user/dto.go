package user

import (
	"errors"
	"strings"
)

// CreateUserDTO is the payload for creating a new employee account.
type CreateUserDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Workplace string `json:"workplace"`
	Role      string `json:"role"`
	Password  string `json:"password"`
}

func (dto CreateUserDTO) Validate() error {
	if dto.FirstName == "" {
		return errors.New("first_name is required")
	}
	if dto.LastName == "" {
		return errors.New("last_name is required")
	}
	if dto.Email == "" || !strings.Contains(dto.Email, "@") {
		return errors.New("a valid email is required")
	}
	if dto.Role != "" && dto.Role != RoleAdmin && dto.Role != RoleWorker {
		return errors.New("role must be either 'admin' or 'worker'")
	}
	if len(dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// UpdateUserDTO carries the mutable profile fields.
type UpdateUserDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Workplace string `json:"workplace"`
	Role      string `json:"role"`
}

func (dto UpdateUserDTO) Validate() error {
	if dto.FirstName == "" {
		return errors.New("first_name is required")
	}
	if dto.LastName == "" {
		return errors.New("last_name is required")
	}
	if dto.Role != "" && dto.Role != RoleAdmin && dto.Role != RoleWorker {
		return errors.New("role must be either 'admin' or 'worker'")
	}
	return nil
}
