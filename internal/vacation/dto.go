package vacation

import (
	"errors"
	"time"
)

// CreateRequestDTO is the payload an employee submits.
type CreateRequestDTO struct {
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	EmployeeNote string    `json:"employee_note"`
}

func (dto CreateRequestDTO) Validate() error {
	if dto.StartDate.IsZero() {
		return errors.New("start_date is required")
	}
	if dto.EndDate.IsZero() {
		return errors.New("end_date is required")
	}
	if dto.EndDate.Before(dto.StartDate) {
		return errors.New("end_date must not be before start_date")
	}
	return nil
}

// ResolveDTO is the payload an admin submits when approving or rejecting.
type ResolveDTO struct {
	AdminNote string `json:"admin_note"`
}
