package postgres

import (
	"errors"
	"time"

	"github.com/spectralworx/evidencija-radnika/internal/vacation"
	"gorm.io/gorm"
)

// VacationRepository implements vacation.Repository using GORM.
type VacationRepository struct {
	db *gorm.DB
}

func NewVacationRepository(db *gorm.DB) vacation.Repository {
	return &VacationRepository{db: db}
}

func (r *VacationRepository) Create(req *vacation.Request) error {
	return r.db.Create(req).Error
}

func (r *VacationRepository) GetByID(id int64) (*vacation.Request, error) {
	var req vacation.Request
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, vacation.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *VacationRepository) GetByUserID(userID int64) ([]*vacation.Request, error) {
	var requests []*vacation.Request
	err := r.db.Where("user_id = ?", userID).
		Preload("User").
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *VacationRepository) GetAll() ([]*vacation.Request, error) {
	var requests []*vacation.Request
	err := r.db.Preload("User").
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// UpdateStatus resolves a pending request. The status guard in the WHERE
// clause keeps a terminal status from ever being overwritten, even if two
// admin actions race.
func (r *VacationRepository) UpdateStatus(id int64, status string, adminNote string, updatedAt time.Time) error {
	result := r.db.Model(&vacation.Request{}).
		Where("id = ? AND status = ?", id, vacation.StatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"admin_note": adminNote,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return vacation.ErrAlreadyResolved
	}
	return nil
}
