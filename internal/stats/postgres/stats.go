package postgres

import (
	"github.com/spectralworx/evidencija-radnika/internal/attendance"
	"github.com/spectralworx/evidencija-radnika/internal/stats"
	"github.com/spectralworx/evidencija-radnika/internal/user"
	"github.com/spectralworx/evidencija-radnika/internal/vacation"
	"gorm.io/gorm"
)

// StatsRepository implements stats.Repository using GORM counts.
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) stats.Repository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CountUsersByRole() (total, admins, workers int64, err error) {
	if err = r.db.Model(&user.User{}).Count(&total).Error; err != nil {
		return 0, 0, 0, err
	}
	if err = r.db.Model(&user.User{}).Where("role = ?", user.RoleAdmin).Count(&admins).Error; err != nil {
		return 0, 0, 0, err
	}
	if err = r.db.Model(&user.User{}).Where("role = ?", user.RoleWorker).Count(&workers).Error; err != nil {
		return 0, 0, 0, err
	}
	return total, admins, workers, nil
}

func (r *StatsRepository) CountAttendanceRecords() (int64, error) {
	var count int64
	err := r.db.Model(&attendance.Record{}).Count(&count).Error
	return count, err
}

func (r *StatsRepository) CountPendingVacationRequests() (int64, error) {
	var count int64
	err := r.db.Model(&vacation.Request{}).
		Where("status = ?", vacation.StatusPending).
		Count(&count).Error
	return count, err
}
