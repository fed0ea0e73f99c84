package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spectralworx/evidencija-radnika/internal/attendance"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttendanceRepository implements attendance.Repository using GORM. Every
// transition method runs inside a transaction that locks the user's open
// rows before the state check, so concurrent requests for the same user
// serialize instead of racing past each other. The partial unique indexes
// on the tables are the backstop for anything that still slips through.
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.Repository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) CheckIn(userID int64, at time.Time) (*attendance.Record, error) {
	rec := &attendance.Record{
		UserID:      userID,
		CheckInTime: at,
		CreatedAt:   at,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var open attendance.Record
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND check_out_time IS NULL", userID).
			First(&open).Error
		if err == nil {
			return attendance.ErrAlreadyCheckedIn
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(rec).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, attendance.ErrAlreadyCheckedIn
		}
		return nil, err
	}
	return rec, nil
}

func (r *AttendanceRepository) CheckOut(userID int64, at time.Time) (*attendance.Record, error) {
	var rec attendance.Record

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND check_out_time IS NULL", userID).
			Order("check_in_time DESC").
			First(&rec).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return attendance.ErrNoActiveAttendance
			}
			return err
		}

		total, _ := attendance.TotalHours(rec.CheckInTime, &at)
		total = attendance.Round2(total)

		if err := tx.Model(&attendance.Record{}).
			Where("id = ?", rec.ID).
			Updates(map[string]interface{}{
				"check_out_time": at,
				"total_hours":    total,
			}).Error; err != nil {
			return err
		}

		rec.CheckOutTime = &at
		rec.TotalHours = &total
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *AttendanceRepository) StartBreak(userID int64, at time.Time) (*attendance.Break, error) {
	brk := &attendance.Break{
		StartTime: at,
		CreatedAt: at,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		rec, err := lockOpenRecord(tx, userID)
		if err != nil {
			return err
		}

		var open attendance.Break
		err = tx.Where("attendance_record_id = ? AND end_time IS NULL", rec.ID).
			First(&open).Error
		if err == nil {
			return attendance.ErrBreakAlreadyActive
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		brk.RecordID = rec.ID
		return tx.Create(brk).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, attendance.ErrBreakAlreadyActive
		}
		return nil, err
	}
	return brk, nil
}

func (r *AttendanceRepository) EndBreak(userID int64, at time.Time) (*attendance.Break, error) {
	var brk attendance.Break

	err := r.db.Transaction(func(tx *gorm.DB) error {
		rec, err := lockOpenRecord(tx, userID)
		if err != nil {
			return err
		}

		err = tx.Where("attendance_record_id = ? AND end_time IS NULL", rec.ID).
			Order("start_time DESC").
			First(&brk).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return attendance.ErrNoActiveBreak
			}
			return err
		}

		if err := tx.Model(&attendance.Break{}).
			Where("id = ?", brk.ID).
			Update("end_time", at).Error; err != nil {
			return err
		}

		brk.EndTime = &at
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &brk, nil
}

func (r *AttendanceRepository) HistoryByUser(userID int64) ([]*attendance.Record, error) {
	var records []*attendance.Record
	err := r.db.Where("user_id = ?", userID).
		Preload("Breaks").
		Preload("User").
		Order("check_in_time DESC").
		Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) HistoryAll() ([]*attendance.Record, error) {
	var records []*attendance.Record
	err := r.db.Preload("Breaks").
		Preload("User").
		Order("check_in_time DESC").
		Find(&records).Error
	return records, err
}

// lockOpenRecord fetches the user's open attendance record FOR UPDATE,
// newest check-in first.
func lockOpenRecord(tx *gorm.DB, userID int64) (*attendance.Record, error) {
	var rec attendance.Record
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND check_out_time IS NULL", userID).
		Order("check_in_time DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendance.ErrNoActiveAttendance
		}
		return nil, err
	}
	return &rec, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
