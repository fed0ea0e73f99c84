package stats

import "log/slog"

// Overview is the admin dashboard counter set.
type Overview struct {
	TotalUsers              int64 `json:"total_users"`
	TotalAdmins             int64 `json:"total_admins"`
	TotalWorkers            int64 `json:"total_workers"`
	TotalAttendance         int64 `json:"total_attendance"`
	PendingVacationRequests int64 `json:"pending_vacation_requests"`
}

// Repository defines the count queries behind the overview.
type Repository interface {
	CountUsersByRole() (total, admins, workers int64, err error)
	CountAttendanceRecords() (int64, error)
	CountPendingVacationRequests() (int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Overview() (*Overview, error) {
	total, admins, workers, err := s.repo.CountUsersByRole()
	if err != nil {
		s.logger.Error("failed to count users", "error", err)
		return nil, err
	}

	attendance, err := s.repo.CountAttendanceRecords()
	if err != nil {
		s.logger.Error("failed to count attendance records", "error", err)
		return nil, err
	}

	pending, err := s.repo.CountPendingVacationRequests()
	if err != nil {
		s.logger.Error("failed to count pending vacation requests", "error", err)
		return nil, err
	}

	return &Overview{
		TotalUsers:              total,
		TotalAdmins:             admins,
		TotalWorkers:            workers,
		TotalAttendance:         attendance,
		PendingVacationRequests: pending,
	}, nil
}
