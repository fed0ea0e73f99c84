package vacation

import (
	"log/slog"
	"time"
)

// Repository defines the data access methods for vacation requests.
type Repository interface {
	Create(req *Request) error
	GetByID(id int64) (*Request, error)
	GetByUserID(userID int64) ([]*Request, error)
	GetAll() ([]*Request, error)
	UpdateStatus(id int64, status string, adminNote string, updatedAt time.Time) error
}

type Clock func() time.Time

// Service handles the vacation request workflow.
type Service struct {
	repo   Repository
	clock  Clock
	logger *slog.Logger
}

func NewService(repo Repository, clock Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:   repo,
		clock:  clock,
		logger: logger,
	}
}

// Create submits a new pending request for the user.
func (s *Service) Create(userID int64, dto CreateRequestDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("vacation request validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	now := s.clock()
	req := &Request{
		UserID:       userID,
		StartDate:    dto.StartDate,
		EndDate:      dto.EndDate,
		EmployeeNote: dto.EmployeeNote,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to create vacation request", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("vacation request created",
		"request_id", req.ID,
		"user_id", userID,
		"start_date", req.StartDate,
		"end_date", req.EndDate)

	return req, nil
}

// List returns requests newest first; a userID of 0 means all users.
func (s *Service) List(userID int64) ([]*Request, error) {
	var (
		requests []*Request
		err      error
	)
	if userID == 0 {
		requests, err = s.repo.GetAll()
	} else {
		requests, err = s.repo.GetByUserID(userID)
	}
	if err != nil {
		s.logger.Error("failed to list vacation requests", "error", err, "user_id", userID)
		return nil, err
	}
	return requests, nil
}

// Approve resolves a pending request. A request already resolved stays at
// its terminal status and the second action fails with ErrAlreadyResolved.
func (s *Service) Approve(requestID, adminID int64, adminNote string) error {
	return s.resolve(requestID, adminID, StatusApproved, adminNote)
}

// Reject resolves a pending request as rejected.
func (s *Service) Reject(requestID, adminID int64, adminNote string) error {
	return s.resolve(requestID, adminID, StatusRejected, adminNote)
}

func (s *Service) resolve(requestID, adminID int64, status, adminNote string) error {
	req, err := s.repo.GetByID(requestID)
	if err != nil {
		s.logger.Error("vacation request not found", "error", err, "request_id", requestID)
		return ErrRequestNotFound
	}

	if req.IsResolved() {
		s.logger.Warn("vacation request already resolved",
			"request_id", requestID,
			"current_status", req.Status,
			"attempted_status", status)
		return ErrAlreadyResolved
	}

	if err := s.repo.UpdateStatus(requestID, status, adminNote, s.clock()); err != nil {
		s.logger.Error("failed to update vacation request status",
			"error", err,
			"request_id", requestID,
			"status", status)
		return err
	}

	s.logger.Info("vacation request resolved",
		"request_id", requestID,
		"admin_id", adminID,
		"status", status)

	return nil
}
