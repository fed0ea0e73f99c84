package attendance

import (
	"log/slog"
	"time"
)

// Repository defines the data access methods for attendance records and
// breaks. The four transition methods are atomic: each runs its state check
// and mutation inside a single storage transaction so two concurrent
// requests for the same user cannot both pass the check.
type Repository interface {
	CheckIn(userID int64, at time.Time) (*Record, error)
	CheckOut(userID int64, at time.Time) (*Record, error)
	StartBreak(userID int64, at time.Time) (*Break, error)
	EndBreak(userID int64, at time.Time) (*Break, error)
	HistoryByUser(userID int64) ([]*Record, error)
	HistoryAll() ([]*Record, error)
}

// TokenValidator gates every transition on a valid QR token.
type TokenValidator interface {
	Validate(code string, now time.Time) error
}

// Clock supplies the current time so the transition logic stays testable.
type Clock func() time.Time

// Service enforces the per-user attendance state machine:
// CheckedOut -> CheckedIn -> OnBreak -> CheckedIn -> CheckedOut.
type Service struct {
	repo   Repository
	tokens TokenValidator
	clock  Clock
	logger *slog.Logger
}

func NewService(repo Repository, tokens TokenValidator, clock Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:   repo,
		tokens: tokens,
		clock:  clock,
		logger: logger,
	}
}

// CheckIn opens a new attendance record for the user. Fails with
// ErrAlreadyCheckedIn when an open record already exists.
func (s *Service) CheckIn(userID int64, qrCode string) (*Record, error) {
	now := s.clock()
	if err := s.tokens.Validate(qrCode, now); err != nil {
		s.logger.Warn("check-in rejected: invalid qr token", "user_id", userID, "error", err)
		return nil, err
	}

	rec, err := s.repo.CheckIn(userID, now)
	if err != nil {
		s.logger.Error("check-in failed", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("check-in recorded", "record_id", rec.ID, "user_id", userID)
	return rec, nil
}

// CheckOut closes the user's open record, persisting the total hours
// computed at this instant. Fails with ErrNoActiveAttendance when no open
// record exists.
func (s *Service) CheckOut(userID int64, qrCode string) (*Record, error) {
	now := s.clock()
	if err := s.tokens.Validate(qrCode, now); err != nil {
		s.logger.Warn("check-out rejected: invalid qr token", "user_id", userID, "error", err)
		return nil, err
	}

	rec, err := s.repo.CheckOut(userID, now)
	if err != nil {
		s.logger.Error("check-out failed", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("check-out recorded", "record_id", rec.ID, "user_id", userID)
	return rec, nil
}

// StartBreak opens a break under the user's open record. Fails with
// ErrNoActiveAttendance when the user is not checked in and with
// ErrBreakAlreadyActive when another break is still open.
func (s *Service) StartBreak(userID int64, qrCode string) (*Break, error) {
	now := s.clock()
	if err := s.tokens.Validate(qrCode, now); err != nil {
		s.logger.Warn("start-break rejected: invalid qr token", "user_id", userID, "error", err)
		return nil, err
	}

	brk, err := s.repo.StartBreak(userID, now)
	if err != nil {
		s.logger.Error("start-break failed", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("break started", "break_id", brk.ID, "user_id", userID)
	return brk, nil
}

// EndBreak closes the open break under the user's open record. Fails with
// ErrNoActiveBreak when no break is open.
func (s *Service) EndBreak(userID int64, qrCode string) (*Break, error) {
	now := s.clock()
	if err := s.tokens.Validate(qrCode, now); err != nil {
		s.logger.Warn("end-break rejected: invalid qr token", "user_id", userID, "error", err)
		return nil, err
	}

	brk, err := s.repo.EndBreak(userID, now)
	if err != nil {
		s.logger.Error("end-break failed", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("break ended", "break_id", brk.ID, "user_id", userID)
	return brk, nil
}

// History returns attendance records annotated with the derived hour
// metrics, newest first. A userID of 0 means all users.
func (s *Service) History(userID int64) ([]HistoryEntry, error) {
	var (
		records []*Record
		err     error
	)
	if userID == 0 {
		records, err = s.repo.HistoryAll()
	} else {
		records, err = s.repo.HistoryByUser(userID)
	}
	if err != nil {
		s.logger.Error("failed to load attendance history", "error", err, "user_id", userID)
		return nil, err
	}

	entries := make([]HistoryEntry, len(records))
	for i, rec := range records {
		entries[i] = Annotate(rec)
	}
	return entries, nil
}
