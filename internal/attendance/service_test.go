package attendance_test

import (
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spectralworx/evidencija-radnika/internal/attendance"
	"github.com/spectralworx/evidencija-radnika/internal/qr"
)

// Mock repository for testing. It mirrors the storage guarantees: at most
// one open record per user and at most one open break per record.
type mockAttendanceRepository struct {
	openRecords map[int64]*attendance.Record
	openBreaks  map[int64]*attendance.Break
	history     []*attendance.Record
	nextID      int64
	repoError   error
}

func newMockAttendanceRepository() *mockAttendanceRepository {
	return &mockAttendanceRepository{
		openRecords: make(map[int64]*attendance.Record),
		openBreaks:  make(map[int64]*attendance.Break),
		history:     make([]*attendance.Record, 0),
		nextID:      1,
	}
}

func (m *mockAttendanceRepository) CheckIn(userID int64, at time.Time) (*attendance.Record, error) {
	if m.repoError != nil {
		return nil, m.repoError
	}
	if _, open := m.openRecords[userID]; open {
		return nil, attendance.ErrAlreadyCheckedIn
	}
	rec := &attendance.Record{
		ID:          m.nextID,
		UserID:      userID,
		CheckInTime: at,
		CreatedAt:   at,
	}
	m.nextID++
	m.openRecords[userID] = rec
	m.history = append([]*attendance.Record{rec}, m.history...)
	return rec, nil
}

func (m *mockAttendanceRepository) CheckOut(userID int64, at time.Time) (*attendance.Record, error) {
	if m.repoError != nil {
		return nil, m.repoError
	}
	rec, open := m.openRecords[userID]
	if !open {
		return nil, attendance.ErrNoActiveAttendance
	}
	rec.CheckOutTime = &at
	total, _ := attendance.TotalHours(rec.CheckInTime, rec.CheckOutTime)
	rounded := attendance.Round2(total)
	rec.TotalHours = &rounded
	delete(m.openRecords, userID)
	return rec, nil
}

func (m *mockAttendanceRepository) StartBreak(userID int64, at time.Time) (*attendance.Break, error) {
	if m.repoError != nil {
		return nil, m.repoError
	}
	rec, open := m.openRecords[userID]
	if !open {
		return nil, attendance.ErrNoActiveAttendance
	}
	if _, active := m.openBreaks[rec.ID]; active {
		return nil, attendance.ErrBreakAlreadyActive
	}
	brk := &attendance.Break{
		ID:        m.nextID,
		RecordID:  rec.ID,
		StartTime: at,
		CreatedAt: at,
	}
	m.nextID++
	m.openBreaks[rec.ID] = brk
	rec.Breaks = append(rec.Breaks, *brk)
	return brk, nil
}

func (m *mockAttendanceRepository) EndBreak(userID int64, at time.Time) (*attendance.Break, error) {
	if m.repoError != nil {
		return nil, m.repoError
	}
	rec, open := m.openRecords[userID]
	if !open {
		return nil, attendance.ErrNoActiveAttendance
	}
	brk, active := m.openBreaks[rec.ID]
	if !active {
		return nil, attendance.ErrNoActiveBreak
	}
	brk.EndTime = &at
	delete(m.openBreaks, rec.ID)
	for i := range rec.Breaks {
		if rec.Breaks[i].ID == brk.ID {
			rec.Breaks[i].EndTime = &at
		}
	}
	return brk, nil
}

func (m *mockAttendanceRepository) HistoryByUser(userID int64) ([]*attendance.Record, error) {
	if m.repoError != nil {
		return nil, m.repoError
	}
	records := make([]*attendance.Record, 0)
	for _, rec := range m.history {
		if rec.UserID == userID {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (m *mockAttendanceRepository) HistoryAll() ([]*attendance.Record, error) {
	if m.repoError != nil {
		return nil, m.repoError
	}
	return m.history, nil
}

// Mock token validator for testing
type mockTokenValidator struct {
	validateError error
	lastCode      string
}

func (m *mockTokenValidator) Validate(code string, now time.Time) error {
	m.lastCode = code
	return m.validateError
}

var _ = Describe("AttendanceService", func() {
	var (
		service   *attendance.Service
		mockRepo  *mockAttendanceRepository
		mockToken *mockTokenValidator
		now       time.Time
		logger    *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = newMockAttendanceRepository()
		mockToken = &mockTokenValidator{}
		now = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = attendance.NewService(mockRepo, mockToken, func() time.Time { return now }, logger)
	})

	Describe("CheckIn", func() {
		Context("with a valid token and no open record", func() {
			It("should open a new attendance record", func() {
				rec, err := service.CheckIn(42, "valid-code")

				Expect(err).ToNot(HaveOccurred())
				Expect(rec).ToNot(BeNil())
				Expect(rec.UserID).To(Equal(int64(42)))
				Expect(rec.CheckInTime).To(Equal(now))
				Expect(rec.IsOpen()).To(BeTrue())
				Expect(mockToken.lastCode).To(Equal("valid-code"))
			})
		})

		Context("when the user is already checked in", func() {
			It("should fail without opening a second record", func() {
				_, err := service.CheckIn(42, "valid-code")
				Expect(err).ToNot(HaveOccurred())

				rec, err := service.CheckIn(42, "valid-code")

				Expect(err).To(MatchError(attendance.ErrAlreadyCheckedIn))
				Expect(rec).To(BeNil())
				Expect(mockRepo.history).To(HaveLen(1))
			})
		})

		Context("when the token is invalid or expired", func() {
			It("should reject the scan and record nothing", func() {
				mockToken.validateError = qr.ErrInvalidOrExpiredToken

				rec, err := service.CheckIn(42, "stale-code")

				Expect(err).To(MatchError(qr.ErrInvalidOrExpiredToken))
				Expect(rec).To(BeNil())
				Expect(mockRepo.history).To(BeEmpty())
			})
		})
	})

	Describe("CheckOut", func() {
		Context("with an open record", func() {
			It("should close the record and persist the rounded total", func() {
				_, err := service.CheckIn(42, "valid-code")
				Expect(err).ToNot(HaveOccurred())

				now = now.Add(8 * time.Hour)
				rec, err := service.CheckOut(42, "valid-code")

				Expect(err).ToNot(HaveOccurred())
				Expect(rec.IsOpen()).To(BeFalse())
				Expect(rec.TotalHours).ToNot(BeNil())
				Expect(*rec.TotalHours).To(Equal(8.0))
			})
		})

		Context("without an open record", func() {
			It("should fail with no active attendance", func() {
				rec, err := service.CheckOut(42, "valid-code")

				Expect(err).To(MatchError(attendance.ErrNoActiveAttendance))
				Expect(rec).To(BeNil())
			})
		})

		Context("when the token is invalid", func() {
			It("should leave the open record untouched", func() {
				_, err := service.CheckIn(42, "valid-code")
				Expect(err).ToNot(HaveOccurred())

				mockToken.validateError = qr.ErrInvalidOrExpiredToken
				_, err = service.CheckOut(42, "stale-code")

				Expect(err).To(MatchError(qr.ErrInvalidOrExpiredToken))
				Expect(mockRepo.openRecords).To(HaveKey(int64(42)))
			})
		})
	})

	Describe("StartBreak", func() {
		Context("while checked in", func() {
			It("should open a break under the open record", func() {
				rec, err := service.CheckIn(42, "valid-code")
				Expect(err).ToNot(HaveOccurred())

				now = now.Add(3 * time.Hour)
				brk, err := service.StartBreak(42, "valid-code")

				Expect(err).ToNot(HaveOccurred())
				Expect(brk.RecordID).To(Equal(rec.ID))
				Expect(brk.IsOpen()).To(BeTrue())
			})
		})

		Context("while a break is already active", func() {
			It("should fail without opening a second break", func() {
				_, err := service.CheckIn(42, "valid-code")
				Expect(err).ToNot(HaveOccurred())
				_, err = service.StartBreak(42, "valid-code")
				Expect(err).ToNot(HaveOccurred())

				brk, err := service.StartBreak(42, "valid-code")

				Expect(err).To(MatchError(attendance.ErrBreakAlreadyActive))
				Expect(brk).To(BeNil())
			})
		})

		Context("while not checked in", func() {
			It("should fail with no active attendance", func() {
				brk, err := service.StartBreak(42, "valid-code")

				Expect(err).To(MatchError(attendance.ErrNoActiveAttendance))
				Expect(brk).To(BeNil())
			})
		})
	})

	Describe("EndBreak", func() {
		Context("with an active break", func() {
			It("should close the break", func() {
				_, err := service.CheckIn(42, "valid-code")
				Expect(err).ToNot(HaveOccurred())
				_, err = service.StartBreak(42, "valid-code")
				Expect(err).ToNot(HaveOccurred())

				now = now.Add(30 * time.Minute)
				brk, err := service.EndBreak(42, "valid-code")

				Expect(err).ToNot(HaveOccurred())
				Expect(brk.IsOpen()).To(BeFalse())
				Expect(brk.EndTime.Sub(brk.StartTime)).To(Equal(30 * time.Minute))
			})

			It("should allow another break after the first is closed", func() {
				_, err := service.CheckIn(42, "valid-code")
				Expect(err).ToNot(HaveOccurred())
				_, err = service.StartBreak(42, "valid-code")
				Expect(err).ToNot(HaveOccurred())
				_, err = service.EndBreak(42, "valid-code")
				Expect(err).ToNot(HaveOccurred())

				_, err = service.StartBreak(42, "valid-code")

				Expect(err).ToNot(HaveOccurred())
			})
		})

		Context("without an active break", func() {
			It("should fail with no active break", func() {
				_, err := service.CheckIn(42, "valid-code")
				Expect(err).ToNot(HaveOccurred())

				brk, err := service.EndBreak(42, "valid-code")

				Expect(err).To(MatchError(attendance.ErrNoActiveBreak))
				Expect(brk).To(BeNil())
			})
		})
	})

	Describe("History", func() {
		BeforeEach(func() {
			_, err := service.CheckIn(42, "valid-code")
			Expect(err).ToNot(HaveOccurred())
			now = now.Add(2 * time.Hour)
			_, err = service.CheckOut(42, "valid-code")
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CheckIn(7, "valid-code")
			Expect(err).ToNot(HaveOccurred())
		})

		Context("for a single user", func() {
			It("should return only that user's annotated records", func() {
				entries, err := service.History(42)

				Expect(err).ToNot(HaveOccurred())
				Expect(entries).To(HaveLen(1))
				Expect(entries[0].UserID).To(Equal(int64(42)))
				Expect(entries[0].TotalHours).To(Equal(2.0))
			})
		})

		Context("for all users", func() {
			It("should return every record when userID is zero", func() {
				entries, err := service.History(0)

				Expect(err).ToNot(HaveOccurred())
				Expect(entries).To(HaveLen(2))
			})
		})

		Context("when the repository fails", func() {
			It("should return the repository error", func() {
				mockRepo.repoError = errors.New("database error")

				entries, err := service.History(42)

				Expect(err).To(HaveOccurred())
				Expect(entries).To(BeNil())
			})
		})
	})
})
