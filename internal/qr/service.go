package qr

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// Repository defines the data access methods for QR tokens.
type Repository interface {
	Create(token *Token) error
	GetByCode(code string) (*Token, error)
	NewestValid(now time.Time) (*Token, error)
}

var ErrNoValidToken = errors.New("no valid qr token")

// Clock supplies the current time so the expiry branch stays testable.
type Clock func() time.Time

const imageSize = 400

// Service owns the token lifecycle: generation with the twice-daily expiry
// cutover, lazy regeneration when no token is valid, and validation.
type Service struct {
	repo   Repository
	clock  Clock
	loc    *time.Location
	logger *slog.Logger
}

func NewService(repo Repository, clock Clock, loc *time.Location, logger *slog.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:   repo,
		clock:  clock,
		loc:    loc,
		logger: logger,
	}
}

// Generate creates and persists a fresh token with its expiry computed from
// the current moment, and renders the scannable image.
func (s *Service) Generate() (*TokenView, error) {
	now := s.clock()

	code, err := NewCode()
	if err != nil {
		s.logger.Error("failed to generate token code", "error", err)
		return nil, err
	}

	token := &Token{
		Code:        code,
		GeneratedAt: now,
		ValidUntil:  ExpiryFor(now, s.loc),
	}

	if err := s.repo.Create(token); err != nil {
		s.logger.Error("failed to persist qr token", "error", err)
		return nil, err
	}

	s.logger.Info("qr token generated",
		"code", token.Code,
		"valid_until", token.ValidUntil)

	return s.render(token)
}

// Current returns the newest still-valid token, generating one on demand
// when none exists. There is no background timer; regeneration is lazy.
func (s *Service) Current() (*TokenView, error) {
	now := s.clock()

	token, err := s.repo.NewestValid(now)
	if err != nil {
		if errors.Is(err, ErrNoValidToken) {
			s.logger.Info("no valid qr token, generating a new one")
			return s.Generate()
		}
		s.logger.Error("failed to load current qr token", "error", err)
		return nil, err
	}

	return s.render(token)
}

// Validate succeeds iff a token with the code exists and now is before its
// validity boundary. It satisfies the attendance package's TokenValidator.
func (s *Service) Validate(code string, now time.Time) error {
	token, err := s.repo.GetByCode(code)
	if err != nil {
		return ErrInvalidOrExpiredToken
	}
	if !now.Before(token.ValidUntil) {
		return ErrInvalidOrExpiredToken
	}
	return nil
}

// ValidateCode validates against the current clock and returns the token.
func (s *Service) ValidateCode(code string) (*Token, error) {
	now := s.clock()

	token, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, ErrInvalidOrExpiredToken
	}
	if !now.Before(token.ValidUntil) {
		return nil, ErrInvalidOrExpiredToken
	}
	return token, nil
}

func (s *Service) render(token *Token) (*TokenView, error) {
	png, err := qrcode.Encode(token.Code, qrcode.Medium, imageSize)
	if err != nil {
		s.logger.Error("failed to render qr image", "error", err, "code", token.Code)
		return nil, err
	}

	return &TokenView{
		Token:   token,
		QRImage: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}
