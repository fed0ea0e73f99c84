package user

import (
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Repository defines the data access methods for users.
type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	GetAll() ([]*User, error)
	Update(u *User) error
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Create registers a new employee account. Fails with ErrDuplicateEmail
// when the email is already taken.
func (s *Service) Create(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("user validation failed", "error", err, "email", dto.Email)
		return nil, err
	}

	if _, err := s.repo.GetByEmail(dto.Email); err == nil {
		s.logger.Warn("duplicate email on user creation", "email", dto.Email)
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, err
	}

	role := dto.Role
	if role == "" {
		role = RoleWorker
	}

	now := time.Now()
	u := &User{
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Email:        dto.Email,
		Phone:        dto.Phone,
		Workplace:    dto.Workplace,
		Role:         role,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "email", u.Email, "role", u.Role)
	return u, nil
}

func (s *Service) GetByID(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", userID)
		return nil, ErrNotFound
	}
	return u, nil
}

// List returns all users ordered by first name.
func (s *Service) List() ([]*User, error) {
	users, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

// Update mutates the profile fields of an existing user.
func (s *Service) Update(userID int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("user update validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	u.FirstName = dto.FirstName
	u.LastName = dto.LastName
	u.Phone = dto.Phone
	u.Workplace = dto.Workplace
	if dto.Role != "" {
		u.Role = dto.Role
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("user updated", "user_id", u.ID)
	return u, nil
}
