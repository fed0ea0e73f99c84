package user_test

import (
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/spectralworx/evidencija-radnika/internal/user"
)

// Mock repository for testing
type mockUserRepository struct {
	users       map[int64]*user.User
	byEmail     map[string]*user.User
	nextID      int64
	createError error
	updateError error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:   make(map[int64]*user.User),
		byEmail: make(map[string]*user.User),
		nextID:  1,
	}
}

func (m *mockUserRepository) Create(u *user.User) error {
	if m.createError != nil {
		return m.createError
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockUserRepository) GetByID(id int64) (*user.User, error) {
	u, exists := m.users[id]
	if !exists {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByEmail(email string) (*user.User, error) {
	u, exists := m.byEmail[email]
	if !exists {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetAll() ([]*user.User, error) {
	users := make([]*user.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *mockUserRepository) Update(u *user.User) error {
	if m.updateError != nil {
		return m.updateError
	}
	m.users[u.ID] = u
	return nil
}

var _ = Describe("UserService", func() {
	var (
		service  *user.Service
		mockRepo *mockUserRepository
		logger   *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, bcrypt.MinCost, logger)
	})

	validDTO := func() user.CreateUserDTO {
		return user.CreateUserDTO{
			FirstName: "Marko",
			LastName:  "Radnik",
			Email:     "marko@company.com",
			Phone:     "+381601234567",
			Workplace: "Warehouse",
			Password:  "password123",
		}
	}

	Describe("Create", func() {
		Context("with a valid payload", func() {
			It("should create an active worker by default", func() {
				created, err := service.Create(validDTO())

				Expect(err).ToNot(HaveOccurred())
				Expect(created.ID).To(BeNumerically(">", 0))
				Expect(created.Role).To(Equal(user.RoleWorker))
				Expect(created.IsActive).To(BeTrue())
				Expect(created.IsAdmin()).To(BeFalse())
			})

			It("should store a bcrypt hash, never the plaintext password", func() {
				dto := validDTO()

				created, err := service.Create(dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(created.PasswordHash).ToNot(Equal(dto.Password))
				Expect(bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte(dto.Password))).To(Succeed())
			})

			It("should honor an explicit admin role", func() {
				dto := validDTO()
				dto.Role = user.RoleAdmin

				created, err := service.Create(dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(created.IsAdmin()).To(BeTrue())
			})
		})

		Context("when the email is already taken", func() {
			It("should fail with duplicate email", func() {
				_, err := service.Create(validDTO())
				Expect(err).ToNot(HaveOccurred())

				created, err := service.Create(validDTO())

				Expect(err).To(MatchError(user.ErrDuplicateEmail))
				Expect(created).To(BeNil())
				Expect(mockRepo.users).To(HaveLen(1))
			})
		})

		Context("when validation fails", func() {
			It("should reject a malformed email", func() {
				dto := validDTO()
				dto.Email = "not-an-email"

				created, err := service.Create(dto)

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("email"))
				Expect(created).To(BeNil())
			})

			It("should reject a short password", func() {
				dto := validDTO()
				dto.Password = "short"

				created, err := service.Create(dto)

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("password"))
				Expect(created).To(BeNil())
			})

			It("should reject an unknown role", func() {
				dto := validDTO()
				dto.Role = "supervisor"

				created, err := service.Create(dto)

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("role"))
				Expect(created).To(BeNil())
			})
		})

		Context("when the repository fails", func() {
			It("should return the repository error", func() {
				mockRepo.createError = errors.New("database error")

				created, err := service.Create(validDTO())

				Expect(err).To(HaveOccurred())
				Expect(created).To(BeNil())
			})
		})
	})

	Describe("GetByID", func() {
		It("should return an existing user", func() {
			created, err := service.Create(validDTO())
			Expect(err).ToNot(HaveOccurred())

			found, err := service.GetByID(created.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(found.Email).To(Equal(created.Email))
		})

		It("should fail with not found for an unknown id", func() {
			found, err := service.GetByID(999)

			Expect(err).To(MatchError(user.ErrNotFound))
			Expect(found).To(BeNil())
		})
	})

	Describe("Update", func() {
		It("should mutate the profile fields", func() {
			created, err := service.Create(validDTO())
			Expect(err).ToNot(HaveOccurred())

			updated, err := service.Update(created.ID, user.UpdateUserDTO{
				FirstName: "Marko",
				LastName:  "Petrovic",
				Workplace: "Office",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.LastName).To(Equal("Petrovic"))
			Expect(updated.Workplace).To(Equal("Office"))
		})

		It("should promote a worker to admin", func() {
			created, err := service.Create(validDTO())
			Expect(err).ToNot(HaveOccurred())

			updated, err := service.Update(created.ID, user.UpdateUserDTO{
				FirstName: created.FirstName,
				LastName:  created.LastName,
				Role:      user.RoleAdmin,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.IsAdmin()).To(BeTrue())
		})

		It("should fail with not found for an unknown id", func() {
			updated, err := service.Update(999, user.UpdateUserDTO{
				FirstName: "Marko",
				LastName:  "Radnik",
			})

			Expect(err).To(MatchError(user.ErrNotFound))
			Expect(updated).To(BeNil())
		})
	})

	Describe("List", func() {
		It("should return all users", func() {
			_, err := service.Create(validDTO())
			Expect(err).ToNot(HaveOccurred())

			dto := validDTO()
			dto.Email = "ana@company.com"
			_, err = service.Create(dto)
			Expect(err).ToNot(HaveOccurred())

			users, err := service.List()

			Expect(err).ToNot(HaveOccurred())
			Expect(users).To(HaveLen(2))
		})
	})
})
