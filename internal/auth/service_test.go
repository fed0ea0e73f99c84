package auth_test

import (
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/spectralworx/evidencija-radnika/internal/auth"
)

// Mock repository for testing
type mockAuthRepository struct {
	credentials map[string]*auth.Credential
	users       map[int64]*auth.User
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		credentials: make(map[string]*auth.Credential),
		users:       make(map[int64]*auth.User),
	}
}

func (m *mockAuthRepository) GetCredentials(email string) (*auth.Credential, error) {
	cred, exists := m.credentials[email]
	if !exists {
		return nil, auth.ErrInvalidCredentials
	}
	return cred, nil
}

func (m *mockAuthRepository) GetAuthUser(userID int64) (*auth.User, error) {
	u, exists := m.users[userID]
	if !exists {
		return nil, auth.ErrInvalidCredentials
	}
	return u, nil
}

func (m *mockAuthRepository) addUser(id int64, email, role, password string, active bool) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	Expect(err).ToNot(HaveOccurred())
	m.credentials[email] = &auth.Credential{
		UserID:       id,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     active,
	}
	m.users[id] = &auth.User{ID: id, Email: email, Role: role}
}

var _ = Describe("AuthService", func() {
	var (
		service  *auth.Service
		mockRepo *mockAuthRepository
		tokenGen *auth.JWTTokenGenerator
	)

	BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		mockRepo.addUser(1, "admin@company.com", "admin", "password123", true)
		mockRepo.addUser(2, "marko@company.com", "worker", "password123", true)
		mockRepo.addUser(3, "gone@company.com", "worker", "password123", false)

		tokenGen = auth.NewJWTTokenGenerator(
			"test-access-secret-0123456789abcdef",
			"test-refresh-secret-0123456789abcde",
			15*time.Minute,
			7*24*time.Hour,
		)
		service = auth.NewService(mockRepo, tokenGen)
	})

	Describe("Authenticate", func() {
		Context("with valid credentials", func() {
			It("should return an access and refresh token pair", func() {
				tokens, err := service.Authenticate(auth.LoginDTO{
					Email:    "marko@company.com",
					Password: "password123",
				})

				Expect(err).ToNot(HaveOccurred())
				Expect(tokens.AccessToken).ToNot(BeEmpty())
				Expect(tokens.RefreshToken).ToNot(BeEmpty())
				Expect(tokens.AccessToken).ToNot(Equal(tokens.RefreshToken))
			})

			It("should embed the user identity and role in the access token", func() {
				tokens, err := service.Authenticate(auth.LoginDTO{
					Email:    "admin@company.com",
					Password: "password123",
				})
				Expect(err).ToNot(HaveOccurred())

				claims, err := service.ValidateAccessToken(tokens.AccessToken)

				Expect(err).ToNot(HaveOccurred())
				Expect(claims.UserID).To(Equal(strconv.FormatInt(1, 10)))
				Expect(claims.Email).To(Equal("admin@company.com"))
				Expect(claims.Role).To(Equal("admin"))
			})
		})

		Context("with a wrong password", func() {
			It("should fail with invalid credentials", func() {
				tokens, err := service.Authenticate(auth.LoginDTO{
					Email:    "marko@company.com",
					Password: "wrong-password",
				})

				Expect(err).To(MatchError(auth.ErrInvalidCredentials))
				Expect(tokens.AccessToken).To(BeEmpty())
			})
		})

		Context("with an unknown email", func() {
			It("should fail with invalid credentials", func() {
				tokens, err := service.Authenticate(auth.LoginDTO{
					Email:    "nobody@company.com",
					Password: "password123",
				})

				Expect(err).To(MatchError(auth.ErrInvalidCredentials))
				Expect(tokens.AccessToken).To(BeEmpty())
			})
		})

		Context("with a deactivated account", func() {
			It("should fail with user inactive", func() {
				tokens, err := service.Authenticate(auth.LoginDTO{
					Email:    "gone@company.com",
					Password: "password123",
				})

				Expect(err).To(MatchError(auth.ErrUserInactive))
				Expect(tokens.AccessToken).To(BeEmpty())
			})
		})

		Context("with missing fields", func() {
			It("should fail validation on an empty email", func() {
				_, err := service.Authenticate(auth.LoginDTO{Password: "password123"})

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("email"))
			})

			It("should fail validation on an empty password", func() {
				_, err := service.Authenticate(auth.LoginDTO{Email: "marko@company.com"})

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("password"))
			})
		})
	})

	Describe("RefreshTokens", func() {
		It("should issue a fresh pair from a valid refresh token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "marko@company.com",
				Password: "password123",
			})
			Expect(err).ToNot(HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)

			Expect(err).ToNot(HaveOccurred())
			Expect(refreshed.AccessToken).ToNot(BeEmpty())
			Expect(refreshed.RefreshToken).ToNot(BeEmpty())

			claims, err := service.ValidateAccessToken(refreshed.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.Email).To(Equal("marko@company.com"))
		})

		It("should reject a garbage token", func() {
			_, err := service.RefreshTokens("not-a-jwt")

			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("should reject a token signed with a different secret", func() {
			otherGen := auth.NewJWTTokenGenerator(
				"other-access-secret-0123456789abcde",
				"other-refresh-secret-0123456789abcd",
				15*time.Minute,
				7*24*time.Hour,
			)
			foreign, err := otherGen.GenerateRefreshToken("2", "marko@company.com", "worker")
			Expect(err).ToNot(HaveOccurred())

			_, err = service.RefreshTokens(foreign)

			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("should reject an expired token", func() {
			shortGen := auth.NewJWTTokenGenerator(
				"test-access-secret-0123456789abcdef",
				"test-refresh-secret-0123456789abcde",
				-time.Minute,
				7*24*time.Hour,
			)
			expired, err := shortGen.GenerateAccessToken("2", "marko@company.com", "worker")
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateAccessToken(expired)

			Expect(err).To(MatchError(auth.ErrTokenExpired))
		})
	})

	Describe("GetAuthUser", func() {
		It("should load the principal behind a token", func() {
			u, err := service.GetAuthUser(1)

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Email).To(Equal("admin@company.com"))
			Expect(u.IsAdmin()).To(BeTrue())
		})
	})
})
