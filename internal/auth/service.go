package auth

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/mkowalski/homelibrary/internal/config"
	"github.com/mkowalski/homelibrary/internal/database/users"
	"github.com/mkowalski/homelibrary/internal/entities"
)

// Validation patterns
var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrUsernameTaken    = errors.New("username is already taken")
	ErrEmailTaken       = errors.New("email is already in use")
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUsernameInvalid  = errors.New("username must be 3-50 characters, alphanumeric and underscore/hyphen only")
	ErrEmailInvalid     = errors.New("invalid email format")
	ErrUserNotFound     = users.ErrNotFound
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	CreateUser(username, email, passwordHash, fullName string) (*entities.User, error)
	GetUserByID(id uint) (*entities.User, error)
	GetUserByUsername(username string) (*entities.User, error)
	GetUserByEmail(email string) (*entities.User, error)
	UpdatePassword(id uint, passwordHash string) error
}

// Service handles account registration and credential checks.
type Service struct {
	repo   UserRepository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(repo UserRepository, cfg config.Auth) *Service {
	return &Service{
		repo:   repo,
		config: cfg,
	}
}

// SignUp registers a new account with a bcrypt-hashed password.
func (s *Service) SignUp(username, email, password, fullName string) (*entities.User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}
	if len(email) > 100 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	if _, err := s.repo.GetUserByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.repo.GetUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateUser(username, email, passwordHash, fullName)
}

// SignIn checks the credentials and issues a signed access token.
func (s *Service) SignIn(username, password string) (string, *entities.User, error) {
	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return "", nil, ErrUserNotFound
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return "", nil, err
	}

	token, err := IssueToken(user.ID, user.Username, s.config.JWTSecret, s.config.TokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, user, nil
}

// ValidateToken resolves a bearer token to the owning user's id. No store
// access happens here; the token alone authenticates the request.
func (s *Service) ValidateToken(token string) (uint, error) {
	claims, err := ParseToken(token, s.config.JWTSecret)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *Service) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return err
	}
	if err := CheckPassword(currentPassword, user.PasswordHash); err != nil {
		return err
	}
	hash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(userID, hash)
}
