package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"realestate/internal/auth"
	apperrors "realestate/internal/errors"
	"realestate/internal/model"
	"realestate/internal/repository"
)

const (
	defaultBcryptCost = 10
	minPasswordLength = 8
	// bcrypt rejects longer input
	maxPasswordBytes = 72
)

// Registration messages, checked in this order.
const (
	msgFieldsRequired   = "All fields are required"
	msgInvalidEmail     = "Please enter a valid email address"
	msgPasswordMismatch = "Passwords do not match"
	msgPasswordTooShort = "Password must be at least 8 characters long"
	msgPasswordTooLong  = "Password must be at most 72 bytes long"
)

var validate = validator.New()

// RegisterInput is the registration form.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	UserType        string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, identity auth.Identity, err error)
	Logout(ctx context.Context, identity auth.Identity) error
}

type authService struct {
	userRepo   repository.UserRepository
	sessions   *auth.SessionManager
	bcryptCost int
	dummyHash  []byte
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, sessions *auth.SessionManager, bcryptCost int, logger *zap.Logger) AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = defaultBcryptCost
	}
	// compared against when the email is unknown so both failures cost the same
	dummyHash, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	return &authService{
		userRepo:   userRepo,
		sessions:   sessions,
		bcryptCost: bcryptCost,
		dummyHash:  dummyHash,
		logger:     logger,
	}
}

// ValidateRegistration runs the registration checks and returns the first failure.
func ValidateRegistration(in RegisterInput) (model.Role, error) {
	for _, v := range []string{in.FirstName, in.LastName, in.Email, in.Password, in.ConfirmPassword} {
		if strings.TrimSpace(v) == "" {
			return "", apperrors.NewValidationError(msgFieldsRequired)
		}
	}
	if err := validate.Var(strings.TrimSpace(in.Email), "email"); err != nil {
		return "", apperrors.NewValidationError(msgInvalidEmail)
	}
	if in.Password != in.ConfirmPassword {
		return "", apperrors.NewValidationError(msgPasswordMismatch)
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return "", apperrors.NewValidationError(msgPasswordTooShort)
	}
	if len(in.Password) > maxPasswordBytes {
		return "", apperrors.NewValidationError(msgPasswordTooLong)
	}
	role, ok := model.ParseRole(in.UserType)
	if !ok {
		return "", apperrors.ErrInvalidRole
	}
	return role, nil
}

// Register creates a new account with hashed password. It does not log the user in.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	role, err := ValidateRegistration(in)
	if err != nil {
		return nil, err
	}
	email := strings.TrimSpace(in.Email)

	// Check if the email is already registered
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with another registration, or a case-insensitive collation matched
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("user_type", string(role)))
	return user, nil
}

// Login verifies credentials and starts a session. Unknown emails and wrong
// passwords produce the same error.
func (s *authService) Login(ctx context.Context, email, password string) (string, auth.Identity, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", auth.Identity{}, fmt.Errorf("find user: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return "", auth.Identity{}, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", auth.Identity{}, apperrors.ErrInvalidCredentials
	}

	token, identity, err := s.sessions.Start(ctx, user)
	if err != nil {
		return "", auth.Identity{}, err
	}
	return token, identity, nil
}

// Logout destroys the session behind identity.
func (s *authService) Logout(ctx context.Context, identity auth.Identity) error {
	if err := s.sessions.End(ctx, identity); err != nil {
		s.logger.Warn("end session", zap.Uint("user_id", identity.UserID), zap.Error(err))
		return err
	}
	return nil
}
