package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"workout-tracker/internal/domain"
	"workout-tracker/internal/repository"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrMissingFields      = errors.New("all fields must be filled")
	ErrInvalidEmail       = errors.New("email is not valid")
	ErrWeakPassword       = errors.New("password must be at least 8 characters and contain an uppercase letter, a lowercase letter and a number")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrHashingFailed      = errors.New("failed to hash password")
)

// bcryptCost matches the work factor the stored hashes were created with.
const bcryptCost = 10

const minPasswordLength = 8

// AuthService handles the credential lifecycle: signup validation and
// hashing, and login verification. Successful signup and login both
// return a fresh session token.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenService
	validate *validator.Validate
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, tokens TokenService) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// Signup registers a new account. Validation is ordered, first failure
// wins: missing fields, then email syntax, then password strength, then
// uniqueness of the normalized email.
func (s *authService) Signup(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, "", ErrInvalidEmail
	}
	if !passwordStrongEnough(password) {
		return nil, "", ErrWeakPassword
	}

	email = strings.ToLower(email)

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", ErrHashingFailed
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hashed),
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// The unique index closes the window between the existence check
		// and the insert.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}
	user.ID = userID

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Login verifies credentials and returns the matched user with a fresh
// token. Unknown email and wrong password both map to
// ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

// passwordStrongEnough enforces the canonical policy: at least 8
// characters with at least one uppercase letter, one lowercase letter
// and one digit.
func passwordStrongEnough(password string) bool {
	if len(password) < minPasswordLength {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}
