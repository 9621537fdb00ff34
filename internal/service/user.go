package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bibliohome/bibliohome-server/internal/auth"
	"github.com/bibliohome/bibliohome-server/internal/domain"
	domainerrors "github.com/bibliohome/bibliohome-server/internal/errors"
	"github.com/bibliohome/bibliohome-server/internal/id"
	"github.com/bibliohome/bibliohome-server/internal/metrics"
	"github.com/bibliohome/bibliohome-server/internal/normalize"
	"github.com/bibliohome/bibliohome-server/internal/store/sqlite"
	"github.com/bibliohome/bibliohome-server/internal/validation"
)

// resetPasswordLength is the length of passwords issued by ResetPassword.
const resetPasswordLength = 8

// Notifier delivers a freshly issued password to its owner.
type Notifier interface {
	PasswordReset(ctx context.Context, email, password string) error
}

// LogNotifier records password resets in the log instead of sending mail.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that writes to logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// PasswordReset logs the reset. The password itself is never logged.
func (n *LogNotifier) PasswordReset(_ context.Context, email, _ string) error {
	n.logger.Info("password reset issued", "email", email)
	return nil
}

// UserService orchestrates user accounts.
type UserService struct {
	store     *sqlite.Store
	hasher    *auth.Hasher
	notifier  Notifier
	logger    *slog.Logger
	validator *validation.Validator
}

// NewUserService creates a new user service.
func NewUserService(store *sqlite.Store, hasher *auth.Hasher, notifier Notifier, logger *slog.Logger) *UserService {
	return &UserService{
		store:     store,
		hasher:    hasher,
		notifier:  notifier,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateUserRequest contains fields for registering a user.
type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,max=100"`
	Password    string `json:"password" validate:"required,max=1024"`
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"firstName" validate:"max=100"`
	LastName    string `json:"lastName" validate:"max=100"`
	DateOfBirth string `json:"dateOfBirth" validate:"isodate"`
	Address     string `json:"address" validate:"max=500"`
	Phone       string `json:"phone" validate:"max=50"`
	Role        string `json:"role" validate:"max=50"`
	Photo       string `json:"photo"`
}

func (r *CreateUserRequest) normalize() {
	r.Username = normalize.Text(r.Username)
	r.Email = strings.ToLower(normalize.Text(r.Email))
	r.FirstName = normalize.Text(r.FirstName)
	r.LastName = normalize.Text(r.LastName)
	r.DateOfBirth = normalize.Text(r.DateOfBirth)
	r.Address = normalize.Text(r.Address)
	r.Phone = normalize.Text(r.Phone)
	r.Role = normalize.Text(r.Role)
	r.Photo = normalize.Text(r.Photo)
}

// UpdateUserRequest overwrites only the non-empty fields it carries.
type UpdateUserRequest struct {
	Username    string `json:"username,omitempty" validate:"max=100"`
	Password    string `json:"password,omitempty" validate:"max=1024"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName   string `json:"firstName,omitempty" validate:"max=100"`
	LastName    string `json:"lastName,omitempty" validate:"max=100"`
	DateOfBirth string `json:"dateOfBirth,omitempty" validate:"isodate"`
	Address     string `json:"address,omitempty" validate:"max=500"`
	Phone       string `json:"phone,omitempty" validate:"max=50"`
	Role        string `json:"role,omitempty" validate:"max=50"`
	Photo       string `json:"photo,omitempty"`
}

// LoginRequest carries credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login returns the user whose credentials match. Unknown usernames and
// wrong passwords fail identically.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*domain.User, error) {
	req.Username = normalize.Text(req.Username)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	u, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if domainerrors.Is(storeErr(err), domainerrors.ErrNotFound) {
			metrics.RecordLogin(false)
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !s.hasher.Verify(u.PasswordHash, req.Password) {
		metrics.RecordLogin(false)
		s.logger.Warn("login failed", "username", req.Username)
		return nil, domainerrors.ErrInvalidCredentials
	}

	metrics.RecordLogin(true)
	s.logger.Info("user logged in", "id", u.ID, "username", u.Username)
	return u, nil
}

// CreateUser registers a user. Usernames and emails are unique.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	dob, err := normalize.OptionalDate(req.DateOfBirth)
	if err != nil {
		return nil, domainerrors.Validation("Invalid date of birth")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}
	userID, err := id.Generate(id.User)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Entity:       domain.Entity{ID: userID},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DateOfBirth:  dob,
		Address:      req.Address,
		Phone:        req.Phone,
		Role:         req.Role,
		Photo:        req.Photo,
	}
	u.InitTimestamps()

	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", storeErr(err))
	}

	recordMutation("user", opCreate)
	s.logger.Info("user created", "id", u.ID, "username", u.Username)
	return u, nil
}

// GetUser returns a single user.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return u, nil
}

// ListUsers returns every user.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

// UpdateUser overwrites the supplied fields. A supplied password is re-hashed.
func (s *UserService) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*domain.User, error) {
	cr := CreateUserRequest(req)
	cr.normalize()
	req = UpdateUserRequest(cr)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	dob, err := normalize.OptionalDate(req.DateOfBirth)
	if err != nil {
		return nil, domainerrors.Validation("Invalid date of birth")
	}

	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}

	setIfNotEmpty(&u.Username, req.Username)
	setIfNotEmpty(&u.Email, req.Email)
	setIfNotEmpty(&u.FirstName, req.FirstName)
	setIfNotEmpty(&u.LastName, req.LastName)
	setIfNotEmpty(&u.Address, req.Address)
	setIfNotEmpty(&u.Phone, req.Phone)
	setIfNotEmpty(&u.Role, req.Role)
	setIfNotEmpty(&u.Photo, req.Photo)
	if dob != nil {
		u.DateOfBirth = dob
	}
	if req.Password != "" {
		if u.PasswordHash, err = s.hasher.Hash(req.Password); err != nil {
			return nil, domainerrors.Validation(err.Error())
		}
	}
	u.Touch()

	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", storeErr(err))
	}

	recordMutation("user", opUpdate)
	s.logger.Info("user updated", "id", u.ID, "password_changed", req.Password != "")
	return u, nil
}

// DeleteUser removes a user. Their reading statuses cascade and their
// loaned instances are detached.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", storeErr(err))
	}

	recordMutation("user", opDelete)
	s.logger.Info("user deleted", "id", userID)
	return nil
}

// ResetPasswordRequest names the account by email.
type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPassword issues a new random password for the account with email and
// hands it to the notifier.
func (s *UserService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	req.Email = strings.ToLower(normalize.Text(req.Email))
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	u, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if domainerrors.Is(storeErr(err), domainerrors.ErrNotFound) {
			return domainerrors.NotFound("User not found")
		}
		return fmt.Errorf("reset password: %w", err)
	}

	password, err := auth.GeneratePassword(resetPasswordLength)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if u.PasswordHash, err = s.hasher.Hash(password); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	u.Touch()
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return fmt.Errorf("reset password: %w", storeErr(err))
	}

	if err := s.notifier.PasswordReset(ctx, u.Email, password); err != nil {
		return fmt.Errorf("notify password reset: %w", err)
	}

	s.logger.Info("password reset", "id", u.ID)
	return nil
}
