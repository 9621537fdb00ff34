package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createUser",
		Method:        http.MethodPost,
		Path:          "/api/user",
		Summary:       "Create user",
		Description:   "Creates an account; username and email must be unique",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/user",
		Summary:     "List users",
		Tags:        []string{"Users"},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        loginPath,
		Summary:     "Log in",
		Description: "Checks a username and password and returns the account",
		Tags:        []string{"Users"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "resetPassword",
		Method:      http.MethodPost,
		Path:        "/api/user/resetPassword",
		Summary:     "Reset password",
		Description: "Replaces the password of the account with this email and sends the new one",
		Tags:        []string{"Users"},
	}, s.handleResetPassword)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/user/{id}",
		Summary:     "Get user",
		Tags:        []string{"Users"},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateUser",
		Method:      http.MethodPost,
		Path:        "/api/user/{id}/update",
		Summary:     "Update user",
		Description: "Overwrites the supplied fields; a supplied password is re-hashed",
		Tags:        []string{"Users"},
	}, s.handleUpdateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteUser",
		Method:      http.MethodPost,
		Path:        "/api/user/{id}/delete",
		Summary:     "Delete user",
		Tags:        []string{"Users"},
	}, s.handleDeleteUser)
}

// === DTOs ===

// UserRequest is the body for creating or updating a user.
type UserRequest struct {
	Username    string `json:"username,omitempty" doc:"Unique login name (required on create)"`
	Password    string `json:"password,omitempty" doc:"Plain-text password (required on create)"`
	Email       string `json:"email,omitempty" doc:"Unique email address (required on create)"`
	FirstName   string `json:"firstName,omitempty" doc:"Given name"`
	LastName    string `json:"lastName,omitempty" doc:"Family name"`
	DateOfBirth string `json:"dateOfBirth,omitempty" doc:"ISO-8601 date of birth"`
	Address     string `json:"address,omitempty" doc:"Postal address"`
	Phone       string `json:"phone,omitempty" doc:"Phone number"`
	Role        string `json:"role,omitempty" doc:"Free-form role label"`
	Photo       string `json:"photo,omitempty" doc:"Avatar URL"`
}

// CreateUserInput wraps the create request for Huma.
type CreateUserInput struct {
	Body UserRequest
}

// UpdateUserInput wraps the update request for Huma.
type UpdateUserInput struct {
	ID   string `path:"id" doc:"User ID"`
	Body UserRequest
}

// LoginRequest carries the credentials to check.
type LoginRequest struct {
	Username string `json:"username,omitempty" doc:"Login name"`
	Password string `json:"password,omitempty" doc:"Password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// ResetPasswordRequest names the account by email.
type ResetPasswordRequest struct {
	Email string `json:"email,omitempty" doc:"Account email"`
}

// ResetPasswordInput wraps the reset request for Huma.
type ResetPasswordInput struct {
	Body ResetPasswordRequest
}

// UserOutput wraps a single user for Huma. The password hash is never serialized.
type UserOutput struct {
	Body *domain.User
}

// ListUsersOutput wraps the user list for Huma.
type ListUsersOutput struct {
	Body []*domain.User
}

// === Handlers ===

func (s *Server) handleCreateUser(ctx context.Context, input *CreateUserInput) (*UserOutput, error) {
	u, err := s.services.User.CreateUser(ctx, service.CreateUserRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: u}, nil
}

func (s *Server) handleListUsers(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
	users, err := s.services.User.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return &ListUsersOutput{Body: orEmpty(users)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*UserOutput, error) {
	u, err := s.services.User.Login(ctx, service.LoginRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: u}, nil
}

func (s *Server) handleResetPassword(ctx context.Context, input *ResetPasswordInput) (*MessageOutput, error) {
	if err := s.services.User.ResetPassword(ctx, service.ResetPasswordRequest(input.Body)); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Password reset email sent"}}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *IDInput) (*UserOutput, error) {
	u, err := s.services.User.GetUser(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: u}, nil
}

func (s *Server) handleUpdateUser(ctx context.Context, input *UpdateUserInput) (*UserOutput, error) {
	u, err := s.services.User.UpdateUser(ctx, input.ID, service.UpdateUserRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: u}, nil
}

func (s *Server) handleDeleteUser(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if err := s.services.User.DeleteUser(ctx, input.ID); err != nil {
		return nil, err
	}
	return deleted("User"), nil
}
