package service

import (
	"context"
	"fmt"

	"quill/internal/auth"
	apperrors "quill/internal/errors"
	"quill/internal/mail"
	"quill/internal/model"
	"quill/internal/repository"
)

// AuthService handles registration, login credentials and password reset.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	RequestReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) (*model.User, error)
}

type authService struct {
	users   repository.UserRepository
	signer  *auth.ResetTokenSigner
	mailer  mail.Mailer
	baseURL string
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, signer *auth.ResetTokenSigner, mailer mail.Mailer, baseURL string) AuthService {
	return &authService{
		users:   users,
		signer:  signer,
		mailer:  mailer,
		baseURL: baseURL,
	}
}

// Register creates a new user with a hashed password. Username and email
// uniqueness has already been checked by form validation; the storage
// unique indexes catch the remaining concurrent-registration race.
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		ImageFile:    model.DefaultImageFile,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user matching the credentials. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *authService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// RequestReset issues a reset token for the account and mails the link.
func (s *authService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.signer.Issue(user.ID)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	resetURL := s.baseURL + "/reset_password/" + token
	if err := s.mailer.SendPasswordReset(user.Email, resetURL); err != nil {
		return err
	}
	return nil
}

// ResetPassword verifies the token and replaces the user's password hash.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) (*model.User, error) {
	userID, err := s.signer.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}
	return user, nil
}
