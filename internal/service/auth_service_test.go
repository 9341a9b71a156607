package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quill/internal/auth"
	apperrors "quill/internal/errors"
	"quill/internal/model"
)

const testBaseURL = "http://localhost:8080"

func newTestAuthService(users *MockUserRepository, mailer *MockMailer, ttl time.Duration) AuthService {
	signer := auth.NewResetTokenSigner("test-secret", ttl)
	return NewAuthService(users, signer, mailer, testBaseURL)
}

func TestRegisterHashesPassword(t *testing.T) {
	users := new(MockUserRepository)
	var created *model.User
	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.User)
		}).
		Return(nil)

	svc := newTestAuthService(users, new(MockMailer), 30*time.Minute)
	user, err := svc.Register(context.Background(), "alice", "a@x.com", "secret")
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, model.DefaultImageFile, user.ImageFile)

	// Only the hash is stored, and it matches the plaintext.
	assert.NotEqual(t, "secret", created.PasswordHash)
	assert.True(t, auth.CheckPassword(created.PasswordHash, "secret"))
}

func TestAuthenticateSuccess(t *testing.T) {
	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("FindByEmail", mock.Anything, "a@x.com").
		Return(&model.User{ID: 1, Email: "a@x.com", PasswordHash: hash}, nil)

	svc := newTestAuthService(users, new(MockMailer), 30*time.Minute)
	user, err := svc.Authenticate(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("FindByEmail", mock.Anything, "a@x.com").
		Return(&model.User{ID: 1, Email: "a@x.com", PasswordHash: hash}, nil)

	svc := newTestAuthService(users, new(MockMailer), 30*time.Minute)
	_, err = svc.Authenticate(context.Background(), "a@x.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByEmail", mock.Anything, "ghost@x.com").
		Return(nil, apperrors.ErrUserNotFound)

	svc := newTestAuthService(users, new(MockMailer), 30*time.Minute)
	_, err := svc.Authenticate(context.Background(), "ghost@x.com", "whatever")

	// Unknown email and wrong password are indistinguishable.
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRequestResetSendsVerifiableLink(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByEmail", mock.Anything, "a@x.com").
		Return(&model.User{ID: 9, Email: "a@x.com"}, nil)

	mailer := new(MockMailer)
	mailer.On("SendPasswordReset", "a@x.com", mock.AnythingOfType("string")).Return(nil)

	signer := auth.NewResetTokenSigner("test-secret", 30*time.Minute)
	svc := NewAuthService(users, signer, mailer, testBaseURL)

	require.NoError(t, svc.RequestReset(context.Background(), "a@x.com"))

	mailer.AssertNumberOfCalls(t, "SendPasswordReset", 1)
	resetURL := mailer.Calls[0].Arguments.String(1)
	require.True(t, strings.HasPrefix(resetURL, testBaseURL+"/reset_password/"))

	token := strings.TrimPrefix(resetURL, testBaseURL+"/reset_password/")
	userID, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(9), userID)
}

func TestResetPasswordRoundTrip(t *testing.T) {
	oldHash, err := auth.HashPassword("old-secret")
	require.NoError(t, err)
	stored := &model.User{ID: 9, Username: "alice", Email: "a@x.com", PasswordHash: oldHash}

	users := new(MockUserRepository)
	users.On("FindByID", mock.Anything, uint(9)).Return(stored, nil)
	users.On("Update", mock.Anything, stored).Return(nil)

	signer := auth.NewResetTokenSigner("test-secret", 30*time.Minute)
	svc := NewAuthService(users, signer, new(MockMailer), testBaseURL)

	token, err := signer.Issue(9)
	require.NoError(t, err)

	user, err := svc.ResetPassword(context.Background(), token, "new-secret")
	require.NoError(t, err)

	// Old password no longer matches, new one does.
	assert.False(t, auth.CheckPassword(user.PasswordHash, "old-secret"))
	assert.True(t, auth.CheckPassword(user.PasswordHash, "new-secret"))
}

func TestResetPasswordExpiredToken(t *testing.T) {
	users := new(MockUserRepository)
	expiredSigner := auth.NewResetTokenSigner("test-secret", -time.Minute)
	svc := NewAuthService(users, expiredSigner, new(MockMailer), testBaseURL)

	token, err := expiredSigner.Issue(9)
	require.NoError(t, err)

	_, err = svc.ResetPassword(context.Background(), token, "new-secret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestResetPasswordTamperedToken(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users, new(MockMailer), 30*time.Minute)

	_, err := svc.ResetPassword(context.Background(), "garbage-token", "new-secret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
