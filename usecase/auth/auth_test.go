package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eisengo/backend/domain"
	"github.com/eisengo/backend/repository/inmemory"
	"github.com/eisengo/backend/usecase/auth"
)

func newUseCase(t *testing.T) (*auth.UseCase, *inmemory.UserStorage) {
	t.Helper()
	users := inmemory.NewUserStorage()
	uc := auth.New(users, nil, auth.Config{
		Secret:   "test-secret",
		Issuer:   "eisengo-test",
		TokenTTL: time.Minute,
	}, nil)
	return uc, users
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)

	user, err := uc.Register(ctx, "alice", "a@x.com", "pw123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "pw123", user.PasswordHash)
}

func TestRegisterDuplicates(t *testing.T) {
	ctx := context.Background()
	uc, users := newUseCase(t)

	_, err := uc.Register(ctx, "alice", "a@x.com", "pw123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		email    string
		wantCode domain.ErrorCode
	}{
		{"same username", "alice", "other@x.com", domain.ErrCodeDuplicateUsername},
		{"same email", "bob", "a@x.com", domain.ErrCodeDuplicateEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Register(ctx, tt.username, tt.email, "pw456")
			require.Error(t, err)
			assert.True(t, domain.IsDomainError(err, tt.wantCode))

			// the failed attempt must not create a row
			all, err := users.List(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"empty username", "", "a@x.com", "pw"},
		{"empty password", "alice", "a@x.com", ""},
		{"bad email", "alice", "not-an-email", "pw"},
		{"email without host dot", "alice", "a@x", "pw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Register(ctx, tt.username, tt.email, tt.password)
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalidField))
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)

	_, err := uc.Register(ctx, "alice", "a@x.com", "pw123")
	require.NoError(t, err)

	token, user, err := uc.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)

	subject, err := uc.VerifySubject(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)

	_, err := uc.Register(ctx, "alice", "a@x.com", "pw123")
	require.NoError(t, err)

	// wrong password and unknown user must be indistinguishable
	_, _, badPassword := uc.Login(ctx, "alice", "wrong")
	_, _, unknownUser := uc.Login(ctx, "nobody", "pw123")

	assert.True(t, domain.IsDomainError(badPassword, domain.ErrCodeInvalidCredentials))
	assert.True(t, domain.IsDomainError(unknownUser, domain.ErrCodeInvalidCredentials))
	assert.Equal(t, badPassword.Error(), unknownUser.Error())
}

func TestVerifySubjectRejectsBadTokens(t *testing.T) {
	uc, _ := newUseCase(t)

	other := auth.New(inmemory.NewUserStorage(), nil, auth.Config{
		Secret:   "different-secret",
		TokenTTL: time.Minute,
	}, nil)
	foreign, err := other.IssueToken("alice")
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"wrong signature", foreign},
		{"expired", expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.VerifySubject(tt.token)
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthenticated))
		})
	}
}

func TestResolveSubject(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)

	registered, err := uc.Register(ctx, "alice", "a@x.com", "pw123")
	require.NoError(t, err)

	resolved, err := uc.ResolveSubject(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, resolved.ID)

	_, err = uc.ResolveSubject(ctx, "ghost")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthenticated))
}
