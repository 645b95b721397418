package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/eisengo/backend/domain"
	"github.com/eisengo/backend/repository"
)

// Config carries the token signing settings.
type Config struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

type UseCase struct {
	users  repository.UserRepository
	cache  repository.UserCache
	secret []byte
	issuer string
	ttl    time.Duration
	logger *zap.Logger
}

// New builds the auth usecase. The cache is optional; a nil cache means
// every token resolution hits the user repository.
func New(users repository.UserRepository, cache repository.UserCache, cfg Config, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &UseCase{
		users:  users,
		cache:  cache,
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		logger: logger,
	}
}

// Register creates a new user after checking both uniqueness constraints.
// The unique indexes remain the final arbiter under concurrent registration.
func (uc *UseCase) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || password == "" {
		return nil, domain.NewError(domain.ErrCodeInvalidField, "username and password are required")
	}
	if !domain.ValidEmail(email) {
		return nil, domain.NewError(domain.ErrCodeInvalidField, "invalid email address")
	}

	if _, err := uc.users.GetByUsername(ctx, username); err == nil {
		return nil, domain.ErrDuplicateUsername
	} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}
	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and issues a signed bearer token. A missing
// user and a wrong password are indistinguishable to the caller.
func (uc *UseCase) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := uc.IssueToken(user.Username)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// IssueToken signs a token carrying the subject claim only.
func (uc *UseCase) IssueToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    uc.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(uc.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.secret)
}

// TokenTTL exposes the configured token lifetime.
func (uc *UseCase) TokenTTL() time.Duration {
	return uc.ttl
}

// VerifySubject validates the token signature and expiry and returns the
// subject username. Every failure maps to the same unauthenticated error.
func (uc *UseCase) VerifySubject(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return uc.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrUnauthenticated
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", domain.ErrUnauthenticated
	}
	return claims.Subject, nil
}

// ResolveSubject looks up the token subject, consulting the cache first.
// A subject that no longer resolves to a user is unauthenticated.
func (uc *UseCase) ResolveSubject(ctx context.Context, username string) (*domain.User, error) {
	if uc.cache != nil {
		if user, err := uc.cache.Get(ctx, username); err == nil {
			return user, nil
		} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			uc.logger.Warn("user cache lookup failed", zap.Error(err))
		}
	}

	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Save(ctx, user); err != nil {
			uc.logger.Warn("user cache save failed", zap.Error(err))
		}
	}
	return user, nil
}

// HashPassword produces a salted one-way bcrypt hash.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
