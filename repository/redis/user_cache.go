package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/eisengo/backend/domain"
	"github.com/eisengo/backend/repository"
)

// cachedUser keeps the password hash out of the JSON task/user API types
// while still caching everything token resolution needs.
type cachedUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

type userCache struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewUserCache creates a Redis-backed read-through cache keyed by username.
func NewUserCache(client *redislib.Client, ttl time.Duration) repository.UserCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &userCache{
		client: client,
		prefix: "user:",
		ttl:    ttl,
	}
}

func (c *userCache) Get(ctx context.Context, username string) (*domain.User, error) {
	result, err := c.client.Get(ctx, c.key(username)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	var cached cachedUser
	if err := json.Unmarshal([]byte(result), &cached); err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           cached.ID,
		Username:     cached.Username,
		Email:        cached.Email,
		PasswordHash: cached.PasswordHash,
		CreatedAt:    cached.CreatedAt,
	}, nil
}

func (c *userCache) Save(ctx context.Context, user *domain.User) error {
	if user == nil || user.Username == "" {
		return domain.NewError(domain.ErrCodeInvalidField, "missing user")
	}

	payload, err := json.Marshal(cachedUser{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	})
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.key(user.Username), payload, c.ttl).Err()
}

func (c *userCache) Invalidate(ctx context.Context, username string) error {
	return c.client.Del(ctx, c.key(username)).Err()
}

func (c *userCache) key(username string) string {
	return fmt.Sprintf("%s%s", c.prefix, username)
}
