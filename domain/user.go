package domain

import (
	"strings"
	"time"
)

// User represents a registered identity owning tasks.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidEmail performs a light format sanity check: one "@" with a dotted host part.
func ValidEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	host := email[at+1:]
	if strings.ContainsAny(email, " \t") || strings.Count(email, "@") != 1 {
		return false
	}
	dot := strings.IndexByte(host, '.')
	return dot > 0 && dot < len(host)-1
}
