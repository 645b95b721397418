package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/eisengo/backend/api/transport"
	"github.com/eisengo/backend/domain"
)

// SubjectResolver validates a bearer token and resolves its subject to a user.
type SubjectResolver interface {
	VerifySubject(token string) (string, error)
	ResolveSubject(ctx context.Context, username string) (*domain.User, error)
}

// BearerAuth validates the Authorization header, resolves the subject and
// forwards the caller identity to handlers via request headers.
func BearerAuth(resolver SubjectResolver, timeout time.Duration, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				unauthenticated(ctx)
				return
			}

			username, err := resolver.VerifySubject(tokenString)
			if err != nil {
				logger.Warn("invalid bearer token", zap.Error(err))
				unauthenticated(ctx)
				return
			}

			stdCtx, cancel := context.WithTimeout(context.Background(), timeout)
			user, err := resolver.ResolveSubject(stdCtx, username)
			cancel()
			if err != nil {
				logger.Warn("token subject did not resolve", zap.String("subject", username), zap.Error(err))
				unauthenticated(ctx)
				return
			}

			ctx.Request.Header.Set("X-User-ID", user.ID)
			ctx.Request.Header.Set("X-Username", user.Username)

			next(ctx)
		}
	}
}

func unauthenticated(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	body, _ := json.Marshal(transport.NewError(string(domain.ErrCodeUnauthenticated), "authentication required", nil))
	ctx.SetBody(body)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
