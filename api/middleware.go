package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Domenick1991/travelease/internal/apperr"
	"github.com/Domenick1991/travelease/internal/auth"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"

	loggerKey = "logger"
	userKey   = "user"
)

// RequestLogger tags every request with an id and writes an access log line.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		reqLog := log.With("request_id", requestID)
		c.Set(loggerKey, reqLog)

		start := time.Now()
		c.Next()

		reqLog.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func loggerFrom(c *gin.Context) logging.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(logging.Logger); ok {
			return l
		}
	}
	return logging.Nop()
}

type TokenParser interface {
	ParseToken(token string) (*auth.Claims, error)
}

type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Authenticator resolves the bearer token to a live user record so role
// changes and deletions take effect before the token expires.
type Authenticator struct {
	tokens TokenParser
	users  UserLoader
}

func NewAuthenticator(tokens TokenParser, users UserLoader) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

func (a *Authenticator) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortWithError(c, apperr.ErrUnauthorized)
			return
		}

		claims, err := a.tokens.ParseToken(token)
		if err != nil {
			abortWithError(c, err)
			return
		}
		id, err := claims.UserID()
		if err != nil {
			abortWithError(c, err)
			return
		}

		user, err := a.users.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				err = apperr.ErrUnauthorized
			}
			abortWithError(c, err)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireRole must run after Authenticator.Require.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			abortWithError(c, apperr.ErrUnauthorized)
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		abortWithError(c, apperr.ErrForbidden)
	}
}

func currentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

func abortWithError(c *gin.Context, err error) {
	writeError(c, err)
	c.Abort()
}
