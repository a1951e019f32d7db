package middleware

import (
	"context"
	"strings"

	"github.com/JordyV23/social-app/internal/apperr"
	"github.com/JordyV23/social-app/internal/logger"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserIDKey is the gin context key holding the authenticated user id.
// The request logger reports it.
const UserIDKey = "userID"

const bearerPrefix = "Bearer "

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects user ID into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Handle rejects requests without a usable Authorization header. A missing
// token is forbidden; a token that does not verify is unauthorized.
func (m *Authenticate) Handle(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if strings.HasPrefix(token, bearerPrefix) {
		token = token[len(bearerPrefix):]
	}
	token = strings.TrimLeft(token, " \t")
	if token == "" {
		abort(c, apperr.NewErrMissingToken())
		return
	}

	userID, err := m.authenticateUser(c.Request.Context(), token)
	if err != nil {
		m.logger.Debug("request rejected by auth",
			"path", c.Request.URL.Path,
			"error", err)
		abort(c, err)
		return
	}

	c.Request = c.Request.WithContext(m.contextManager.SetUserIDToContext(c.Request.Context(), userID))
	c.Set(UserIDKey, userID)
	c.Next()
}

func (m *Authenticate) authenticateUser(ctx context.Context, token string) (uuid.UUID, error) {
	userID, err := m.tokenService.GetUserID(ctx, token)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, apperr.NewErrInvalidToken()
	}

	return userID, nil
}

func abort(c *gin.Context, err error) {
	apiErr, ok := apperr.As(err)
	if !ok {
		apiErr = apperr.NewErrInternal()
	}
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}
