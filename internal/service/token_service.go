package service

import (
	"context"

	"github.com/JordyV23/social-app/internal/logger"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/google/uuid"
)

// TokenService resolves session tokens for the auth middleware.
type TokenService struct {
	manager model.TokenManager
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, logger: logger}
}

func (s *TokenService) GetUserID(_ context.Context, token string) (uuid.UUID, error) {
	userID, err := s.manager.ParseToken(token)
	if err != nil {
		s.logger.Debug("Token service: token rejected", "error", err)
		return uuid.Nil, err
	}
	return userID, nil
}
