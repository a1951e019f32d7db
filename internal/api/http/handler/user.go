package handler

import (
	"context"
	"net/http"

	"github.com/JordyV23/social-app/internal/logger"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SocialService defines profile and friend graph operations.
type SocialService interface {
	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
	GetFriends(ctx context.Context, userID uuid.UUID) ([]model.FriendSummary, error)
	ToggleFriend(ctx context.Context, userID, friendID uuid.UUID) ([]model.FriendSummary, error)
}

// User handles the /users endpoints.
type User struct {
	socialService SocialService
	logger        *logger.Logger
}

func NewUser(socialService SocialService, logger *logger.Logger) *User {
	return &User{socialService: socialService, logger: logger}
}

func (h *User) GetUser(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	user, err := h.socialService.GetUser(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *User) GetFriends(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	friends, err := h.socialService.GetFriends(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, friends)
}

// ToggleFriend acts on the user named in the path, not the caller.
func (h *User) ToggleFriend(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	friendID, err := parseID(c.Param("friendId"), "friendId")
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	friends, err := h.socialService.ToggleFriend(c.Request.Context(), id, friendID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, friends)
}
