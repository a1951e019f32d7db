package handler

import (
	"context"
	"net/http"

	"github.com/JordyV23/social-app/internal/logger"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FeedService defines post and like operations.
type FeedService interface {
	CreatePost(ctx context.Context, params model.CreatePostParams) (model.Post, error)
	GetFeed(ctx context.Context) ([]model.Post, error)
	GetUserPosts(ctx context.Context, userID uuid.UUID) ([]model.Post, error)
	ToggleLike(ctx context.Context, postID, userID uuid.UUID) (model.Post, error)
}

// Post handles the /posts endpoints.
type Post struct {
	feedService FeedService
	storage     model.Storage
	logger      *logger.Logger
	// readStatus is 201 for clients that expect the legacy codes.
	readStatus int
}

func NewPost(feedService FeedService, storage model.Storage, legacyStatusCodes bool, logger *logger.Logger) *Post {
	readStatus := http.StatusOK
	if legacyStatusCodes {
		readStatus = http.StatusCreated
	}
	return &Post{
		feedService: feedService,
		storage:     storage,
		logger:      logger,
		readStatus:  readStatus,
	}
}

type createPostForm struct {
	UserID      string `form:"userId" binding:"required"`
	Description string `form:"description"`
	PicturePath string `form:"picturePath"`
}

type likeRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *Post) CreatePost(c *gin.Context) {
	var form createPostForm
	if err := c.ShouldBind(&form); err != nil {
		handleError(c, h.logger, bindError(err))
		return
	}

	userID, err := parseID(form.UserID, "userId")
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	pic, err := savePicture(c, h.storage, form.PicturePath)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	post, err := h.feedService.CreatePost(c.Request.Context(), model.CreatePostParams{
		UserID:      userID,
		Description: form.Description,
		PicturePath: pic.path,
	})
	if err != nil {
		discardPicture(c, h.storage, h.logger, pic)
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *Post) GetFeed(c *gin.Context) {
	posts, err := h.feedService.GetFeed(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(h.readStatus, posts)
}

// GetUserPosts lists the posts of the user in the :id segment.
func (h *Post) GetUserPosts(c *gin.Context) {
	userID, err := parseID(c.Param("id"), "userId")
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	posts, err := h.feedService.GetUserPosts(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(h.readStatus, posts)
}

func (h *Post) ToggleLike(c *gin.Context) {
	postID, err := parseID(c.Param("id"), "id")
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, bindError(err))
		return
	}
	userID, err := parseID(req.UserID, "userId")
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	post, err := h.feedService.ToggleLike(c.Request.Context(), postID, userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(h.readStatus, post)
}
