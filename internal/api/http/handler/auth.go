package handler

import (
	"context"
	"net/http"

	"github.com/JordyV23/social-app/internal/logger"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthService defines user registration and login operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.User, error)
	Login(ctx context.Context, email, password string) (model.Session, error)
}

// Auth handles the /auth endpoints.
type Auth struct {
	authService AuthService
	storage     model.Storage
	logger      *logger.Logger
}

func NewAuth(authService AuthService, storage model.Storage, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		storage:     storage,
		logger:      logger,
	}
}

type registerForm struct {
	FirstName   string   `form:"firstName" binding:"required"`
	LastName    string   `form:"lastName" binding:"required"`
	Email       string   `form:"email" binding:"required"`
	Password    string   `form:"password" binding:"required"`
	PicturePath string   `form:"picturePath"`
	Location    string   `form:"location"`
	Occupation  string   `form:"occupation"`
	Friends     []string `form:"friends"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register accepts a multipart form with an optional picture file.
func (h *Auth) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		handleError(c, h.logger, bindError(err))
		return
	}

	friends := make([]uuid.UUID, 0, len(form.Friends))
	for _, raw := range form.Friends {
		id, err := parseID(raw, "friends")
		if err != nil {
			handleError(c, h.logger, err)
			return
		}
		friends = append(friends, id)
	}

	pic, err := savePicture(c, h.storage, form.PicturePath)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	h.logger.Debug("Auth handler: processing registration", "email", form.Email)

	user, err := h.authService.Register(c.Request.Context(), model.RegisterParams{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		Password:    form.Password,
		PicturePath: pic.path,
		Friends:     friends,
		Location:    form.Location,
		Occupation:  form.Occupation,
	})
	if err != nil {
		discardPicture(c, h.storage, h.logger, pic)
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, bindError(err))
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, session)
}
