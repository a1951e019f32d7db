package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JordyV23/social-app/internal/apperr"
	"github.com/JordyV23/social-app/internal/logger"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/JordyV23/social-app/internal/storage"
	"github.com/gin-gonic/gin"
)

// Asset serves uploaded pictures.
type Asset struct {
	storage model.Storage
	logger  *logger.Logger
}

func NewAsset(storage model.Storage, logger *logger.Logger) *Asset {
	return &Asset{storage: storage, logger: logger}
}

func (h *Asset) Get(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("name"), "/")
	key, err := storage.CleanKey(name)
	if err != nil || key != name {
		handleError(c, h.logger, apperr.NewErrAssetNotFound())
		return
	}

	rc, err := h.storage.Download(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			handleError(c, h.logger, apperr.NewErrAssetNotFound())
			return
		}
		handleError(c, h.logger, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, storage.ContentType(key), rc, nil)
}
