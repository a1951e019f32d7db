package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/JordyV23/social-app/internal/apperr"
	"github.com/JordyV23/social-app/internal/logger"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/JordyV23/social-app/internal/storage"
	"github.com/gin-gonic/gin"
)

const pictureField = "picture"

// picture is the outcome of storing an optional upload.
type picture struct {
	path string
	// created is set when this request wrote a key that did not exist before.
	created bool
}

// savePicture stores the optional "picture" file under its base name.
// Without a file, fallback is returned unchanged as the path.
func savePicture(c *gin.Context, store model.Storage, fallback string) (picture, error) {
	file, err := c.FormFile(pictureField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return picture{path: fallback}, nil
		}
		return picture{}, bindError(err)
	}

	key, err := storage.CleanKey(file.Filename)
	if err != nil {
		return picture{}, apperr.NewErrValidation("picture has no usable file name")
	}

	existed, err := store.Exists(c.Request.Context(), key)
	if err != nil {
		return picture{}, fmt.Errorf("failed to check picture: %w", err)
	}

	f, err := file.Open()
	if err != nil {
		return picture{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	if err := store.Upload(c.Request.Context(), key, f); err != nil {
		return picture{}, fmt.Errorf("failed to store picture: %w", err)
	}

	return picture{path: key, created: !existed}, nil
}

// discardPicture removes a picture this request created once the operation
// that would reference it has failed.
func discardPicture(c *gin.Context, store model.Storage, logger *logger.Logger, pic picture) {
	if !pic.created {
		return
	}
	if err := store.Delete(context.WithoutCancel(c.Request.Context()), pic.path); err != nil {
		logger.Warn("failed to remove orphaned picture", "key", pic.path, "error", err)
	}
}
