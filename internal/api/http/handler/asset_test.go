package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JordyV23/social-app/internal/apperr"
	"github.com/JordyV23/social-app/internal/mocks"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/JordyV23/social-app/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAssetRouter(store model.Storage) *gin.Engine {
	r := gin.New()
	r.GET("/assets/*name", NewAsset(store, testutil.MakeNoopLogger()).Get)
	return r
}

func TestAsset_Get(t *testing.T) {
	t.Parallel()

	store := mocks.NewStorage(t)
	store.On("Download", mock.Anything, "p1.jpeg").Return(io.NopCloser(strings.NewReader("jpeg-bytes")), nil).Once()

	w := serve(newAssetRouter(store), httptest.NewRequest(http.MethodGet, "/assets/p1.jpeg", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "jpeg-bytes", w.Body.String())
}

func TestAsset_Get_NotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		path  string
		setup func(*mocks.Storage)
	}{
		{
			name: "missing object",
			path: "/assets/nope.png",
			setup: func(s *mocks.Storage) {
				s.On("Download", mock.Anything, "nope.png").Return(nil, model.ErrNotFound).Once()
			},
		},
		{name: "nested path", path: "/assets/dir/file.png", setup: func(*mocks.Storage) {}},
		{name: "empty name", path: "/assets/", setup: func(*mocks.Storage) {}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := mocks.NewStorage(t)
			tt.setup(store)

			w := serve(newAssetRouter(store), httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, apperr.CodeAssetNotFound, decodeError(t, w).Code)
		})
	}
}

func TestHealth_Get(t *testing.T) {
	t.Parallel()

	ok := mocks.NewPinger(t)
	ok.On("Ping", mock.Anything).Return(nil).Once()
	down := mocks.NewPinger(t)
	down.On("Ping", mock.Anything).Return(assert.AnError).Once()

	r := gin.New()
	r.GET("/ok", NewHealth(ok, testutil.MakeNoopLogger()).Get)
	r.GET("/down", NewHealth(down, testutil.MakeNoopLogger()).Get)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/down", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
