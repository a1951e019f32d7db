package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httpctx "github.com/JordyV23/social-app/internal/api/http/context"
	"github.com/JordyV23/social-app/internal/apperr"
	"github.com/JordyV23/social-app/internal/mocks"
	"github.com/JordyV23/social-app/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate_Handle(t *testing.T) {
	t.Parallel()

	validID := uuid.New()

	tests := []struct {
		name         string
		authHeader   string
		wantToken    string
		tokenUserID  uuid.UUID
		tokenErr     error
		wantStatus   int
		wantCode     string
		expectSetCtx bool
	}{
		{
			name:       "missing authorization header",
			wantStatus: http.StatusForbidden,
			wantCode:   apperr.CodeMissingToken,
		},
		{
			name:       "bearer without token",
			authHeader: "Bearer    ",
			wantStatus: http.StatusForbidden,
			wantCode:   apperr.CodeMissingToken,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer invalid",
			wantToken:  "invalid",
			tokenErr:   assert.AnError,
			wantStatus: http.StatusUnauthorized,
			wantCode:   apperr.CodeInvalidToken,
		},
		{
			name:        "nil user id from token",
			authHeader:  "Bearer token",
			wantToken:   "token",
			tokenUserID: uuid.Nil,
			wantStatus:  http.StatusUnauthorized,
			wantCode:    apperr.CodeInvalidToken,
		},
		{
			name:         "valid bearer token",
			authHeader:   "Bearer   token",
			wantToken:    "token",
			tokenUserID:  validID,
			wantStatus:   http.StatusOK,
			expectSetCtx: true,
		},
		{
			name:         "raw token without prefix",
			authHeader:   "token",
			wantToken:    "token",
			tokenUserID:  validID,
			wantStatus:   http.StatusOK,
			expectSetCtx: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewTokenService(t)
			if tt.wantToken != "" {
				svc.On("GetUserID", mock.Anything, tt.wantToken).Return(tt.tokenUserID, tt.tokenErr).Once()
			}

			cm := mocks.NewContextManager(t)
			if tt.expectSetCtx {
				cm.On("SetUserIDToContext", mock.Anything, tt.tokenUserID).Return(context.Background()).Once()
			}

			auth := NewAuthenticate(svc, cm, testutil.MakeNoopLogger())

			r := gin.New()
			var seen any
			r.GET("/protected", auth.Handle, func(c *gin.Context) {
				seen, _ = c.Get(UserIDKey)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				var body apperr.Error
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body.Code)
				assert.Nil(t, seen)
				return
			}
			assert.Equal(t, tt.tokenUserID, seen)
		})
	}
}

func TestAuthenticate_PropagatesUserIDToRequestContext(t *testing.T) {
	userID := uuid.New()
	svc := mocks.NewTokenService(t)
	svc.On("GetUserID", mock.Anything, "tok").Return(userID, nil).Once()

	cm := httpctx.NewManager()
	auth := NewAuthenticate(svc, cm, testutil.MakeNoopLogger())

	r := gin.New()
	r.GET("/me", auth.Handle, func(c *gin.Context) {
		id, ok := cm.GetUserIDFromContext(c.Request.Context())
		require.True(t, ok)
		c.String(http.StatusOK, id.String())
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())
}
