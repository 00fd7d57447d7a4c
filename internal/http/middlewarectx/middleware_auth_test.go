package middlewarectx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/startuplense/content-platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type AuthServiceMock struct{ mock.Mock }

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*models.User, string, bool, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Bool(2), args.Error(3)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	validUser := &models.User{UID: "uid-1", Username: "testuser", Role: models.RoleFree}

	tests := []struct {
		name       string
		authHeader string
		setupMocks func(svc *AuthServiceMock)
		wantStatus int
		wantUser   *models.User
	}{
		{
			name:       "валидный токен добавляет пользователя в контекст",
			authHeader: "Bearer valid-token",
			setupMocks: func(svc *AuthServiceMock) {
				svc.On("ValidateToken", mock.Anything, "valid-token").
					Return(validUser, models.RoleFree, true, nil)
			},
			wantStatus: http.StatusOK,
			wantUser:   validUser,
		},
		{
			name:       "запрос без заголовка отклоняется",
			authHeader: "",
			setupMocks: func(svc *AuthServiceMock) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "невалидный токен отклоняется",
			authHeader: "Bearer bad-token",
			setupMocks: func(svc *AuthServiceMock) {
				svc.On("ValidateToken", mock.Anything, "bad-token").
					Return(nil, "", false, errors.New("invalid token"))
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			tt.setupMocks(svc)

			var gotUser *models.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			JWTMiddleware(svc, NewNoopLogger())(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantUser != nil {
				assert.Equal(t, tt.wantUser, gotUser)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestOptionalJWTMiddleware(t *testing.T) {
	validUser := &models.User{UID: "uid-1", Username: "testuser", Role: models.RolePaid}

	tests := []struct {
		name       string
		authHeader string
		setupMocks func(svc *AuthServiceMock)
		wantStatus int
		wantUser   *models.User
	}{
		{
			name:       "без заголовка запрос проходит анонимно",
			authHeader: "",
			setupMocks: func(svc *AuthServiceMock) {},
			wantStatus: http.StatusOK,
			wantUser:   nil,
		},
		{
			name:       "валидный токен добавляет пользователя",
			authHeader: "Bearer valid-token",
			setupMocks: func(svc *AuthServiceMock) {
				svc.On("ValidateToken", mock.Anything, "valid-token").
					Return(validUser, models.RolePaid, true, nil)
			},
			wantStatus: http.StatusOK,
			wantUser:   validUser,
		},
		{
			name:       "предъявленный битый токен отклоняется",
			authHeader: "Bearer bad-token",
			setupMocks: func(svc *AuthServiceMock) {
				svc.On("ValidateToken", mock.Anything, "bad-token").
					Return(nil, "", false, errors.New("invalid token"))
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			tt.setupMocks(svc)

			var gotUser *models.User
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotUser = UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			OptionalJWTMiddleware(svc, NewNoopLogger())(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.True(t, called)
				assert.Equal(t, tt.wantUser, gotUser)
			}
			svc.AssertExpectations(t)
		})
	}
}
