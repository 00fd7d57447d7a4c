package verify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/startuplense/content-platform/internal/http/middlewarectx"
	"github.com/startuplense/content-platform/internal/models"
	"github.com/startuplense/content-platform/internal/services/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockService реализует интерфейс verify.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) VerifyAndActivate(ctx context.Context, userUID string, req models.DummyVerify) (*models.Subscription, error) {
	args := m.Called(ctx, userUID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestVerifyHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{"payment_id":"3b241101-e2bb-4255-8caf-4136c566a962",` +
		`"order_id":"order-1","gateway_payment_id":"rzp-123","signature":"deadbeef"}`

	tests := []struct {
		name           string
		body           string
		authenticated  bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:          "успешное подтверждение активирует подписку",
			body:          validBody,
			authenticated: true,
			setupMock: func(m *MockService) {
				m.On("VerifyAndActivate", mock.Anything, "user-1", mock.MatchedBy(func(req models.DummyVerify) bool {
					return req.OrderID == "order-1" && req.Signature == "deadbeef"
				})).Return(&models.Subscription{ID: 7, UserUID: "user-1", IsActive: true}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"ID":7`,
		},
		{
			name:           "без авторизации запрос отклоняется",
			body:           validBody,
			authenticated:  false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:          "несовпадение подписи даёт 400",
			body:          validBody,
			authenticated: true,
			setupMock: func(m *MockService) {
				m.On("VerifyAndActivate", mock.Anything, "user-1", mock.Anything).
					Return(nil, payment.ErrSignatureMismatch)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"payment verification failed"`,
		},
		{
			name:           "отсутствие подписи не проходит валидацию",
			body:           `{"payment_id":"3b241101-e2bb-4255-8caf-4136c566a962","order_id":"order-1","gateway_payment_id":"rzp-123"}`,
			authenticated:  true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Signature is a required field`,
		},
		{
			name:          "ошибка сервиса даёт 500",
			body:          validBody,
			authenticated: true,
			setupMock: func(m *MockService) {
				m.On("VerifyAndActivate", mock.Anything, "user-1", mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not verify payment"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/payments/verify", strings.NewReader(tt.body))
			if tt.authenticated {
				ctx := context.WithValue(req.Context(), middlewarectx.User, "testuser")
				ctx = context.WithValue(ctx, middlewarectx.Role, models.RoleFree)
				ctx = context.WithValue(ctx, middlewarectx.UserUID, "user-1")
				req = req.WithContext(ctx)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
