package create

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/startuplense/content-platform/internal/http/middlewarectx"
	"github.com/startuplense/content-platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRepo реализует интерфейс create.ArticleRepository
type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) CreateArticle(ctx context.Context, article models.Article) (string, error) {
	args := m.Called(ctx, article)
	return args.String(0), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{"slug":"new-post","title":"New Post","content":"text","is_premium":true}`

	tests := []struct {
		name           string
		body           string
		role           string
		setupMock      func(*MockRepo)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "админ создаёт статью",
			body: validBody,
			role: models.RoleAdmin,
			setupMock: func(m *MockRepo) {
				m.On("CreateArticle", mock.Anything, mock.MatchedBy(func(a models.Article) bool {
					return a.Slug == "new-post" && a.IsPremium &&
						a.Status == models.ArticleStatusPublished &&
						a.PublishedAt != nil && a.CreatedBy == "admin-1"
				})).Return("art-uid-1", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"article_uid":"art-uid-1"`,
		},
		{
			name:           "обычный пользователь получает 403",
			body:           validBody,
			role:           models.RolePaid,
			setupMock:      func(_ *MockRepo) {},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"admin role required"`,
		},
		{
			name:           "пустой заголовок не проходит валидацию",
			body:           `{"slug":"new-post","title":"","content":"text"}`,
			role:           models.RoleAdmin,
			setupMock:      func(_ *MockRepo) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Title is a required field`,
		},
		{
			name: "черновик создаётся без даты публикации",
			body: `{"slug":"wip","title":"WIP","content":"text","status":"draft"}`,
			role: models.RoleAdmin,
			setupMock: func(m *MockRepo) {
				m.On("CreateArticle", mock.Anything, mock.MatchedBy(func(a models.Article) bool {
					return a.Status == models.ArticleStatusDraft && a.PublishedAt == nil
				})).Return("art-uid-2", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"article_uid":"art-uid-2"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepo)
			tt.setupMock(repo)

			handler := New(logger, repo)

			req := httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(tt.body))
			ctx := context.WithValue(req.Context(), middlewarectx.User, "admin")
			ctx = context.WithValue(ctx, middlewarectx.Role, tt.role)
			ctx = context.WithValue(ctx, middlewarectx.UserUID, "admin-1")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			repo.AssertExpectations(t)
		})
	}
}
