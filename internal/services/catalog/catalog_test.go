package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/startuplense/content-platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type PlansMock struct{ mock.Mock }

func (m *PlansMock) ListActivePlans(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	plans, _ := args.Get(0).([]*models.Plan)
	return plans, args.Error(1)
}

func (m *PlansMock) GetPlan(ctx context.Context, planUID string) (*models.Plan, error) {
	args := m.Called(ctx, planUID)
	plan, _ := args.Get(0).(*models.Plan)
	return plan, args.Error(1)
}

type LimitsMock struct{ mock.Mock }

func (m *LimitsMock) GetReadingLimit(ctx context.Context, role string) (*models.ReadingLimit, error) {
	args := m.Called(ctx, role)
	limit, _ := args.Get(0).(*models.ReadingLimit)
	return limit, args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_ListPlans(t *testing.T) {
	plans := []*models.Plan{
		{UID: "plan-monthly", Name: "Monthly", Price: 499},
		{UID: "plan-yearly", Name: "Yearly", Price: 3999},
	}

	tests := []struct {
		name       string
		setupMocks func(repo *PlansMock, cache *CacheMock)
		wantLen    int
		wantErr    bool
	}{
		{
			name: "промах кеша — читаем из базы и кешируем",
			setupMocks: func(repo *PlansMock, cache *CacheMock) {
				cache.On("Get", "plans:active", mock.Anything).Return(false, nil)
				repo.On("ListActivePlans", mock.Anything).Return(plans, nil)
				cache.On("Set", "plans:active", plans, time.Hour).Return(nil)
			},
			wantLen: 2,
		},
		{
			name: "ошибка базы",
			setupMocks: func(repo *PlansMock, cache *CacheMock) {
				cache.On("Get", "plans:active", mock.Anything).Return(false, nil)
				repo.On("ListActivePlans", mock.Anything).Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
		{
			name: "ошибка кеша не мешает чтению из базы",
			setupMocks: func(repo *PlansMock, cache *CacheMock) {
				cache.On("Get", "plans:active", mock.Anything).Return(false, errors.New("redis down"))
				repo.On("ListActivePlans", mock.Anything).Return(plans, nil)
				cache.On("Set", "plans:active", plans, time.Hour).Return(errors.New("redis down"))
			},
			wantLen: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(PlansMock)
			limits := new(LimitsMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)

			s := NewService(repo, limits, cache, NewNoopLogger())
			got, err := s.ListPlans(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestService_GetReadingLimit(t *testing.T) {
	freeLimit := &models.ReadingLimit{Role: models.RoleFree, MaxReadsPerMonth: 5}

	tests := []struct {
		name       string
		role       string
		setupMocks func(limits *LimitsMock, cache *CacheMock)
		want       *models.ReadingLimit
		wantErr    bool
	}{
		{
			name: "промах кеша — читаем из базы",
			role: models.RoleFree,
			setupMocks: func(limits *LimitsMock, cache *CacheMock) {
				cache.On("Get", "readinglimit:free", mock.Anything).Return(false, nil)
				limits.On("GetReadingLimit", mock.Anything, models.RoleFree).Return(freeLimit, nil)
				cache.On("Set", "readinglimit:free", freeLimit, time.Hour).Return(nil)
			},
			want: freeLimit,
		},
		{
			name: "лимит не настроен — ошибка отдаётся наверх",
			role: "unknown",
			setupMocks: func(limits *LimitsMock, cache *CacheMock) {
				cache.On("Get", "readinglimit:unknown", mock.Anything).Return(false, nil)
				limits.On("GetReadingLimit", mock.Anything, "unknown").Return(nil, errors.New("limit is not configured"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(PlansMock)
			limits := new(LimitsMock)
			cache := new(CacheMock)
			tt.setupMocks(limits, cache)

			s := NewService(repo, limits, cache, NewNoopLogger())
			got, err := s.GetReadingLimit(context.Background(), tt.role)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			limits.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}
