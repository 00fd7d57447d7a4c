package lifecycle

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

type SubsMock struct{ mock.Mock }

func (m *SubsMock) GetActiveSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

func (m *SubsMock) ActivateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	args := m.Called(ctx, sub)
	res, _ := args.Get(0).(*models.Subscription)
	return res, args.Error(1)
}

type UsersMock struct{ mock.Mock }

func (m *UsersMock) UpdateUserRole(ctx context.Context, userUID, role string) error {
	return m.Called(ctx, userUID, role).Error(0)
}

type PlansMock struct{ mock.Mock }

func (m *PlansMock) GetPlan(ctx context.Context, planUID string) (*models.Plan, error) {
	args := m.Called(ctx, planUID)
	plan, _ := args.Get(0).(*models.Plan)
	return plan, args.Error(1)
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

func TestManager_Activate(t *testing.T) {
	monthly := &models.Plan{UID: "plan-monthly", Name: "Monthly", DurationInDays: 30}
	lifetime := &models.Plan{UID: "plan-lifetime", Name: "Lifetime", IsLifetime: true}

	tests := []struct {
		name        string
		planUID     string
		setupMocks  func(subs *SubsMock, plans *PlansMock)
		wantErr     bool
		checkResult func(t *testing.T, sub *models.Subscription)
	}{
		{
			name:    "успешная активация месячного плана",
			planUID: "plan-monthly",
			setupMocks: func(subs *SubsMock, plans *PlansMock) {
				plans.On("GetPlan", mock.Anything, "plan-monthly").Return(monthly, nil)
				subs.On("ActivateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
					return s.UserUID == "user-1" && s.IsActive &&
						s.EndDate.Sub(s.StartDate) == 30*24*time.Hour
				})).Return(&models.Subscription{ID: 1, UserUID: "user-1", PlanUID: "plan-monthly", IsActive: true}, nil)
			},
			checkResult: func(t *testing.T, sub *models.Subscription) {
				assert.Equal(t, 1, sub.ID)
				assert.True(t, sub.IsActive)
			},
		},
		{
			name:    "пожизненный план получает дату-сентинел",
			planUID: "plan-lifetime",
			setupMocks: func(subs *SubsMock, plans *PlansMock) {
				plans.On("GetPlan", mock.Anything, "plan-lifetime").Return(lifetime, nil)
				subs.On("ActivateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
					return s.EndDate.Equal(LifetimeEndDate)
				})).Return(&models.Subscription{ID: 2, UserUID: "user-1", PlanUID: "plan-lifetime", IsActive: true}, nil)
			},
			checkResult: func(t *testing.T, sub *models.Subscription) {
				assert.Equal(t, 2, sub.ID)
			},
		},
		{
			name:    "план не найден",
			planUID: "missing",
			setupMocks: func(subs *SubsMock, plans *PlansMock) {
				plans.On("GetPlan", mock.Anything, "missing").Return(nil, errors.New("plan not found"))
			},
			wantErr: true,
		},
		{
			name:    "ошибка базы при активации",
			planUID: "plan-monthly",
			setupMocks: func(subs *SubsMock, plans *PlansMock) {
				plans.On("GetPlan", mock.Anything, "plan-monthly").Return(monthly, nil)
				subs.On("ActivateSubscription", mock.Anything, mock.Anything).Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs := new(SubsMock)
			users := new(UsersMock)
			plans := new(PlansMock)
			cache := new(CacheMock)
			cache.On("Invalidate", "subscription:active:user-1").Return(nil).Maybe()
			tt.setupMocks(subs, plans)

			m := NewManager(subs, users, plans, cache, NewNoopLogger())
			sub, err := m.Activate(context.Background(), "user-1", tt.planUID, nil)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				tt.checkResult(t, sub)
			}
			subs.AssertExpectations(t)
			plans.AssertExpectations(t)
		})
	}
}

func TestManager_Reconcile(t *testing.T) {
	now := time.Now().UTC()
	activeSub := &models.Subscription{
		ID: 1, UserUID: "user-1", PlanUID: "plan-monthly",
		StartDate: now.AddDate(0, 0, -5), EndDate: now.AddDate(0, 0, 25), IsActive: true,
	}
	expiredSub := &models.Subscription{
		ID: 2, UserUID: "user-1", PlanUID: "plan-monthly",
		StartDate: now.AddDate(0, 0, -40), EndDate: now.AddDate(0, 0, -10), IsActive: true,
	}

	tests := []struct {
		name       string
		user       *models.User
		setupMocks func(subs *SubsMock, users *UsersMock)
		wantActive bool
		wantRole   string
		wantErr    bool
	}{
		{
			name: "действующая подписка остаётся без изменений",
			user: &models.User{UID: "user-1", Role: models.RolePaid},
			setupMocks: func(subs *SubsMock, users *UsersMock) {
				subs.On("GetActiveSubscription", mock.Anything, "user-1").Return(activeSub, nil)
			},
			wantActive: true,
			wantRole:   models.RolePaid,
		},
		{
			name: "просроченная подписка понижает роль до free",
			user: &models.User{UID: "user-1", Role: models.RolePaid},
			setupMocks: func(subs *SubsMock, users *UsersMock) {
				subs.On("GetActiveSubscription", mock.Anything, "user-1").Return(expiredSub, nil)
				users.On("UpdateUserRole", mock.Anything, "user-1", models.RoleFree).Return(nil)
			},
			wantActive: false,
			wantRole:   models.RoleFree,
		},
		{
			name: "нет подписки у free-пользователя, роль не трогаем",
			user: &models.User{UID: "user-1", Role: models.RoleFree},
			setupMocks: func(subs *SubsMock, users *UsersMock) {
				subs.On("GetActiveSubscription", mock.Anything, "user-1").Return(nil, nil)
			},
			wantActive: false,
			wantRole:   models.RoleFree,
		},
		{
			name: "admin без подписки не понижается",
			user: &models.User{UID: "admin-1", Role: models.RoleAdmin},
			setupMocks: func(subs *SubsMock, users *UsersMock) {
				subs.On("GetActiveSubscription", mock.Anything, "admin-1").Return(nil, nil)
			},
			wantActive: false,
			wantRole:   models.RoleAdmin,
		},
		{
			name: "ошибка базы при чтении подписки",
			user: &models.User{UID: "user-1", Role: models.RolePaid},
			setupMocks: func(subs *SubsMock, users *UsersMock) {
				subs.On("GetActiveSubscription", mock.Anything, "user-1").Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs := new(SubsMock)
			users := new(UsersMock)
			plans := new(PlansMock)
			cache := new(CacheMock)
			cache.On("Get", "subscription:active:"+tt.user.UID, mock.Anything).Return(false, nil)
			cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
			tt.setupMocks(subs, users)

			m := NewManager(subs, users, plans, cache, NewNoopLogger())
			status, err := m.Reconcile(context.Background(), tt.user)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantActive, status.HasActiveSubscription)
			assert.Equal(t, tt.wantRole, tt.user.Role)
			subs.AssertExpectations(t)
			users.AssertExpectations(t)
		})
	}
}

func TestManager_Reconcile_CacheHit(t *testing.T) {
	now := time.Now().UTC()
	cachedSub := models.Subscription{
		ID: 1, UserUID: "user-1", PlanUID: "plan-monthly",
		StartDate: now.AddDate(0, 0, -5), EndDate: now.AddDate(0, 0, 25), IsActive: true,
	}

	subs := new(SubsMock)
	users := new(UsersMock)
	plans := new(PlansMock)
	cache := new(CacheMock)
	cache.On("Get", "subscription:active:user-1", mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(1).(*models.Subscription) = cachedSub
		}).Return(true, nil)

	m := NewManager(subs, users, plans, cache, NewNoopLogger())
	user := &models.User{UID: "user-1", Role: models.RolePaid}
	status, err := m.Reconcile(context.Background(), user)

	assert.NoError(t, err)
	assert.True(t, status.HasActiveSubscription)
	assert.Equal(t, 1, status.Subscription.ID)
	subs.AssertNotCalled(t, "GetActiveSubscription", mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}
