package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/startuplense/content-platform/internal/models"
	"github.com/startuplense/content-platform/internal/paymentgateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePayment(ctx context.Context, payment models.Payment) (string, error) {
	args := m.Called(ctx, payment)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	args := m.Called(ctx, paymentID)
	payment, _ := args.Get(0).(*models.Payment)
	return payment, args.Error(1)
}

func (m *RepoMock) SetPaymentOrder(ctx context.Context, paymentID, orderID string) error {
	return m.Called(ctx, paymentID, orderID).Error(0)
}

func (m *RepoMock) MarkPaymentStatus(ctx context.Context, paymentID, status, transactionID string) error {
	return m.Called(ctx, paymentID, status, transactionID).Error(0)
}

type PlansMock struct{ mock.Mock }

func (m *PlansMock) GetPlan(ctx context.Context, planUID string) (*models.Plan, error) {
	args := m.Called(ctx, planUID)
	plan, _ := args.Get(0).(*models.Plan)
	return plan, args.Error(1)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreateOrder(ctx context.Context, req paymentgateway.CreateOrderRequest) (*paymentgateway.CreateOrderResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*paymentgateway.CreateOrderResponse)
	return resp, args.Error(1)
}

func (m *GatewayMock) VerifySignature(orderID, gatewayPaymentID, signature string) bool {
	return m.Called(orderID, gatewayPaymentID, signature).Bool(0)
}

type ActivatorMock struct{ mock.Mock }

func (m *ActivatorMock) Activate(ctx context.Context, userUID, planUID string, paymentID *string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID, planUID, paymentID)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

type SinkMock struct{ mock.Mock }

func (m *SinkMock) Publish(ctx context.Context, event models.AnalyticsEvent) error {
	return m.Called(ctx, event).Error(0)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_CreateOrder(t *testing.T) {
	monthly := &models.Plan{UID: "plan-monthly", Name: "Monthly", Price: 499}

	tests := []struct {
		name       string
		setupMocks func(repo *RepoMock, plans *PlansMock, gateway *GatewayMock)
		wantErr    bool
		checkOrder func(t *testing.T, order *Order)
	}{
		{
			name: "успешное создание заказа",
			setupMocks: func(repo *RepoMock, plans *PlansMock, gateway *GatewayMock) {
				plans.On("GetPlan", mock.Anything, "plan-monthly").Return(monthly, nil)
				repo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p models.Payment) bool {
					return p.UserUID == "user-1" && p.Amount == 499 && p.Status == models.PaymentStatusPending
				})).Return("pay-1", nil)
				gateway.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req paymentgateway.CreateOrderRequest) bool {
					return req.Amount == 49900 && req.Receipt == "pay-1"
				})).Return(&paymentgateway.CreateOrderResponse{ID: "order-1", Amount: 49900, Currency: "INR"}, nil)
				repo.On("SetPaymentOrder", mock.Anything, "pay-1", "order-1").Return(nil)
			},
			checkOrder: func(t *testing.T, order *Order) {
				assert.Equal(t, "pay-1", order.PaymentID)
				assert.Equal(t, "order-1", order.OrderID)
				assert.Equal(t, 499, order.Amount)
				assert.Equal(t, "INR", order.Currency)
			},
		},
		{
			name: "план не найден",
			setupMocks: func(repo *RepoMock, plans *PlansMock, gateway *GatewayMock) {
				plans.On("GetPlan", mock.Anything, "plan-monthly").Return(nil, errors.New("plan not found"))
			},
			wantErr: true,
		},
		{
			name: "ошибка шлюза",
			setupMocks: func(repo *RepoMock, plans *PlansMock, gateway *GatewayMock) {
				plans.On("GetPlan", mock.Anything, "plan-monthly").Return(monthly, nil)
				repo.On("CreatePayment", mock.Anything, mock.Anything).Return("pay-1", nil)
				gateway.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, errors.New("gateway unavailable"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			plans := new(PlansMock)
			gateway := new(GatewayMock)
			activator := new(ActivatorMock)
			events := new(SinkMock)
			tt.setupMocks(repo, plans, gateway)

			s := NewService(repo, plans, gateway, activator, events, "INR", NewNoopLogger())
			order, err := s.CreateOrder(context.Background(), "user-1", "plan-monthly")

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			tt.checkOrder(t, order)
			repo.AssertExpectations(t)
			plans.AssertExpectations(t)
			gateway.AssertExpectations(t)
		})
	}
}

func TestService_VerifyAndActivate(t *testing.T) {
	pending := &models.Payment{
		ID: "pay-1", UserUID: "user-1", PlanUID: "plan-monthly",
		Amount: 499, Status: models.PaymentStatusPending,
	}
	req := models.DummyVerify{
		PaymentID: "pay-1",
		OrderID:   "order-1",
		GatewayID: "rzp-123",
		Signature: "deadbeef",
	}

	tests := []struct {
		name       string
		setupMocks func(repo *RepoMock, gateway *GatewayMock, activator *ActivatorMock, events *SinkMock)
		wantErr    error
	}{
		{
			name: "подпись верна — подписка активируется",
			setupMocks: func(repo *RepoMock, gateway *GatewayMock, activator *ActivatorMock, events *SinkMock) {
				repo.On("GetPayment", mock.Anything, "pay-1").Return(pending, nil)
				gateway.On("VerifySignature", "order-1", "rzp-123", "deadbeef").Return(true)
				repo.On("MarkPaymentStatus", mock.Anything, "pay-1", models.PaymentStatusSuccess, "rzp-123").Return(nil)
				paymentID := "pay-1"
				activator.On("Activate", mock.Anything, "user-1", "plan-monthly", &paymentID).
					Return(&models.Subscription{ID: 1, UserUID: "user-1", IsActive: true}, nil)
				events.On("Publish", mock.Anything, mock.MatchedBy(func(ev models.AnalyticsEvent) bool {
					return ev.Event == models.EventPaymentCompleted
				})).Return(nil)
				events.On("Publish", mock.Anything, mock.MatchedBy(func(ev models.AnalyticsEvent) bool {
					return ev.Event == models.EventSubscriptionStarted
				})).Return(nil)
			},
		},
		{
			name: "подпись не совпала — платёж помечается failed",
			setupMocks: func(repo *RepoMock, gateway *GatewayMock, activator *ActivatorMock, events *SinkMock) {
				repo.On("GetPayment", mock.Anything, "pay-1").Return(pending, nil)
				gateway.On("VerifySignature", "order-1", "rzp-123", "deadbeef").Return(false)
				repo.On("MarkPaymentStatus", mock.Anything, "pay-1", models.PaymentStatusFailed, "").Return(nil)
			},
			wantErr: ErrSignatureMismatch,
		},
		{
			name: "чужой платёж подтвердить нельзя",
			setupMocks: func(repo *RepoMock, gateway *GatewayMock, activator *ActivatorMock, events *SinkMock) {
				foreign := *pending
				foreign.UserUID = "user-2"
				repo.On("GetPayment", mock.Anything, "pay-1").Return(&foreign, nil)
			},
			wantErr: errors.New("payment belongs to another user"),
		},
		{
			name: "платёж не найден",
			setupMocks: func(repo *RepoMock, gateway *GatewayMock, activator *ActivatorMock, events *SinkMock) {
				repo.On("GetPayment", mock.Anything, "pay-1").Return(nil, errors.New("payment not found"))
			},
			wantErr: errors.New("payment not found"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			plans := new(PlansMock)
			gateway := new(GatewayMock)
			activator := new(ActivatorMock)
			events := new(SinkMock)
			tt.setupMocks(repo, gateway, activator, events)

			s := NewService(repo, plans, gateway, activator, events, "INR", NewNoopLogger())
			sub, err := s.VerifyAndActivate(context.Background(), "user-1", req)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, sub)
			repo.AssertExpectations(t)
			gateway.AssertExpectations(t)
			activator.AssertExpectations(t)
			events.AssertExpectations(t)
		})
	}
}
