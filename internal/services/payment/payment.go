// Package payment содержит логику оформления платного доступа:
// создание заказа в платёжном шлюзе и проверку подписи после оплаты.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/startuplense/content-platform/internal/models"
	"github.com/startuplense/content-platform/internal/paymentgateway"
)

// ErrSignatureMismatch возвращается, когда подпись шлюза не совпала с ожидаемой.
var ErrSignatureMismatch = errors.New("payment signature mismatch")

// PaymentRepository описывает контракт для работы с платежами в базе данных.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment models.Payment) (string, error)
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
	SetPaymentOrder(ctx context.Context, paymentID, orderID string) error
	MarkPaymentStatus(ctx context.Context, paymentID, status, transactionID string) error
}

// PlanProvider возвращает тарифный план по идентификатору.
type PlanProvider interface {
	GetPlan(ctx context.Context, planUID string) (*models.Plan, error)
}

// Gateway — клиент платёжного шлюза.
type Gateway interface {
	CreateOrder(ctx context.Context, req paymentgateway.CreateOrderRequest) (*paymentgateway.CreateOrderResponse, error)
	VerifySignature(orderID, gatewayPaymentID, signature string) bool
}

// Activator активирует подписку после успешной оплаты.
type Activator interface {
	Activate(ctx context.Context, userUID, planUID string, paymentID *string) (*models.Subscription, error)
}

// EventSink принимает аналитические события, ошибки доставки не критичны.
type EventSink interface {
	Publish(ctx context.Context, event models.AnalyticsEvent) error
}

// Order — созданный заказ, отдаётся клиенту для оплаты на стороне шлюза.
type Order struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	Amount    int    `json:"amount"`
	Currency  string `json:"currency"`
}

// Service управляет платежами за подписку.
type Service struct {
	repo      PaymentRepository
	plans     PlanProvider
	gateway   Gateway
	activator Activator
	events    EventSink
	currency  string
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo PaymentRepository, plans PlanProvider, gateway Gateway,
	activator Activator, events EventSink, currency string, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		plans:     plans,
		gateway:   gateway,
		activator: activator,
		events:    events,
		currency:  currency,
		log:       log,
	}
}

// CreateOrder создает платёж в статусе pending и заказ в платёжном шлюзе.
// Сумма берётся из тарифного плана, клиентской сумме не доверяем.
func (s *Service) CreateOrder(ctx context.Context, userUID, planUID string) (*Order, error) {
	const op = "services.payment.CreateOrder"

	plan, err := s.plans.GetPlan(ctx, planUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	paymentID, err := s.repo.CreatePayment(ctx, models.Payment{
		UserUID: userUID,
		PlanUID: planUID,
		Gateway: "razorpay",
		Amount:  plan.Price,
		Status:  models.PaymentStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// шлюз принимает сумму в минимальных единицах валюты
	order, err := s.gateway.CreateOrder(ctx, paymentgateway.CreateOrderRequest{
		Amount:         plan.Price * 100,
		Currency:       s.currency,
		Receipt:        paymentID,
		PaymentCapture: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.SetPaymentOrder(ctx, paymentID, order.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("payment order created",
		slog.String("payment_id", paymentID),
		slog.String("order_id", order.ID),
		slog.Int("amount", plan.Price))

	return &Order{
		PaymentID: paymentID,
		OrderID:   order.ID,
		Amount:    plan.Price,
		Currency:  s.currency,
	}, nil
}

// VerifyAndActivate проверяет подпись шлюза и при успехе активирует подписку.
// При несовпадении подписи платёж помечается неуспешным и возвращается
// ErrSignatureMismatch. Чужой платёж подтвердить нельзя.
func (s *Service) VerifyAndActivate(ctx context.Context, userUID string, req models.DummyVerify) (*models.Subscription, error) {
	const op = "services.payment.VerifyAndActivate"

	payment, err := s.repo.GetPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if payment.UserUID != userUID {
		return nil, fmt.Errorf("%s: payment belongs to another user", op)
	}

	if !s.gateway.VerifySignature(req.OrderID, req.GatewayID, req.Signature) {
		if err := s.repo.MarkPaymentStatus(ctx, payment.ID, models.PaymentStatusFailed, ""); err != nil {
			s.log.Error("failed to mark payment as failed",
				slog.String("payment_id", payment.ID), slog.Any("err", err))
		}
		return nil, fmt.Errorf("%s: %w", op, ErrSignatureMismatch)
	}

	if err := s.repo.MarkPaymentStatus(ctx, payment.ID, models.PaymentStatusSuccess, req.GatewayID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub, err := s.activator.Activate(ctx, payment.UserUID, payment.PlanUID, &payment.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	for _, event := range []models.AnalyticsEvent{
		{
			UserUID:   payment.UserUID,
			Event:     models.EventPaymentCompleted,
			Metadata:  map[string]string{"payment_id": payment.ID, "plan_uid": payment.PlanUID},
			CreatedAt: now,
		},
		{
			UserUID:   payment.UserUID,
			Event:     models.EventSubscriptionStarted,
			Metadata:  map[string]string{"plan_uid": payment.PlanUID},
			CreatedAt: now,
		},
	} {
		if err := s.events.Publish(ctx, event); err != nil {
			s.log.Warn("failed to publish payment event",
				slog.String("payment_id", payment.ID), slog.Any("err", err))
		}
	}

	s.log.Info("payment verified, subscription activated",
		slog.String("payment_id", payment.ID),
		slog.String("user_uid", payment.UserUID))

	return sub, nil
}
