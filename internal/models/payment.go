package models

import "time"

// Статусы платежа.
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Payment представляет платёж за тарифный план через внешний шлюз.
// Подлинность платежа подтверждает шлюз; ядро доверяет платежу только
// после проверки подписи.
type Payment struct {
	ID            string    // Уникальный идентификатор платежа
	UserUID       string    // Идентификатор плательщика
	PlanUID       string    // Оплаченный план
	Gateway       string    // Название платёжного шлюза
	Amount        int       // Сумма в основных единицах валюты
	Status        string    // pending, success или failed
	OrderID       string    // Идентификатор заказа на стороне шлюза
	TransactionID string    // Идентификатор транзакции на стороне шлюза
	CreatedAt     time.Time // Дата создания записи
}

// DummyOrder используется для приёма запроса на создание платёжного заказа.
type DummyOrder struct {
	PlanUID string `json:"plan_id" validate:"required,uuid"`
}

// DummyVerify используется для приёма данных подтверждения платежа
// от клиента после завершения оплаты на стороне шлюза.
type DummyVerify struct {
	PaymentID string `json:"payment_id" validate:"required,uuid"`
	OrderID   string `json:"order_id" validate:"required"`
	GatewayID string `json:"gateway_payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}
