package models

import "time"

// Subscription представляет период подписки пользователя на один план.
// Инвариант: в любой момент у пользователя не более одной подписки с
// IsActive=true — старые подписки деактивируются при создании новой.
type Subscription struct {
	ID        int       // Уникальный идентификатор подписки
	UserUID   string    // Идентификатор пользователя-владельца
	PlanUID   string    // Идентификатор плана
	StartDate time.Time // Дата начала подписки
	EndDate   time.Time // Дата окончания (для lifetime — далёкий сентинел)
	IsActive  bool      // Активна ли подписка
	PaymentID *string   // Платёж, создавший подписку (опционально)
	CreatedAt time.Time // Дата создания записи
}

// IsValid сообщает, действует ли подписка на момент now:
// она должна быть активна и не истечь по дате окончания.
func (s *Subscription) IsValid(now time.Time) bool {
	if !s.IsActive {
		return false
	}
	return !s.EndDate.Before(now)
}

// DummyGrant используется для приёма данных ручной активации подписки
// из JSON-запроса администратора.
type DummyGrant struct {
	UserUID   string `json:"user_id" validate:"required,uuid"`
	PlanUID   string `json:"plan_id" validate:"required,uuid"`
	PaymentID string `json:"payment_id" validate:"omitempty,uuid"`
}
