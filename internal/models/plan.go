package models

import "time"

// Plan представляет неизменяемую запись каталога тарифных планов.
// Для пожизненных планов DurationInDays не используется: дата окончания
// подписки подставляется далёкой датой-сентинелом (см. lifecycle).
type Plan struct {
	UID            string    // Уникальный идентификатор плана
	Name           string    // Название плана: Monthly, Yearly, Lifetime
	Price          int       // Цена в основных единицах валюты
	DurationInDays int       // Длительность подписки в днях
	IsLifetime     bool      // Признак пожизненного плана
	Features       []string  // Список возможностей плана
	IsActive       bool      // Доступен ли план для покупки
	CreatedAt      time.Time // Дата создания записи
}
