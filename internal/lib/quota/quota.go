// Package quota содержит расчёт окна месячной квоты чтения.
// Окно — текущий календарный месяц в UTC: граница месяца должна быть
// одинаковой во всех проверках, иначе подсчёт квоты расползается.
package quota

import "time"

// Unlimited — сентинел "лимит отсутствует" в конфигурации лимитов чтения.
const Unlimited = -1

// StartOfMonth возвращает начало календарного месяца (UTC),
// в который попадает момент now: первое число, 00:00:00.
func StartOfMonth(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// IsUnlimited сообщает, означает ли значение лимита отсутствие ограничения.
func IsUnlimited(limit int) bool {
	return limit == Unlimited
}
