package models

// ReadingLimit задаёт месячные лимиты чтения для роли. Значение -1
// означает отсутствие лимита. Справочные данные, редактируются только
// админским инструментарием; отсутствие строки для используемой роли —
// ошибка конфигурации, а не повод разрешить доступ.
type ReadingLimit struct {
	Role                    string // Роль, к которой относится лимит
	MaxReadsPerMonth        int    // Максимум новых статей в месяц, -1 = без лимита
	MaxPremiumReadsPerMonth int    // Максимум премиум-статей в месяц, -1 = без лимита
}
