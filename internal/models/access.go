package models

import "time"

// AccessRecord — запись о доступе пользователя к статье. Хранится одна
// строка на пару (user, article): повторное чтение обновляет ReadAt,
// а не создаёт новую строку. Месячная квота считается по числу строк
// с ReadAt внутри текущего месяца, поэтому повторные чтения уже
// открытых статей квоту не расходуют.
type AccessRecord struct {
	UserUID    string    // Идентификатор пользователя
	ArticleUID string    // Идентификатор статьи
	ReadAt     time.Time // Момент последнего чтения
}
