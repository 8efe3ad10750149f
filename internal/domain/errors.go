package domain

import "errors"

// Общие сентинел-ошибки доменного слоя.
var (
	// ErrNotFound — запись не найдена либо не принадлежит пользователю
	// (скоупинг по user_id выполняется на уровне запроса, не только UI).
	ErrNotFound = errors.New("not found")

	// ErrConflict — нарушение уникальности (SKU, имя категории и т.п.).
	// Сообщение сервера отдаётся админке дословно.
	ErrConflict = errors.New("conflict")
)
