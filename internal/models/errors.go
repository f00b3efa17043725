package models

import "errors"

// Стандартные ошибки уровня домена. Репозитории и сервисы возвращают их
// вместо ошибок драйверов, чтобы вызывающий код мог использовать errors.Is.
var (
	// ErrNotFound is returned when a requested record does not exist in the store.
	ErrNotFound = errors.New("not found")

	// ErrPlayerNotFound is returned when no live player exists for a connection.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrNPCNotFound is returned when an interaction names an unknown NPC.
	ErrNPCNotFound = errors.New("npc not found")

	// ErrUnknownAction is returned by the dispatcher for an unrecognized action tag.
	ErrUnknownAction = errors.New("unknown action type")
)
