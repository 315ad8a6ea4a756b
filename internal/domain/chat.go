package domain

import (
	"errors"
	"time"
)

// ChatKind различает личные чаты и группы; у каждой записи свой ключ (id, kind)
type ChatKind string

const (
	ChatKindPrivate ChatKind = "private"
	ChatKindGroup   ChatKind = "group"
)

// ErrStoreUnavailable сигнализирует, что хранилище чатов недоступно.
// Отличается от "записей нет" — отчёты для владельца обязаны их различать.
var ErrStoreUnavailable = errors.New("chat store unavailable")

type ChatIdentity struct {
	ID          int64
	Kind        ChatKind
	DisplayName string
	FirstSeen   time.Time
	LastSeen    time.Time
}

// ChatRegistry хранит всех известных боту пользователей и группы.
// Register идемпотентен и вызывается на каждое входящее сообщение.
type ChatRegistry interface {
	Register(id int64, kind ChatKind, displayName string, seenAt time.Time) error
	CountByKind(kind ChatKind) (int, error)
	ListIDs(kind ChatKind) ([]int64, error)
}
