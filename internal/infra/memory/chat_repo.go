package memory

import (
	"sync"
	"time"

	"study-assistant-telegram-bot/internal/domain"
)

type chatKey struct {
	id   int64
	kind domain.ChatKind
}

type chatRecord struct {
	mu    sync.Mutex
	ident domain.ChatIdentity
}

// ChatRepo — реестр чатов в памяти процесса. Служит запасным хранилищем при
// деградации sqlite и основным в тестах. Блокировка per-key: чаты не мешают
// друг другу.
type ChatRepo struct {
	entries sync.Map // chatKey -> *chatRecord
}

func NewChatRepo() *ChatRepo {
	return &ChatRepo{}
}

func (r *ChatRepo) Register(id int64, kind domain.ChatKind, displayName string, seenAt time.Time) error {
	v, _ := r.entries.LoadOrStore(chatKey{id: id, kind: kind}, &chatRecord{})
	rec := v.(*chatRecord)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.ident.FirstSeen.IsZero() {
		rec.ident = domain.ChatIdentity{ID: id, Kind: kind, FirstSeen: seenAt, LastSeen: seenAt}
	}
	if displayName != "" {
		rec.ident.DisplayName = displayName
	}
	if seenAt.After(rec.ident.LastSeen) {
		rec.ident.LastSeen = seenAt
	}
	return nil
}

func (r *ChatRepo) CountByKind(kind domain.ChatKind) (int, error) {
	n := 0
	r.entries.Range(func(k, _ any) bool {
		if k.(chatKey).kind == kind {
			n++
		}
		return true
	})
	return n, nil
}

func (r *ChatRepo) ListIDs(kind domain.ChatKind) ([]int64, error) {
	ids := make([]int64, 0, 128)
	r.entries.Range(func(k, _ any) bool {
		if key := k.(chatKey); key.kind == kind {
			ids = append(ids, key.id)
		}
		return true
	})
	return ids, nil
}

func (r *ChatRepo) Find(id int64, kind domain.ChatKind) (domain.ChatIdentity, bool, error) {
	v, ok := r.entries.Load(chatKey{id: id, kind: kind})
	if !ok {
		return domain.ChatIdentity{}, false, nil
	}
	rec := v.(*chatRecord)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.ident, true, nil
}
