package sqlite

import (
	"database/sql"
	"time"

	"study-assistant-telegram-bot/internal/domain"
)

type ChatRepo struct {
	db *sql.DB
}

func NewChatRepo(db *sql.DB) (*ChatRepo, error) {
	if err := migrateChats(db); err != nil {
		return nil, err
	}
	return &ChatRepo{db: db}, nil
}

func migrateChats(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS chats (
    chat_id INTEGER NOT NULL,
    kind TEXT NOT NULL,
    display_name TEXT NOT NULL DEFAULT '',
    first_seen TIMESTAMP NOT NULL,
    last_seen TIMESTAMP NOT NULL,
    PRIMARY KEY (chat_id, kind)
);
CREATE INDEX IF NOT EXISTS idx_chats_kind ON chats(kind);
`)
	return err
}

// Register — атомарный upsert: first_seen только вставляется, last_seen не
// откатывается назад, display_name обновляется только непустым значением.
func (r *ChatRepo) Register(id int64, kind domain.ChatKind, displayName string, seenAt time.Time) error {
	_, err := r.db.Exec(`
INSERT INTO chats(chat_id, kind, display_name, first_seen, last_seen) VALUES(?,?,?,?,?)
ON CONFLICT(chat_id, kind) DO UPDATE SET
    display_name = COALESCE(NULLIF(excluded.display_name, ''), display_name),
    last_seen = MAX(last_seen, excluded.last_seen)`,
		id, string(kind), displayName, seenAt, seenAt)
	return err
}

func (r *ChatRepo) CountByKind(kind domain.ChatKind) (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM chats WHERE kind = ?`, string(kind)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *ChatRepo) ListIDs(kind domain.ChatKind) ([]int64, error) {
	rows, err := r.db.Query(`SELECT chat_id FROM chats WHERE kind = ? ORDER BY chat_id`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]int64, 0, 128)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Find используется отчётами и тестами; отсутствие записи — не ошибка.
func (r *ChatRepo) Find(id int64, kind domain.ChatKind) (domain.ChatIdentity, bool, error) {
	var ident domain.ChatIdentity
	var k string
	err := r.db.QueryRow(`SELECT chat_id, kind, display_name, first_seen, last_seen FROM chats WHERE chat_id = ? AND kind = ?`,
		id, string(kind)).Scan(&ident.ID, &k, &ident.DisplayName, &ident.FirstSeen, &ident.LastSeen)
	if err == sql.ErrNoRows {
		return domain.ChatIdentity{}, false, nil
	}
	if err != nil {
		return domain.ChatIdentity{}, false, err
	}
	ident.Kind = domain.ChatKind(k)
	return ident, true, nil
}
