package sqlite

import (
	"database/sql"
	"time"

	"study-assistant-telegram-bot/internal/usecase"
)

type BroadcastStatRepo struct {
	db *sql.DB
}

func NewBroadcastStatRepo(db *sql.DB) (*BroadcastStatRepo, error) {
	if err := migrateBroadcastStat(db); err != nil {
		return nil, err
	}
	return &BroadcastStatRepo{db: db}, nil
}

func migrateBroadcastStat(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS broadcast_stats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL DEFAULT '',
    total INTEGER NOT NULL,
    sent INTEGER NOT NULL,
    failed INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`)
	return err
}

func (r *BroadcastStatRepo) Save(res usecase.BroadcastResult) error {
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO broadcast_stats(run_id, total, sent, failed, created_at) VALUES(?,?,?,?,?)`,
		res.RunID, res.Total, res.Sent, res.Failed, res.CreatedAt)
	return err
}

func (r *BroadcastStatRepo) ListRecent(n int) ([]usecase.BroadcastResult, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := r.db.Query(`SELECT run_id, total, sent, failed, created_at FROM broadcast_stats ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]usecase.BroadcastResult, 0, n)
	for rows.Next() {
		var s usecase.BroadcastResult
		if err := rows.Scan(&s.RunID, &s.Total, &s.Sent, &s.Failed, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
