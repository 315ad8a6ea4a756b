package sqlite

import (
	"database/sql"
	"time"
)

type UsageRepo struct {
	db *sql.DB
}

func NewUsageRepo(db *sql.DB) (*UsageRepo, error) {
	if err := migrateUsage(db); err != nil {
		return nil, err
	}
	return &UsageRepo{db: db}, nil
}

func migrateUsage(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS usage_hits (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    mode TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_usage_hits_mode ON usage_hits(mode);
CREATE INDEX IF NOT EXISTS idx_usage_hits_user_mode ON usage_hits(user_id, mode);
`)
	return err
}

func (r *UsageRepo) Hit(mode string, userID int64) error {
	_, err := r.db.Exec(`INSERT INTO usage_hits(user_id, mode, created_at) VALUES(?,?,?)`, userID, mode, time.Now())
	return err
}

func (r *UsageRepo) Counts() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT mode, COUNT(DISTINCT user_id) FROM usage_hits GROUP BY mode`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var mode string
		var cnt int
		if err := rows.Scan(&mode, &cnt); err != nil {
			return nil, err
		}
		out[mode] = cnt
	}
	return out, rows.Err()
}
