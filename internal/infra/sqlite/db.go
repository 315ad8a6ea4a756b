package sqlite

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// Open возвращает общий хэндл для всех репозиториев.
// Одно подключение: драйвер не терпит конкурентной записи по одному файлу.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
