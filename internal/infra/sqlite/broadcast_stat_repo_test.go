package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"study-assistant-telegram-bot/internal/usecase"
)

func TestBroadcastStatRepo_SaveAndListRecent(t *testing.T) {
	req := require.New(t)
	db, err := Open(filepath.Join(t.TempDir(), "stats.db"))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })
	repo, err := NewBroadcastStatRepo(db)
	req.NoError(err)

	for i := 0; i < 3; i++ {
		req.NoError(repo.Save(usecase.BroadcastResult{
			RunID:     "run-" + string(rune('a'+i)),
			Total:     10 + i,
			Sent:      9 + i,
			Failed:    1,
			CreatedAt: time.Now(),
		}))
	}

	recent, err := repo.ListRecent(2)
	req.NoError(err)
	req.Len(recent, 2)
	// последние — первыми
	req.Equal("run-c", recent[0].RunID)
	req.Equal("run-b", recent[1].RunID)
	req.Equal(12, recent[0].Total)
}
