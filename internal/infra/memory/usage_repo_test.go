package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUsageRepo_CountsDistinctUsers(t *testing.T) {
	req := require.New(t)
	repo := NewUsageRepo()

	req.NoError(repo.Hit("notes", 1))
	req.NoError(repo.Hit("notes", 1))
	req.NoError(repo.Hit("notes", 2))
	req.NoError(repo.Hit("quiz", 1))

	counts, err := repo.Counts()
	req.NoError(err)
	req.Equal(map[string]int{"notes": 2, "quiz": 1}, counts)
}
