package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"textpatch/internal/domain"
)

func TestMemoryStore_RunsNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.PutRun(domain.Run{ID: "a"}))
	require.NoError(t, s.PutRun(domain.Run{ID: "c"}))
	require.NoError(t, s.PutRun(domain.Run{ID: "b"}))

	runs, err := s.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})

	require.NoError(t, s.MarkReverted("c"))
	latest, err := s.LatestRun()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "b", latest.ID)
}

func TestMemoryStore_BackupIsCopied(t *testing.T) {
	s := NewMemoryStore()
	orig := []byte("abc")
	require.NoError(t, s.PutBackup("r", domain.Backup{Path: "p", Original: orig}))
	orig[0] = 'X'

	backups, err := s.GetBackups("r")
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, "abc", string(backups[0].Original))
}

func TestMemoryStore_DeleteRun(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.PutRun(domain.Run{ID: "r"}))
	require.NoError(t, s.PutBackup("r", domain.Backup{Path: "p"}))

	require.NoError(t, s.DeleteRun("r"))

	latest, err := s.LatestRun()
	require.NoError(t, err)
	assert.Nil(t, latest)
	backups, err := s.GetBackups("r")
	require.NoError(t, err)
	assert.Empty(t, backups)
}
