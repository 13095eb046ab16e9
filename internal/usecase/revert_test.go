package usecase

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textpatch/internal/adapter/fs"
	"textpatch/internal/adapter/memstore"
	"textpatch/internal/domain"
)

func TestRevert_RestoresOriginals(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.java", "ChipInfo.type.A")
	b := writeFile(t, dir, "b.java", "x ChipInfo.type.B y")
	history := memstore.NewMemoryStore()

	patch, err := newPatcher(t, history).Patch(targetsOf(a, b), chipRule, PatchOptions{Record: true})
	require.NoError(t, err)

	report, err := NewRevertUseCase(fs.NewOSFileSystem(), history, nil).Revert()
	require.NoError(t, err)

	assert.Equal(t, patch.RunID, report.RunID)
	assert.Equal(t, 2, report.Count(domain.OutcomeReverted))
	assert.Equal(t, "ChipInfo.type.A", readFile(t, a))
	assert.Equal(t, "x ChipInfo.type.B y", readFile(t, b))

	_, err = NewRevertUseCase(fs.NewOSFileSystem(), history, nil).Revert()
	assert.ErrorIs(t, err, ErrNothingToRevert)
}

func TestRevert_RefusesEditedFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.java", "ChipInfo.type.A")
	history := memstore.NewMemoryStore()

	_, err := newPatcher(t, history).Patch(targetsOf(a), chipRule, PatchOptions{Record: true})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(a, []byte("hand edited"), 0644))

	report, err := NewRevertUseCase(fs.NewOSFileSystem(), history, nil).Revert()
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, domain.OutcomeFailed, report.Results[0].Outcome)
	assert.ErrorIs(t, report.Results[0].Err, ErrModifiedSincePatch)
	assert.Equal(t, "hand edited", readFile(t, a))

	latest, err := history.LatestRun()
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestRevert_RevertsNewestRunFirst(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "one")
	history := memstore.NewMemoryStore()
	p := newPatcher(t, history)

	_, err := p.Patch(targetsOf(a), []domain.Rule{{From: "one", To: "two"}}, PatchOptions{Record: true})
	require.NoError(t, err)
	_, err = p.Patch(targetsOf(a), []domain.Rule{{From: "two", To: "three"}}, PatchOptions{Record: true})
	require.NoError(t, err)

	r := NewRevertUseCase(fs.NewOSFileSystem(), history, nil)
	_, err = r.Revert()
	require.NoError(t, err)
	assert.Equal(t, "two", readFile(t, a))

	_, err = r.Revert()
	require.NoError(t, err)
	assert.Equal(t, "one", readFile(t, a))
}

func TestRevert_AlreadyOriginalIsUnchanged(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "one")
	history := memstore.NewMemoryStore()
	require.NoError(t, history.PutRun(domain.Run{ID: "r1", Files: []string{a}}))
	require.NoError(t, history.PutBackup("r1", domain.Backup{Path: a, Original: []byte("one"), PatchedSum: Checksum([]byte("two"))}))

	report, err := NewRevertUseCase(fs.NewOSFileSystem(), history, nil).Revert()
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUnchanged, report.Results[0].Outcome)
}
