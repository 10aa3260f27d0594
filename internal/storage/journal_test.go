package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRun struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

func TestJournalAppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")

	j, err := OpenJournal(path)
	require.NoError(t, err)
	assert.Empty(t, j.Records())

	_, err = j.Append(fakeRun{ID: "run-1", Success: true})
	require.NoError(t, err)
	_, err = j.Append(fakeRun{ID: "run-2", Success: false})
	require.NoError(t, err)

	// Reopen from disk and check everything survived.
	reloaded, err := OpenJournal(path)
	require.NoError(t, err)
	recs := reloaded.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, 0, recs[0].Seq)
	assert.Equal(t, 1, recs[1].Seq)
	require.NoError(t, reloaded.Verify())

	run, ok := reloaded.FindRun("run-2")
	require.True(t, ok)
	assert.Contains(t, string(run), `"id":"run-2"`)

	_, ok = reloaded.FindRun("run-3")
	assert.False(t, ok)
}

func TestJournalVerifyDetectsTampering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")

	j, err := OpenJournal(path)
	require.NoError(t, err)
	_, err = j.Append(fakeRun{ID: "run-1", Success: true})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := strings.Replace(string(data), "run-1", "run-X", 1)
	require.NoError(t, os.WriteFile(path, []byte(tampered), 0o644))

	reloaded, err := OpenJournal(path)
	require.NoError(t, err)
	err = reloaded.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestJournalRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("not json\n"), 0o644))

	_, err := OpenJournal(path)
	assert.Error(t, err)
}
