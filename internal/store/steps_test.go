package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedMenu struct {
	First string `json:"first"`
}

func TestStepOutput_RoundTrip(t *testing.T) {
	root := t.TempDir()

	path, err := SaveStepOutput(root, StepMenu, cachedMenu{First: "Fiskesuppe"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "menu"), filepath.Dir(path))

	got, latest, err := LoadLatestStepOutput[cachedMenu](root, StepMenu)
	require.NoError(t, err)
	assert.Equal(t, path, latest)
	assert.Equal(t, "Fiskesuppe", got.First)
}

func TestLatestStepFile_Empty(t *testing.T) {
	_, err := LatestStepFile(t.TempDir(), StepPosts)
	assert.ErrorContains(t, err, "no cached output for step posts")
}

func TestLoadStepOutput_Corrupt(t *testing.T) {
	root := t.TempDir()
	path, err := SaveStepOutput(root, StepPosts, []string{"a"})
	require.NoError(t, err)

	_, err = LoadStepOutput[cachedMenu](path)
	assert.Error(t, err)
}

func TestPruneSteps(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, string(StepPosts))
	require.NoError(t, os.MkdirAll(dir, 0755))
	names := []string{
		"2017-03-20T10-00-00.000.json",
		"2017-03-21T10-00-00.000.json",
		"2017-03-22T10-00-00.000.json",
		"notes.txt",
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("[]"), 0644))
	}

	removed, err := PruneSteps(root, StepPosts, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	latest, err := LatestStepFile(root, StepPosts)
	require.NoError(t, err)
	assert.Equal(t, "2017-03-22T10-00-00.000.json", filepath.Base(latest))

	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	assert.NoError(t, err)
}

func TestPruneSteps_NothingToDo(t *testing.T) {
	removed, err := PruneSteps(t.TempDir(), StepMenu, 5)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
