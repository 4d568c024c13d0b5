package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibeckermayer/lunchbot/internal/config"
	"github.com/ibeckermayer/lunchbot/internal/source"
	"github.com/ibeckermayer/lunchbot/internal/types"
)

const firstFloorWeek12 = "Meny uke 12, 1. etasje\nMANDAG\nFiskesuppe\nTIRSDAG\nKjøttkaker\n"

type stubSource struct {
	posts []types.Post
	err   error
}

func (s stubSource) Posts(context.Context) ([]types.Post, error) {
	return s.posts, s.err
}

// setupCLITest writes a config file into a temp dir, points the source at
// stub and returns the config path.
func setupCLITest(t *testing.T, stub stubSource) string {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.General.Timezone = "UTC"
	cfg.Facebook.ID = "id"
	cfg.Facebook.Secret = "secret"
	cfg.Store.Path = filepath.Join(dir, "lunchbot.db")
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, cfg.SaveTo(path))

	oldSource := newSource
	newSource = func(context.Context, config.FacebookConfig, *slog.Logger) (source.Source, error) {
		return stub, nil
	}
	t.Cleanup(func() { newSource = oldSource })
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	verbose, configPath = false, ""
	runDate, runDryRun, runForce = "", false, false
	dumpPages, dumpDir = 10, "historical"

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands_Registered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"run", "serve", "dump", "rate", "open"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_Flags(t *testing.T) {
	f := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, f)
	assert.Equal(t, "v", f.Shorthand)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestRunCmd_DryRun(t *testing.T) {
	path := setupCLITest(t, stubSource{posts: []types.Post{{
		Message:     firstFloorWeek12,
		CreatedTime: time.Date(2017, 3, 17, 14, 0, 0, 0, time.UTC),
	}}})

	out, err := execute(t, "", "run", "--config", path, "--dry-run", "--date", "2017-03-20")
	require.NoError(t, err)
	assert.Contains(t, out, "*First floor menu:*\nFiskesuppe")
	assert.Contains(t, out, "Could not find a menu for the third floor today")
}

func TestRunCmd_InvalidDate(t *testing.T) {
	path := setupCLITest(t, stubSource{})

	_, err := execute(t, "", "run", "--config", path, "--dry-run", "--date", "20.03.2017")
	assert.ErrorContains(t, err, "invalid --date")
}

func TestRunCmd_MissingSlackToken(t *testing.T) {
	path := setupCLITest(t, stubSource{})
	t.Setenv(config.EnvSlackToken, "")

	_, err := execute(t, "", "run", "--config", path, "--date", "2017-03-20")
	assert.ErrorContains(t, err, "slack.token")
}

func TestRunCmd_FetchError(t *testing.T) {
	path := setupCLITest(t, stubSource{err: errors.New("unreachable")})

	out, err := execute(t, "", "run", "--config", path, "--dry-run", "--date", "2017-03-20")
	assert.ErrorContains(t, err, "unreachable")
	assert.Contains(t, out, "Could not find a menu for the first floor today")
}

func TestDumpCmd(t *testing.T) {
	path := setupCLITest(t, stubSource{posts: []types.Post{
		{Message: firstFloorWeek12, CreatedTime: time.Date(2017, 3, 17, 14, 0, 0, 0, time.UTC)},
		{Message: "Husk quiz på fredag!", CreatedTime: time.Date(2017, 3, 16, 14, 0, 0, 0, time.UTC)},
	}})
	dir := filepath.Join(t.TempDir(), "historical")

	out, err := execute(t, "", "dump", "--config", path, "--dir", dir, "--pages", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "other")

	_, err = os.Stat(filepath.Join(dir, "170317-first.txt"))
	assert.NoError(t, err)
}

func TestRateCmd_NothingToRate(t *testing.T) {
	path := setupCLITest(t, stubSource{})

	out, err := execute(t, "", "rate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "All menus are rated!")
}

func TestOpenCmd(t *testing.T) {
	var opened string
	oldOpen := openFile
	openFile = func(path string) error {
		opened = path
		return nil
	}
	defer func() { openFile = oldOpen }()

	_, err := execute(t, "", "open", "config", "--config", "/tmp/lunchbot.toml")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/lunchbot.toml", opened)

	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	_, err = execute(t, "", "open", "cache")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(opened, "lunchbot"))
}

func TestOpenCmd_UnknownTarget(t *testing.T) {
	_, err := execute(t, "", "open", "logs")
	assert.ErrorContains(t, err, "unknown target")
}

func TestOpenCmd_RequiresTarget(t *testing.T) {
	_, err := execute(t, "", "open")
	assert.Error(t, err)
}
