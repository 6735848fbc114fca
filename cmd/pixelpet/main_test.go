package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/pixelpet/internal/db"
	"github.com/erazemk/pixelpet/internal/service"
)

func TestLevelRouter(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := slog.New(&levelRouter{
		stdout: slog.NewTextHandler(&out, nil),
		stderr: slog.NewTextHandler(&errOut, nil),
	}).With("component", "test")

	logger.Debug("dropped")
	logger.Info("hello")
	logger.Warn("careful")
	logger.Error("broken")

	assert.NotContains(t, out.String(), "dropped")
	assert.Contains(t, out.String(), "hello")
	assert.Contains(t, out.String(), "careful")
	assert.NotContains(t, out.String(), "broken")
	assert.Contains(t, errOut.String(), "broken")
	assert.Contains(t, errOut.String(), "component=test")
}

func TestInitDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixelpet.db")

	password, err := initDatabase(context.Background(), path, "admin")
	require.NoError(t, err)
	assert.Len(t, password, generatedPasswordLength)

	database, err := db.Open(path)
	require.NoError(t, err)
	defer database.Close()

	u, err := service.Authenticate(context.Background(), database, "admin", password)
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)
}

func TestInitDatabaseRemovesFileOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixelpet.db")

	_, err := initDatabase(context.Background(), path, "  ")
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixelpet.db")
	t.Setenv("PIXELPET_CONFIG", "")
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"init", "--db", path, "--user", "keeper"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Username: keeper")

	var line string
	for _, l := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(strings.TrimSpace(l), "Password:") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), "Password:"))
		}
	}
	assert.Len(t, line, generatedPasswordLength)

	rootCmd.SetArgs([]string{"init", "--db", path})
	assert.Error(t, rootCmd.Execute(), "second init must refuse an existing database")
}
