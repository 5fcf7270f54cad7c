package vty

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvrzna/vty/config"
)

func TestSaveFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vty.save")

	cfg := config.Default()
	cfg.Save = true
	cfg.SaveFile = path

	cat := NewCatalog(".xinitrc")
	cat.SetCur(1)

	saveFile(cfg, "alice", cat)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alice\n1", string(raw))

	login, err2 := NewCredential(32, 32, false)
	require.Nil(t, err2)
	loaded := NewCatalog(".xinitrc")
	loadSaveFile(path, login, loaded)

	assert.Equal(t, "alice", login.String())
	assert.Equal(t, 1, loaded.Cur())
}

func TestSaveFile_DisabledWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vty.save")

	cfg := config.Default()
	cfg.Save = false
	cfg.SaveFile = path

	saveFile(cfg, "alice", NewCatalog(".xinitrc"))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadSaveFile_MissingFileLeavesDefaults(t *testing.T) {
	login, err := NewCredential(32, 32, false)
	require.Nil(t, err)
	cat := NewCatalog(".xinitrc")

	loadSaveFile(filepath.Join(t.TempDir(), "missing"), login, cat)

	assert.Equal(t, "", login.String())
	assert.Equal(t, 0, cat.Cur())
}

func TestLoadSaveFile_OutOfRangeIndexIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vty.save")
	require.NoError(t, os.WriteFile(path, []byte("bob\n99"), 0644))

	login, err := NewCredential(32, 32, false)
	require.Nil(t, err)
	cat := NewCatalog(".xinitrc")

	loadSaveFile(path, login, cat)

	assert.Equal(t, "bob", login.String())
	assert.Equal(t, 0, cat.Cur())
}
