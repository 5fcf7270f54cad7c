package locale

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileFallsBackToDefault(t *testing.T) {
	l, err := Load(t.TempDir(), "xx")
	require.NoError(t, err)
	assert.Equal(t, Default(), l)
}

func TestLoad_OverlaysProvidedKeys(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "lang"), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dataDir, "lang", "fr.ini"),
		[]byte("login = Identifiant :\nerr_pam_auth = mot de passe incorrect\n"),
		0644,
	))

	l, err := Load(dataDir, "fr")
	require.NoError(t, err)

	assert.Equal(t, "Identifiant :", l.Login)
	assert.Equal(t, "mot de passe incorrect", l.ErrPamAuth)
	assert.Equal(t, Default().Password, l.Password)
}
