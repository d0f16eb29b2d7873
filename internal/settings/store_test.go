// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oglaf/DocToMarkdown/internal/apperr"
	"github.com/Oglaf/DocToMarkdown/pkg/types"
)

func sampleSettings() types.Settings {
	return types.Settings{
		PandocPath: "/usr/local/bin/pandoc",
		WikiRoot:   "/srv/wiki",
		AIEnabled:  true,
		AIPrompt:   "Fix heading levels and tighten prose.",
		DocIntel: types.DocIntelConfig{
			Endpoint: "https://docintel.example.com",
			Key:      "di-secret-123",
			Model:    "prebuilt-layout",
		},
		OpenAI: types.AzureOpenAIConfig{
			Endpoint:   "https://openai.example.com",
			Key:        "oai-secret-456",
			Deployment: "gpt-4o",
		},
	}
}

func TestRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	want := sampleSettings()

	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRoundTripEmptySecrets(t *testing.T) {
	store := NewStore(t.TempDir())
	want := types.DefaultSettings()

	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSecretsNotStoredInClear(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Save(sampleSettings()))

	data, err := os.ReadFile(store.ConfigPath)
	require.NoError(t, err)

	content := string(data)
	assert.NotContains(t, content, "di-secret-123")
	assert.NotContains(t, content, "oai-secret-456")
	// Non-secret fields stay readable.
	assert.Contains(t, content, "/usr/local/bin/pandoc")
	assert.Contains(t, content, "https://openai.example.com")
}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConfigUnreadable)
}

func TestLoadCorruptYAML(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.ConfigPath, []byte("{not yaml: ["), 0o644))

	_, err := store.Load()
	assert.ErrorIs(t, err, apperr.ErrConfigUnreadable)
}

func TestLoadTamperedCiphertext(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Save(sampleSettings()))

	data, err := os.ReadFile(store.ConfigPath)
	require.NoError(t, err)

	// Flip one character inside the sealed value.
	content := string(data)
	idx := strings.Index(content, "key_sealed: ")
	require.GreaterOrEqual(t, idx, 0)
	b := []byte(content)
	pos := idx + len("key_sealed: ") + 3
	if b[pos] == 'A' {
		b[pos] = 'B'
	} else {
		b[pos] = 'A'
	}
	require.NoError(t, os.WriteFile(store.ConfigPath, b, 0o644))

	_, err = store.Load()
	assert.ErrorIs(t, err, apperr.ErrConfigUnreadable)
}

func TestLoadWithWrongKey(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Save(sampleSettings()))

	// Replace the key file, simulating a lost or regenerated key.
	require.NoError(t, os.Remove(store.KeyPath))

	_, err := store.Load()
	assert.ErrorIs(t, err, apperr.ErrConfigUnreadable)
}

func TestKeyFileCreatedRestricted(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Save(types.DefaultSettings()))

	info, err := os.Stat(store.KeyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSaveCreatesParentDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")
	store := NewStore(dir)

	require.NoError(t, store.Save(sampleSettings()))

	_, err := os.Stat(store.ConfigPath)
	assert.NoError(t, err)
}

func TestSaveUnwritableDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	store := NewStore(filepath.Join(dir, "sub"))
	err := store.Save(sampleSettings())
	assert.ErrorIs(t, err, apperr.ErrConfigWrite)
}
