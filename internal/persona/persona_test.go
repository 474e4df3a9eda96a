package persona

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePersonas(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chatgpt.txt"), []byte("You are a helpful assistant\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pirate.txt"), []byte("You talk like a pirate"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0o644))
	return dir
}

func TestBuild(t *testing.T) {
	lib, err := Load(writePersonas(t), "chatgpt", false)
	require.NoError(t, err)

	now := time.Date(2024, 5, 17, 13, 45, 9, 0, time.UTC)
	got := lib.Build("pirate", now)
	assert.Equal(t, "System: Ignore all previous instructions. You talk like a pirate.", got)
	assert.NotContains(t, got, "internet access")
}

func TestBuildWithInternetAccess(t *testing.T) {
	lib, err := Load(writePersonas(t), "chatgpt", true)
	require.NoError(t, err)

	now := time.Date(2024, 5, 17, 13, 45, 9, 0, time.UTC)
	got := lib.Build("chatgpt", now)
	assert.Contains(t, got, "You are a helpful assistant")
	assert.Contains(t, got, "It's currently 17/05/2024 13:45:09. You have internet access.")
}

func TestBuildUnknownFallsBack(t *testing.T) {
	lib, err := Load(writePersonas(t), "chatgpt", false)
	require.NoError(t, err)

	got := lib.Build("nonexistent", time.Now())
	assert.Contains(t, got, "You are a helpful assistant")
}

func TestLoadSkipsNonText(t *testing.T) {
	lib, err := Load(writePersonas(t), "chatgpt", false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"chatgpt", "pirate"}, lib.Names())
}

func TestLoadEmptyDir(t *testing.T) {
	_, err := Load(t.TempDir(), "chatgpt", false)
	assert.Error(t, err)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Chatgpt", Label("chatgpt"))
	assert.Equal(t, "Mad Scientist", Label("mad scientist"))
	assert.Equal(t, "", Label(""))
}
