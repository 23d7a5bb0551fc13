package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv hides any real settings from the developer's environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range Keys {
		t.Setenv(k, "")
	}
}

func writeEnv(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	clearEnv(t)
	path := writeEnv(t, t.TempDir(), "")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Автор", cfg.AuthorName)
	assert.Equal(t, "https://", cfg.AuthorURL)
	assert.False(t, cfg.AddID)
	assert.False(t, cfg.RenderMermaid)
	assert.Empty(t, cfg.TelegramBotToken)
	assert.Equal(t, path, cfg.File)
}

func TestLoadFileValues(t *testing.T) {
	clearEnv(t)
	path := writeEnv(t, t.TempDir(), `TELEGRAM_BOT_TOKEN=123:abc
TELEGRAM_CHANNEL=@news
AUTHOR_NAME="Иван Петров"
IMGBB_API_KEY=key
ADD_ID=True
RENDER_MERMAID=true
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.TelegramBotToken)
	assert.Equal(t, "@news", cfg.TelegramChannel)
	assert.Equal(t, "Иван Петров", cfg.AuthorName)
	assert.Equal(t, "key", cfg.ImgBBAPIKey)
	assert.True(t, cfg.AddID)
	assert.True(t, cfg.RenderMermaid)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeEnv(t, t.TempDir(), "TELEGRAM_CHANNEL=@file\n")
	t.Setenv(KeyTelegramChannel, "@env")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "@env", cfg.TelegramChannel)
}

func TestLocateIn(t *testing.T) {
	work := t.TempDir()
	user := filepath.Join(t.TempDir(), "mdp")

	// 当前目录没有 .env：创建用户级空文件
	got, err := LocateIn(work, user)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(user, FileName), got)
	assert.FileExists(t, got)

	// 当前目录的 .env 优先
	local := writeEnv(t, work, "A=1\n")
	got, err = LocateIn(work, user)
	require.NoError(t, err)
	assert.Equal(t, local, got)
}

func TestSavePreservesOtherKeys(t *testing.T) {
	clearEnv(t)
	path := writeEnv(t, t.TempDir(), "TELEGRAM_CHANNEL=@news\nIMGBB_API_KEY=key\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Save(KeyTelegraphAccessToken, "tg-token"))
	assert.Equal(t, "tg-token", cfg.TelegraphAccessToken)

	values, err := Values(path)
	require.NoError(t, err)
	assert.Equal(t, []KeyValue{
		{Key: "IMGBB_API_KEY", Value: "key"},
		{Key: "TELEGRAM_CHANNEL", Value: "@news"},
		{Key: "TELEGRAPH_ACCESS_TOKEN", Value: "tg-token"},
	}, values)

	reloaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tg-token", reloaded.TelegraphAccessToken)
	assert.Equal(t, "@news", reloaded.TelegramChannel)
}

func TestCopyTemplate(t *testing.T) {
	template := writeEnv(t, t.TempDir(), "AUTHOR_NAME=me\n")
	dest := filepath.Join(t.TempDir(), "nested", FileName)

	got, err := CopyTemplate(template, dest)
	require.NoError(t, err)
	assert.Equal(t, dest, got)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "AUTHOR_NAME=me\n", string(data))

	_, err = CopyTemplate(filepath.Join(t.TempDir(), "missing"), dest)
	assert.Error(t, err)
}
