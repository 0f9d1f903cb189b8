package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
app_token: xapp-1-abc
bot_token: xoxb-abc

socket_mode:
  connect_retries: 3
  stale_threshold: 90s

log:
  level: debug
  format: console
`

// writeTestConfig 写出一个临时配置文件并返回路径
func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeTestConfig(t, testYAML)

	c := New(WithConfigFile(path))
	require.NoError(t, c.Load())
	defer c.Close()

	assert.Equal(t, "xapp-1-abc", c.GetString("app_token"))
	assert.Equal(t, 3, c.GetInt("socket_mode.connect_retries"))
	assert.Equal(t, 90*time.Second, c.GetDuration("socket_mode.stale_threshold"))
	assert.Equal(t, "debug", c.GetString("log.level"))
	assert.True(t, c.IsSet("bot_token"))
	assert.False(t, c.IsSet("missing"))
}

func TestLoadByNameAndPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bot.yaml"), []byte(testYAML), 0o644))

	c := New(
		WithConfigName("bot"),
		WithConfigType("yaml"),
		WithConfigPaths(dir),
	)
	require.NoError(t, c.Load())
	defer c.Close()

	assert.Equal(t, "xoxb-abc", c.GetString("bot_token"))
}

func TestLoadNotFound(t *testing.T) {
	c := New(
		WithConfigName("nonexistent"),
		WithConfigType("yaml"),
		WithConfigPaths(t.TempDir()),
	)
	assert.ErrorIs(t, c.Load(), ErrConfigNotFound)
}

func TestLoadDefaults(t *testing.T) {
	path := writeTestConfig(t, testYAML)

	c := New(
		WithConfigFile(path),
		WithDefaults(map[string]any{
			"socket_mode.poll_interval": "100ms",
			"app_token":                 "xapp-default",
		}),
	)
	require.NoError(t, c.Load())
	defer c.Close()

	// 文件值覆盖默认值，文件未给出的键落在默认值上
	assert.Equal(t, "xapp-1-abc", c.GetString("app_token"))
	assert.Equal(t, 100*time.Millisecond, c.GetDuration("socket_mode.poll_interval"))
}

func TestUnmarshalKey(t *testing.T) {
	path := writeTestConfig(t, testYAML)

	c := New(WithConfigFile(path))
	require.NoError(t, c.Load())
	defer c.Close()

	var sm struct {
		ConnectRetries int           `mapstructure:"connect_retries"`
		StaleThreshold time.Duration `mapstructure:"stale_threshold"`
	}
	require.NoError(t, c.UnmarshalKey("socket_mode", &sm))
	assert.Equal(t, 3, sm.ConnectRetries)
	assert.Equal(t, 90*time.Second, sm.StaleThreshold)
}

func TestSetOverrides(t *testing.T) {
	path := writeTestConfig(t, testYAML)

	c := New(WithConfigFile(path))
	require.NoError(t, c.Load())
	defer c.Close()

	c.Set("log.level", "error")
	assert.Equal(t, "error", c.GetString("log.level"))
}

func TestWatchReloads(t *testing.T) {
	path := writeTestConfig(t, testYAML)

	changed := make(chan struct{}, 1)
	c := New(
		WithConfigFile(path),
		WithAutoWatch(true),
		WithOnChange(func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		}),
	)
	require.NoError(t, c.Load())
	defer c.Close()

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("未收到配置变更回调")
	}

	assert.Eventually(t, func() bool {
		return c.GetString("log.level") == "warn"
	}, 2*time.Second, 50*time.Millisecond)
}
