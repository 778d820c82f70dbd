package commons

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_OverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
grid:
  commentDebounce: 750ms
  tableViewport:
    maxScale: 4
backend:
  enabled: true
cors:
  allowedOrigins: ["https://dash.example.com"]
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 750*time.Millisecond, cfg.Grid.CommentDebounce)
	assert.Equal(t, 4.0, cfg.Grid.TableViewport.MaxScale)
	assert.Equal(t, 0.3, cfg.Grid.TableViewport.MinScale, "unset keys keep their defaults")
	assert.Equal(t, 150*time.Millisecond, cfg.Grid.PriorityDelay)
	assert.True(t, cfg.Backend.Enabled)
	assert.Equal(t, []string{"https://dash.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfig_MissingFileUsesEnvironment(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Grid.CommentDebounce)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
