package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, time.Second, cfg.Grid.CommentDebounce)
	assert.Equal(t, 150*time.Millisecond, cfg.Grid.PriorityDelay)
	assert.Equal(t, 200*time.Millisecond, cfg.Grid.LongPressThreshold)
	assert.Equal(t, 10.0, cfg.Grid.LongPressTolerance)
	assert.Equal(t, ViewportConfig{MinScale: 0.5, MaxScale: 2.0, PanAllowedBelowOne: false}, cfg.Grid.PageViewport)
	assert.Equal(t, ViewportConfig{MinScale: 0.3, MaxScale: 5.0, PanAllowedBelowOne: true}, cfg.Grid.TableViewport)
	assert.False(t, cfg.Backend.Enabled)
	assert.Equal(t, 3, cfg.Backend.MaxRetryAttempts)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("GRID_COMMENT_DEBOUNCE", "2s")
	t.Setenv("BACKEND_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Grid.CommentDebounce)
	assert.True(t, cfg.Backend.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("GRID_PRIORITY_DELAY", "soon")

	_, err := Load()
	assert.Error(t, err)
}
