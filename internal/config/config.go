package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Grid     GridConfig     `yaml:"grid"`
	Backend  BackendConfig  `yaml:"backend"`
	CORS     CORSConfig     `yaml:"cors"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	MaxUploadBytes  int64         `yaml:"maxUploadBytes"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ViewportConfig struct {
	MinScale           float64 `yaml:"minScale"`
	MaxScale           float64 `yaml:"maxScale"`
	PanAllowedBelowOne bool    `yaml:"panAllowedBelowOne"`
}

type GridConfig struct {
	CommentDebounce    time.Duration  `yaml:"commentDebounce"`
	PriorityDelay      time.Duration  `yaml:"priorityDelay"`
	LongPressThreshold time.Duration  `yaml:"longPressThreshold"`
	LongPressTolerance float64        `yaml:"longPressTolerance"`
	RowHeight          float64        `yaml:"rowHeight"`
	DefaultCommission  string         `yaml:"defaultCommission"`
	PageViewport       ViewportConfig `yaml:"pageViewport"`
	TableViewport      ViewportConfig `yaml:"tableViewport"`
	FitMargin          float64        `yaml:"fitMargin"`
	FitMaxScale        float64        `yaml:"fitMaxScale"`
	WheelSensitivity   float64        `yaml:"wheelSensitivity"`
	ScanStatus         string         `yaml:"scanStatus"`
}

type BackendConfig struct {
	Enabled          bool          `yaml:"enabled"`
	FlushInterval    time.Duration `yaml:"flushInterval"`
	TxTimeout        time.Duration `yaml:"txTimeout"`
	MaxRetryAttempts int           `yaml:"maxRetryAttempts"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "30s")
	v.SetDefault("SERVER_MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "ordertrack")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "ordertrack")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("GRID_COMMENT_DEBOUNCE", "1000ms")
	v.SetDefault("GRID_PRIORITY_DELAY", "150ms")
	v.SetDefault("GRID_LONG_PRESS_THRESHOLD", "200ms")
	v.SetDefault("GRID_LONG_PRESS_TOLERANCE", 10)
	v.SetDefault("GRID_ROW_HEIGHT", 48)
	v.SetDefault("GRID_DEFAULT_COMMISSION", "0")
	v.SetDefault("GRID_PAGE_MIN_SCALE", 0.5)
	v.SetDefault("GRID_PAGE_MAX_SCALE", 2.0)
	v.SetDefault("GRID_PAGE_PAN_BELOW_ONE", false)
	v.SetDefault("GRID_TABLE_MIN_SCALE", 0.3)
	v.SetDefault("GRID_TABLE_MAX_SCALE", 5.0)
	v.SetDefault("GRID_TABLE_PAN_BELOW_ONE", true)
	v.SetDefault("GRID_FIT_MARGIN", 0.9)
	v.SetDefault("GRID_FIT_MAX_SCALE", 3.0)
	v.SetDefault("GRID_WHEEL_SENSITIVITY", 0.002)
	v.SetDefault("GRID_SCAN_STATUS", "")

	v.SetDefault("BACKEND_ENABLED", false)
	v.SetDefault("BACKEND_FLUSH_INTERVAL", "2s")
	v.SetDefault("BACKEND_TX_TIMEOUT", "5s")
	v.SetDefault("BACKEND_MAX_RETRY_ATTEMPTS", 3)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetInt("SERVER_PORT"),
			MaxUploadBytes: v.GetInt64("SERVER_MAX_UPLOAD_BYTES"),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Grid: GridConfig{
			LongPressTolerance: v.GetFloat64("GRID_LONG_PRESS_TOLERANCE"),
			RowHeight:          v.GetFloat64("GRID_ROW_HEIGHT"),
			DefaultCommission:  v.GetString("GRID_DEFAULT_COMMISSION"),
			PageViewport: ViewportConfig{
				MinScale:           v.GetFloat64("GRID_PAGE_MIN_SCALE"),
				MaxScale:           v.GetFloat64("GRID_PAGE_MAX_SCALE"),
				PanAllowedBelowOne: v.GetBool("GRID_PAGE_PAN_BELOW_ONE"),
			},
			TableViewport: ViewportConfig{
				MinScale:           v.GetFloat64("GRID_TABLE_MIN_SCALE"),
				MaxScale:           v.GetFloat64("GRID_TABLE_MAX_SCALE"),
				PanAllowedBelowOne: v.GetBool("GRID_TABLE_PAN_BELOW_ONE"),
			},
			FitMargin:        v.GetFloat64("GRID_FIT_MARGIN"),
			FitMaxScale:      v.GetFloat64("GRID_FIT_MAX_SCALE"),
			WheelSensitivity: v.GetFloat64("GRID_WHEEL_SENSITIVITY"),
			ScanStatus:       v.GetString("GRID_SCAN_STATUS"),
		},
		Backend: BackendConfig{
			Enabled:          v.GetBool("BACKEND_ENABLED"),
			MaxRetryAttempts: v.GetInt("BACKEND_MAX_RETRY_ATTEMPTS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	durations := map[string]*time.Duration{
		"SERVER_READ_TIMEOUT":       &cfg.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT":      &cfg.Server.WriteTimeout,
		"SERVER_SHUTDOWN_TIMEOUT":   &cfg.Server.ShutdownTimeout,
		"DB_CONN_MAX_LIFETIME":      &cfg.Database.ConnMaxLifetime,
		"GRID_COMMENT_DEBOUNCE":     &cfg.Grid.CommentDebounce,
		"GRID_PRIORITY_DELAY":       &cfg.Grid.PriorityDelay,
		"GRID_LONG_PRESS_THRESHOLD": &cfg.Grid.LongPressThreshold,
		"BACKEND_FLUSH_INTERVAL":    &cfg.Backend.FlushInterval,
		"BACKEND_TX_TIMEOUT":        &cfg.Backend.TxTimeout,
	}
	for key, dst := range durations {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		*dst = d
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
