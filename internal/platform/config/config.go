package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPassingMarks    = 60
	defaultRateLimitQuota  = 10
	defaultRateLimitWindow = time.Minute
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// LoggingConfig はロガーの設定です。
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LifecycleConfig は採用ライフサイクルのポリシー設定です。
type LifecycleConfig struct {
	PassingMarks     int  `yaml:"-"`
	PassingMarksRaw  *int `yaml:"passing_marks"`
	StrictScheduling bool `yaml:"strict_scheduling"`
}

// RateLimitConfig はツール呼び出しのペース制御設定です。
type RateLimitConfig struct {
	Quota     int           `yaml:"quota"`
	Window    time.Duration `yaml:"-"`
	WindowRaw string        `yaml:"window"`
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Logging.validateAndNormalize(); err != nil {
		return err
	}

	if err := c.Lifecycle.validateAndNormalize(); err != nil {
		return err
	}

	return c.RateLimit.validateAndNormalize()
}

// 未指定の場合のみ既定値を使い、明示的な 0 は保持します。
func (l *LifecycleConfig) validateAndNormalize() error {
	if l.PassingMarksRaw == nil {
		l.PassingMarks = defaultPassingMarks
		return nil
	}
	if *l.PassingMarksRaw < 0 {
		return fmt.Errorf("config: lifecycle.passing_marks must not be negative")
	}
	l.PassingMarks = *l.PassingMarksRaw
	return nil
}

func (l *LoggingConfig) validateAndNormalize() error {
	switch l.Level {
	case "":
		l.Level = "info"
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: logging.level %q is not supported", l.Level)
	}

	switch l.Format {
	case "":
		l.Format = "json"
	case "json", "console":
	default:
		return fmt.Errorf("config: logging.format %q is not supported", l.Format)
	}
	return nil
}

func (r *RateLimitConfig) validateAndNormalize() error {
	if r.Quota < 0 {
		return fmt.Errorf("config: rate_limit.quota must not be negative")
	}
	if r.Quota == 0 {
		r.Quota = defaultRateLimitQuota
	}

	window, err := parseDurationAllowEmpty(r.WindowRaw)
	if err != nil {
		return fmt.Errorf("config: rate_limit.window: %w", err)
	}
	if window <= 0 {
		window = defaultRateLimitWindow
	}
	r.Window = window
	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}
