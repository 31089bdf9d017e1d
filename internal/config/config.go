// Package config loads the settings of the fiberdemo command.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/b97tsk/fiber/tween"
)

// EnvPrefix prefixes environment variables that override settings,
// e.g. FIBERDEMO_FPS or FIBERDEMO_TWEEN_DURATION.
const EnvPrefix = "FIBERDEMO"

// Config holds the settings of a demo run.
type Config struct {
	// Frames bounds the number of frames to run; zero runs until idle.
	Frames uint64 `mapstructure:"frames"`
	// FPS is the number of frames per second.
	FPS int `mapstructure:"fps"`
	// LogLevel is one of debug, info, warn and error.
	LogLevel string `mapstructure:"log_level"`
	// Producers is the number of goroutines that schedule deferred work.
	Producers int `mapstructure:"producers"`

	Tween TweenConfig `mapstructure:"tween"`
}

// TweenConfig holds the settings of the demo tweens.
type TweenConfig struct {
	Duration time.Duration `mapstructure:"duration"`
	Curve    string        `mapstructure:"curve"`
	Count    int           `mapstructure:"count"`
}

// Interval returns the time between two frames.
func (c *Config) Interval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("frames", 0)
	v.SetDefault("fps", 60)
	v.SetDefault("log_level", "info")
	v.SetDefault("producers", 2)
	v.SetDefault("tween.duration", "500ms")
	v.SetDefault("tween.curve", "ease-in-out")
	v.SetDefault("tween.count", 3)
}

// New returns a viper instance with defaults and environment overrides set
// up. If path is not empty, settings are also read from that file.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return v, nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting of c.
func (c *Config) Validate() error {
	var errs []error
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if c.Producers < 0 {
		errs = append(errs, fmt.Errorf("producers must not be negative, got %d", c.Producers))
	}
	if c.Tween.Duration <= 0 {
		errs = append(errs, fmt.Errorf("tween.duration must be positive, got %v", c.Tween.Duration))
	}
	if _, ok := tween.CurveByName(c.Tween.Curve); !ok {
		errs = append(errs, fmt.Errorf("unknown tween.curve %q", c.Tween.Curve))
	}
	if c.Tween.Count < 0 {
		errs = append(errs, fmt.Errorf("tween.count must not be negative, got %d", c.Tween.Count))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}
