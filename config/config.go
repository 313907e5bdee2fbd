// Package config loads CFART settings from defaults, an optional config file
// and CFART_* environment variables, and watches the file for changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lixenwraith/cfart/game"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Export modes
const (
	ModeFile   = "file"   // write reports to disk, no submission
	ModeRemote = "remote" // write reports to disk and POST the summary
)

// Config is the top-level configuration structure
type Config struct {
	Game      GameConfig      `mapstructure:"game"`
	Export    ExportConfig    `mapstructure:"export"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Audio     AudioConfig     `mapstructure:"audio"`
	Collector CollectorConfig `mapstructure:"collector"`
}

// GameConfig holds the trial count and play-area geometry
type GameConfig struct {
	Trials       int     `mapstructure:"trials"`
	Width        float64 `mapstructure:"width"`
	Height       float64 `mapstructure:"height"`
	ClockRadius  float64 `mapstructure:"clock_radius"`
	OuterRadius  float64 `mapstructure:"outer_radius"`
	InnerRadius  float64 `mapstructure:"inner_radius"`
	CenterRadius float64 `mapstructure:"center_radius"`
}

// ExportConfig selects the export sink and its targets
type ExportConfig struct {
	Mode        string        `mapstructure:"mode"`
	Directory   string        `mapstructure:"directory"`
	DetailFile  string        `mapstructure:"detail_file"`
	SummaryFile string        `mapstructure:"summary_file"`
	Endpoint    string        `mapstructure:"endpoint"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
	RetryBase   time.Duration `mapstructure:"retry_base"`
}

// LoggingConfig holds settings for the file logger
type LoggingConfig struct {
	Debug      bool   `mapstructure:"debug"`
	Directory  string `mapstructure:"directory"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// AudioConfig holds feedback sound settings
type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

// CollectorConfig holds the local results collector settings
type CollectorConfig struct {
	Addr string `mapstructure:"addr"`
}

// setDefaults sets the default values for the configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("game.trials", game.DefaultTrials)
	v.SetDefault("game.width", game.DefaultWidth)
	v.SetDefault("game.height", game.DefaultHeight)
	v.SetDefault("game.clock_radius", game.DefaultClockRadius)
	v.SetDefault("game.outer_radius", game.DefaultOuterRadius)
	v.SetDefault("game.inner_radius", game.DefaultInnerRadius)
	v.SetDefault("game.center_radius", game.DefaultCenterRadius)

	v.SetDefault("export.mode", ModeFile)
	v.SetDefault("export.directory", ".")
	v.SetDefault("export.detail_file", "cfart_results.csv")
	v.SetDefault("export.summary_file", "cfart_dir_summary.csv")
	v.SetDefault("export.endpoint", "http://localhost:8787/results")
	v.SetDefault("export.timeout", 10*time.Second)
	v.SetDefault("export.max_retries", 2)
	v.SetDefault("export.retry_base", 500*time.Millisecond)

	v.SetDefault("logging.debug", false)
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.file", "cfart.log")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.volume", 0.0)

	v.SetDefault("collector.addr", ":8787")
}

// Load reads configuration. An empty path searches for cfart.{toml,yaml,json}
// in the working directory and $HOME/.config/cfart; a missing file there is
// not an error. An explicit path must exist.
func Load(path string) (*Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("cfart")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "cfart"))
		}
	}

	v.SetEnvPrefix("CFART") // e.g., CFART_GAME_TRIALS
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the game and sinks rely on
func (c *Config) Validate() error {
	g := c.Game
	switch {
	case g.Trials <= 0:
		return fmt.Errorf("%w: game.trials must be positive, got %d", ErrInvalid, g.Trials)
	case g.Width <= 0 || g.Height <= 0:
		return fmt.Errorf("%w: play area %gx%g must be positive", ErrInvalid, g.Width, g.Height)
	case g.InnerRadius <= 0:
		return fmt.Errorf("%w: game.inner_radius must be positive", ErrInvalid)
	case g.InnerRadius > g.OuterRadius:
		return fmt.Errorf("%w: inner radius %g exceeds outer radius %g", ErrInvalid, g.InnerRadius, g.OuterRadius)
	case g.CenterRadius <= 0:
		return fmt.Errorf("%w: game.center_radius must be positive", ErrInvalid)
	case g.ClockRadius <= 0:
		return fmt.Errorf("%w: game.clock_radius must be positive", ErrInvalid)
	}

	e := c.Export
	switch e.Mode {
	case ModeFile:
	case ModeRemote:
		if e.Endpoint == "" {
			return fmt.Errorf("%w: export.endpoint is required in remote mode", ErrInvalid)
		}
		if e.Timeout <= 0 {
			return fmt.Errorf("%w: export.timeout must be positive", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown export.mode %q", ErrInvalid, e.Mode)
	}
	if e.DetailFile == "" || e.SummaryFile == "" {
		return fmt.Errorf("%w: export file names must not be empty", ErrInvalid)
	}
	if e.MaxRetries < 0 {
		return fmt.Errorf("%w: export.max_retries must not be negative", ErrInvalid)
	}

	if c.Audio.Volume < -10 || c.Audio.Volume > 2 {
		return fmt.Errorf("%w: audio.volume %g outside [-10, 2]", ErrInvalid, c.Audio.Volume)
	}
	return nil
}

// ToGame converts the game section into session parameters
func (g GameConfig) ToGame() game.Config {
	return game.Config{
		Trials:       g.Trials,
		Width:        g.Width,
		Height:       g.Height,
		ClockRadius:  g.ClockRadius,
		OuterRadius:  g.OuterRadius,
		InnerRadius:  g.InnerRadius,
		CenterRadius: g.CenterRadius,
	}
}

// Watch hot-reloads the config file. fn receives each change that decodes and
// validates; invalid edits are logged and the previous config stays active.
// fn runs on the watcher goroutine.
func Watch(v *viper.Viper, log *zap.Logger, fn func(*Config)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		cfg, err := decode(v)
		if err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
			return
		}
		fn(cfg)
	})
	v.WatchConfig()
}
