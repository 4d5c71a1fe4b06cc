// Package config loads service configuration from a YAML/JSON file and
// AXONRESOLVE_* environment variables.
package config

import (
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/toyz/axonresolve/internal/logging"
	"github.com/toyz/axonresolve/pkg/codec"
)

// EnvPrefix prefixes every environment override, e.g. AXONRESOLVE_SERVER_ADDR
const EnvPrefix = "AXONRESOLVE"

// Adapters lists the web adapters the service can run on
var Adapters = []string{"gin", "echo", "fiber"}

type ServerConfig struct {
	Adapter         string        `mapstructure:"adapter"`
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type CodecConfig struct {
	JSONEngine   string `mapstructure:"json_engine"`
	CSVSeparator string `mapstructure:"csv_separator"`
}

// Separator returns the CSV separator as a rune
func (c CodecConfig) Separator() rune {
	r, _ := utf8.DecodeRuneInString(c.CSVSeparator)
	return r
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Config is the full service configuration
type Config struct {
	Server  ServerConfig   `mapstructure:"server"`
	Log     logging.Config `mapstructure:"log"`
	Codec   CodecConfig    `mapstructure:"codec"`
	Metrics MetricsConfig  `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.adapter", "gin")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	logDefaults := logging.DefaultConfig()
	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.format", logDefaults.Format)
	v.SetDefault("log.stdout", logDefaults.Stdout)
	v.SetDefault("log.file.filename", "")
	v.SetDefault("log.file.max_size", 0)
	v.SetDefault("log.file.max_days", 0)
	v.SetDefault("log.file.max_backups", 0)

	v.SetDefault("codec.json_engine", string(codec.EngineGoJSON))
	v.SetDefault("codec.csv_separator", ",")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Load reads path (if not empty), applies environment overrides and
// validates the result. Every failure carries errors.ConfigurationErrorCode.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, newConfigurationError(path, err)
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			v.SetConfigType("yaml")
		case ".json":
			v.SetConfigType("json")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	c.Server.Adapter = strings.ToLower(c.Server.Adapter)
	if !lo.Contains(Adapters, c.Server.Adapter) {
		return errors.Newf("server.adapter: unknown adapter %q (expected one of %s)",
			c.Server.Adapter, strings.Join(Adapters, ", "))
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr: must not be empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout: must be positive")
	}
	if _, err := codec.NewJSON(codec.JSONEngine(c.Codec.JSONEngine)); err != nil {
		return errors.Wrap(err, "codec.json_engine")
	}
	if utf8.RuneCountInString(c.Codec.CSVSeparator) != 1 {
		return errors.Newf("codec.csv_separator: expected a single character, got %q", c.Codec.CSVSeparator)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.Newf("metrics.path: %q must start with '/'", c.Metrics.Path)
	}
	return nil
}
