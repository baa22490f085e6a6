// Package cmdline implements the server's command-line surface: the
// cobra root command and subcommands (config, config save, version,
// cli), and a viper-resolved Config struct.
package cmdline

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the server, the AOF pipeline, and the admin
// surface need.
type Config struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Addr string `mapstructure:"addr"` // if set, overrides Host/Port combined

	AofPath   string `mapstructure:"aof_path"`
	AofFsync  string `mapstructure:"aof_fsync"`
	Preload   string `mapstructure:"preload"`

	MaxClients   int64   `mapstructure:"max_clients"`
	MaxOpsPerSec float64 `mapstructure:"max_ops_per_sec"`

	RequireAuth bool   `mapstructure:"require_auth"`
	Password    string `mapstructure:"password"`

	MetricsAddr string `mapstructure:"metrics_addr"`
	Gops        bool   `mapstructure:"gops"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DefaultConfig gives every field an explicit default rather than
// relying on the zero value.
func DefaultConfig() *Config {
	return &Config{
		Host:         "0.0.0.0",
		Port:         6379,
		AofPath:      "appendonly.aof",
		AofFsync:     "everysec",
		MaxClients:   10000,
		MaxOpsPerSec: 0,
		RequireAuth:  false,
		MetricsAddr:  "",
		Gops:         false,
		LogLevel:     "info",
		LogFormat:    "text",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// ResolvedAddr returns Addr if set, else "host:port".
func (c *Config) ResolvedAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig resolves configuration: defaults first,
// then a config file (gofast.yaml in ., /etc/gofast/, $HOME/.gofast),
// then a .env file (loaded before the environment is read, so GOFAST_*
// entries in .env take effect), then GOFAST_* environment variables,
// then CLI flags already bound to viper by the caller.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	_ = godotenv.Load() // .env is optional; silently absent is fine

	viper.SetConfigName("gofast")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/gofast/")
	viper.AddConfigPath("$HOME/.gofast")

	viper.SetEnvPrefix("GOFAST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	setDefaults(cfg)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("cmdline: read config file: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("cmdline: unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("addr", cfg.Addr)
	viper.SetDefault("aof_path", cfg.AofPath)
	viper.SetDefault("aof_fsync", cfg.AofFsync)
	viper.SetDefault("preload", cfg.Preload)
	viper.SetDefault("max_clients", cfg.MaxClients)
	viper.SetDefault("max_ops_per_sec", cfg.MaxOpsPerSec)
	viper.SetDefault("require_auth", cfg.RequireAuth)
	viper.SetDefault("password", cfg.Password)
	viper.SetDefault("metrics_addr", cfg.MetricsAddr)
	viper.SetDefault("gops", cfg.Gops)
	viper.SetDefault("log_level", cfg.LogLevel)
	viper.SetDefault("log_format", cfg.LogFormat)
	viper.SetDefault("read_timeout", cfg.ReadTimeout)
	viper.SetDefault("write_timeout", cfg.WriteTimeout)
}

// Validate runs cheap, local sanity checks before anything touches the
// network or disk.
func (c *Config) Validate() error {
	if c.Addr == "" && (c.Port < 1 || c.Port > 65535) {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Port)
	}
	if c.MaxClients < 1 {
		return fmt.Errorf("max_clients must be at least 1")
	}
	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	ok := false
	for _, l := range validLevels {
		if c.LogLevel == l {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("invalid log_level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLevels, ", "))
	}
	if c.RequireAuth && c.Password == "" {
		return fmt.Errorf("require_auth is set but password is empty")
	}
	return nil
}

// String gives a one-line summary, used by the startup banner.
func (c *Config) String() string {
	return fmt.Sprintf("gofast-server %s aof=%s(%s) max-clients=%d log=%s/%s",
		c.ResolvedAddr(), c.AofPath, c.AofFsync, c.MaxClients, c.LogLevel, c.LogFormat)
}
