package cmdline

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	atomicfile "github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/GopeshSingal/gofast-server/internal/replclient"
)

// RunServerFunc is invoked once flags/config are fully resolved and
// validated. It blocks until the server should exit.
type RunServerFunc func(cfg *Config) error

// NewRootCmd builds the cobra command tree: the root command (starts the
// server), plus `config`, `config save`, `version`, and `cli`.
func NewRootCmd(version string, runServer RunServerFunc) *cobra.Command {
	root := &cobra.Command{
		Use:     "gofast-server",
		Short:   "gofast-server - RESP-compatible in-memory key/value server",
		Long: `gofast-server is an in-memory, single-node key/value data server
compatible with the RESP wire protocol (the protocol spoken by redis-cli
and every major Redis client library).

Features:
- Strings, lists, hashes, sets, and sorted sets, each with per-key TTL
- Blocking list pop (BRPOP)
- Append-only file durability with three fsync policies
- A Prometheus metrics + healthz admin surface`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			fmt.Println(cfg.String())
			fmt.Println(strings.Repeat("=", 60))
			return runServer(cfg)
		},
	}

	bindFlags(root)

	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd(version))
	root.AddCommand(newCliCmd())

	return root
}

func bindFlags(root *cobra.Command) {
	defaults := DefaultConfig()

	root.PersistentFlags().StringP("host", "H", defaults.Host, "Host to bind to")
	root.PersistentFlags().IntP("port", "p", defaults.Port, "Port to listen on")
	root.PersistentFlags().String("addr", defaults.Addr, "Combined host:port bind address; overrides --host/--port when set")
	root.PersistentFlags().String("aof", defaults.AofPath, "Append-only file path")
	root.PersistentFlags().String("aof-fsync", defaults.AofFsync, "AOF fsync policy: always|everysec|no")
	root.PersistentFlags().String("preload", defaults.Preload, "Optional hujson seed file applied before AOF replay")
	root.PersistentFlags().Int64("max-clients", defaults.MaxClients, "Maximum concurrent connections")
	root.PersistentFlags().Float64("max-ops-per-sec", defaults.MaxOpsPerSec, "Per-connection command rate limit; 0 disables")
	root.PersistentFlags().Bool("require-auth", defaults.RequireAuth, "Require AUTH before other commands")
	root.PersistentFlags().String("password", defaults.Password, "Shared-secret password for AUTH")
	root.PersistentFlags().String("metrics-addr", defaults.MetricsAddr, "Admin HTTP listener address (Prometheus + healthz); empty disables it")
	root.PersistentFlags().Bool("gops", defaults.Gops, "Start a github.com/google/gops/agent listener for live debugging")
	root.PersistentFlags().String("log-level", defaults.LogLevel, "Log level: debug, info, warn, error, fatal")
	root.PersistentFlags().String("log-format", defaults.LogFormat, "Log format: text, json")
	root.PersistentFlags().Duration("read-timeout", defaults.ReadTimeout, "Connection read timeout")
	root.PersistentFlags().Duration("write-timeout", defaults.WriteTimeout, "Connection write timeout")

	viper.BindPFlag("host", root.PersistentFlags().Lookup("host"))
	viper.BindPFlag("port", root.PersistentFlags().Lookup("port"))
	viper.BindPFlag("addr", root.PersistentFlags().Lookup("addr"))
	viper.BindPFlag("aof_path", root.PersistentFlags().Lookup("aof"))
	viper.BindPFlag("aof_fsync", root.PersistentFlags().Lookup("aof-fsync"))
	viper.BindPFlag("preload", root.PersistentFlags().Lookup("preload"))
	viper.BindPFlag("max_clients", root.PersistentFlags().Lookup("max-clients"))
	viper.BindPFlag("max_ops_per_sec", root.PersistentFlags().Lookup("max-ops-per-sec"))
	viper.BindPFlag("require_auth", root.PersistentFlags().Lookup("require-auth"))
	viper.BindPFlag("password", root.PersistentFlags().Lookup("password"))
	viper.BindPFlag("metrics_addr", root.PersistentFlags().Lookup("metrics-addr"))
	viper.BindPFlag("gops", root.PersistentFlags().Lookup("gops"))
	viper.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", root.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("read_timeout", root.PersistentFlags().Lookup("read-timeout"))
	viper.BindPFlag("write_timeout", root.PersistentFlags().Lookup("write-timeout"))
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			return yaml.NewEncoder(os.Stdout).Encode(cfg)
		},
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "save PATH",
		Short: "Atomically persist the resolved configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			b, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			if err := atomicfile.WriteFile(args[0], strings.NewReader(string(b))); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	})
	return configCmd
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gofast-server %s\n", version)
			fmt.Printf("built with %s\n", runtime.Version())
			fmt.Printf("os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newCliCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "cli",
		Short: "Interactive RESP REPL client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return replclient.Run(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:6379", "Server address to connect to")
	return cmd
}

// Execute runs root and maps any error to a nonzero process exit.
func Execute(root *cobra.Command) {
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
