// Command gofast-server runs the RESP-compatible in-memory key/value
// server: it resolves configuration, replays the append-only file,
// starts the TCP listener and the optional admin HTTP surface, and
// blocks until an interrupt signal requests graceful shutdown.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"

	"github.com/GopeshSingal/gofast-server/internal/admin"
	"github.com/GopeshSingal/gofast-server/internal/aof"
	"github.com/GopeshSingal/gofast-server/internal/cmdline"
	"github.com/GopeshSingal/gofast-server/internal/server"
	"github.com/GopeshSingal/gofast-server/internal/store"
)

// version is overwritten at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cmdline.Execute(cmdline.NewRootCmd(version, runServer))
}

func runServer(cfg *cmdline.Config) error {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	atomicLevel := zap.NewAtomicLevelAt(level)

	zcfg := zap.NewProductionConfig()
	if cfg.LogFormat == "text" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = atomicLevel
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	fsync, err := aof.ParseFsyncPolicy(cfg.AofFsync)
	if err != nil {
		return err
	}

	// Build an engine with AOF disabled while preload and replay apply
	// historical commands; the live writer is attached afterward so
	// neither path re-journals what it is itself replaying.
	engine := store.NewEngine(nil)

	if n, err := aof.LoadPreload(cfg.Preload, engine); err != nil {
		return err
	} else if n > 0 {
		logger.Info("preload applied", zap.Int("keys", n))
	}

	applied, err := aof.Replay(cfg.AofPath, engine)
	if err != nil {
		logger.Fatal("aof replay failed", zap.Error(err))
	}
	logger.Info("aof replay complete", zap.Int("commands", applied))

	writer, err := aof.Open(cfg.AofPath, fsync, logger)
	if err != nil {
		return err
	}
	engine.SetAOF(writer)

	var passwordHash []byte
	if cfg.RequireAuth {
		passwordHash, err = bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
	}

	var maxOpsPerSec atomic.Value
	maxOpsPerSec.Store(cfg.MaxOpsPerSec)

	srvCfg := server.Config{
		Addr:          cfg.ResolvedAddr(),
		MaxClients:    cfg.MaxClients,
		OpsPerSecFunc: func() float64 { return maxOpsPerSec.Load().(float64) },
		RequireAuth:   cfg.RequireAuth,
		PasswordHash:  passwordHash,
		ReadTimeout:   cfg.ReadTimeout,
		WriteTimeout:  cfg.WriteTimeout,
	}

	srv, err := server.New(srvCfg, engine, writer, logger)
	if err != nil {
		return err
	}

	var adminSrv *admin.Server
	if cfg.MetricsAddr != "" {
		adminSrv, err = admin.New(cfg.MetricsAddr, engine, logger)
		if err != nil {
			return err
		}
		adminSrv.Start()
		logger.Info("admin surface listening", zap.String("addr", adminSrv.Addr()))
	}

	if cfg.Gops {
		if err := admin.StartGops(); err != nil {
			logger.Warn("gops agent failed to start", zap.Error(err))
		}
	}

	// Live-reload log level and the per-connection rate limit on config
	// file changes, without requiring a restart.
	viper.OnConfigChange(func(_ fsnotify.Event) {
		var next cmdline.Config
		if err := viper.Unmarshal(&next); err != nil {
			logger.Warn("config reload: unmarshal failed", zap.Error(err))
			return
		}
		if lvl, err := zapcore.ParseLevel(next.LogLevel); err == nil {
			atomicLevel.SetLevel(lvl)
		}
		maxOpsPerSec.Store(next.MaxOpsPerSec)
		logger.Info("config reloaded", zap.String("log_level", next.LogLevel), zap.Float64("max_ops_per_sec", next.MaxOpsPerSec))
	})
	viper.WatchConfig()

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	serveErr := srv.Start(ctx)

	var shutdownErr error
	if adminSrv != nil {
		shutdownErr = multierr.Append(shutdownErr, adminSrv.Stop(context.Background()))
	}
	shutdownErr = multierr.Append(shutdownErr, writer.Close())
	if serveErr != nil {
		shutdownErr = multierr.Append(shutdownErr, serveErr)
	}
	return shutdownErr
}
