// Package server implements the TCP accept loop and per-connection
// read-parse-apply-write pipeline around the keyspace engine.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/GopeshSingal/gofast-server/internal/aof"
	"github.com/GopeshSingal/gofast-server/internal/store"
)

// Config carries everything the connection handler and accept loop need
// that isn't already inside the engine.
type Config struct {
	Addr         string
	MaxClients   int64
	MaxOpsPerSec float64 // 0 disables per-connection throttling; ignored if OpsPerSecFunc is set
	// OpsPerSecFunc, when non-nil, is consulted by each connection at
	// throttle-construction time instead of the static MaxOpsPerSec,
	// letting a config-reload (see the viper.OnConfigChange hook in
	// cmd/gofast-server)
	// change the per-connection rate limit without a restart.
	OpsPerSecFunc func() float64
	RequireAuth   bool
	PasswordHash  []byte // bcrypt hash; empty when RequireAuth is false
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

func (c Config) opsPerSec() float64 {
	if c.OpsPerSecFunc != nil {
		return c.OpsPerSecFunc()
	}
	return c.MaxOpsPerSec
}

// Server owns the listener, the keyspace engine, the AOF writer, and the
// maintenance scheduler (expiration sweep + everysec AOF flush).
type Server struct {
	cfg       Config
	engine    *store.Engine
	aofWriter *aof.Writer
	logger    *zap.Logger
	sem       *semaphore.Weighted
	scheduler gocron.Scheduler

	listener net.Listener
}

// New constructs a Server. The engine is expected to already have replay
// applied and its AOF writer attached (or nil for no persistence).
func New(cfg Config, engine *store.Engine, aofWriter *aof.Writer, logger *zap.Logger) (*Server, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("server: scheduler: %w", err)
	}
	maxClients := cfg.MaxClients
	if maxClients <= 0 {
		maxClients = 10000
	}
	return &Server{
		cfg:       cfg,
		engine:    engine,
		aofWriter: aofWriter,
		logger:    logger,
		sem:       semaphore.NewWeighted(maxClients),
		scheduler: sched,
	}, nil
}

// Start schedules maintenance jobs, binds the listener, and runs the
// accept loop until ctx is canceled or Stop is called. It blocks.
func (s *Server) Start(ctx context.Context) error {
	if _, err := s.scheduler.NewJob(
		gocron.DurationJob(time.Second),
		gocron.NewTask(func() {
			n := s.engine.Sweep(time.Now())
			if n > 0 {
				s.logger.Debug("expiration sweep", zap.Int("purged", n))
			}
		}),
	); err != nil {
		return fmt.Errorf("server: schedule sweep: %w", err)
	}

	// Only the everysec policy carries a background fsync; always syncs
	// inline on each append, and no leaves syncing to the OS entirely.
	if s.aofWriter != nil && s.aofWriter.Policy() == aof.EverySec {
		if _, err := s.scheduler.NewJob(
			gocron.DurationJob(time.Second),
			gocron.NewTask(func() {
				if err := s.aofWriter.FlushAndSync(); err != nil {
					s.logger.Warn("aof everysec flush failed", zap.Error(err))
				}
			}),
		); err != nil {
			return fmt.Errorf("server: schedule aof flush: %w", err)
		}
	}
	s.scheduler.Start()
	defer s.scheduler.Shutdown()

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.cfg.Addr, err)
	}
	s.listener = ln
	s.logger.Info("gofast-server listening", zap.String("addr", s.cfg.Addr))

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				if errors.Is(err, net.ErrClosed) {
					return nil
				}
				s.logger.Warn("accept error", zap.Error(err))
				continue
			}
		}

		if !s.sem.TryAcquire(1) {
			s.logger.Warn("connection admission limit reached, rejecting", zap.String("remote", conn.RemoteAddr().String()))
			conn.Close()
			continue
		}

		go func() {
			defer s.sem.Release(1)
			s.handleConnection(conn)
		}()
	}
}

// Stop closes the listener, interrupting Accept.
func (s *Server) Stop() error {
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}
