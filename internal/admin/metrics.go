// Package admin implements the optional side HTTP listener: Prometheus
// metrics over the keyspace engine's counters, a /healthz route, and an
// optional github.com/google/gops/agent debugging listener. None of this
// is reachable from the RESP wire protocol; it exists purely for
// operators.
package admin

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GopeshSingal/gofast-server/internal/store"
)

// collector adapts store.Counters' atomic fields to Prometheus's pull
// model without holding any of the engine's own locks: Snapshot() is
// already lock-free, so Collect just reads it once per scrape.
type collector struct {
	engine *store.Engine

	totalOps    *prometheus.Desc
	getOps      *prometheus.Desc
	setOps      *prometheus.Desc
	delOps      *prometheus.Desc
	connections *prometheus.Desc
	expiredKeys *prometheus.Desc
}

func newCollector(engine *store.Engine) *collector {
	return &collector{
		engine:      engine,
		totalOps:    prometheus.NewDesc("gofast_ops_total", "Total commands applied.", nil, nil),
		getOps:      prometheus.NewDesc("gofast_get_ops_total", "GET commands applied.", nil, nil),
		setOps:      prometheus.NewDesc("gofast_set_ops_total", "SET commands applied.", nil, nil),
		delOps:      prometheus.NewDesc("gofast_del_ops_total", "DEL commands applied.", nil, nil),
		connections: prometheus.NewDesc("gofast_connections", "Currently open client connections.", nil, nil),
		expiredKeys: prometheus.NewDesc("gofast_expired_keys_total", "Keys purged by the active expiration sweeper.", nil, nil),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalOps
	ch <- c.getOps
	ch <- c.setOps
	ch <- c.delOps
	ch <- c.connections
	ch <- c.expiredKeys
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.engine.Stats().Snapshot()
	ch <- prometheus.MustNewConstMetric(c.totalOps, prometheus.CounterValue, float64(snap.TotalOps))
	ch <- prometheus.MustNewConstMetric(c.getOps, prometheus.CounterValue, float64(snap.GetOps))
	ch <- prometheus.MustNewConstMetric(c.setOps, prometheus.CounterValue, float64(snap.SetOps))
	ch <- prometheus.MustNewConstMetric(c.delOps, prometheus.CounterValue, float64(snap.DelOps))
	ch <- prometheus.MustNewConstMetric(c.connections, prometheus.GaugeValue, float64(snap.Connections))
	ch <- prometheus.MustNewConstMetric(c.expiredKeys, prometheus.CounterValue, float64(snap.ExpiredKeys))
}

// Server is the admin HTTP listener: /metrics and /healthz over a
// gorilla/mux router, independent of the RESP TCP listener.
type Server struct {
	http     *http.Server
	listener net.Listener
	logger   *zap.Logger
}

// New binds addr and builds the admin HTTP server around it. Binding
// eagerly (rather than inside Start, as net/http.ListenAndServe does)
// lets callers — including tests — read back the resolved address when
// addr ends in ":0".
func New(addr string, engine *store.Engine, logger *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("admin: listen %s: %w", addr, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(newCollector(engine))

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return &Server{
		http:     &http.Server{Handler: r},
		listener: ln,
		logger:   logger,
	}, nil
}

// Addr returns the resolved listen address, useful when New was called
// with a ":0" port.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Start runs the listener in the background. It returns immediately;
// listen errors other than a clean shutdown are logged, never fatal,
// per the server's general I/O error policy.
func (s *Server) Start() {
	go func() {
		if err := s.http.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			s.logger.Warn("admin http server stopped", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the admin listener.
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
