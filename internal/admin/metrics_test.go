package admin_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GopeshSingal/gofast-server/internal/admin"
	"github.com/GopeshSingal/gofast-server/internal/command"
	"github.com/GopeshSingal/gofast-server/internal/resp"
	"github.com/GopeshSingal/gofast-server/internal/store"
)

func TestMetricsEndpointExportsCounters(t *testing.T) {
	engine := store.NewEngine(nil)
	cmd, err := command.Parse(resp.ArrayOf(resp.BulkString([]byte("SET")), resp.BulkString([]byte("k")), resp.BulkString([]byte("v"))))
	require.NoError(t, err)
	engine.Apply(cmd)

	srv, err := admin.New("127.0.0.1:0", engine, zap.NewNop())
	require.NoError(t, err)
	srv.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})

	resp2, err := http.Get(fmt.Sprintf("http://%s/metrics", srv.Addr()))
	require.NoError(t, err)
	defer resp2.Body.Close()

	body, err := io.ReadAll(resp2.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "gofast_set_ops_total")
}

func TestHealthzEndpoint(t *testing.T) {
	engine := store.NewEngine(nil)
	srv, err := admin.New("127.0.0.1:0", engine, zap.NewNop())
	require.NoError(t, err)
	srv.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})

	resp2, err := http.Get(fmt.Sprintf("http://%s/healthz", srv.Addr()))
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
}
