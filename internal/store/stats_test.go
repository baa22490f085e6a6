package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GopeshSingal/gofast-server/internal/command"
	"github.com/GopeshSingal/gofast-server/internal/resp"
	"github.com/GopeshSingal/gofast-server/internal/store"
)

func apply(t *testing.T, e *store.Engine, parts ...string) resp.Frame {
	t.Helper()
	elems := make([]resp.Frame, len(parts))
	for i, p := range parts {
		elems[i] = resp.BulkString([]byte(p))
	}
	cmd, err := command.Parse(resp.ArrayOf(elems...))
	require.NoError(t, err)
	return e.Apply(cmd)
}

func TestStatsCountsCommandsByName(t *testing.T) {
	e := store.NewEngine(nil)
	apply(t, e, "SET", "k", "v")
	apply(t, e, "GET", "k")
	apply(t, e, "GET", "missing")
	apply(t, e, "DEL", "k")

	snap := e.Stats().Snapshot()
	require.Equal(t, int64(4), snap.TotalOps)
	require.Equal(t, int64(1), snap.SetOps)
	require.Equal(t, int64(2), snap.GetOps)
	require.Equal(t, int64(1), snap.DelOps)
}

func TestStatsTracksExpiredKeysOnSweep(t *testing.T) {
	e := store.NewEngine(nil)
	apply(t, e, "SET", "k", "v")
	apply(t, e, "EXPIRE", "k", "-1")

	n := e.Sweep(time.Now().Add(time.Minute))
	require.Equal(t, 1, n)
	require.Equal(t, int64(1), e.Stats().Snapshot().ExpiredKeys)
}
