package aof_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GopeshSingal/gofast-server/internal/aof"
	"github.com/GopeshSingal/gofast-server/internal/command"
	"github.com/GopeshSingal/gofast-server/internal/resp"
	"github.com/GopeshSingal/gofast-server/internal/store"
)

func TestAppendAndReplayRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "appendonly.aof")

	w, err := aof.Open(path, aof.Always, nil)
	require.NoError(t, err)

	engine := store.NewEngine(w)
	apply := func(parts ...string) {
		elems := make([]resp.Frame, len(parts))
		for i, p := range parts {
			elems[i] = resp.BulkString([]byte(p))
		}
		cmd, err := command.Parse(resp.ArrayOf(elems...))
		require.NoError(t, err)
		reply := engine.Apply(cmd)
		require.NotEqual(t, resp.Error, reply.Type)
	}

	apply("SET", "k1", "v1")
	apply("LPUSH", "q", "a")
	apply("LPUSH", "q", "b")
	require.NoError(t, w.Close())

	restarted := store.NewEngine(nil)
	n, err := aof.Replay(path, restarted)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	getCmd, err := command.Parse(resp.ArrayOf(resp.BulkString([]byte("GET")), resp.BulkString([]byte("k1"))))
	require.NoError(t, err)
	require.Equal(t, resp.BulkString([]byte("v1")), restarted.Apply(getCmd))
}

func TestReplayMissingFileIsNotError(t *testing.T) {
	dir := t.TempDir()
	engine := store.NewEngine(nil)
	n, err := aof.Replay(filepath.Join(dir, "absent.aof"), engine)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestReplayMalformedTailIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.aof")
	require.NoError(t, os.WriteFile(path, []byte("*1\r\n$3\r\nfoo"), 0o644))

	engine := store.NewEngine(nil)
	_, err := aof.Replay(path, engine)
	require.Error(t, err)
}
