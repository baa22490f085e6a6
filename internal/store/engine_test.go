package store_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GopeshSingal/gofast-server/internal/command"
	"github.com/GopeshSingal/gofast-server/internal/resp"
	"github.com/GopeshSingal/gofast-server/internal/store"
)

func mustParse(t *testing.T, parts ...string) command.Command {
	t.Helper()
	elems := make([]resp.Frame, len(parts))
	for i, p := range parts {
		elems[i] = resp.BulkString([]byte(p))
	}
	cmd, err := command.Parse(resp.ArrayOf(elems...))
	require.NoError(t, err)
	return cmd
}

func TestSetGet(t *testing.T) {
	e := store.NewEngine(nil)
	require.Equal(t, resp.SimpleString("OK"), e.Apply(mustParse(t, "SET", "k", "v")))
	require.Equal(t, resp.BulkString([]byte("v")), e.Apply(mustParse(t, "GET", "k")))
}

func TestSetIncrGet(t *testing.T) {
	e := store.NewEngine(nil)
	e.Apply(mustParse(t, "SET", "k", "1"))
	require.Equal(t, resp.Int64(2), e.Apply(mustParse(t, "INCR", "k")))
	require.Equal(t, resp.BulkString([]byte("2")), e.Apply(mustParse(t, "GET", "k")))
}

func TestLPushLRange(t *testing.T) {
	e := store.NewEngine(nil)
	e.Apply(mustParse(t, "LPUSH", "k", "a", "b"))
	got := e.Apply(mustParse(t, "LRANGE", "k", "0", "-1"))
	require.Equal(t, resp.ArrayOf(resp.BulkString([]byte("b")), resp.BulkString([]byte("a"))), got)
}

func TestHashRoundTrip(t *testing.T) {
	e := store.NewEngine(nil)
	require.Equal(t, resp.Int64(1), e.Apply(mustParse(t, "HSET", "k", "f", "v")))
	require.Equal(t, resp.BulkString([]byte("v")), e.Apply(mustParse(t, "HGET", "k", "f")))
	require.Equal(t, resp.Int64(1), e.Apply(mustParse(t, "HDEL", "k", "f")))
	require.Equal(t, resp.Int64(0), e.Apply(mustParse(t, "HEXISTS", "k", "f")))
}

func TestExpireThenGetReturnsNull(t *testing.T) {
	e := store.NewEngine(nil)
	e.Apply(mustParse(t, "SET", "k", "v"))
	e.Apply(mustParse(t, "EXPIRE", "k", "0"))
	time.Sleep(5 * time.Millisecond)
	require.Equal(t, resp.NullBulk(), e.Apply(mustParse(t, "GET", "k")))
	require.Equal(t, resp.Int64(-2), e.Apply(mustParse(t, "TTL", "k")))
}

func TestWrongType(t *testing.T) {
	e := store.NewEngine(nil)
	e.Apply(mustParse(t, "SET", "k", "x"))
	got := e.Apply(mustParse(t, "LPUSH", "k", "y"))
	require.Equal(t, resp.Error, got.Type)
	require.Contains(t, got.Str, "WRONGTYPE")
	require.Equal(t, resp.BulkString([]byte("x")), e.Apply(mustParse(t, "GET", "k")))
}

func TestConcurrentIncrNoLostUpdate(t *testing.T) {
	e := store.NewEngine(nil)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Apply(mustParse(t, "INCR", "c"))
		}()
	}
	wg.Wait()
	require.Equal(t, resp.BulkString([]byte("2")), e.Apply(mustParse(t, "GET", "c")))
}

func TestBRPopWakesOnPush(t *testing.T) {
	e := store.NewEngine(nil)
	done := make(chan resp.Frame, 1)
	go func() {
		done <- e.Apply(mustParse(t, "BRPOP", "q", "5"))
	}()
	time.Sleep(20 * time.Millisecond)
	e.Apply(mustParse(t, "LPUSH", "q", "42"))

	select {
	case got := <-done:
		want := resp.ArrayOf(resp.BulkString([]byte("q")), resp.BulkString([]byte("42")))
		require.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("BRPOP did not wake within 1s of push")
	}
}

func TestBRPopTimeoutOnAbsentKey(t *testing.T) {
	e := store.NewEngine(nil)
	start := time.Now()
	got := e.Apply(mustParse(t, "BRPOP", "missing", "1"))
	elapsed := time.Since(start)
	require.True(t, got.IsNull())
	require.GreaterOrEqual(t, elapsed, 900*time.Millisecond)
}

func TestZAddZRangeByScore(t *testing.T) {
	e := store.NewEngine(nil)
	e.Apply(mustParse(t, "ZADD", "z", "1", "a"))
	e.Apply(mustParse(t, "ZADD", "z", "2", "b"))
	e.Apply(mustParse(t, "ZADD", "z", "3", "c"))
	got := e.Apply(mustParse(t, "ZRANGEBYSCORE", "z", "2", "3"))
	require.Equal(t, resp.ArrayOf(resp.BulkString([]byte("b")), resp.BulkString([]byte("c"))), got)
}

func TestSInterEmptyWhenNoSetKey(t *testing.T) {
	e := store.NewEngine(nil)
	e.Apply(mustParse(t, "SET", "k", "x"))
	got := e.Apply(mustParse(t, "SINTER", "k"))
	require.Equal(t, resp.ArrayOf(), got)
}

func TestSDiffNonSetFirstKeyIsEmpty(t *testing.T) {
	e := store.NewEngine(nil)
	e.Apply(mustParse(t, "SET", "k", "x"))
	e.Apply(mustParse(t, "SADD", "s", "a"))
	require.Equal(t, resp.ArrayOf(), e.Apply(mustParse(t, "SDIFF", "k", "s")))
}

func TestMGetEmbedsWrongType(t *testing.T) {
	e := store.NewEngine(nil)
	e.Apply(mustParse(t, "SET", "a", "1"))
	e.Apply(mustParse(t, "LPUSH", "b", "x"))
	got := e.Apply(mustParse(t, "MGET", "a", "b", "c"))
	require.Equal(t, resp.Array, got.Type)
	require.Len(t, got.Elems, 3)
	require.Equal(t, resp.Bulk, got.Elems[0].Type)
	require.Equal(t, resp.Error, got.Elems[1].Type)
	require.True(t, got.Elems[2].IsNull())
}
