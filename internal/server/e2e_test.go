package server_test

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GopeshSingal/gofast-server/internal/server"
	"github.com/GopeshSingal/gofast-server/internal/store"
)

func startTestServer(t *testing.T) string {
	t.Helper()
	engine := store.NewEngine(nil)

	// Start binds its own listener, so resolve a free port up front and
	// hand the server a concrete address the test can dial.
	probe, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := probe.Addr().String()
	require.NoError(t, probe.Close())

	srv, err := server.New(server.Config{Addr: addr, MaxClients: 100}, engine, nil, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.Start(ctx)
	time.Sleep(50 * time.Millisecond)
	return addr
}

func TestEndToEndPing(t *testing.T) {
	addr := startTestServer(t)
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("*1\r\n$4\r\nPING\r\n"))
	require.NoError(t, err)

	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "+PONG\r\n", line)
}

func TestEndToEndSetGet(t *testing.T) {
	addr := startTestServer(t)
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n"))
	require.NoError(t, err)
	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "+OK\r\n", line)

	_, err = conn.Write([]byte("*2\r\n$3\r\nGET\r\n$1\r\nk\r\n"))
	require.NoError(t, err)
	lenLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "$1\r\n", lenLine)
}

func TestEndToEndWithRedisClient(t *testing.T) {
	addr := startTestServer(t)
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "foo", "bar", 0).Err())
	val, err := client.Get(ctx, "foo").Result()
	require.NoError(t, err)
	require.Equal(t, "bar", val)

	require.NoError(t, client.RPush(ctx, "mylist", "a", "b").Err())
	items, err := client.LRange(ctx, "mylist", 0, -1).Result()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, items)
}
