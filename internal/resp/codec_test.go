package resp_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/GopeshSingal/gofast-server/internal/resp"
)

func roundTrip(t *testing.T, f resp.Frame) {
	t.Helper()
	encoded := resp.Encode(f)

	got, n, err := resp.Parse(encoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), n)
	if diff := cmp.Diff(f, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	for i := 0; i < len(encoded)-1; i++ {
		_, _, err := resp.Parse(encoded[:i])
		require.ErrorIs(t, err, resp.ErrIncomplete, "prefix length %d should be incomplete", i)
	}
}

func TestRoundTripSimple(t *testing.T) {
	roundTrip(t, resp.SimpleString("OK"))
	roundTrip(t, resp.SimpleString("PONG"))
}

func TestRoundTripError(t *testing.T) {
	roundTrip(t, resp.ErrorReply("ERR unknown command"))
}

func TestRoundTripInteger(t *testing.T) {
	roundTrip(t, resp.Int64(0))
	roundTrip(t, resp.Int64(-1))
	roundTrip(t, resp.Int64(9223372036854775807))
}

func TestRoundTripBulk(t *testing.T) {
	roundTrip(t, resp.BulkString([]byte("hello")))
	roundTrip(t, resp.BulkString([]byte{}))
	roundTrip(t, resp.BulkString([]byte("has\r\ncrlf\r\ninside")))
	roundTrip(t, resp.NullBulk())
}

func TestRoundTripArray(t *testing.T) {
	roundTrip(t, resp.ArrayOf(
		resp.BulkString([]byte("SET")),
		resp.BulkString([]byte("k")),
		resp.BulkString([]byte("v")),
	))
	roundTrip(t, resp.NullArray())
	roundTrip(t, resp.ArrayOf())
	roundTrip(t, resp.ArrayOf(
		resp.ArrayOf(resp.Int64(1), resp.Int64(2)),
		resp.BulkString([]byte("nested")),
	))
}

func TestParseIncompleteVariants(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("+OK"),
		[]byte("$5\r\nhell"),
		[]byte("*2\r\n$1\r\na\r\n"),
	}
	for _, c := range cases {
		_, _, err := resp.Parse(c)
		require.ErrorIs(t, err, resp.ErrIncomplete)
	}
}

func TestParseInvalid(t *testing.T) {
	cases := [][]byte{
		[]byte("?weird\r\n"),
		[]byte(":notanumber\r\n"),
		[]byte("$3\r\nabXX"),
		[]byte("$-2\r\n"),
	}
	for _, c := range cases {
		_, _, err := resp.Parse(c)
		require.Error(t, err)
		require.NotErrorIs(t, err, resp.ErrIncomplete)
	}
}

func TestPingBytes(t *testing.T) {
	in := []byte("*1\r\n$4\r\nPING\r\n")
	f, n, err := resp.Parse(in)
	require.NoError(t, err)
	require.Equal(t, len(in), n)
	require.Equal(t, resp.Array, f.Type)
	require.Len(t, f.Elems, 1)
	require.Equal(t, "PING", string(f.Elems[0].Bytes))
}
