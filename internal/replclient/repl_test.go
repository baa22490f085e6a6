package replclient

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GopeshSingal/gofast-server/internal/resp"
)

func TestFormatScalarTypes(t *testing.T) {
	require.Equal(t, "OK", format(resp.SimpleString("OK")))
	require.Equal(t, "(error) WRONGTYPE oops", format(resp.ErrorReply("WRONGTYPE oops")))
	require.Equal(t, "(integer) 42", format(resp.Int64(42)))
	require.Equal(t, `"hi"`, format(resp.BulkString([]byte("hi"))))
	require.Equal(t, "(nil)", format(resp.NullBulk()))
	require.Equal(t, "(nil)", format(resp.NullArray()))
}

func TestFormatArray(t *testing.T) {
	f := resp.ArrayOf(resp.BulkString([]byte("a")), resp.BulkString([]byte("b")))
	require.Equal(t, "1) \"a\"\n2) \"b\"", format(f))
}

func TestFormatEmptyArray(t *testing.T) {
	require.Equal(t, "(empty array)", format(resp.ArrayOf()))
}

func TestSplitArgsHandlesQuotedSpaces(t *testing.T) {
	require.Equal(t, []string{"SET", "k", "hello world"}, splitArgs(`SET k "hello world"`))
}

func TestSplitArgsPlain(t *testing.T) {
	require.Equal(t, []string{"GET", "k"}, splitArgs("GET k"))
}
