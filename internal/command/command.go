// Package command turns a parsed RESP array frame into a validated,
// typed Command ready for the keyspace engine to apply. It never mutates
// state and never performs I/O.
package command

import (
	"errors"
	"strings"

	"github.com/GopeshSingal/gofast-server/internal/resp"
)

// ErrUnknownCommand is returned for any command name not present in the
// dispatch table.
var ErrUnknownCommand = errors.New("ERR unknown command")

// ShapeError reports a malformed command: wrong arity or a non-command
// frame shape. It is distinct from a semantic or type error raised later
// by the engine.
type ShapeError struct {
	msg string
}

func (e *ShapeError) Error() string { return e.msg }

func shapeErrorf(msg string) error { return &ShapeError{msg: msg} }

// Command is the name (upper-cased) plus raw argument bytes extracted
// from a request Array frame. Numeric/float parsing of individual
// arguments is left to the engine, which knows the exact wording of the
// "not an integer" / "not a float" error for each command.
type Command struct {
	Name string
	Args [][]byte
}

type arity struct {
	min, max int // max == -1 means unbounded
}

// arityTable enumerates every command name this server accepts, with the
// numbers of arguments (excluding the command name itself) it may carry.
var arityTable = map[string]arity{
	"PING": {0, 1},

	"GET":    {1, 1},
	"SET":    {2, 2},
	"DEL":    {1, 1},
	"APPEND": {2, 2},
	"STRLEN": {1, 1},
	"GETSET": {2, 2},
	"INCR":   {1, 1},
	"DECR":   {1, 1},
	"INCRBY": {2, 2},
	"MSET":   {2, -1},
	"MGET":   {1, -1},
	"EXPIRE": {2, 2},
	"TTL":    {1, 1},
	"EXISTS": {1, 1},
	"KEYS":   {1, 1},

	"LPUSH":  {2, -1},
	"RPUSH":  {2, -1},
	"LPOP":   {1, 1},
	"RPOP":   {1, 1},
	"LLEN":   {1, 1},
	"LRANGE": {3, 3},
	"LINDEX": {2, 2},
	"LSET":   {3, 3},
	"LTRIM":  {3, 3},
	"BRPOP":  {2, 2},

	"HSET":     {3, 3},
	"HGET":     {2, 2},
	"HDEL":     {2, 2},
	"HEXISTS":  {2, 2},
	"HLEN":     {1, 1},
	"HMGET":    {2, -1},
	"HGETALL":  {1, 1},
	"HKEYS":    {1, 1},
	"HVALS":    {1, 1},

	"SADD":      {2, -1},
	"SREM":      {2, 2},
	"SMEMBERS":  {1, 1},
	"SISMEMBER": {2, 2},
	"SCARD":     {1, 1},
	"SUNION":    {1, -1},
	"SINTER":    {1, -1},
	"SDIFF":     {1, -1},

	"ZADD":             {3, 3},
	"ZREM":             {2, 2},
	"ZCARD":            {1, 1},
	"ZSCORE":           {2, 2},
	"ZRANK":            {2, 2},
	"ZREVRANK":         {2, 2},
	"ZRANGE":           {3, 3},
	"ZREVRANGE":        {3, 3},
	"ZRANGEBYSCORE":    {3, 3},
	"ZREMRANGEBYSCORE": {3, 3},
	"ZCOUNT":           {3, 3},

	"AUTH": {1, 1},
}

// Parse validates f as a command request: a non-null Array of Bulk or
// Simple elements whose first element is the command name.
func Parse(f resp.Frame) (Command, error) {
	if f.Type != resp.Array || f.ArrayNull {
		return Command{}, shapeErrorf("ERR expected array request")
	}
	if len(f.Elems) == 0 {
		return Command{}, shapeErrorf("ERR empty command")
	}

	name, err := elemToString(f.Elems[0])
	if err != nil {
		return Command{}, shapeErrorf("ERR invalid command name")
	}
	name = strings.ToUpper(name)

	a, ok := arityTable[name]
	if !ok {
		return Command{}, ErrUnknownCommand
	}

	args := make([][]byte, 0, len(f.Elems)-1)
	for _, e := range f.Elems[1:] {
		b, err := elemToBytes(e)
		if err != nil {
			return Command{}, shapeErrorf("ERR invalid argument")
		}
		args = append(args, b)
	}

	n := len(args)
	if n < a.min || (a.max != -1 && n > a.max) {
		return Command{}, shapeErrorf("ERR wrong number of arguments for '" + strings.ToLower(name) + "' command")
	}

	return Command{Name: name, Args: args}, nil
}

func elemToString(f resp.Frame) (string, error) {
	switch f.Type {
	case resp.Bulk:
		if f.BulkNull {
			return "", errors.New("null bulk")
		}
		return string(f.Bytes), nil
	case resp.Simple:
		return f.Str, nil
	default:
		return "", errors.New("unsupported frame type in command")
	}
}

func elemToBytes(f resp.Frame) ([]byte, error) {
	switch f.Type {
	case resp.Bulk:
		if f.BulkNull {
			return nil, errors.New("null bulk")
		}
		return f.Bytes, nil
	case resp.Simple:
		return []byte(f.Str), nil
	default:
		return nil, errors.New("unsupported frame type in command")
	}
}
