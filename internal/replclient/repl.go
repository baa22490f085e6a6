// Package replclient implements an interactive RESP REPL for operators:
// connect to a running gofast-server, type Redis-style command lines,
// see the decoded reply. Built on peterh/liner for the prompt, history
// file, and tab completion.
package replclient

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/GopeshSingal/gofast-server/internal/resp"
)

// commands lists verbs for tab completion; the REPL otherwise passes
// every line straight through as a RESP command.
var commands = []string{
	"PING", "GET", "SET", "DEL", "APPEND", "STRLEN", "GETSET", "INCR", "INCRBY",
	"MSET", "MGET", "EXPIRE", "TTL", "EXISTS", "KEYS",
	"LPUSH", "RPUSH", "LPOP", "RPOP", "LLEN", "LRANGE", "LINDEX", "LSET", "LTRIM", "BRPOP",
	"HSET", "HGET", "HDEL", "HEXISTS", "HLEN", "HMGET", "HGETALL", "HKEYS", "HVALS",
	"SADD", "SREM", "SMEMBERS", "SISMEMBER", "SCARD", "SUNION", "SINTER", "SDIFF",
	"ZADD", "ZREM", "ZCARD", "ZSCORE", "ZRANK", "ZREVRANK", "ZRANGE", "ZREVRANGE",
	"ZRANGEBYSCORE", "ZREMRANGEBYSCORE", "ZCOUNT", "AUTH",
	"help", "exit", "quit",
}

// Run connects to addr and drives an interactive REPL until the user
// exits or the connection drops.
func Run(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("replclient: dial %s: %w", addr, err)
	}
	defer conn.Close()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completer)

	if f, err := os.Open(historyFile()); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("gofast-cli connected to %s. Type 'help' for usage, 'exit' to quit.\n", addr)

	readBuf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)

	for {
		input, err := line.Prompt(addr + "> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || err == io.EOF {
				fmt.Println()
				break
			}
			return fmt.Errorf("replclient: read input: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch strings.ToLower(input) {
		case "exit", "quit", "q":
			saveHistory(line)
			return nil
		case "help", "?":
			printHelp()
			continue
		}

		args := splitArgs(input)
		if len(args) == 0 {
			continue
		}

		elems := make([]resp.Frame, len(args))
		for i, a := range args {
			elems[i] = resp.BulkString([]byte(a))
		}
		if _, err := conn.Write(resp.Encode(resp.ArrayOf(elems...))); err != nil {
			return fmt.Errorf("replclient: write: %w", err)
		}

		reply, err := readReply(conn, &readBuf, chunk)
		if err != nil {
			return fmt.Errorf("replclient: read reply: %w", err)
		}
		fmt.Println(format(reply))
	}

	saveHistory(line)
	return nil
}

func readReply(conn net.Conn, buf *[]byte, chunk []byte) (resp.Frame, error) {
	for {
		frame, n, err := resp.Parse(*buf)
		if errors.Is(err, resp.ErrIncomplete) {
			read, ioErr := conn.Read(chunk)
			if ioErr != nil {
				return resp.Frame{}, ioErr
			}
			*buf = append(*buf, chunk[:read]...)
			continue
		}
		if err != nil {
			return resp.Frame{}, err
		}
		*buf = (*buf)[n:]
		return frame, nil
	}
}

// format renders a reply the way redis-cli does: bulk/simple strings
// bare, integers with "(integer)", null as "(nil)", arrays indexed and
// indented one level, errors prefixed with "(error)".
func format(f resp.Frame) string {
	return formatIndent(f, 0)
}

func formatIndent(f resp.Frame, depth int) string {
	switch f.Type {
	case resp.Simple:
		return f.Str
	case resp.Error:
		return "(error) " + f.Str
	case resp.Integer:
		return fmt.Sprintf("(integer) %d", f.Int)
	case resp.Bulk:
		if f.BulkNull {
			return "(nil)"
		}
		return fmt.Sprintf("%q", string(f.Bytes))
	case resp.Array:
		if f.ArrayNull {
			return "(nil)"
		}
		if len(f.Elems) == 0 {
			return "(empty array)"
		}
		var b strings.Builder
		for i, e := range f.Elems {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%s%d) %s", strings.Repeat("  ", depth), i+1, formatIndent(e, depth+1))
		}
		return b.String()
	default:
		return fmt.Sprintf("%v", f)
	}
}

// splitArgs is a minimal shell-like splitter supporting double-quoted
// arguments with embedded spaces, enough for REPL convenience; it does
// not implement full shell escaping.
func splitArgs(line string) []string {
	var args []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == ' ' && !inQuotes:
			if cur.Len() > 0 {
				args = append(args, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		args = append(args, cur.String())
	}
	return args
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gofast_cli_history")
}

func saveHistory(line *liner.State) {
	path := historyFile()
	if path == "" {
		return
	}
	if f, err := os.Create(path); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}

func completer(line string) []string {
	var out []string
	upper := strings.ToUpper(line)
	for _, c := range commands {
		if strings.HasPrefix(strings.ToUpper(c), upper) {
			out = append(out, c)
		}
	}
	return out
}

func printHelp() {
	fmt.Println("Type any RESP command, e.g.:")
	fmt.Println(`  SET k v`)
	fmt.Println(`  GET k`)
	fmt.Println(`  LPUSH mylist a b c`)
	fmt.Println(`  LRANGE mylist 0 -1`)
	fmt.Println("exit / quit       leave the REPL")
}
