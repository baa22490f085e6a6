package store

import (
	"path"
	"strconv"
	"time"

	"github.com/GopeshSingal/gofast-server/internal/command"
	"github.com/GopeshSingal/gofast-server/internal/resp"
)

func (e *Engine) del(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	e.checkAndPurge(key)
	if e.deleteKey(key) {
		return resp.Int64(1)
	}
	return resp.Int64(0)
}

func (e *Engine) exists(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	_, ok := e.lookup(key)
	if ok {
		return resp.Int64(1)
	}
	return resp.Int64(0)
}

func (e *Engine) expire(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	secs, err := strconv.ParseInt(string(cmd.Args[1]), 10, 64)
	if err != nil {
		return resp.ErrorReply("ERR value is not an integer")
	}
	if _, ok := e.lookup(key); !ok {
		return resp.Int64(0)
	}
	e.setTTL(key, time.Now().Add(time.Duration(secs)*time.Second))
	return resp.Int64(1)
}

func (e *Engine) ttlCmd(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	if _, ok := e.lookup(key); !ok {
		return resp.Int64(-2)
	}
	e.ttlMu.RLock()
	deadline, has := e.ttl[key]
	e.ttlMu.RUnlock()
	if !has {
		return resp.Int64(-1)
	}
	remaining := int64(time.Until(deadline).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return resp.Int64(remaining)
}

func (e *Engine) keys(cmd command.Command) resp.Frame {
	pattern := string(cmd.Args[0])
	e.valuesMu.RLock()
	names := make([]string, 0, len(e.values))
	for k := range e.values {
		names = append(names, k)
	}
	e.valuesMu.RUnlock()

	elems := make([]resp.Frame, 0, len(names))
	for _, n := range names {
		if matched, err := path.Match(pattern, n); err != nil || !matched {
			continue
		}
		if _, ok := e.lookup(n); ok {
			elems = append(elems, resp.BulkString([]byte(n)))
		}
	}
	return resp.ArrayOf(elems...)
}
