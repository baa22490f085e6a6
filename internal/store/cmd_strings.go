package store

import (
	"strconv"

	"github.com/GopeshSingal/gofast-server/internal/command"
	"github.com/GopeshSingal/gofast-server/internal/resp"
)

// lookupString reads the string value at key under the map's read lock.
// APPEND only ever grows the backing array past the returned length, so
// the returned slice stays stable after the lock is released.
func (e *Engine) lookupString(key string) ([]byte, bool, error) {
	e.checkAndPurge(key)
	e.valuesMu.RLock()
	defer e.valuesMu.RUnlock()
	v, ok := e.values[key]
	if !ok {
		return nil, false, nil
	}
	sv, ok := v.(*StringValue)
	if !ok {
		return nil, false, errWrongType
	}
	return sv.data, true, nil
}

func (e *Engine) get(cmd command.Command) resp.Frame {
	data, ok, err := e.lookupString(string(cmd.Args[0]))
	if err != nil {
		return resp.ErrorReply(err.Error())
	}
	if !ok {
		return resp.NullBulk()
	}
	return resp.BulkString(data)
}

func (e *Engine) set(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	e.store(key, newStringValue(cmd.Args[1]))
	return resp.SimpleString("OK")
}

func (e *Engine) appendStr(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	e.checkAndPurge(key)
	e.valuesMu.Lock()
	defer e.valuesMu.Unlock()
	v, ok := e.values[key]
	if !ok {
		sv := newStringValue(cmd.Args[1])
		e.values[key] = sv
		return resp.Int64(int64(len(sv.data)))
	}
	sv, ok := v.(*StringValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	sv.data = append(sv.data, cmd.Args[1]...)
	return resp.Int64(int64(len(sv.data)))
}

func (e *Engine) strlen(cmd command.Command) resp.Frame {
	data, ok, err := e.lookupString(string(cmd.Args[0]))
	if err != nil {
		return resp.ErrorReply(err.Error())
	}
	if !ok {
		return resp.Int64(0)
	}
	return resp.Int64(int64(len(data)))
}

func (e *Engine) getset(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	e.checkAndPurge(key)
	e.valuesMu.Lock()
	defer e.valuesMu.Unlock()
	var prior resp.Frame
	if v, ok := e.values[key]; ok {
		sv, ok := v.(*StringValue)
		if !ok {
			return resp.ErrorReply(errWrongType.Error())
		}
		prior = resp.BulkString(sv.data)
	} else {
		prior = resp.NullBulk()
	}
	e.values[key] = newStringValue(cmd.Args[1])
	return prior
}

func (e *Engine) incrBy(cmd command.Command, delta int64) resp.Frame {
	key := string(cmd.Args[0])
	return e.incrByAmount(key, delta)
}

func (e *Engine) incrby(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	n, err := strconv.ParseInt(string(cmd.Args[1]), 10, 64)
	if err != nil {
		return resp.ErrorReply("ERR value is not an integer")
	}
	return e.incrByAmount(key, n)
}

// incrByAmount performs the read-parse-write sequence under the value
// map's write lock so concurrent increments never lose an update.
func (e *Engine) incrByAmount(key string, delta int64) resp.Frame {
	e.checkAndPurge(key)
	e.valuesMu.Lock()
	defer e.valuesMu.Unlock()
	var current int64
	if v, ok := e.values[key]; ok {
		sv, ok := v.(*StringValue)
		if !ok {
			return resp.ErrorReply(errWrongType.Error())
		}
		n, err := strconv.ParseInt(string(sv.data), 10, 64)
		if err != nil {
			return resp.ErrorReply("ERR value is not an integer")
		}
		current = n
	}
	newVal := current + delta
	e.values[key] = newStringValue([]byte(strconv.FormatInt(newVal, 10)))
	return resp.Int64(newVal)
}

func (e *Engine) mset(cmd command.Command) resp.Frame {
	if len(cmd.Args)%2 != 0 {
		return resp.ErrorReply("ERR wrong number of arguments for 'mset' command")
	}
	for i := 0; i < len(cmd.Args); i += 2 {
		e.store(string(cmd.Args[i]), newStringValue(cmd.Args[i+1]))
	}
	return resp.SimpleString("OK")
}

func (e *Engine) mget(cmd command.Command) resp.Frame {
	elems := make([]resp.Frame, len(cmd.Args))
	for i, k := range cmd.Args {
		data, ok, err := e.lookupString(string(k))
		switch {
		case err != nil:
			elems[i] = resp.ErrorReply(err.Error())
		case !ok:
			elems[i] = resp.NullBulk()
		default:
			elems[i] = resp.BulkString(data)
		}
	}
	return resp.ArrayOf(elems...)
}
