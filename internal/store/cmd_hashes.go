package store

import (
	"github.com/GopeshSingal/gofast-server/internal/command"
	"github.com/GopeshSingal/gofast-server/internal/resp"
)

func (e *Engine) getOrCreateHash(key string) (*HashValue, error) {
	e.checkAndPurge(key)
	e.valuesMu.Lock()
	defer e.valuesMu.Unlock()
	v, ok := e.values[key]
	if !ok {
		hv := newHashValue()
		e.values[key] = hv
		return hv, nil
	}
	hv, ok := v.(*HashValue)
	if !ok {
		return nil, errWrongType
	}
	return hv, nil
}

func (e *Engine) hset(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	hv, err := e.getOrCreateHash(key)
	if err != nil {
		return resp.ErrorReply(err.Error())
	}
	isNew := hv.Set(string(cmd.Args[1]), cmd.Args[2])
	if isNew {
		return resp.Int64(1)
	}
	return resp.Int64(0)
}

func (e *Engine) hget(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.NullBulk()
	}
	hv, ok := v.(*HashValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	val, ok := hv.Get(string(cmd.Args[1]))
	if !ok {
		return resp.NullBulk()
	}
	return resp.BulkString(val)
}

func (e *Engine) hdel(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.Int64(0)
	}
	hv, ok := v.(*HashValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	if hv.Del(string(cmd.Args[1])) {
		return resp.Int64(1)
	}
	return resp.Int64(0)
}

func (e *Engine) hexists(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.Int64(0)
	}
	hv, ok := v.(*HashValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	if hv.Exists(string(cmd.Args[1])) {
		return resp.Int64(1)
	}
	return resp.Int64(0)
}

func (e *Engine) hlen(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.Int64(0)
	}
	hv, ok := v.(*HashValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	return resp.Int64(int64(hv.Len()))
}

func (e *Engine) hmget(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	fields := cmd.Args[1:]
	v, ok := e.lookup(key)
	if !ok {
		elems := make([]resp.Frame, len(fields))
		for i := range elems {
			elems[i] = resp.NullBulk()
		}
		return resp.ArrayOf(elems...)
	}
	hv, ok := v.(*HashValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	elems := make([]resp.Frame, len(fields))
	for i, f := range fields {
		val, ok := hv.Get(string(f))
		if !ok {
			elems[i] = resp.NullBulk()
			continue
		}
		elems[i] = resp.BulkString(val)
	}
	return resp.ArrayOf(elems...)
}

func (e *Engine) hgetall(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.ArrayOf()
	}
	hv, ok := v.(*HashValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	all := hv.GetAll()
	elems := make([]resp.Frame, 0, len(all)*2)
	for f, val := range all {
		elems = append(elems, resp.BulkString([]byte(f)), resp.BulkString(val))
	}
	return resp.ArrayOf(elems...)
}

func (e *Engine) hkeys(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.ArrayOf()
	}
	hv, ok := v.(*HashValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	keys := hv.Keys()
	elems := make([]resp.Frame, len(keys))
	for i, k := range keys {
		elems[i] = resp.BulkString([]byte(k))
	}
	return resp.ArrayOf(elems...)
}

func (e *Engine) hvals(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.ArrayOf()
	}
	hv, ok := v.(*HashValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	vals := hv.Values()
	elems := make([]resp.Frame, len(vals))
	for i, val := range vals {
		elems[i] = resp.BulkString(val)
	}
	return resp.ArrayOf(elems...)
}
