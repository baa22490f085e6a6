package store

import (
	"strconv"

	"github.com/GopeshSingal/gofast-server/internal/command"
	"github.com/GopeshSingal/gofast-server/internal/resp"
)

// getOrCreateList resolves key to its list, creating one under the write
// lock so concurrent pushes on an absent key agree on a single value.
func (e *Engine) getOrCreateList(key string) (*ListValue, error) {
	e.checkAndPurge(key)
	e.valuesMu.Lock()
	defer e.valuesMu.Unlock()
	v, ok := e.values[key]
	if !ok {
		lv := newListValue()
		e.values[key] = lv
		return lv, nil
	}
	lv, ok := v.(*ListValue)
	if !ok {
		return nil, errWrongType
	}
	return lv, nil
}

func (e *Engine) push(cmd command.Command, left bool) resp.Frame {
	key := string(cmd.Args[0])
	lv, err := e.getOrCreateList(key)
	if err != nil {
		return resp.ErrorReply(err.Error())
	}
	var length int
	for _, v := range cmd.Args[1:] {
		if left {
			length = lv.LeftPush(v)
		} else {
			length = lv.RightPush(v)
		}
	}
	return resp.Int64(int64(length))
}

func (e *Engine) pop(cmd command.Command, left bool) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.NullBulk()
	}
	lv, ok := v.(*ListValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	var val []byte
	if left {
		val, ok = lv.LeftPop()
	} else {
		val, ok = lv.RightPop()
	}
	if !ok {
		return resp.NullBulk()
	}
	return resp.BulkString(val)
}

func (e *Engine) llen(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.Int64(0)
	}
	lv, ok := v.(*ListValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	return resp.Int64(int64(lv.Len()))
}

func parseIndexArg(b []byte) (int, error) {
	return strconv.Atoi(string(b))
}

func (e *Engine) lrange(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	start, err1 := parseIndexArg(cmd.Args[1])
	stop, err2 := parseIndexArg(cmd.Args[2])
	if err1 != nil || err2 != nil {
		return resp.ErrorReply("ERR value is not an integer or out of range")
	}
	v, ok := e.lookup(key)
	if !ok {
		return resp.ArrayOf()
	}
	lv, ok := v.(*ListValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	vals := lv.Range(start, stop)
	elems := make([]resp.Frame, len(vals))
	for i, b := range vals {
		elems[i] = resp.BulkString(b)
	}
	return resp.ArrayOf(elems...)
}

func (e *Engine) lindex(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	idx, err := parseIndexArg(cmd.Args[1])
	if err != nil {
		return resp.ErrorReply("ERR value is not an integer or out of range")
	}
	v, ok := e.lookup(key)
	if !ok {
		return resp.NullBulk()
	}
	lv, ok := v.(*ListValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	val, ok := lv.Index(idx)
	if !ok {
		return resp.NullBulk()
	}
	return resp.BulkString(val)
}

func (e *Engine) lset(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	idx, err := parseIndexArg(cmd.Args[1])
	if err != nil {
		return resp.ErrorReply("ERR value is not an integer or out of range")
	}
	v, ok := e.lookup(key)
	if !ok {
		return resp.ErrorReply("ERR no such key")
	}
	lv, ok := v.(*ListValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	if !lv.Set(idx, cmd.Args[2]) {
		return resp.ErrorReply("ERR index out of range")
	}
	return resp.SimpleString("OK")
}

func (e *Engine) ltrim(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	start, err1 := parseIndexArg(cmd.Args[1])
	stop, err2 := parseIndexArg(cmd.Args[2])
	if err1 != nil || err2 != nil {
		return resp.ErrorReply("ERR value is not an integer or out of range")
	}
	v, ok := e.lookup(key)
	if !ok {
		return resp.SimpleString("OK")
	}
	lv, ok := v.(*ListValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	lv.Trim(start, stop)
	return resp.SimpleString("OK")
}
