package store

import (
	"math"
	"strconv"

	"github.com/GopeshSingal/gofast-server/internal/command"
	"github.com/GopeshSingal/gofast-server/internal/resp"
	"github.com/GopeshSingal/gofast-server/internal/skiplist"
)

func (e *Engine) getOrCreateZSet(key string) (*ZSetValue, error) {
	e.checkAndPurge(key)
	e.valuesMu.Lock()
	defer e.valuesMu.Unlock()
	v, ok := e.values[key]
	if !ok {
		zv := newZSetValue()
		e.values[key] = zv
		return zv, nil
	}
	zv, ok := v.(*ZSetValue)
	if !ok {
		return nil, errWrongType
	}
	return zv, nil
}

// zadd is the single-pair form. It always returns 1, unlike Redis which
// returns 1 only when the member is new.
func (e *Engine) zadd(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	score, err := strconv.ParseFloat(string(cmd.Args[1]), 64)
	if err != nil || math.IsNaN(score) {
		return resp.ErrorReply("ERR value is not a valid float")
	}
	zv, err := e.getOrCreateZSet(key)
	if err != nil {
		return resp.ErrorReply(err.Error())
	}
	zv.index.Insert(score, cmd.Args[2])
	return resp.Int64(1)
}

func (e *Engine) zrem(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.Int64(0)
	}
	zv, ok := v.(*ZSetValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	if zv.index.RemoveMember(cmd.Args[1]) {
		return resp.Int64(1)
	}
	return resp.Int64(0)
}

func (e *Engine) zcard(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.Int64(0)
	}
	zv, ok := v.(*ZSetValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	return resp.Int64(int64(zv.index.Len()))
}

func (e *Engine) zscore(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.NullBulk()
	}
	zv, ok := v.(*ZSetValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	score, ok := zv.index.GetScore(cmd.Args[1])
	if !ok {
		return resp.NullBulk()
	}
	return resp.BulkString([]byte(formatScore(score)))
}

func (e *Engine) zrank(cmd command.Command, reverse bool) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.NullBulk()
	}
	zv, ok := v.(*ZSetValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	rank, ok := zv.index.Rank(cmd.Args[1])
	if !ok {
		return resp.NullBulk()
	}
	if reverse {
		rank = zv.index.Len() - 1 - rank
	}
	return resp.Int64(int64(rank))
}

func (e *Engine) zrange(cmd command.Command, reverse bool) resp.Frame {
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
	zv, ok := v.(*ZSetValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	n := zv.index.Len()
	start, stop = clampRange(start, stop, n)
	if start > stop {
		return resp.ArrayOf()
	}
	if !reverse {
		return entriesToArray(zv.index.RangeByRank(start, stop))
	}
	// Reverse ranks count from the highest (score, member); map them onto
	// ascending ranks and flip the result.
	entries := zv.index.RangeByRank(n-1-stop, n-1-start)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entriesToArray(entries)
}

func (e *Engine) zrangebyscore(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	min, err1 := strconv.ParseFloat(string(cmd.Args[1]), 64)
	max, err2 := strconv.ParseFloat(string(cmd.Args[2]), 64)
	if err1 != nil || err2 != nil {
		return resp.ErrorReply("ERR min or max is not a float")
	}
	v, ok := e.lookup(key)
	if !ok {
		return resp.ArrayOf()
	}
	zv, ok := v.(*ZSetValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	return entriesToArray(zv.index.RangeByScore(min, max))
}

func (e *Engine) zremrangebyscore(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	min, err1 := strconv.ParseFloat(string(cmd.Args[1]), 64)
	max, err2 := strconv.ParseFloat(string(cmd.Args[2]), 64)
	if err1 != nil || err2 != nil {
		return resp.ErrorReply("ERR min or max is not a float")
	}
	v, ok := e.lookup(key)
	if !ok {
		return resp.Int64(0)
	}
	zv, ok := v.(*ZSetValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	removed := zv.index.RemoveRangeByScore(min, max)
	return resp.Int64(int64(len(removed)))
}

func (e *Engine) zcount(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	min, err1 := strconv.ParseFloat(string(cmd.Args[1]), 64)
	max, err2 := strconv.ParseFloat(string(cmd.Args[2]), 64)
	if err1 != nil || err2 != nil {
		return resp.ErrorReply("ERR min or max is not a float")
	}
	v, ok := e.lookup(key)
	if !ok {
		return resp.Int64(0)
	}
	zv, ok := v.(*ZSetValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	return resp.Int64(int64(len(zv.index.RangeByScore(min, max))))
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func entriesToArray(entries []skiplist.Entry) resp.Frame {
	elems := make([]resp.Frame, len(entries))
	for i, e := range entries {
		elems[i] = resp.BulkString(e.Member)
	}
	return resp.ArrayOf(elems...)
}
