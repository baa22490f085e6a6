package store

import (
	"sync"
	"time"

	"github.com/GopeshSingal/gofast-server/internal/command"
	"github.com/GopeshSingal/gofast-server/internal/resp"
)

// AOFWriter is the subset of the AOF writer the engine needs. Kept as an
// interface here so internal/store never imports internal/aof (which
// itself replays commands through the engine).
type AOFWriter interface {
	Append(name string, args [][]byte)
}

// Engine is the keyspace: a value map and a TTL map, each behind its own
// reader/writer lock, plus the optional AOF writer mutating commands are
// journaled to. Acquire order is always value map then TTL map, never the
// reverse, per the concurrency model.
type Engine struct {
	valuesMu sync.RWMutex
	values   map[string]Value

	ttlMu sync.RWMutex
	ttl   map[string]time.Time

	aof   AOFWriter
	stats *Counters
}

// NewEngine returns an empty keyspace. aof may be nil to disable
// journaling (used during AOF replay itself).
func NewEngine(aof AOFWriter) *Engine {
	return &Engine{
		values: make(map[string]Value),
		ttl:    make(map[string]time.Time),
		aof:    aof,
		stats:  &Counters{},
	}
}

// Stats returns the engine's counters, suitable for exporting as
// Prometheus metrics by the admin surface. Never nil.
func (e *Engine) Stats() *Counters {
	return e.stats
}

// SetAOF attaches an AOF writer after construction, used once replay has
// finished and live journaling should begin.
func (e *Engine) SetAOF(aof AOFWriter) {
	e.aof = aof
}

// writeCommands is the set of commands whose successful application is
// journaled to the AOF. GETSET is deliberately absent.
var writeCommands = map[string]bool{
	"SET": true, "DEL": true, "APPEND": true, "INCR": true, "DECR": true,
	"INCRBY": true, "MSET": true, "LPUSH": true, "RPUSH": true, "LPOP": true,
	"RPOP": true, "LSET": true, "LTRIM": true, "HSET": true, "HDEL": true,
	"SADD": true, "SREM": true, "ZADD": true, "ZREM": true,
	"ZREMRANGEBYSCORE": true, "EXPIRE": true,
}

// Apply dispatches a single command against the keyspace and returns its
// reply frame. On success, mutating commands are appended to the AOF.
func (e *Engine) Apply(cmd command.Command) resp.Frame {
	reply := e.dispatch(cmd)
	e.stats.recordCommand(cmd.Name)
	if e.aof != nil && writeCommands[cmd.Name] && reply.Type != resp.Error {
		e.aof.Append(cmd.Name, cmd.Args)
	}
	return reply
}

func (e *Engine) dispatch(cmd command.Command) resp.Frame {
	switch cmd.Name {
	case "PING":
		return e.ping(cmd)
	case "AUTH":
		// The connection layer intercepts every AUTH before it reaches the
		// engine; AUTH arrives here only from other callers of Apply, and
		// is just acknowledged.
		return resp.SimpleString("OK")

	case "GET":
		return e.get(cmd)
	case "SET":
		return e.set(cmd)
	case "APPEND":
		return e.appendStr(cmd)
	case "STRLEN":
		return e.strlen(cmd)
	case "GETSET":
		return e.getset(cmd)
	case "INCR":
		return e.incrBy(cmd, 1)
	case "DECR":
		return e.incrBy(cmd, -1)
	case "INCRBY":
		return e.incrby(cmd)
	case "MSET":
		return e.mset(cmd)
	case "MGET":
		return e.mget(cmd)

	case "DEL":
		return e.del(cmd)
	case "EXPIRE":
		return e.expire(cmd)
	case "TTL":
		return e.ttlCmd(cmd)
	case "EXISTS":
		return e.exists(cmd)
	case "KEYS":
		return e.keys(cmd)

	case "LPUSH":
		return e.push(cmd, true)
	case "RPUSH":
		return e.push(cmd, false)
	case "LPOP":
		return e.pop(cmd, true)
	case "RPOP":
		return e.pop(cmd, false)
	case "LLEN":
		return e.llen(cmd)
	case "LRANGE":
		return e.lrange(cmd)
	case "LINDEX":
		return e.lindex(cmd)
	case "LSET":
		return e.lset(cmd)
	case "LTRIM":
		return e.ltrim(cmd)
	case "BRPOP":
		return e.brpop(cmd)

	case "HSET":
		return e.hset(cmd)
	case "HGET":
		return e.hget(cmd)
	case "HDEL":
		return e.hdel(cmd)
	case "HEXISTS":
		return e.hexists(cmd)
	case "HLEN":
		return e.hlen(cmd)
	case "HMGET":
		return e.hmget(cmd)
	case "HGETALL":
		return e.hgetall(cmd)
	case "HKEYS":
		return e.hkeys(cmd)
	case "HVALS":
		return e.hvals(cmd)

	case "SADD":
		return e.sadd(cmd)
	case "SREM":
		return e.srem(cmd)
	case "SMEMBERS":
		return e.smembers(cmd)
	case "SISMEMBER":
		return e.sismember(cmd)
	case "SCARD":
		return e.scard(cmd)
	case "SUNION":
		return e.sunion(cmd)
	case "SINTER":
		return e.sinter(cmd)
	case "SDIFF":
		return e.sdiff(cmd)

	case "ZADD":
		return e.zadd(cmd)
	case "ZREM":
		return e.zrem(cmd)
	case "ZCARD":
		return e.zcard(cmd)
	case "ZSCORE":
		return e.zscore(cmd)
	case "ZRANK":
		return e.zrank(cmd, false)
	case "ZREVRANK":
		return e.zrank(cmd, true)
	case "ZRANGE":
		return e.zrange(cmd, false)
	case "ZREVRANGE":
		return e.zrange(cmd, true)
	case "ZRANGEBYSCORE":
		return e.zrangebyscore(cmd)
	case "ZREMRANGEBYSCORE":
		return e.zremrangebyscore(cmd)
	case "ZCOUNT":
		return e.zcount(cmd)

	default:
		return resp.ErrorReply("ERR unknown command")
	}
}

func (e *Engine) ping(cmd command.Command) resp.Frame {
	if len(cmd.Args) == 1 {
		return resp.BulkString(cmd.Args[0])
	}
	return resp.SimpleString("PONG")
}

// checkAndPurge drops key if its TTL has passed. Caller must not hold
// e.valuesMu write lock when calling (it acquires its own escalating
// locks in value-map-then-ttl-map order).
func (e *Engine) checkAndPurge(key string) {
	e.ttlMu.RLock()
	deadline, has := e.ttl[key]
	e.ttlMu.RUnlock()
	if !has || time.Now().Before(deadline) {
		return
	}
	e.valuesMu.Lock()
	e.ttlMu.Lock()
	delete(e.values, key)
	delete(e.ttl, key)
	e.ttlMu.Unlock()
	e.valuesMu.Unlock()
}

// lookup returns the value for key after a lazy TTL check, plus whether
// it exists.
func (e *Engine) lookup(key string) (Value, bool) {
	e.checkAndPurge(key)
	e.valuesMu.RLock()
	defer e.valuesMu.RUnlock()
	v, ok := e.values[key]
	return v, ok
}

func (e *Engine) store(key string, v Value) {
	e.valuesMu.Lock()
	defer e.valuesMu.Unlock()
	e.values[key] = v
}

func (e *Engine) deleteKey(key string) bool {
	e.valuesMu.Lock()
	_, existed := e.values[key]
	delete(e.values, key)
	e.valuesMu.Unlock()

	e.ttlMu.Lock()
	delete(e.ttl, key)
	e.ttlMu.Unlock()
	return existed
}

func (e *Engine) setTTL(key string, deadline time.Time) {
	e.ttlMu.Lock()
	defer e.ttlMu.Unlock()
	e.ttl[key] = deadline
}

// Sweep performs one pass of active expiration: snapshot the TTL map,
// collect expired keys, then purge both maps. Called on a schedule by
// the server's maintenance scheduler; complementary to checkAndPurge.
func (e *Engine) Sweep(now time.Time) int {
	e.ttlMu.RLock()
	var expired []string
	for k, deadline := range e.ttl {
		if !now.Before(deadline) {
			expired = append(expired, k)
		}
	}
	e.ttlMu.RUnlock()

	if len(expired) == 0 {
		return 0
	}

	e.valuesMu.Lock()
	e.ttlMu.Lock()
	for _, k := range expired {
		delete(e.values, k)
		delete(e.ttl, k)
	}
	e.ttlMu.Unlock()
	e.valuesMu.Unlock()
	e.stats.ExpiredKeys.Add(int64(len(expired)))
	return len(expired)
}
