package store

import (
	"strconv"
	"time"

	"github.com/GopeshSingal/gofast-server/internal/command"
	"github.com/GopeshSingal/gofast-server/internal/resp"
)

const absentKeyPollInterval = 10 * time.Millisecond

// brpop: lazy purge, try pop, wait on the list's wakeup handle if it
// exists but is empty, bounded polling if the key is altogether absent,
// retry on wake, WRONGTYPE immediately, Null on timeout. Timeout 0 is an
// immediate deadline (no indefinite wait), unlike Redis's wait-forever.
func (e *Engine) brpop(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	timeoutSecs, err := strconv.ParseInt(string(cmd.Args[1]), 10, 64)
	if err != nil || timeoutSecs < 0 {
		return resp.ErrorReply("ERR timeout is not an integer or out of range")
	}

	deadline := time.Now().Add(time.Duration(timeoutSecs) * time.Second)

	for {
		e.checkAndPurge(key)
		v, ok := e.lookup(key)
		if ok {
			lv, ok := v.(*ListValue)
			if !ok {
				return resp.ErrorReply(errWrongType.Error())
			}
			// Clone the wakeup handle before the pop attempt: a push that
			// lands between a failed pop and the wait still closes this
			// channel, so the element cannot be missed.
			ch := lv.waitChannel()
			if val, popped := lv.RightPop(); popped {
				return resp.ArrayOf(resp.BulkString([]byte(key)), resp.BulkString(val))
			}

			remaining := time.Until(deadline)
			if remaining <= 0 {
				return resp.NullArray()
			}
			select {
			case <-ch:
				continue
			case <-time.After(remaining):
				return resp.NullArray()
			}
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return resp.NullArray()
		}
		sleep := absentKeyPollInterval
		if remaining < sleep {
			sleep = remaining
		}
		time.Sleep(sleep)
	}
}
