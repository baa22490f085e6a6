package store

import (
	"github.com/GopeshSingal/gofast-server/internal/command"
	"github.com/GopeshSingal/gofast-server/internal/resp"
)

func (e *Engine) getOrCreateSet(key string) (*SetValue, error) {
	e.checkAndPurge(key)
	e.valuesMu.Lock()
	defer e.valuesMu.Unlock()
	v, ok := e.values[key]
	if !ok {
		sv := newSetValue()
		e.values[key] = sv
		return sv, nil
	}
	sv, ok := v.(*SetValue)
	if !ok {
		return nil, errWrongType
	}
	return sv, nil
}

func (e *Engine) sadd(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	sv, err := e.getOrCreateSet(key)
	if err != nil {
		return resp.ErrorReply(err.Error())
	}
	added := 0
	for _, m := range cmd.Args[1:] {
		if sv.Add(string(m)) {
			added++
		}
	}
	return resp.Int64(int64(added))
}

func (e *Engine) srem(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.Int64(0)
	}
	sv, ok := v.(*SetValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	if sv.Remove(string(cmd.Args[1])) {
		return resp.Int64(1)
	}
	return resp.Int64(0)
}

func (e *Engine) smembers(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.ArrayOf()
	}
	sv, ok := v.(*SetValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	members := sv.Members()
	elems := make([]resp.Frame, len(members))
	for i, m := range members {
		elems[i] = resp.BulkString([]byte(m))
	}
	return resp.ArrayOf(elems...)
}

func (e *Engine) sismember(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.Int64(0)
	}
	sv, ok := v.(*SetValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	if sv.IsMember(string(cmd.Args[1])) {
		return resp.Int64(1)
	}
	return resp.Int64(0)
}

func (e *Engine) scard(cmd command.Command) resp.Frame {
	key := string(cmd.Args[0])
	v, ok := e.lookup(key)
	if !ok {
		return resp.Int64(0)
	}
	sv, ok := v.(*SetValue)
	if !ok {
		return resp.ErrorReply(errWrongType.Error())
	}
	return resp.Int64(int64(sv.Card()))
}

// setOrEmpty returns the member set for key, an empty set when key is
// missing, or errWrongType when key holds a non-Set value (callers treat
// that as an empty set). The bool result is whether key resolved to an
// actual Set value (used by sinter's empty-if-none rule).
func (e *Engine) setOrEmpty(key string) (map[string]struct{}, bool, error) {
	v, ok := e.lookup(key)
	if !ok {
		return map[string]struct{}{}, false, nil
	}
	sv, ok := v.(*SetValue)
	if !ok {
		return nil, false, errWrongType
	}
	return sv.memberSet(), true, nil
}

func (e *Engine) sunion(cmd command.Command) resp.Frame {
	union := map[string]struct{}{}
	for _, k := range cmd.Args {
		members, _, err := e.setOrEmpty(string(k))
		if err != nil {
			continue // non-set keys act as empty sets for union
		}
		for m := range members {
			union[m] = struct{}{}
		}
	}
	return membersToArray(union)
}

func (e *Engine) sinter(cmd command.Command) resp.Frame {
	var result map[string]struct{}
	anySet := false
	for _, k := range cmd.Args {
		members, isSet, err := e.setOrEmpty(string(k))
		if err != nil {
			continue
		}
		if !isSet {
			continue
		}
		anySet = true
		if result == nil {
			result = members
			continue
		}
		result = intersect(result, members)
	}
	if !anySet {
		return resp.ArrayOf()
	}
	return membersToArray(result)
}

func (e *Engine) sdiff(cmd command.Command) resp.Frame {
	if len(cmd.Args) == 0 {
		return resp.ArrayOf()
	}
	// A non-Set first key acts as an empty base, like every other
	// non-Set key in the set algebra commands.
	first, _, err := e.setOrEmpty(string(cmd.Args[0]))
	if err != nil {
		return resp.ArrayOf()
	}
	result := map[string]struct{}{}
	for m := range first {
		result[m] = struct{}{}
	}
	for _, k := range cmd.Args[1:] {
		members, _, err := e.setOrEmpty(string(k))
		if err != nil {
			continue
		}
		for m := range members {
			delete(result, m)
		}
	}
	return membersToArray(result)
}

func intersect(a, b map[string]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for m := range a {
		if _, ok := b[m]; ok {
			out[m] = struct{}{}
		}
	}
	return out
}

func membersToArray(members map[string]struct{}) resp.Frame {
	elems := make([]resp.Frame, 0, len(members))
	for m := range members {
		elems = append(elems, resp.BulkString([]byte(m)))
	}
	return resp.ArrayOf(elems...)
}
