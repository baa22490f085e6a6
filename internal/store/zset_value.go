package store

import "github.com/GopeshSingal/gofast-server/internal/skiplist"

// ZSetValue is a sorted set: unique members ordered by (score, member).
// Backed by the skip list index.
type ZSetValue struct {
	index *skiplist.SkipList
}

func newZSetValue() *ZSetValue {
	return &ZSetValue{index: skiplist.New()}
}

func (*ZSetValue) kind() valueKind { return kindZSet }
