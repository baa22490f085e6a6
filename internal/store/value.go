// Package store holds the keyspace engine: the tagged value model, the
// key/TTL maps, BRPOP blocking coordination, and the full command
// semantics dispatched by internal/command's Command values.
package store

// Value is the tagged union every key maps to. Each concrete type below
// implements it via the unexported kind method, which keeps type
// switches over Value closed to this package.
type Value interface {
	kind() valueKind
}

type valueKind uint8

const (
	kindString valueKind = iota
	kindList
	kindHash
	kindSet
	kindZSet
)

// TypeError is returned whenever a command addresses a key holding a
// value of the wrong kind. Its wording is fixed by the wire protocol.
type TypeError struct{}

func (TypeError) Error() string {
	return "WRONGTYPE Operation against a key holding the wrong kind of value"
}

var errWrongType = TypeError{}
