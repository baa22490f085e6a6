package aof

import (
	"fmt"
	"os"

	"github.com/GopeshSingal/gofast-server/internal/command"
	"github.com/GopeshSingal/gofast-server/internal/resp"
	"github.com/GopeshSingal/gofast-server/internal/store"
)

// ReplayError wraps a fatal failure encountered while replaying the AOF
// at startup. The caller is expected to abort the process on this error.
type ReplayError struct {
	Offset int
	Reason string
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("aof: replay failed at offset %d: %s", e.Offset, e.Reason)
}

// Replay reads path in full, parses it as a stream of RESP command
// frames, and applies each to engine with AOF journaling disabled (the
// caller attaches the live Writer only after Replay returns). A missing
// file is not an error, it means an empty database. An incomplete
// trailing frame, or a command that fails to parse, is fatal: a corrupt
// journal is worth surfacing loudly rather than silently skipping
// entries.
func Replay(path string, engine *store.Engine) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("aof: read %s: %w", path, err)
	}

	applied := 0
	offset := 0
	for offset < len(data) {
		frame, n, err := resp.Parse(data[offset:])
		if err != nil {
			return applied, &ReplayError{Offset: offset, Reason: err.Error()}
		}
		cmd, err := command.Parse(frame)
		if err != nil {
			return applied, &ReplayError{Offset: offset, Reason: err.Error()}
		}
		reply := engine.Apply(cmd)
		if reply.Type == resp.Error {
			return applied, &ReplayError{Offset: offset, Reason: reply.Str}
		}
		offset += n
		applied++
	}
	return applied, nil
}
