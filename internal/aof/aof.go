// Package aof implements the append-only durability journal: a writer
// with three fsync policies and a startup replayer.
package aof

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/GopeshSingal/gofast-server/internal/resp"
)

// FsyncPolicy selects how aggressively the writer pushes appends to disk.
type FsyncPolicy uint8

const (
	Always FsyncPolicy = iota
	EverySec
	No
)

// ParseFsyncPolicy parses the --aof-fsync flag value.
func ParseFsyncPolicy(s string) (FsyncPolicy, error) {
	switch s {
	case "always":
		return Always, nil
	case "everysec":
		return EverySec, nil
	case "no":
		return No, nil
	default:
		return 0, fmt.Errorf("ERR --aof-fsync must be one of: always | everysec | no")
	}
}

// Writer appends RESP-encoded command frames to the AOF file. Appends are
// serialized behind an internal mutex so concurrent commands don't
// interleave their bytes.
type Writer struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	fsync  FsyncPolicy
	logger *zap.Logger
}

// Open creates the file if missing and positions for append-only writes.
// The caller is responsible for scheduling the EverySec background
// FlushAndSync job when fsync == EverySec.
func Open(path string, fsync FsyncPolicy, logger *zap.Logger) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("aof: open %s: %w", path, err)
	}
	if err := lockExclusive(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("aof: lock %s: %w", path, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{file: f, writer: bufio.NewWriter(f), fsync: fsync, logger: logger}, nil
}

// Append encodes (name, args) as a RESP command array and writes it,
// applying the configured fsync policy.
func (w *Writer) Append(name string, args [][]byte) {
	elems := make([]resp.Frame, 0, len(args)+1)
	elems = append(elems, resp.BulkString([]byte(name)))
	for _, a := range args {
		elems = append(elems, resp.BulkString(a))
	}
	frame := resp.ArrayOf(elems...)
	b := resp.Encode(frame)

	w.mu.Lock()
	defer w.mu.Unlock()
	// AOF I/O errors never terminate the server; durability degrades to
	// best-effort within the configured fsync policy.
	if _, err := w.writer.Write(b); err != nil {
		w.logger.Error("aof append failed", zap.Error(err))
		return
	}
	if err := w.writer.Flush(); err != nil {
		w.logger.Error("aof flush failed", zap.Error(err))
		return
	}
	if w.fsync == Always {
		if err := w.file.Sync(); err != nil {
			w.logger.Error("aof fsync failed", zap.Error(err))
		}
	}
}

// FlushAndSync flushes the buffered writer and fsyncs the underlying
// file. Used by the EverySec background job; Always-policy appends sync
// the file themselves inside Append.
func (w *Writer) FlushAndSync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writer.Flush(); err != nil {
		return err
	}
	return w.file.Sync()
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.writer.Flush()
	return w.file.Close()
}

// Path returns the file descriptor's backing path via Name(), matching
// what was passed to Open.
func (w *Writer) Path() string {
	return w.file.Name()
}

// Policy returns the fsync policy the writer was opened with.
func (w *Writer) Policy() FsyncPolicy {
	return w.fsync
}
