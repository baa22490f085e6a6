package admin

import (
	"fmt"

	"github.com/google/gops/agent"
)

// StartGops starts the github.com/google/gops/agent listener so an
// operator can attach with the `gops` CLI for live stack traces, heap
// profiles, and GC stats. Near-zero runtime overhead when nothing is
// attached.
func StartGops() error {
	if err := agent.Listen(agent.Options{}); err != nil {
		return fmt.Errorf("admin: gops/agent.Listen: %w", err)
	}
	return nil
}
