package store

import "sync/atomic"

// Counters tracks process-wide operation counts for the admin surface.
// Each counter is its own atomic so Engine.Apply never blocks on
// reporting, and the Prometheus collector reads them lock-free.
type Counters struct {
	TotalOps    atomic.Int64
	GetOps      atomic.Int64
	SetOps      atomic.Int64
	DelOps      atomic.Int64
	Connections atomic.Int64
	ExpiredKeys atomic.Int64
}

func (c *Counters) recordCommand(name string) {
	if c == nil {
		return
	}
	c.TotalOps.Add(1)
	switch name {
	case "GET":
		c.GetOps.Add(1)
	case "SET":
		c.SetOps.Add(1)
	case "DEL":
		c.DelOps.Add(1)
	}
}

// Snapshot is a point-in-time, race-free copy of Counters for reporting.
type Snapshot struct {
	TotalOps    int64
	GetOps      int64
	SetOps      int64
	DelOps      int64
	Connections int64
	ExpiredKeys int64
}

// Snapshot reads every counter. Safe for concurrent use.
func (c *Counters) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return Snapshot{
		TotalOps:    c.TotalOps.Load(),
		GetOps:      c.GetOps.Load(),
		SetOps:      c.SetOps.Load(),
		DelOps:      c.DelOps.Load(),
		Connections: c.Connections.Load(),
		ExpiredKeys: c.ExpiredKeys.Load(),
	}
}
