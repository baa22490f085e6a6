package server

import "sync"

// bufferPool reuses per-connection read buffers. Buffers below a size
// ceiling are recycled; larger ones are left for the garbage collector
// rather than pooled forever.
type bufferPool struct {
	pool sync.Pool
}

func newBufferPool() *bufferPool {
	return &bufferPool{
		pool: sync.Pool{
			New: func() any {
				b := make([]byte, 0, 4096)
				return &b
			},
		},
	}
}

func (p *bufferPool) get() []byte {
	b := p.pool.Get().(*[]byte)
	return (*b)[:0]
}

func (p *bufferPool) put(b []byte) {
	if cap(b) <= 1<<20 {
		b = b[:0]
		p.pool.Put(&b)
	}
}
