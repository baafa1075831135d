package layerz

import (
	"sync"
)

// idPool keeps a buffer of pre-minted span IDs so the crypto/rand cost
// of minting is paid off the hot path. A background goroutine refills
// the buffer; Get falls back to minting directly when the buffer is
// drained by a burst.
type idPool struct {
	mint   func() SpanID
	ids    chan SpanID
	stopCh chan struct{}
	mu     sync.Mutex
	closed bool
}

func newIDPool(capacity int, mint func() SpanID) *idPool {
	pool := &idPool{
		ids:    make(chan SpanID, capacity),
		mint:   mint,
		stopCh: make(chan struct{}),
	}
	go pool.refill()
	return pool
}

// get returns a pre-minted ID, or mints one directly if the pool is
// empty.
func (p *idPool) get() SpanID {
	select {
	case id := <-p.ids:
		return id
	default:
		return p.mint()
	}
}

func (p *idPool) refill() {
	for {
		select {
		case <-p.stopCh:
			return
		default:
			select {
			case p.ids <- p.mint():
			case <-p.stopCh:
				return
			}
		}
	}
}

// close stops the refill goroutine. Safe to call more than once.
func (p *idPool) close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		close(p.stopCh)
		p.closed = true
	}
}
