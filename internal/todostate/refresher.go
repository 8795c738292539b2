package todostate

import (
	"context"
	"sync"
	"time"
)

// refreshTimeout is the maximum time allowed for a single fetch.
const refreshTimeout = 30 * time.Second

// Refresher periodically replaces the store's local state with the
// server's authoritative list. Two rapid intents can still race on the
// server; the periodic refetch is what eventually converges the cache.
type Refresher struct {
	store    *Store
	interval time.Duration

	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        sync.Mutex
	running   bool
}

// NewRefresher creates a Refresher for the given store. A non-positive
// interval falls back to two minutes.
func NewRefresher(store *Store, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 2 * time.Minute
	}
	return &Refresher{
		store:     store,
		interval:  interval,
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the refresh loop. Calling Start twice is a no-op.
func (r *Refresher) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	go r.loop()
}

// Stop halts the refresh loop.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	close(r.stopCh)
	r.running = false
}

// RefreshNow triggers an immediate refresh without blocking. Dropped
// when one is already queued.
func (r *Refresher) RefreshNow() {
	select {
	case r.triggerCh <- struct{}{}:
	default:
	}
}

func (r *Refresher) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Initial fetch immediately.
	r.fetch()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.fetch()
		case <-r.triggerCh:
			r.fetch()
		}
	}
}

func (r *Refresher) fetch() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	_ = r.store.Refresh(ctx)
}
