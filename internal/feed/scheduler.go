package feed

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/postportal/internal/db"
)

// Publisher promotes due scheduled posts to published while a session is
// open. It is a best-effort convenience layer, not a dependable cron: the
// remote promotion is idempotent, so two sessions of the same user sweeping
// concurrently is harmless. Failed promotions stay scheduled and are retried
// on the next tick.
type Publisher struct {
	cache    *PostCache
	store    StatusWriter
	notifier Notifier
	clock    Clock
	interval time.Duration
	userID   string

	mu      sync.Mutex
	stop    chan struct{}
	stopped chan struct{}
}

// NewPublisher wires a publisher for one authenticated user. The clock is
// injectable so tests can drive deterministic sweeps.
func NewPublisher(cache *PostCache, store StatusWriter, notifier Notifier, clock Clock, interval time.Duration, userID string) *Publisher {
	if clock == nil {
		clock = time.Now
	}
	return &Publisher{
		cache:    cache,
		store:    store,
		notifier: notifier,
		clock:    clock,
		interval: interval,
		userID:   userID,
	}
}

// Start launches the periodic sweep. Starting an already running publisher is
// a no-op, so a second Start never creates a second timer.
func (p *Publisher) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		return
	}
	p.stop = make(chan struct{})
	p.stopped = make(chan struct{})
	go p.run(p.stop, p.stopped)
}

// Stop halts the periodic sweep and waits for the loop to exit. Stopping a
// publisher that never started is a no-op.
func (p *Publisher) Stop() {
	p.mu.Lock()
	stop, stopped := p.stop, p.stopped
	p.stop, p.stopped = nil, nil
	p.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-stopped
}

func (p *Publisher) run(stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.Sweep(p.clock())
		case <-stop:
			return
		}
	}
}

// Sweep scans the cache snapshot once and issues one idempotent promotion per
// due scheduled post owned by this publisher's user. It never promotes other
// users' posts. The cache itself is untouched: the published state arrives
// back through the change stream, so a failed remote write cannot leave the
// local view ahead of the store. Returns the number of promotions issued.
func (p *Publisher) Sweep(now time.Time) int {
	promoted := 0
	for _, post := range p.cache.Snapshot() {
		if post.Status != db.StatusScheduled || post.UserID != p.userID {
			continue
		}
		due := post.Due()
		if due.IsZero() || due.After(now) {
			continue
		}

		if err := p.store.Promote(post.ID, now); err != nil {
			// stays scheduled, retried on the next tick
			log.Printf("[scheduler] promote %s failed: %v", post.ID, err)
			continue
		}
		promoted++

		if p.notifier != nil {
			p.notifier.Notify(p.userID,
				fmt.Sprintf("Scheduled post %q was published", post.Title), "success")
		}
	}
	return promoted
}
