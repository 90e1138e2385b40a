package feed

import (
	"sync"
	"time"
)

// SessionOptions configures a feed session.
type SessionOptions struct {
	// UserID is empty for guest sessions; guests get no publisher.
	UserID            string
	UserEmail         string
	FeedLimit         int
	SchedulerInterval time.Duration
	Clock             Clock
	Notifier          Notifier
}

// Session is the per-login engine context: one cache fed by one subscription,
// plus the scheduled publisher for the session's user. Construct one per
// authenticated session and Close it on logout so no two change streams ever
// race writes into the same cache.
type Session struct {
	UserID    string
	UserEmail string
	Cache     *PostCache

	publisher *Publisher
	cancel    func()
	done      chan struct{}
	closeOnce sync.Once
}

// OpenSession subscribes a fresh cache to the source and starts the single
// consumer loop that applies change batches strictly in delivery order. For
// authenticated (non-guest) users the scheduled publisher is started as well.
func OpenSession(source Source, store StatusWriter, opts SessionOptions) (*Session, error) {
	if opts.FeedLimit <= 0 {
		opts.FeedLimit = 50
	}
	if opts.SchedulerInterval <= 0 {
		opts.SchedulerInterval = 60 * time.Second
	}

	changes, cancel, err := source.Subscribe(opts.FeedLimit)
	if err != nil {
		return nil, err
	}

	s := &Session{
		UserID:    opts.UserID,
		UserEmail: opts.UserEmail,
		Cache:     NewPostCache(),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		for batch := range changes {
			s.Cache.Apply(batch)
		}
	}()

	if opts.UserID != "" {
		s.publisher = NewPublisher(s.Cache, store, opts.Notifier, opts.Clock,
			opts.SchedulerInterval, opts.UserID)
		s.publisher.Start()
	}

	return s, nil
}

// Publisher exposes the session's publisher, nil for guest sessions.
func (s *Session) Publisher() *Publisher {
	return s.publisher
}

// Close tears the session down: the publisher stops, the subscription is
// cancelled and the consumer loop drains out. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.publisher != nil {
			s.publisher.Stop()
		}
		s.cancel()
		<-s.done
	})
}
