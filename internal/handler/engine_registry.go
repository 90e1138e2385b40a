package handler

import (
	"sync"

	"github.com/postportal/internal/config"
	"github.com/postportal/internal/feed"
	"github.com/postportal/internal/service"
	"github.com/postportal/internal/store"
)

// EngineRegistry maps login sessions to their feed engines. Opening an engine
// for a key that already has one tears the old engine down first, so a login
// never leaves two change streams racing into the same cache.
type EngineRegistry struct {
	store *store.PostStore
	notes *service.NotificationCenter
	cfg   config.AppConfig

	mu      sync.Mutex
	engines map[string]*feed.Session
}

// NewEngineRegistry creates an empty registry.
func NewEngineRegistry(st *store.PostStore, notes *service.NotificationCenter, cfg config.AppConfig) *EngineRegistry {
	return &EngineRegistry{
		store:   st,
		notes:   notes,
		cfg:     cfg,
		engines: make(map[string]*feed.Session),
	}
}

// Open builds a fresh engine for a session key, replacing any previous one.
// Guests pass an empty userID and get a session without a publisher.
func (r *EngineRegistry) Open(key, userID, userEmail string) (*feed.Session, error) {
	r.mu.Lock()
	previous := r.engines[key]
	delete(r.engines, key)
	r.mu.Unlock()

	if previous != nil {
		previous.Close()
	}

	session, err := feed.OpenSession(r.store, r.store, feed.SessionOptions{
		UserID:            userID,
		UserEmail:         userEmail,
		FeedLimit:         r.cfg.FeedLimit,
		SchedulerInterval: r.cfg.SchedulerInterval,
		Notifier:          r.notes,
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.engines[key] = session
	r.mu.Unlock()
	return session, nil
}

// Get returns the engine for a session key, if one is live.
func (r *EngineRegistry) Get(key string) (*feed.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.engines[key]
	return session, ok
}

// Close tears down the engine for a session key, if any.
func (r *EngineRegistry) Close(key string) {
	r.mu.Lock()
	session := r.engines[key]
	delete(r.engines, key)
	r.mu.Unlock()

	if session != nil {
		session.Close()
	}
}

// CloseAll tears down every live engine; used on server shutdown.
func (r *EngineRegistry) CloseAll() {
	r.mu.Lock()
	engines := r.engines
	r.engines = make(map[string]*feed.Session)
	r.mu.Unlock()

	for _, session := range engines {
		session.Close()
	}
}
