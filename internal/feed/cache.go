package feed

import (
	"cmp"
	"log"
	"slices"
	"sync"

	"github.com/postportal/internal/db"
)

type cacheEntry struct {
	post db.Post
	seq  uint64
}

// PostCache is the local mirror of the remote post collection, rebuilt
// incrementally from change events. Events are applied exactly in delivery
// order; the cache never drops, reorders or coalesces them. Only the change
// stream consumer mutates the cache, every other component reads snapshots.
type PostCache struct {
	mu        sync.RWMutex
	posts     map[string]cacheEntry
	nextSeq   uint64
	listeners []func()
	notifying bool
}

// NewPostCache returns an empty cache.
func NewPostCache() *PostCache {
	return &PostCache{posts: make(map[string]cacheEntry)}
}

// OnUpdate registers a listener invoked synchronously after every applied
// batch. Listeners must not mutate the cache.
func (c *PostCache) OnUpdate(fn func()) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Apply folds a batch of change events over the cache in delivery order.
// Added and modified events upsert the full record (last write wins by event
// order), removed events delete the key. Listeners observe the cache only
// after the whole batch has been applied, never mid-batch.
func (c *PostCache) Apply(changes []Change) {
	c.mu.Lock()
	if c.notifying {
		c.mu.Unlock()
		log.Printf("[cache] dropped reentrant apply of %d change(s) from a listener", len(changes))
		return
	}

	for _, change := range changes {
		switch change.Kind {
		case ChangeRemoved:
			delete(c.posts, change.ID)
		case ChangeAdded, ChangeModified:
			if change.Post == nil {
				continue
			}
			entry, ok := c.posts[change.ID]
			if !ok {
				entry.seq = c.nextSeq
				c.nextSeq++
			}
			entry.post = *change.Post
			c.posts[change.ID] = entry
		}
	}

	listeners := make([]func(), len(c.listeners))
	copy(listeners, c.listeners)
	c.notifying = true
	c.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}

	c.mu.Lock()
	c.notifying = false
	c.mu.Unlock()
}

// Snapshot returns a copy of the cached posts ordered by insertion sequence.
// The insertion order gives callers a deterministic base for stable sorts.
func (c *PostCache) Snapshot() []db.Post {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]cacheEntry, 0, len(c.posts))
	for _, entry := range c.posts {
		entries = append(entries, entry)
	}
	sortEntriesBySeq(entries)

	posts := make([]db.Post, len(entries))
	for i, entry := range entries {
		posts[i] = entry.post
	}
	return posts
}

// Get returns the cached record for an id, if present.
func (c *PostCache) Get(id string) (db.Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.posts[id]
	return entry.post, ok
}

// Len reports the number of cached posts.
func (c *PostCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.posts)
}

func sortEntriesBySeq(entries []cacheEntry) {
	slices.SortFunc(entries, func(a, b cacheEntry) int {
		return cmp.Compare(a.seq, b.seq)
	})
}
