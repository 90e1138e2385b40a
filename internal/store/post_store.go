package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/postportal/internal/db"
	"github.com/postportal/internal/feed"
	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

// subscriberBuffer bounds the per-subscriber batch queue. A subscriber that
// falls this far behind is dropped rather than allowed to block or reorder
// delivery for everyone else.
const subscriberBuffer = 256

type subscriber struct {
	ch     chan []feed.Change
	closed bool
}

// PostStore is the remote record store: gorm persistence plus an ordered
// change-stream fanout. Every committed mutation is emitted to all live
// subscribers in commit order; the mutex serializes mutation and emission so
// no subscriber can ever observe events out of order.
type PostStore struct {
	gdb *gorm.DB

	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

// NewPostStore creates a store around an initialized database handle.
func NewPostStore(gdb *gorm.DB) *PostStore {
	return &PostStore{gdb: gdb, subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a change-stream consumer. The initial bounded snapshot
// (most recent limit posts by timeline date) arrives as one batch of added
// events, followed by live batches for every later mutation. The cancel func
// tears the subscription down and closes the channel.
func (s *PostStore) Subscribe(limit int) (<-chan []feed.Change, func(), error) {
	if limit <= 0 {
		limit = 50
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var posts []db.Post
	if err := s.gdb.Order("date desc").Limit(limit).Find(&posts).Error; err != nil {
		return nil, nil, err
	}

	sub := &subscriber{ch: make(chan []feed.Change, subscriberBuffer)}
	s.subs[sub] = struct{}{}

	if len(posts) > 0 {
		snapshot := make([]feed.Change, len(posts))
		for i := range posts {
			post := posts[i]
			snapshot[i] = feed.Change{Kind: feed.ChangeAdded, ID: post.ID, Post: &post}
		}
		sub.ch <- snapshot
	}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.drop(sub)
	}
	return sub.ch, cancel, nil
}

// Create persists a new post as a single atomic write and emits one added
// event. The store assigns the id; a zero date falls back to now.
func (s *PostStore) Create(post *db.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.Date.IsZero() {
		post.Date = time.Now()
	}

	if err := s.gdb.Create(post).Error; err != nil {
		return err
	}

	s.emit(feed.Change{Kind: feed.ChangeAdded, ID: post.ID, Post: clonePost(post)})
	return nil
}

// Promote sets a scheduled post to published, stamping the update time and
// clearing the due marker. It is idempotent: promoting a post that is already
// published changes nothing and emits nothing, which is what makes the
// multi-session scheduler race harmless.
func (s *PostStore) Promote(id string, now time.Time) error {
	return s.update(id, func(post *db.Post) bool {
		if post.Status == db.StatusPublished {
			return false
		}
		post.Status = db.StatusPublished
		post.ScheduledTime = nil
		post.UpdatedAt = now
		return true
	})
}

// PublishDraft moves a draft straight to published, resetting its timeline
// date to the publish instant. Publishing a non-draft is a no-op.
func (s *PostStore) PublishDraft(id string, now time.Time) error {
	return s.update(id, func(post *db.Post) bool {
		if post.Status != db.StatusDraft {
			return false
		}
		post.Status = db.StatusPublished
		post.Date = now
		post.UpdatedAt = now
		return true
	})
}

// Delete removes a record and emits one removed event.
func (s *PostStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.gdb.Delete(&db.Post{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}

	s.emit(feed.Change{Kind: feed.ChangeRemoved, ID: id})
	return nil
}

// Get fetches a single record by id.
func (s *PostStore) Get(id string) (*db.Post, error) {
	var post db.Post
	if err := s.gdb.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// update loads, mutates and saves a record under the stream lock, emitting a
// modified event only when the mutation actually changed the row.
func (s *PostStore) update(id string, mutate func(*db.Post) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var post db.Post
	if err := s.gdb.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if !mutate(&post) {
		return nil
	}

	if err := s.gdb.Save(&post).Error; err != nil {
		return err
	}

	s.emit(feed.Change{Kind: feed.ChangeModified, ID: post.ID, Post: clonePost(&post)})
	return nil
}

// emit fans one event out to every live subscriber. Callers hold s.mu, so
// batches reach each subscriber channel in commit order.
func (s *PostStore) emit(change feed.Change) {
	for sub := range s.subs {
		select {
		case sub.ch <- []feed.Change{change}:
		default:
			// subscriber stopped draining; evict instead of blocking the stream
			s.drop(sub)
		}
	}
}

func (s *PostStore) drop(sub *subscriber) {
	if sub.closed {
		return
	}
	sub.closed = true
	delete(s.subs, sub)
	close(sub.ch)
}

func clonePost(post *db.Post) *db.Post {
	clone := *post
	if post.ScheduledTime != nil {
		ms := *post.ScheduledTime
		clone.ScheduledTime = &ms
	}
	return &clone
}
