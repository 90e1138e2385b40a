package feed

import (
	"testing"
	"time"

	"github.com/postportal/internal/db"
)

type sourceStub struct {
	ch        chan []Change
	cancelled bool
}

func newSourceStub() *sourceStub {
	return &sourceStub{ch: make(chan []Change, 16)}
}

func (s *sourceStub) Subscribe(limit int) (<-chan []Change, func(), error) {
	return s.ch, func() {
		if !s.cancelled {
			s.cancelled = true
			close(s.ch)
		}
	}, nil
}

func waitForCacheLen(t *testing.T, cache *PostCache, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cache.Len() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("cache never reached %d entries, has %d", want, cache.Len())
}

func TestOpenSession_AppliesBatchesInOrder(t *testing.T) {
	source := newSourceStub()
	writer := &statusWriterStub{}

	session, err := OpenSession(source, writer, SessionOptions{UserID: "me", UserEmail: "me@example.com"})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	defer session.Close()

	now := time.Now()
	source.ch <- []Change{
		{Kind: ChangeAdded, ID: "1", Post: makePost("1", db.StatusScheduled, "me", now)},
	}
	source.ch <- []Change{
		{Kind: ChangeModified, ID: "1", Post: makePost("1", db.StatusPublished, "me", now)},
		{Kind: ChangeAdded, ID: "2", Post: makePost("2", db.StatusPublished, "me", now)},
	}

	waitForCacheLen(t, session.Cache, 2)

	post, ok := session.Cache.Get("1")
	if !ok || post.Status != db.StatusPublished {
		t.Fatalf("modified event must have been applied after added, got %+v ok=%v", post, ok)
	}
}

func TestOpenSession_GuestHasNoPublisher(t *testing.T) {
	source := newSourceStub()
	session, err := OpenSession(source, &statusWriterStub{}, SessionOptions{UserID: ""})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	defer session.Close()

	if session.Publisher() != nil {
		t.Fatal("guest sessions must not run a scheduled publisher")
	}
}

func TestOpenSession_AuthenticatedHasPublisher(t *testing.T) {
	source := newSourceStub()
	session, err := OpenSession(source, &statusWriterStub{}, SessionOptions{UserID: "me"})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	defer session.Close()

	if session.Publisher() == nil {
		t.Fatal("authenticated sessions must run a scheduled publisher")
	}
}

func TestSessionClose_TearsDownSubscription(t *testing.T) {
	source := newSourceStub()
	session, err := OpenSession(source, &statusWriterStub{}, SessionOptions{UserID: "me"})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}

	session.Close()

	if !source.cancelled {
		t.Fatal("closing the session must cancel the subscription")
	}

	// close twice must not panic
	session.Close()
}
