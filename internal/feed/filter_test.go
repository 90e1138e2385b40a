package feed

import (
	"testing"
	"time"

	"github.com/postportal/internal/db"
)

func TestFilter_FeedMode(t *testing.T) {
	now := time.Now()
	posts := []db.Post{
		{ID: "pub-public", Status: db.StatusPublished, Visibility: db.VisibilityPublic, UserID: "other", Date: now},
		{ID: "pub-private-mine", Status: db.StatusPublished, Visibility: db.VisibilityPrivate, UserID: "me", Date: now},
		{ID: "pub-private-other", Status: db.StatusPublished, Visibility: db.VisibilityPrivate, UserID: "other", Date: now},
		{ID: "draft-mine", Status: db.StatusDraft, Visibility: db.VisibilityPublic, UserID: "me", Date: now},
		{ID: "sched-mine", Status: db.StatusScheduled, Visibility: db.VisibilityPublic, UserID: "me", Date: now},
	}

	visible := Filter(posts, ViewFeed, "me")

	want := map[string]bool{"pub-public": true, "pub-private-mine": true}
	if len(visible) != len(want) {
		t.Fatalf("expected %d visible posts, got %d", len(want), len(visible))
	}
	for _, p := range visible {
		if !want[p.ID] {
			t.Fatalf("unexpected post %q in feed view", p.ID)
		}
	}
}

func TestFilter_OwnDraftNeverInFeed(t *testing.T) {
	posts := []db.Post{
		{ID: "d", Status: db.StatusDraft, Visibility: db.VisibilityPublic, UserID: "A", Date: time.Now()},
	}
	if got := Filter(posts, ViewFeed, "A"); len(got) != 0 {
		t.Fatalf("own draft must not appear in feed view, got %d posts", len(got))
	}
}

func TestFilter_ScheduledModeIsOwnerOnly(t *testing.T) {
	now := time.Now()
	posts := []db.Post{
		{ID: "mine", Status: db.StatusScheduled, UserID: "me", Date: now},
		{ID: "other", Status: db.StatusScheduled, UserID: "other", Date: now},
		{ID: "published", Status: db.StatusPublished, UserID: "me", Visibility: db.VisibilityPublic, Date: now},
	}

	visible := Filter(posts, ViewScheduled, "me")

	if len(visible) != 1 || visible[0].ID != "mine" {
		t.Fatalf("scheduled view must show only own scheduled posts, got %v", visible)
	}
}

func TestFilter_DraftsModeIsOwnerOnly(t *testing.T) {
	now := time.Now()
	posts := []db.Post{
		{ID: "mine", Status: db.StatusDraft, UserID: "me", Date: now},
		{ID: "other", Status: db.StatusDraft, UserID: "other", Date: now},
	}

	visible := Filter(posts, ViewDrafts, "me")

	if len(visible) != 1 || visible[0].ID != "mine" {
		t.Fatalf("drafts view must show only own drafts, got %v", visible)
	}
}

func TestFilter_OrdersByDateDescending(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	posts := []db.Post{
		{ID: "old", Status: db.StatusPublished, Visibility: db.VisibilityPublic, Date: base.Add(-time.Hour)},
		{ID: "new", Status: db.StatusPublished, Visibility: db.VisibilityPublic, Date: base.Add(time.Hour)},
		{ID: "dateless", Status: db.StatusPublished, Visibility: db.VisibilityPublic},
		{ID: "mid", Status: db.StatusPublished, Visibility: db.VisibilityPublic, Date: base},
	}

	visible := Filter(posts, ViewFeed, "viewer")

	want := []string{"new", "mid", "old", "dateless"}
	for i, id := range want {
		if visible[i].ID != id {
			t.Fatalf("expected order %v, got %q at index %d", want, visible[i].ID, i)
		}
	}
}

func TestFilter_StableOnEqualDates(t *testing.T) {
	date := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	posts := []db.Post{
		{ID: "first", Status: db.StatusPublished, Visibility: db.VisibilityPublic, Date: date},
		{ID: "second", Status: db.StatusPublished, Visibility: db.VisibilityPublic, Date: date},
		{ID: "third", Status: db.StatusPublished, Visibility: db.VisibilityPublic, Date: date},
	}

	for i := 0; i < 5; i++ {
		visible := Filter(posts, ViewFeed, "viewer")
		for j, id := range []string{"first", "second", "third"} {
			if visible[j].ID != id {
				t.Fatalf("equal dates must keep input order, run %d got %q at %d", i, visible[j].ID, j)
			}
		}
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	posts := []db.Post{
		{ID: "b", Status: db.StatusPublished, Visibility: db.VisibilityPublic, Date: time.Unix(1, 0)},
		{ID: "a", Status: db.StatusPublished, Visibility: db.VisibilityPublic, Date: time.Unix(2, 0)},
	}

	Filter(posts, ViewFeed, "viewer")

	if posts[0].ID != "b" || posts[1].ID != "a" {
		t.Fatal("filter must not reorder the input slice")
	}
}

func TestParseViewMode(t *testing.T) {
	cases := map[string]ViewMode{
		"feed":      ViewFeed,
		"scheduled": ViewScheduled,
		"drafts":    ViewDrafts,
		"":          ViewFeed,
		"garbage":   ViewFeed,
	}
	for raw, want := range cases {
		if got := ParseViewMode(raw); got != want {
			t.Fatalf("ParseViewMode(%q) = %q, want %q", raw, got, want)
		}
	}
}
