package feed

import (
	"sort"

	"github.com/postportal/internal/db"
)

// ViewMode is the filter lens applied to the cached post set before rendering.
type ViewMode string

const (
	ViewFeed      ViewMode = "feed"
	ViewScheduled ViewMode = "scheduled"
	ViewDrafts    ViewMode = "drafts"
)

// ParseViewMode maps a raw query value onto a known mode, defaulting to feed.
func ParseViewMode(raw string) ViewMode {
	switch ViewMode(raw) {
	case ViewScheduled:
		return ViewScheduled
	case ViewDrafts:
		return ViewDrafts
	default:
		return ViewFeed
	}
}

// Filter returns the visible, ordered subset of posts for a view mode and
// viewer. It is pure: the input slice is never mutated.
//
// Rules:
//   - feed: published posts that are public, or private and owned by the viewer.
//     Drafts and scheduled posts never appear in the feed, own or not.
//   - scheduled: the viewer's own scheduled posts only.
//   - drafts: the viewer's own drafts only.
//
// Ordering is descending by timeline date; posts without a resolvable date
// sort last. The sort is stable so equal dates keep cache insertion order and
// do not flicker across re-renders.
func Filter(posts []db.Post, mode ViewMode, userID string) []db.Post {
	visible := make([]db.Post, 0, len(posts))
	for _, post := range posts {
		if includePost(post, mode, userID) {
			visible = append(visible, post)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		a, b := visible[i].Date, visible[j].Date
		if a.IsZero() {
			return false
		}
		if b.IsZero() {
			return true
		}
		return a.After(b)
	})

	return visible
}

func includePost(post db.Post, mode ViewMode, userID string) bool {
	mine := post.UserID == userID
	switch mode {
	case ViewScheduled:
		return post.Status == db.StatusScheduled && mine
	case ViewDrafts:
		return post.Status == db.StatusDraft && mine
	default:
		if post.Status != db.StatusPublished {
			return false
		}
		return post.Visibility == db.VisibilityPublic ||
			(post.Visibility == db.VisibilityPrivate && mine)
	}
}
