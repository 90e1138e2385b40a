package service

import (
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/postportal/internal/db"
	"github.com/postportal/internal/feed"
	"github.com/postportal/internal/store"
)

var (
	ErrTitleRequired = errors.New("post title is required")
	ErrPostNotFound  = errors.New("post not found")
	ErrNotAuthor     = errors.New("only the author may modify a post")
	ErrInvalidType   = errors.New("unknown post type")
)

// PostInput represents fields accepted when submitting a post.
type PostInput struct {
	Title      string
	Content    string
	Type       string
	Visibility string
	Platforms  []string
	// ScheduleTime is the requested publish instant, zero when none was asked.
	ScheduleTime time.Time
	// Draft marks an explicit draft-save action; it wins over any schedule time.
	Draft bool
}

// PostService validates and constructs post records and writes them to the
// remote store. Creation is a single atomic write: any upload or validation
// failure happens before the record exists, so no partial post is ever
// visible.
type PostService struct {
	store   *store.PostStore
	uploads *UploadService
	clock   feed.Clock
}

// NewPostService creates a PostService instance.
func NewPostService(st *store.PostStore, uploads *UploadService, clock feed.Clock) *PostService {
	if clock == nil {
		clock = time.Now
	}
	return &PostService{store: st, uploads: uploads, clock: clock}
}

// Create validates the input, uploads the attachment if any, decides the
// initial status and persists the record.
//
// Status decision:
//   - explicit draft save -> draft, regardless of schedule time
//   - schedule time strictly in the future -> scheduled, date = target time
//   - otherwise -> published now (a past schedule request is silently
//     downgraded to an immediate publish)
func (s *PostService) Create(author *db.User, input PostInput, file *multipart.FileHeader) (*db.Post, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	postType := strings.TrimSpace(input.Type)
	if postType == "" {
		postType = db.TypeArticle
	}
	if postType != db.TypeArticle && postType != db.TypeImage && postType != db.TypeFile {
		return nil, ErrInvalidType
	}

	visibility := input.Visibility
	if visibility != db.VisibilityPrivate {
		visibility = db.VisibilityPublic
	}

	now := s.clock()
	status := db.StatusPublished
	date := now
	var scheduledTime *int64

	if input.Draft {
		status = db.StatusDraft
	} else if !input.ScheduleTime.IsZero() && input.ScheduleTime.After(now) {
		status = db.StatusScheduled
		date = input.ScheduleTime
		ms := input.ScheduleTime.UnixMilli()
		scheduledTime = &ms
	}

	post := &db.Post{
		Title:         strings.TrimSpace(input.Title),
		Content:       input.Content,
		Type:          postType,
		Visibility:    visibility,
		Status:        status,
		UserID:        author.ID,
		UserEmail:     author.Email,
		Date:          date,
		ScheduledTime: scheduledTime,
		Platforms:     db.JoinPlatforms(input.Platforms),
	}

	if file != nil && postType != db.TypeArticle {
		stored, err := s.uploads.Save(author.ID, file)
		if err != nil {
			return nil, err
		}
		post.FileURL = stored.URL
		post.FileName = stored.Name
	}

	if err := s.store.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// PublishDraft publishes one of the author's drafts immediately.
func (s *PostService) PublishDraft(id, userID string) error {
	if err := s.requireAuthor(id, userID); err != nil {
		return err
	}
	return s.store.PublishDraft(id, s.clock())
}

// Delete removes one of the author's posts from the remote store. The cache
// entry disappears when the removed event comes back through the stream.
func (s *PostService) Delete(id, userID string) error {
	if err := s.requireAuthor(id, userID); err != nil {
		return err
	}
	return s.store.Delete(id)
}

func (s *PostService) requireAuthor(id, userID string) error {
	post, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.UserID != userID {
		return ErrNotAuthor
	}
	return nil
}
