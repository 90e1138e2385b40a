package feed

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/postportal/internal/db"
	"github.com/postportal/internal/view"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns a filtered, ordered post list into the feed markup. Output
// replaces prior content wholesale on every call; there is no incremental
// diffing. Every user supplied text field is escaped or sanitized before it is
// embedded, article bodies run through markdown rendering and a UGC policy.
type Renderer struct {
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewRenderer builds a renderer with the shared markdown and sanitation setup.
func NewRenderer() *Renderer {
	return &Renderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify),
			goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
		),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

var emptyStates = map[ViewMode]string{
	ViewFeed:      "No posts yet",
	ViewScheduled: "No scheduled posts",
	ViewDrafts:    "No drafts saved",
}

// RenderFeed produces the display representation for a filtered post list, or
// the per-mode empty state when the list is empty.
func (r *Renderer) RenderFeed(posts []db.Post, mode ViewMode, userID string) template.HTML {
	if len(posts) == 0 {
		return template.HTML(fmt.Sprintf(
			`<p class="feed-empty">%s</p>`, template.HTMLEscapeString(emptyStates[mode])))
	}

	var buf strings.Builder
	for _, post := range posts {
		buf.WriteString(r.renderCard(post, post.UserID == userID))
	}
	return template.HTML(buf.String())
}

func (r *Renderer) renderCard(post db.Post, mine bool) string {
	title := template.HTMLEscapeString(post.Title)
	dateStr := "now"
	if !post.Date.IsZero() {
		dateStr = post.Date.Format("Jan 2, 2006 15:04")
	}

	var badges strings.Builder
	if post.Status == db.StatusDraft {
		badges.WriteString(`<span class="badge badge-draft">Draft</span>`)
	}
	if post.Status == db.StatusScheduled {
		badges.WriteString(`<span class="badge badge-scheduled">` + view.IconClock + `Scheduled</span>`)
	}

	var actions strings.Builder
	if mine {
		if post.Status == db.StatusDraft {
			actions.WriteString(fmt.Sprintf(
				`<button class="publish-btn" data-post-id="%s" aria-label="publish draft">%s</button>`,
				template.HTMLEscapeString(post.ID), view.IconPublish))
		}
		actions.WriteString(fmt.Sprintf(
			`<button class="delete-btn" data-post-id="%s" aria-label="delete">%s</button>`,
			template.HTMLEscapeString(post.ID), view.IconTrash))
	}

	author := template.HTMLEscapeString(authorHandle(post.UserEmail))

	return fmt.Sprintf(`
<article class="post-card" data-post-id="%s">
    <div class="post-header">
        <div>%s<b>%s</b></div>
        <div class="meta">%s</div>
    </div>
    %s
    <div class="post-footer">
        <span class="user-badge">%s%s</span>
        <div class="actions">%s</div>
    </div>
</article>`,
		template.HTMLEscapeString(post.ID),
		badges.String(), title, template.HTMLEscapeString(dateStr),
		r.renderBody(post), view.IconUser, author, actions.String())
}

// renderBody applies the type specific body rule: image posts embed the media
// reference, file posts link the stored file by name, everything else renders
// the text content.
func (r *Renderer) renderBody(post db.Post) string {
	switch post.Type {
	case db.TypeImage:
		return fmt.Sprintf(
			`<div class="post-image"><img src="%s" alt="%s" loading="lazy"/></div>`,
			template.HTMLEscapeString(post.FileURL), template.HTMLEscapeString(post.Title))
	case db.TypeFile:
		return fmt.Sprintf(
			`<div class="post-file">%s<a href="%s" target="_blank" rel="noopener noreferrer">%s</a></div>`,
			view.IconFile, template.HTMLEscapeString(post.FileURL), template.HTMLEscapeString(post.FileName))
	default:
		return `<div class="post-text">` + r.renderContent(post.Content) + `</div>`
	}
}

// renderContent converts article markup to sanitized HTML. A markdown failure
// falls back to plain escaped text rather than dropping the post.
func (r *Renderer) renderContent(content string) string {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(content), &buf); err != nil {
		log.Printf("[renderer] markdown conversion failed: %v", err)
		return "<p>" + template.HTMLEscapeString(content) + "</p>"
	}
	return string(r.sanitizer.SanitizeBytes(buf.Bytes()))
}

func authorHandle(email string) string {
	if email == "" {
		return "user"
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
