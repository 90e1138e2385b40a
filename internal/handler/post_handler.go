package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postportal/internal/db"
	"github.com/postportal/internal/service"
)

// CreatePost 处理投稿：多段表单，附件可选。
func (a *API) CreatePost(c *gin.Context) {
	userID, email, guest := currentUser(c)
	if guest {
		c.JSON(http.StatusForbidden, gin.H{"error": "guests cannot create posts"})
		return
	}

	input := service.PostInput{
		Title:      c.PostForm("title"),
		Content:    c.PostForm("content"),
		Type:       c.PostForm("type"),
		Visibility: c.PostForm("visibility"),
		Platforms:  c.PostFormArray("platforms"),
		Draft:      c.PostForm("draft") == "true",
	}

	if raw := strings.TrimSpace(c.PostForm("schedule_time")); raw != "" {
		scheduleTime, err := parseScheduleTime(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule time"})
			return
		}
		input.ScheduleTime = scheduleTime
	}

	// attachment is optional; a missing file is not an error
	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	post, err := a.posts.Create(&db.User{ID: userID, Email: email}, input, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "a post title is required"})
		case errors.Is(err, service.ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the upload size limit"})
		case errors.Is(err, service.ErrInvalidType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown post type"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		}
		return
	}

	messages := map[string]string{
		db.StatusDraft:     "Draft saved",
		db.StatusScheduled: "Post scheduled",
		db.StatusPublished: "Post published",
	}
	a.notes.Notify(userID, messages[post.Status], "success")

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// PublishDraft 立即发布一篇自己的草稿。
func (a *API) PublishDraft(c *gin.Context) {
	userID, _, _ := currentUser(c)

	if err := a.posts.PublishDraft(c.Param("id"), userID); err != nil {
		respondPostMutationError(c, err)
		return
	}

	a.notes.Notify(userID, "Draft published", "success")
	c.JSON(http.StatusOK, gin.H{"message": "published"})
}

// DeletePost 删除自己的动态。
func (a *API) DeletePost(c *gin.Context) {
	userID, _, _ := currentUser(c)

	if err := a.posts.Delete(c.Param("id"), userID); err != nil {
		respondPostMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func respondPostMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
	case errors.Is(err, service.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author may modify a post"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
	}
}

// parseScheduleTime accepts RFC3339, the datetime-local form format, or epoch
// milliseconds.
func parseScheduleTime(raw string) (time.Time, error) {
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04", raw, time.Local)
}
