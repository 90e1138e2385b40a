package handler

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/postportal/internal/feed"
)

// ShowFeed renders the current view of the cached post set as an HTML
// fragment. The whole fragment replaces prior content on the client; there is
// no incremental diffing.
func (a *API) ShowFeed(c *gin.Context) {
	engine, ok := a.sessionEngine(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active feed session"})
		return
	}

	userID, _, _ := currentUser(c)
	mode := feed.ParseViewMode(c.Query("view"))

	posts := feed.Filter(engine.Cache.Snapshot(), mode, userID)
	markup := a.renderer.RenderFeed(posts, mode, userID)

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(markup))
}

// GetNotifications drains the caller's pending toast notifications.
func (a *API) GetNotifications(c *gin.Context) {
	userID, _, _ := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"notifications": a.notes.Drain(userID)})
}

// sessionEngine resolves the feed engine bound to this login session. After a
// server restart the cookie may outlive the registry, so a missing engine is
// rebuilt lazily for the same identity.
func (a *API) sessionEngine(c *gin.Context) (*feed.Session, bool) {
	session := sessions.Default(c)
	engineID, ok := session.Get(sessionKeyEngine).(string)
	if !ok {
		return nil, false
	}

	if engine, live := a.engines.Get(engineID); live {
		return engine, true
	}

	userID, email, guest := currentUser(c)
	if userID == "" {
		return nil, false
	}
	schedulerUser := userID
	if guest {
		schedulerUser = ""
	}
	engine, err := a.engines.Open(engineID, schedulerUser, email)
	if err != nil {
		log.Printf("[feed] failed to reopen engine: %v", err)
		return nil, false
	}
	return engine, true
}
