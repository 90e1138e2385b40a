package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/postportal/internal/db"
)

const (
	sessionKeyEngine = "engine_id"
	sessionKeyUserID = "user_id"
	sessionKeyEmail  = "user_email"
	sessionKeyGuest  = "guest"
)

type credentialsRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Register 创建新账号并直接登录。
func (a *API) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.TrimSpace(req.Email) == "" || len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and a password of at least 6 characters are required"})
		return
	}

	user, err := db.RegisterUser(a.db, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	a.establishSession(c, user)
}

// Login 验证邮箱密码并建立会话。
func (a *API) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := db.AuthenticateUser(a.db, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, db.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	a.establishSession(c, user)
}

// GuestLogin 创建一次性访客会话。访客能浏览公开动态，但没有调度器。
func (a *API) GuestLogin(c *gin.Context) {
	user, err := db.GuestUser(a.db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "guest login failed"})
		return
	}
	a.establishSession(c, user)
}

// Logout 注销会话并拆除该会话的引擎。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if engineID, ok := session.Get(sessionKeyEngine).(string); ok {
		a.engines.Close(engineID)
	}
	session.Clear()
	if err := session.Save(); err != nil {
		log.Printf("[auth] failed to clear session: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// establishSession stores identity in the cookie session and opens a fresh
// feed engine, tearing down any engine from a prior login on the same cookie.
func (a *API) establishSession(c *gin.Context, user *db.User) {
	session := sessions.Default(c)

	if previous, ok := session.Get(sessionKeyEngine).(string); ok {
		a.engines.Close(previous)
	}

	engineID := uuid.New().String()
	schedulerUser := user.ID
	if user.Guest {
		// guests never own scheduled posts, no publisher for them
		schedulerUser = ""
	}
	if _, err := a.engines.Open(engineID, schedulerUser, user.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not open feed session"})
		return
	}

	session.Set(sessionKeyEngine, engineID)
	session.Set(sessionKeyUserID, user.ID)
	session.Set(sessionKeyEmail, user.Email)
	session.Set(sessionKeyGuest, user.Guest)
	if err := session.Save(); err != nil {
		a.engines.Close(engineID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not persist session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{"id": user.ID, "email": user.Email, "guest": user.Guest},
	})
}

// AuthRequired 是一个简单的认证中间件。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if _, ok := session.Get(sessionKeyUserID).(string); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentUser reads the authenticated identity out of the cookie session.
func currentUser(c *gin.Context) (userID, email string, guest bool) {
	session := sessions.Default(c)
	userID, _ = session.Get(sessionKeyUserID).(string)
	email, _ = session.Get(sessionKeyEmail).(string)
	guest, _ = session.Get(sessionKeyGuest).(bool)
	return userID, email, guest
}
