package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/postportal/internal/config"
	"github.com/postportal/internal/handler"
)

// Setup 配置 Gin 引擎和路由。
func Setup(api *handler.API, cfg config.AppConfig) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("postportal_session", store))

	// 上传文件静态服务
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", api.Register)
		auth.POST("/login", api.Login)
		auth.POST("/guest", api.GuestLogin)
		auth.POST("/logout", api.Logout)
	}

	// 需要认证的路由
	authed := r.Group("")
	authed.Use(handler.AuthRequired())
	{
		authed.GET("/feed", api.ShowFeed)
		authed.GET("/notifications", api.GetNotifications)

		authed.POST("/posts", api.CreatePost)
		authed.POST("/posts/:id/publish", api.PublishDraft)
		authed.DELETE("/posts/:id", api.DeletePost)
	}

	return r
}
