package handler

import (
	"github.com/postportal/internal/config"
	"github.com/postportal/internal/feed"
	"github.com/postportal/internal/service"
	"github.com/postportal/internal/store"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	store    *store.PostStore
	posts    *service.PostService
	notes    *service.NotificationCenter
	renderer *feed.Renderer
	engines  *EngineRegistry
	cfg      config.AppConfig
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig) *API {
	postStore := store.NewPostStore(gdb)
	uploads := service.NewUploadService(cfg.UploadDir, cfg.UploadURLPath, cfg.MaxUploadBytes)
	notes := service.NewNotificationCenter()

	return &API{
		db:       gdb,
		store:    postStore,
		posts:    service.NewPostService(postStore, uploads, nil),
		notes:    notes,
		renderer: feed.NewRenderer(),
		engines:  NewEngineRegistry(postStore, notes, cfg),
		cfg:      cfg,
	}
}

// Engines exposes the registry so the server can close sessions on shutdown.
func (a *API) Engines() *EngineRegistry {
	return a.engines
}
