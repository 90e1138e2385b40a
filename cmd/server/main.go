package main

import (
	"log"

	"github.com/postportal/internal/config"
	"github.com/postportal/internal/db"
	"github.com/postportal/internal/handler"
	"github.com/postportal/internal/router"
)

func main() {
	cfg := config.Load()

	// 初始化数据库
	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	api := handler.NewAPI(gdb, cfg)
	defer api.Engines().CloseAll()

	// 设置并运行 Gin 服务器
	r := router.Setup(api, cfg)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
