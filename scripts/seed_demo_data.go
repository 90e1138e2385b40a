package main

import (
	"fmt"
	"log"
	"time"

	"github.com/postportal/internal/config"
	"github.com/postportal/internal/db"
	"github.com/postportal/internal/store"
)

// 演示数据生成器：创建两个账号和几条不同状态的动态。
func main() {
	cfg := config.Load()
	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")

	alice, err := db.RegisterUser(gdb, "alice@example.com", "alice123")
	if err != nil {
		log.Fatal("创建用户失败:", err)
	}
	bob, err := db.RegisterUser(gdb, "bob@example.com", "bob123")
	if err != nil {
		log.Fatal("创建用户失败:", err)
	}

	posts := store.NewPostStore(gdb)
	now := time.Now()
	scheduledAt := now.Add(2 * time.Minute).UnixMilli()

	seed := []db.Post{
		{
			Title: "Welcome to the portal", Content: "First **published** post.",
			Type: db.TypeArticle, Visibility: db.VisibilityPublic,
			Status: db.StatusPublished, UserID: alice.ID, UserEmail: alice.Email,
			Date: now.Add(-2 * time.Hour),
		},
		{
			Title: "Private thoughts", Content: "Only Alice sees this.",
			Type: db.TypeArticle, Visibility: db.VisibilityPrivate,
			Status: db.StatusPublished, UserID: alice.ID, UserEmail: alice.Email,
			Date: now.Add(-time.Hour),
		},
		{
			Title: "Going live in two minutes", Content: "Scheduled announcement.",
			Type: db.TypeArticle, Visibility: db.VisibilityPublic,
			Status: db.StatusScheduled, UserID: alice.ID, UserEmail: alice.Email,
			Date: time.UnixMilli(scheduledAt), ScheduledTime: &scheduledAt,
		},
		{
			Title: "Unfinished idea", Content: "Still a draft.",
			Type: db.TypeArticle, Visibility: db.VisibilityPublic,
			Status: db.StatusDraft, UserID: bob.ID, UserEmail: bob.Email,
			Date: now.Add(-30 * time.Minute),
		},
	}

	for i := range seed {
		if err := posts.Create(&seed[i]); err != nil {
			log.Fatal("创建动态失败:", err)
		}
	}

	fmt.Println("演示数据生成完成！")
	fmt.Println("用户: alice@example.com (alice123), bob@example.com (bob123)")
	fmt.Printf("动态: %d 条（含 1 条两分钟后发布的定时动态）\n", len(seed))
}
