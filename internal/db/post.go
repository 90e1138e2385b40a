package db

import (
	"strings"
	"time"
)

// Post status values. Transitions only ever move forward toward published.
const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusPublished = "published"
)

// Post content types.
const (
	TypeArticle = "article"
	TypeImage   = "image"
	TypeFile    = "file"
)

// Post visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Post 定义了动态模型。ID 由存储层在创建时分配，是本地缓存与远端记录之间唯一的关联键。
type Post struct {
	ID            string `gorm:"primaryKey"`
	Title         string `gorm:"not null"`
	Content       string
	Type          string `gorm:"default:article"`
	Visibility    string `gorm:"default:public"`
	Status        string `gorm:"default:published;index"`
	UserID        string `gorm:"index"`
	UserEmail     string
	Date          time.Time `gorm:"index"`
	ScheduledTime *int64
	FileURL       string
	FileName      string
	Platforms     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Due returns the instant at which a scheduled post becomes eligible for
// promotion: the explicit scheduled time when present, else the timeline date.
func (p *Post) Due() time.Time {
	if p.ScheduledTime != nil {
		return time.UnixMilli(*p.ScheduledTime)
	}
	return p.Date
}

// PlatformList splits the stored platform tags into a slice.
func (p *Post) PlatformList() []string {
	if strings.TrimSpace(p.Platforms) == "" {
		return nil
	}
	parts := strings.Split(p.Platforms, ",")
	platforms := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			platforms = append(platforms, trimmed)
		}
	}
	return platforms
}

// JoinPlatforms serializes platform tags for storage.
func JoinPlatforms(platforms []string) string {
	cleaned := make([]string, 0, len(platforms))
	for _, p := range platforms {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, ",")
}
