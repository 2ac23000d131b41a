package model

import "time"

// PostStatus 帖子状态，只允许 active -> archived
type PostStatus string

const (
	PostStatusActive   PostStatus = "active"
	PostStatusArchived PostStatus = "archived"
)

// PostType 推广对象类型
type PostType string

const (
	PostTypeTweet   PostType = "tweet"
	PostTypeProfile PostType = "profile"
)

// Post 被推广的帖子（外部 tweet 引用）
type Post struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AccountID          string     `json:"account_id" gorm:"type:varchar(36);not null;index:idx_post_account_created"`
	TweetID            string     `json:"tweet_id" gorm:"type:varchar(32);not null;index"`
	OriginalURL        string     `json:"original_url" gorm:"type:text"`
	Type               PostType   `json:"type" gorm:"type:varchar(16);not null;default:tweet"`
	Status             PostStatus `json:"status" gorm:"type:varchar(16);not null;default:active;index:idx_post_status_created"`
	TargetEngagements  *int       `json:"target_engagements,omitempty"`
	CurrentEngagements int        `json:"current_engagements" gorm:"not null;default:0"`
	CreatedAt          time.Time  `json:"created_at" gorm:"index:idx_post_account_created;index:idx_post_status_created"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (Post) TableName() string { return "posts" }

// ReachesTarget 再增加一次互动后是否达到目标
func (p *Post) ReachesTarget(next int) bool {
	return p.TargetEngagements != nil && *p.TargetEngagements > 0 && next >= *p.TargetEngagements
}
