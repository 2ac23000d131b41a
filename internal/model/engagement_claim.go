package model

import "time"

// EngagementClaim 互动领取记录，(account_id, post_id) 唯一，保证领取幂等
type EngagementClaim struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AccountID  string     `json:"account_id" gorm:"type:varchar(36);not null;uniqueIndex:ux_claim_account_post,priority:1"`
	PostID     string     `json:"post_id" gorm:"type:varchar(36);not null;uniqueIndex:ux_claim_account_post,priority:2;index:idx_claim_post"`
	ClaimedAt  time.Time  `json:"claimed_at" gorm:"not null"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	Valid      bool       `json:"valid" gorm:"not null;default:false"`
}

func (EngagementClaim) TableName() string { return "engagement_claims" }
