package model

import "time"

// 账户角色
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Account 账户（积分余额的反范式快照，真实来源是 ledger_entries）
type Account struct {
	ID                 string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username           string    `json:"username" gorm:"type:varchar(64);index:idx_account_username"`
	XHandle            *string   `json:"x_handle,omitempty" gorm:"type:varchar(32);uniqueIndex:ux_account_x_handle"`
	Role               string    `json:"role" gorm:"type:varchar(16);not null;default:user"`
	Active             bool      `json:"active" gorm:"not null;default:true"`
	CreditsBalance     int64     `json:"credits_balance" gorm:"not null;default:0;check:chk_accounts_balance_non_negative,credits_balance >= 0"`
	TotalCreditsEarned int64     `json:"total_credits_earned" gorm:"not null;default:0;index:idx_account_total_earned"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

// IsPrivileged 管理员或版主
func (a *Account) IsPrivileged() bool {
	return a.Role == RoleAdmin || a.Role == RoleModerator
}
