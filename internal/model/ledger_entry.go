package model

import (
	"time"

	"gorm.io/datatypes"
)

// TransactionKind 积分流水类型
type TransactionKind string

const (
	KindEarn   TransactionKind = "earn"
	KindBoost  TransactionKind = "boost"
	KindRefund TransactionKind = "refund"
	KindBonus  TransactionKind = "bonus"
)

// LedgerEntry 积分流水，只追加不修改；更正通过新的冲销流水完成
type LedgerEntry struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AccountID   string          `json:"account_id" gorm:"type:varchar(36);not null;index:idx_ledger_account_created"`
	Amount      int64           `json:"amount" gorm:"not null"`
	Kind        TransactionKind `json:"transaction_type" gorm:"column:transaction_type;type:varchar(16);not null"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	Metadata    datatypes.JSON  `json:"metadata,omitempty"`
	// BonusKey 仅注册奖励流水填写 account_id，唯一索引保证每个账户最多一条 bonus
	BonusKey  *string   `json:"-" gorm:"type:varchar(36);uniqueIndex:ux_ledger_bonus_key"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_ledger_account_created"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }

// TransactionKinds 全部流水类型
var TransactionKinds = []TransactionKind{KindEarn, KindBoost, KindRefund, KindBonus}

// IsEarning earn 与 bonus 计入累计获得
func (k TransactionKind) IsEarning() bool {
	return k == KindEarn || k == KindBonus
}

// EarningKinds 计入累计获得的流水类型，供汇总查询使用
func EarningKinds() []string {
	out := make([]string, 0, len(TransactionKinds))
	for _, k := range TransactionKinds {
		if k.IsEarning() {
			out = append(out, string(k))
		}
	}
	return out
}
