package model

// All 返回需要迁移的全部模型
func All() []interface{} {
	return []interface{}{&Account{}, &Post{}, &LedgerEntry{}, &EngagementClaim{}}
}
