package models

import "time"

// Transaction 表示一笔清洗后的标准交易记录
// 金额用分存储，避免浮点误差，比如 12.34 元 = 1234 分；
// 正数为入账，负数为出账。行一旦写入不再更新，修正以新批次追加。
type Transaction struct {
	ID             string    `gorm:"primaryKey;size:64"` // UUID
	CaseID         string    `gorm:"size:64;index;not null"`
	CaseName       string    `gorm:"size:128"`
	PersonIdentity string    `gorm:"size:16;not null"` // 盗窃/收脏/排查
	BillSource     string    `gorm:"size:32"` // 账单来源（微信/支付宝/银行）
	OwnerName      string    `gorm:"size:64;index"`
	OwnerID        string    `gorm:"size:32"` // 身份证号
	OwnerAccount   string    `gorm:"size:64"`
	TransTime      time.Time `gorm:"index;not null"`
	AmountCent     int64     `gorm:"not null"`
	CounterpartyName    string `gorm:"size:128;index"` // 清洗后的交易对方
	CounterpartyAccount string `gorm:"size:64"`
	TransOrderID    string `gorm:"size:64;index:idx_orders"` // 交易单号（用于关联）
	MerchantOrderID string `gorm:"size:64;index:idx_orders"` // 商户单号（用于关联）
	Remark          string `gorm:"size:255"`
	RawFileName     string `gorm:"size:255"`
	ImportBatch     string `gorm:"size:64;index;not null"`
	CreatedAt       time.Time
}

// ImportBatch 记录一次文件导入：一个文件一个批次，入库后不可变，
// 用于追溯与按案件失效缓存。
type ImportBatch struct {
	ID             string `gorm:"primaryKey;size:64"` // UUID
	CaseID         string `gorm:"size:64;index;not null"`
	CaseName       string `gorm:"size:128"`
	FileName       string `gorm:"size:255"`
	PersonIdentity string `gorm:"size:16;not null"`
	AmountUnit     string `gorm:"size:8"`
	Imported       int    `gorm:"not null"`
	Skipped        int    `gorm:"not null"`
	CreatedAt      time.Time
}
