package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fundflow/internal/models"

	"gorm.io/gorm"
)

// ErrMissingCaseID 分析查询必须限定案件，否则在访问库之前直接拒绝
var ErrMissingCaseID = errors.New("缺少案件编号")

// Sign filters transactions by amount direction.
type Sign int

const (
	SignAny Sign = iota
	SignIn       // 入账（正数）
	SignOut      // 出账（负数）
)

// Filter describes a canonical-store range query.
// CaseID is mandatory; everything else narrows the result.
type Filter struct {
	CaseID     string
	OwnerName  string
	From, To   time.Time
	Sign       Sign
	MinAbsCent int64
	// TimeSorted 显式要求按交易时间升序返回；
	// 不设置时顺序任意但稳定，调用方不得假设时间有序。
	TimeSorted bool
}

// CaseInfo is one distinct case present in the store.
type CaseInfo struct {
	CaseID   string `json:"case_id"`
	CaseName string `json:"case_name"`
}

// Store 是标准交易表的唯一持有者：入库批次经由它写入，分析只读。
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Query returns transactions matching the filter.
func (s *Store) Query(ctx context.Context, f Filter) ([]models.Transaction, error) {
	if f.CaseID == "" {
		return nil, ErrMissingCaseID
	}
	q := s.db.WithContext(ctx).Where("case_id = ?", f.CaseID)
	if f.OwnerName != "" {
		q = q.Where("owner_name = ?", f.OwnerName)
	}
	if !f.From.IsZero() {
		q = q.Where("trans_time >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("trans_time < ?", f.To)
	}
	switch f.Sign {
	case SignIn:
		q = q.Where("amount_cent > 0")
	case SignOut:
		q = q.Where("amount_cent < 0")
	}
	if f.MinAbsCent > 0 {
		q = q.Where("ABS(amount_cent) >= ?", f.MinAbsCent)
	}
	if f.TimeSorted {
		q = q.Order("trans_time ASC")
	} else {
		q = q.Order("id ASC") // 稳定但不承诺时间序
	}

	var rows []models.Transaction
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("查询交易失败: %w", err)
	}
	return rows, nil
}

// Cases lists distinct cases present in the store.
func (s *Store) Cases(ctx context.Context) ([]CaseInfo, error) {
	var cases []CaseInfo
	err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Distinct("case_id", "case_name").
		Order("case_id ASC").
		Find(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("查询案件列表失败: %w", err)
	}
	return cases, nil
}

// Batches lists import batches of a case, newest first.
func (s *Store) Batches(ctx context.Context, caseID string) ([]models.ImportBatch, error) {
	if caseID == "" {
		return nil, ErrMissingCaseID
	}
	var batches []models.ImportBatch
	err := s.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at DESC").
		Find(&batches).Error
	if err != nil {
		return nil, fmt.Errorf("查询导入批次失败: %w", err)
	}
	return batches, nil
}

// IdentityByOwner 返回案件内每个账单持有人申报的人员身份
func (s *Store) IdentityByOwner(ctx context.Context, caseID string) (map[string]string, error) {
	if caseID == "" {
		return nil, ErrMissingCaseID
	}
	type pair struct {
		OwnerName      string
		PersonIdentity string
	}
	var pairs []pair
	err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Distinct("owner_name", "person_identity").
		Where("case_id = ? AND owner_name != ''", caseID).
		Find(&pairs).Error
	if err != nil {
		return nil, fmt.Errorf("查询人员身份失败: %w", err)
	}
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.OwnerName] = p.PersonIdentity
	}
	return m, nil
}

// SaveBatch 将一个批次的汇总行和全部交易在一个事务里落库：
// 任何一步失败整体回滚，保证单文件入库原子性。
func (s *Store) SaveBatch(ctx context.Context, batch *models.ImportBatch, txns []models.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return fmt.Errorf("写入批次失败: %w", err)
		}
		if len(txns) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(txns, 500).Error; err != nil {
			return fmt.Errorf("写入交易失败: %w", err)
		}
		return nil
	})
}
