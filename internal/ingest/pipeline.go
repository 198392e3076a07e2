package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"fundflow/internal/config"
	"fundflow/internal/models"
	"fundflow/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Options 描述一次文件入库的申报信息
type Options struct {
	CaseID         string
	CaseName       string
	PersonIdentity string     // 盗窃/收脏/排查，整批一个身份
	AmountUnit     string     // yuan / jiao / fen
	Kind           SourceKind // 为零值时按扩展名判断
	FileName       string     // 原始文件名（展示与追溯用）
}

// Summary 是一次入库对外可见的全部结果
type Summary struct {
	BatchID  string `json:"batch_id"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// Pipeline 把映射后的中间记录清洗成标准交易并原子落库。
// 单文件全有或全无：身份校验失败或写库失败时不提交任何行。
type Pipeline struct {
	store *store.Store
	cfg   config.IngestConfig
	log   zerolog.Logger
}

func NewPipeline(s *store.Store, cfg config.IngestConfig, log zerolog.Logger) *Pipeline {
	return &Pipeline{store: s, cfg: cfg, log: log}
}

// Run 清洗并入库一个文件，返回 imported/skipped 计数与批次号。
// imported + skipped 恒等于表头之后的数据行数。
func (p *Pipeline) Run(ctx context.Context, path string, opts Options) (*Summary, error) {
	// 1. 身份校验：不在闭合枚举内整批拒绝，零行提交
	if !models.ValidIdentity(opts.PersonIdentity) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentity, opts.PersonIdentity)
	}

	unit := opts.AmountUnit
	if unit == "" {
		unit = p.cfg.DefaultUnit
	}
	factor, err := unitFactor(unit)
	if err != nil {
		return nil, err
	}

	kind := opts.Kind
	if kind == SourceUnknown {
		kind = KindForFile(path)
	}
	mapper, err := MapperFor(kind)
	if err != nil {
		return nil, err
	}
	parsed, err := mapper.Parse(path)
	if err != nil {
		return nil, err
	}
	if len(parsed.Records) == 0 {
		return nil, ErrUnrecognizedFormat
	}
	// 表头声明以分计时覆盖申报单位
	if parsed.FenUnit {
		factor, _ = unitFactor(models.UnitFen)
	}

	fileName := opts.FileName
	if fileName == "" {
		fileName = filepath.Base(path)
	}
	batchID := uuid.NewString()
	minCent := int64(p.cfg.MinAmount * 100)

	var txns []models.Transaction
	skipped := 0
	for _, rec := range parsed.Records {
		txn, ok := p.normalize(rec, factor, minCent)
		if !ok {
			skipped++
			continue
		}
		txn.ID = uuid.NewString()
		txn.CaseID = opts.CaseID
		txn.CaseName = opts.CaseName
		txn.PersonIdentity = opts.PersonIdentity
		txn.RawFileName = fileName
		txn.ImportBatch = batchID
		txns = append(txns, *txn)
	}

	batch := &models.ImportBatch{
		ID:             batchID,
		CaseID:         opts.CaseID,
		CaseName:       opts.CaseName,
		FileName:       fileName,
		PersonIdentity: opts.PersonIdentity,
		AmountUnit:     unit,
		Imported:       len(txns),
		Skipped:        skipped,
	}
	if err := p.store.SaveBatch(ctx, batch, txns); err != nil {
		return nil, err
	}

	p.log.Info().
		Str("case_id", opts.CaseID).
		Str("file", fileName).
		Str("batch", batchID).
		Int("imported", len(txns)).
		Int("skipped", skipped).
		Msg("文件入库完成")

	return &Summary{BatchID: batchID, Imported: len(txns), Skipped: skipped}, nil
}

// normalize 清洗单行：时间或金额解析失败、低于阈值的行丢弃（计入 skipped）。
// 不做任何猜测修复，坏行一律排除。
func (p *Pipeline) normalize(rec Record, factor decimal.Decimal, minCent int64) (*models.Transaction, bool) {
	transTime, err := parseTransTime(rec[FieldTransTime])
	if err != nil {
		return nil, false
	}
	cent, err := parseAmountCent(rec[FieldAmount], factor, rec[FieldDirection])
	if err != nil {
		return nil, false
	}
	if abs(cent) < minCent {
		return nil, false
	}

	return &models.Transaction{
		BillSource:          rec[FieldBillSource],
		OwnerName:           rec[FieldOwnerName],
		OwnerID:             rec[FieldOwnerID],
		OwnerAccount:        rec[FieldOwnerAccount],
		TransTime:           transTime,
		AmountCent:          cent,
		CounterpartyName:    CleanCounterparty(rec[FieldCounterparty]),
		CounterpartyAccount: rec[FieldCounterpartyAccount],
		TransOrderID:        rec[FieldTransOrderID],
		MerchantOrderID:     rec[FieldMerchantOrderID],
		Remark:              rec[FieldRemark],
		CreatedAt:           time.Now(),
	}, true
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
