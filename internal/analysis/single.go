package analysis

import (
	"context"
	"sort"
	"strings"

	"fundflow/internal/config"
	"fundflow/internal/store"
	"fundflow/internal/util"
)

// Analyzer 在标准交易表上做只读分析，无请求间状态
type Analyzer struct {
	store *store.Store
	cfg   config.AnalysisConfig
}

func New(s *store.Store, cfg config.AnalysisConfig) *Analyzer {
	return &Analyzer{store: s, cfg: cfg}
}

// Trend 按自然月聚合收支趋势。person 为空表示全案件；
// minCent/maxCent 限定金额绝对值区间，0 表示不限。
// 无匹配行返回空切片而不是错误。
func (a *Analyzer) Trend(ctx context.Context, caseID, person string, minCent, maxCent int64) ([]TrendBucket, error) {
	rows, err := a.store.Query(ctx, store.Filter{
		CaseID:     caseID,
		OwnerName:  person,
		MinAbsCent: minCent,
	})
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*TrendBucket)
	for i := range rows {
		r := &rows[i]
		if maxCent > 0 && absCent(r.AmountCent) > maxCent {
			continue
		}
		month := r.TransTime.Format("2006-01")
		b, ok := buckets[month]
		if !ok {
			b = &TrendBucket{Month: month}
			buckets[month] = b
		}
		if r.AmountCent > 0 {
			b.IncomeCent += r.AmountCent
		} else {
			b.ExpenseCent += -r.AmountCent
		}
	}

	out := make([]TrendBucket, 0, len(buckets))
	for _, b := range buckets {
		b.Income = util.FormatCent(b.IncomeCent)
		b.Expense = util.FormatCent(b.ExpenseCent)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// Stats 按交易对方聚合净额与笔数。
// filterMode 选取特殊形态（有收无支/有支无收/收支悬殊），
// sortMode 决定排序，结果截断到配置的展示上限。
func (a *Analyzer) Stats(ctx context.Context, caseID, person, filterMode, sortMode string) ([]StatRow, error) {
	rows, err := a.store.Query(ctx, store.Filter{CaseID: caseID, OwnerName: person})
	if err != nil {
		return nil, err
	}

	agg := make(map[string]*StatRow)
	for i := range rows {
		r := &rows[i]
		s, ok := agg[r.CounterpartyName]
		if !ok {
			s = &StatRow{Counterparty: r.CounterpartyName}
			agg[r.CounterpartyName] = s
		}
		s.TotalCount++
		s.NetCent += r.AmountCent
		if r.AmountCent > 0 {
			s.InCount++
			s.InCent += r.AmountCent
		} else {
			s.OutCount++
			s.OutCent += -r.AmountCent
		}
	}

	out := make([]StatRow, 0, len(agg))
	for _, s := range agg {
		if !matchStatFilter(s, filterMode) {
			continue
		}
		s.Net = util.FormatCent(s.NetCent)
		s.In = util.FormatCent(s.InCent)
		s.Out = util.FormatCent(s.OutCent)
		out = append(out, *s)
	}

	sort.Slice(out, func(i, j int) bool {
		x, y := &out[i], &out[j]
		switch sortMode {
		case SortByFreq:
			if x.TotalCount != y.TotalCount {
				return x.TotalCount > y.TotalCount
			}
		default: // SortByNet
			if absCent(x.NetCent) != absCent(y.NetCent) {
				return absCent(x.NetCent) > absCent(y.NetCent)
			}
		}
		return x.Counterparty < y.Counterparty
	})

	if limit := a.cfg.StatsLimit; limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// matchStatFilter 三种特殊形态的选取逻辑
func matchStatFilter(s *StatRow, mode string) bool {
	switch mode {
	case FilterIncomeOnly:
		return s.InCount > 0 && s.OutCount == 0
	case FilterExpenseOnly:
		return s.OutCount > 0 && s.InCount == 0
	case FilterHighRatio:
		// 避免除零，比值用乘法判断
		return (s.OutCent > 0 && s.InCent > 3*s.OutCent) ||
			(s.InCent > 0 && s.OutCent > 3*s.InCent)
	}
	return true
}

// Keywords 筛出名称命中重点行业关键词的交易对方（烟酒/回收/废旧金属等）。
// 子串匹配的启发式过滤，漏报可接受。
func (a *Analyzer) Keywords(ctx context.Context, caseID string) ([]KeywordRow, error) {
	rows, err := a.store.Query(ctx, store.Filter{CaseID: caseID})
	if err != nil {
		return nil, err
	}

	keywords := a.cfg.Keywords
	if len(keywords) == 0 {
		keywords = config.DefaultKeywords
	}

	agg := make(map[string]*KeywordRow)
	for i := range rows {
		r := &rows[i]
		if r.CounterpartyName == "" || !containsAny(r.CounterpartyName, keywords) {
			continue
		}
		k, ok := agg[r.CounterpartyName]
		if !ok {
			k = &KeywordRow{Counterparty: r.CounterpartyName}
			agg[r.CounterpartyName] = k
		}
		k.Count++
		if r.AmountCent > 0 {
			k.InCent += r.AmountCent
		} else {
			k.OutCent += -r.AmountCent
		}
	}

	out := make([]KeywordRow, 0, len(agg))
	for _, k := range agg {
		k.In = util.FormatCent(k.InCent)
		k.Out = util.FormatCent(k.OutCent)
		out = append(out, *k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Counterparty < out[j].Counterparty
	})
	return out, nil
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func absCent(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
