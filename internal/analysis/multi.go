package analysis

import (
	"context"
	"sort"
	"time"

	"fundflow/internal/models"
	"fundflow/internal/store"
	"fundflow/internal/util"
)

// InteractionGraph 把案件内全部交易聚合成资金交互图。
// 节点是出现过的人员标识（持卡人与对端），边方向跟随资金流，
// 自转（本人转本人）排除；大额边只打标记不过滤。
func (a *Analyzer) InteractionGraph(ctx context.Context, caseID string) (*Graph, error) {
	rows, err := a.store.Query(ctx, store.Filter{CaseID: caseID})
	if err != nil {
		return nil, err
	}
	identities, err := a.store.IdentityByOwner(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return a.buildGraph(rows, identities), nil
}

func (a *Analyzer) buildGraph(rows []models.Transaction, identities map[string]string) *Graph {
	type edgeKey struct{ source, target string }
	edges := make(map[edgeKey]*Edge)
	nodes := make(map[string]bool)
	largeCent := int64(a.cfg.LargeEdgeThreshold * 100)

	for i := range rows {
		r := &rows[i]
		if r.OwnerName == "" || r.CounterpartyName == "" {
			continue
		}
		if r.OwnerName == r.CounterpartyName {
			continue // 排除自己转自己
		}
		// 金额为负代表支出，持卡人是资金源头
		source, target := r.OwnerName, r.CounterpartyName
		if r.AmountCent > 0 {
			source, target = r.CounterpartyName, r.OwnerName
		}
		nodes[source] = true
		nodes[target] = true

		key := edgeKey{source, target}
		e, ok := edges[key]
		if !ok {
			e = &Edge{Source: source, Target: target}
			edges[key] = e
		}
		e.WeightCent += absCent(r.AmountCent)
		e.Count++
	}

	g := &Graph{
		Nodes: make([]Node, 0, len(nodes)),
		Edges: make([]Edge, 0, len(edges)),
	}
	for name := range nodes {
		g.Nodes = append(g.Nodes, Node{Name: name, Identity: identities[name]})
	}
	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i].Name < g.Nodes[j].Name })

	for _, e := range edges {
		e.Weight = util.FormatCent(e.WeightCent)
		e.Large = largeCent > 0 && e.WeightCent >= largeCent
		g.Edges = append(g.Edges, *e)
	}
	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].WeightCent != g.Edges[j].WeightCent {
			return g.Edges[i].WeightCent > g.Edges[j].WeightCent
		}
		if g.Edges[i].Target != g.Edges[j].Target {
			return g.Edges[i].Target < g.Edges[j].Target
		}
		return g.Edges[i].Source < g.Edges[j].Source
	})
	return g
}

// TraceStolenGoods 销赃节点判断：交互图里一端是盗窃人员、
// 另一端是收赃人员的边。入库阈值以下的交易本就不存在，不再追加过滤。
// 金额降序，同额按对端名升序，保证输出确定。
func (a *Analyzer) TraceStolenGoods(ctx context.Context, caseID string) ([]TraceRow, error) {
	rows, err := a.store.Query(ctx, store.Filter{CaseID: caseID})
	if err != nil {
		return nil, err
	}
	identities, err := a.store.IdentityByOwner(ctx, caseID)
	if err != nil {
		return nil, err
	}

	g := a.buildGraph(rows, identities)
	out := make([]TraceRow, 0)
	for _, e := range g.Edges {
		srcID, dstID := identities[e.Source], identities[e.Target]
		theftToFence := srcID == models.IdentityTheft && dstID == models.IdentityFence
		fenceToTheft := srcID == models.IdentityFence && dstID == models.IdentityTheft
		if !theftToFence && !fenceToTheft {
			continue
		}
		out = append(out, TraceRow{
			Source:     e.Source,
			Target:     e.Target,
			AmountCent: e.WeightCent,
			Amount:     e.Weight,
			Count:      e.Count,
		})
	}
	// 图的边已按金额降序、对端名升序排好，这里保持该序
	return out, nil
}

// HiddenPartners 挖尚不掌握的同伙：在盗窃人员交易时间点前后
// window 分钟内（同一自然日）出现的陌生对端，按累计金额降序返回。
// 已作为收赃/盗窃人员掌握的名字排除在候选之外。
// 时间窗口是对称的 ±window 纯邻近检测，不要求交易单号互相关联——
// 输出是相关性线索，不是共谋证明。
func (a *Analyzer) HiddenPartners(ctx context.Context, caseID string, windowMinutes int) ([]HiddenRow, error) {
	if windowMinutes <= 0 {
		windowMinutes = a.cfg.HiddenWindowMinutes
	}
	window := time.Duration(windowMinutes) * time.Minute

	rows, err := a.store.Query(ctx, store.Filter{CaseID: caseID, TimeSorted: true})
	if err != nil {
		return nil, err
	}
	identities, err := a.store.IdentityByOwner(ctx, caseID)
	if err != nil {
		return nil, err
	}

	// 先按案件+自然日分桶，再在日内扫描，避免全量两两比较
	byDay := make(map[string][]*models.Transaction)
	for i := range rows {
		day := rows[i].TransTime.Format("2006-01-02")
		byDay[day] = append(byDay[day], &rows[i])
	}

	agg := make(map[string]*HiddenRow)
	credited := make(map[string]bool) // 每笔交易只计入一次，多锚点不重复计数
	for _, dayRows := range byDay {
		for _, anchor := range dayRows {
			if anchor.PersonIdentity != models.IdentityTheft {
				continue
			}
			for _, r := range dayRows {
				if r.ID == anchor.ID {
					continue
				}
				d := r.TransTime.Sub(anchor.TransTime)
				if d < -window || d > window {
					continue
				}
				cp := r.CounterpartyName
				if cp == "" {
					continue
				}
				switch identities[cp] {
				case models.IdentityFence, models.IdentityTheft:
					continue // 已掌握人员不算隐藏同伙
				}
				if credited[r.ID+"\x00"+cp] {
					continue
				}
				credited[r.ID+"\x00"+cp] = true

				h, ok := agg[cp]
				if !ok {
					h = &HiddenRow{Counterparty: cp}
					agg[cp] = h
				}
				h.Freq++
				h.AmountCent += absCent(r.AmountCent)
			}
		}
	}

	out := make([]HiddenRow, 0, len(agg))
	for _, h := range agg {
		h.Amount = util.FormatCent(h.AmountCent)
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AmountCent != out[j].AmountCent {
			return out[i].AmountCent > out[j].AmountCent
		}
		if out[i].Freq != out[j].Freq {
			return out[i].Freq > out[j].Freq
		}
		return out[i].Counterparty < out[j].Counterparty
	})
	return out, nil
}
