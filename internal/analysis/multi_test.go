package analysis

import (
	"context"
	"testing"
	"time"

	"fundflow/internal/models"
)

func TestInteractionGraph(t *testing.T) {
	at := time.Date(2024, 1, 5, 10, 0, 0, 0, time.Local)
	a := newTestAnalyzer(t,
		// 李四支出给张三两笔，资金流李四->张三
		txn("CASE-A", "李四", models.IdentityTheft, "张三", -600000, at),
		txn("CASE-A", "李四", models.IdentityTheft, "张三", -600000, at.Add(time.Hour)),
		// 李四从王五收一笔，资金流王五->李四
		txn("CASE-A", "李四", models.IdentityTheft, "王五", 30000, at),
		// 自转排除
		txn("CASE-A", "李四", models.IdentityTheft, "李四", -50000, at),
		// 对端为空排除
		txn("CASE-A", "李四", models.IdentityTheft, "", -50000, at),
	)

	g, err := a.InteractionGraph(context.Background(), "CASE-A")
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if len(g.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(g.Nodes))
	}
	// 节点名升序，持卡人带身份标签，纯对端没有
	for _, n := range g.Nodes {
		if n.Name == "李四" && n.Identity != models.IdentityTheft {
			t.Errorf("李四 identity = %q", n.Identity)
		}
		if n.Name == "张三" && n.Identity != "" {
			t.Errorf("张三 identity = %q, want 空", n.Identity)
		}
	}

	if len(g.Edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(g.Edges))
	}
	// 权重降序
	e := g.Edges[0]
	if e.Source != "李四" || e.Target != "张三" {
		t.Errorf("top edge = %s->%s", e.Source, e.Target)
	}
	if e.WeightCent != 1200000 || e.Count != 2 {
		t.Errorf("top edge weight/count = %d/%d", e.WeightCent, e.Count)
	}
	// 累计1.2万元，达到大额线
	if !e.Large {
		t.Error("top edge not flagged large")
	}
	e2 := g.Edges[1]
	if e2.Source != "王五" || e2.Target != "李四" || e2.Large {
		t.Errorf("second edge = %+v", e2)
	}
}

// TestInteractionGraph_WeightSum 每条边的权重等于它聚合的各笔金额绝对值之和
func TestInteractionGraph_WeightSum(t *testing.T) {
	at := time.Date(2024, 1, 5, 10, 0, 0, 0, time.Local)
	amounts := []int64{-100000, -250000, 40000}
	var total int64
	var txns []models.Transaction
	for i, c := range amounts {
		txns = append(txns, txn("CASE-A", "李四", models.IdentityTheft, "张三", c, at.Add(time.Duration(i)*time.Hour)))
		if c < 0 {
			total += -c
		} else {
			total += c
		}
	}
	a := newTestAnalyzer(t, txns...)

	g, err := a.InteractionGraph(context.Background(), "CASE-A")
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	var sum int64
	for _, e := range g.Edges {
		sum += e.WeightCent
	}
	if sum != total {
		t.Errorf("edge weight sum = %d, want %d", sum, total)
	}
}

func TestTraceStolenGoods(t *testing.T) {
	at := time.Date(2024, 1, 5, 10, 0, 0, 0, time.Local)
	a := newTestAnalyzer(t,
		// 盗窃人员A向B、C付款；B以收赃身份另有自己的账单行
		txn("CASE-A", "A", models.IdentityTheft, "B", -1200000, at),
		txn("CASE-A", "A", models.IdentityTheft, "C", -50000, at),
		txn("CASE-A", "B", models.IdentityFence, "D", -30000, at),
		// 排查人员与A的往来不算销赃
		txn("CASE-A", "E", models.IdentityScreening, "A", -80000, at),
	)

	rows, err := a.TraceStolenGoods(context.Background(), "CASE-A")
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1（只有A->B两端身份齐备）", len(rows))
	}
	r := rows[0]
	if r.Source != "A" || r.Target != "B" {
		t.Errorf("edge = %s->%s", r.Source, r.Target)
	}
	if r.AmountCent != 1200000 || r.Amount != "12000.00" {
		t.Errorf("amount = %d/%s", r.AmountCent, r.Amount)
	}
}

func TestTraceStolenGoods_BothDirections(t *testing.T) {
	at := time.Date(2024, 1, 5, 10, 0, 0, 0, time.Local)
	a := newTestAnalyzer(t,
		// 收赃人员B向盗窃人员A回流资金，方向反向同样命中
		txn("CASE-A", "A", models.IdentityTheft, "B", 90000, at),
		txn("CASE-A", "B", models.IdentityFence, "X", -10000, at),
	)

	rows, err := a.TraceStolenGoods(context.Background(), "CASE-A")
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if len(rows) != 1 || rows[0].Source != "B" || rows[0].Target != "A" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestHiddenPartners(t *testing.T) {
	day := time.Date(2024, 1, 5, 10, 0, 0, 0, time.Local)
	a := newTestAnalyzer(t,
		// 锚点：盗窃人员A 10:00 的交易
		txn("CASE-A", "A", models.IdentityTheft, "商户甲", -150000, day),
		// 排查人员E 10:15 与D交易，落在±30分钟窗口
		txn("CASE-A", "E", models.IdentityScreening, "D", -60000, day.Add(15*time.Minute)),
		// 同日但超窗
		txn("CASE-A", "E", models.IdentityScreening, "F", -70000, day.Add(2*time.Hour)),
		// 窗口内但隔天
		txn("CASE-A", "E", models.IdentityScreening, "G", -80000, day.AddDate(0, 0, 1).Add(10*time.Minute)),
	)

	rows, err := a.HiddenPartners(context.Background(), "CASE-A", 30)
	if err != nil {
		t.Fatalf("hidden: %v", err)
	}
	names := make(map[string]HiddenRow)
	for _, r := range rows {
		names[r.Counterparty] = r
	}
	if _, ok := names["D"]; !ok {
		t.Fatal("D 应命中窗口")
	}
	if _, ok := names["F"]; ok {
		t.Error("F 超出时间窗口不应命中")
	}
	if _, ok := names["G"]; ok {
		t.Error("G 跨自然日不应命中")
	}
	if d := names["D"]; d.AmountCent != 60000 || d.Freq != 1 {
		t.Errorf("D = %+v", d)
	}
}

// TestHiddenPartners_SymmetricWindow 锚点之前的邻近交易同样命中
func TestHiddenPartners_SymmetricWindow(t *testing.T) {
	day := time.Date(2024, 1, 5, 10, 0, 0, 0, time.Local)
	a := newTestAnalyzer(t,
		txn("CASE-A", "E", models.IdentityScreening, "D", -60000, day.Add(-20*time.Minute)),
		txn("CASE-A", "A", models.IdentityTheft, "商户甲", -150000, day),
	)

	rows, err := a.HiddenPartners(context.Background(), "CASE-A", 30)
	if err != nil {
		t.Fatalf("hidden: %v", err)
	}
	found := false
	for _, r := range rows {
		if r.Counterparty == "D" {
			found = true
		}
	}
	if !found {
		t.Error("锚点之前20分钟的交易应命中")
	}
}

// TestHiddenPartners_ExcludesKnown 已作为收赃或盗窃人员掌握的名字不进候选
func TestHiddenPartners_ExcludesKnown(t *testing.T) {
	day := time.Date(2024, 1, 5, 10, 0, 0, 0, time.Local)
	a := newTestAnalyzer(t,
		txn("CASE-A", "A", models.IdentityTheft, "商户甲", -150000, day),
		// B是已掌握的收赃人员
		txn("CASE-A", "B", models.IdentityFence, "X", -10000, day),
		txn("CASE-A", "E", models.IdentityScreening, "B", -60000, day.Add(10*time.Minute)),
		txn("CASE-A", "E", models.IdentityScreening, "D", -60000, day.Add(10*time.Minute)),
	)

	rows, err := a.HiddenPartners(context.Background(), "CASE-A", 30)
	if err != nil {
		t.Fatalf("hidden: %v", err)
	}
	for _, r := range rows {
		if r.Counterparty == "B" {
			t.Error("已掌握的收赃人员不应出现在隐藏同伙里")
		}
	}
}

// TestHiddenPartners_NoDoubleCount 多个锚点覆盖同一笔交易只计一次
func TestHiddenPartners_NoDoubleCount(t *testing.T) {
	day := time.Date(2024, 1, 5, 10, 0, 0, 0, time.Local)
	a := newTestAnalyzer(t,
		txn("CASE-A", "A", models.IdentityTheft, "商户甲", -150000, day),
		txn("CASE-A", "A", models.IdentityTheft, "商户乙", -150000, day.Add(5*time.Minute)),
		txn("CASE-A", "E", models.IdentityScreening, "D", -60000, day.Add(10*time.Minute)),
	)

	rows, err := a.HiddenPartners(context.Background(), "CASE-A", 30)
	if err != nil {
		t.Fatalf("hidden: %v", err)
	}
	for _, r := range rows {
		if r.Counterparty == "D" && (r.Freq != 1 || r.AmountCent != 60000) {
			t.Errorf("D 被重复计数: %+v", r)
		}
	}
}
