package analysis

// TrendBucket 一个自然月的收支合计，空月份不补零
type TrendBucket struct {
	Month       string `json:"month"` // YYYY-MM
	IncomeCent  int64  `json:"income_cent"`
	ExpenseCent int64  `json:"expense_cent"`
	Income      string `json:"income"`  // 元，两位小数
	Expense     string `json:"expense"` // 元，两位小数
}

// StatRow 单个交易对方的聚合统计
type StatRow struct {
	Counterparty string `json:"counterparty_name"`
	TotalCount   int    `json:"total_count"`
	NetCent      int64  `json:"net_cent"`
	Net          string `json:"net_amount"`
	InCount      int    `json:"in_count"`
	InCent       int64  `json:"in_cent"`
	In           string `json:"in_amount"`
	OutCount     int    `json:"out_count"`
	OutCent      int64  `json:"out_cent"`
	Out          string `json:"out_amount"`
}

// KeywordRow 命中重点行业关键词的交易对方
type KeywordRow struct {
	Counterparty string `json:"counterparty_name"`
	Count        int    `json:"count"`
	InCent       int64  `json:"in_cent"`
	In           string `json:"in_amount"`
	OutCent      int64  `json:"out_cent"`
	Out          string `json:"out_amount"`
}

// Node 交互图节点：案件内出现过的人员标识。
// Identity 仅在该人上传过账单（作为持卡人出现）时有值。
type Node struct {
	Name     string `json:"name"`
	Identity string `json:"identity,omitempty"`
}

// Edge 交互图有向边，方向跟随资金流：source 付款，target 收款
type Edge struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	WeightCent int64  `json:"weight_cent"` // 双方间交易绝对金额之和（分）
	Weight     string `json:"weight"`
	Count      int    `json:"count"`
	Large      bool   `json:"large"` // 达到大额阈值，仅作前端强调，不过滤
}

// Graph 资金交互图
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"links"`
}

// TraceRow 盗窃-收赃资金通路
type TraceRow struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	AmountCent int64  `json:"amount_cent"`
	Amount     string `json:"amount"`
	Count      int    `json:"count"`
}

// HiddenRow 疑似未掌握同伙：与盗窃人员活动时间相关的陌生对端。
// 这是时间相关性信号，不构成共谋证据。
type HiddenRow struct {
	Counterparty string `json:"counterparty_name"`
	Freq         int    `json:"freq"`
	AmountCent   int64  `json:"total_cent"`
	Amount       string `json:"total_amount"`
}

// Stats 的筛选与排序模式
const (
	FilterAll         = "all"
	FilterIncomeOnly  = "income_only"  // 有收无支
	FilterExpenseOnly = "expense_only" // 有支无收
	FilterHighRatio   = "high_ratio"   // 收支比例悬殊 > 3:1

	SortByNet  = "net"  // 按净额绝对值降序（默认）
	SortByFreq = "freq" // 按交易次数降序
)
