package ingest

import "strings"

// Record 是一行账单映射后的中间记录：标准字段名 -> 原始字符串值。
// 字段识别与顺序无关，未识别的列直接忽略。
type Record map[string]string

// 标准字段名
const (
	FieldOwnerName    = "owner_name"
	FieldOwnerID      = "owner_id"
	FieldOwnerAccount = "owner_account"
	FieldTransTime    = "trans_time"
	FieldAmount       = "amount"
	FieldDirection    = "direction" // 收/支方向，用于补金额符号
	FieldCounterparty = "counterparty_name"
	FieldCounterpartyAccount = "counterparty_account"
	FieldTransOrderID        = "trans_order_id"
	FieldMerchantOrderID     = "merchant_order_id"
	FieldRemark              = "remark"
	FieldBillSource          = "bill_source"
)

// fenAmountHeader 表头声明金额以分计（财付通导出），
// 识别到后整个文件强制按百分之一单位换算。
const fenAmountHeader = "交易金额(分)"

// fieldSynonyms 各来源表头的同义词典
var fieldSynonyms = map[string]string{
	"姓名":      FieldOwnerName,
	"户名":      FieldOwnerName,
	"账户名":     FieldOwnerName,
	"用户侧账号名称": FieldOwnerName,
	"身份证":     FieldOwnerID,
	"身份证号":    FieldOwnerID,
	"微信号":     FieldOwnerAccount,
	"账号":      FieldOwnerAccount,
	"交易账号":    FieldOwnerAccount,
	"交易时间":    FieldTransTime,
	"时间":      FieldTransTime,
	"入账时间":    FieldTransTime,
	"金额":      FieldAmount,
	"交易金额":    FieldAmount,
	"操作金额":    FieldAmount,
	"金额(元)":   FieldAmount,
	fenAmountHeader: FieldAmount,
	"借贷类型":   FieldDirection,
	"收/支/其他": FieldDirection,
	"收/支":    FieldDirection,
	"交易对方":    FieldCounterparty,
	"微信昵称":    FieldCounterparty,
	"对方户名":    FieldCounterparty,
	"收款方":     FieldCounterparty,
	"对手侧账户名称": FieldCounterparty,
	"第三方账户名称": FieldCounterparty,
	"对方账号":    FieldCounterpartyAccount,
	"对手方银行卡号": FieldCounterpartyAccount,
	"交易单号": FieldTransOrderID,
	"流水号":  FieldTransOrderID,
	"商户单号": FieldMerchantOrderID,
	"大单号":  FieldMerchantOrderID,
	"备注":   FieldRemark,
	"备注1":  FieldRemark,
	"账单来源": FieldBillSource,
}

// columnMap 是一次表头识别的结果
type columnMap struct {
	fields  map[int]string // 列下标 -> 标准字段
	fenUnit bool           // 金额列以分计
}

// normalizeHeader 去掉表头单元格里的空白，避免"交易 时间"之类错配
func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), "")
}

// matchHeader 将一行表头映射为列映射。
// 至少要能认出交易时间和金额两列，否则不视为表头。
func matchHeader(cells []string) (*columnMap, bool) {
	cm := &columnMap{fields: make(map[int]string)}
	seen := make(map[string]bool)
	for i, cell := range cells {
		h := normalizeHeader(cell)
		if h == "" {
			continue
		}
		field, ok := fieldSynonyms[h]
		if !ok {
			continue // 未识别的列忽略
		}
		if seen[field] {
			continue // 同义列取先出现的
		}
		seen[field] = true
		cm.fields[i] = field
		if h == fenAmountHeader {
			cm.fenUnit = true
		}
	}
	if !seen[FieldTransTime] || !seen[FieldAmount] {
		return nil, false
	}
	return cm, true
}

// buildRecord 按列映射把一行数据转成中间记录，整行为空时返回 nil
func buildRecord(cm *columnMap, cells []string) Record {
	rec := make(Record, len(cm.fields))
	empty := true
	for i, field := range cm.fields {
		if i >= len(cells) {
			continue
		}
		v := strings.TrimSpace(cells[i])
		if v != "" {
			empty = false
		}
		rec[field] = v
	}
	if empty {
		return nil
	}
	return rec
}
