package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DocumentMapper 解析微信支付交易流水证明 PDF。
// 首页抬头里带账户持有人信息，之后每页是固定列序的流水表格：
// 交易单号 / 交易时间 / 交易类型 / 收支 / 交易方式 / 金额 / 交易对方 / 商户单号。
type DocumentMapper struct{}

var (
	reHolderName = regexp.MustCompile(`兹证明:(.*?)\(`)
	reHolderID   = regexp.MustCompile(`身份证:(.*?)\)`)
	reHolderWx   = regexp.MustCompile(`微信号:(.*?)中`)
	// 流水号以长数字开头，用来区分表格行和页眉页脚
	reOrderNo = regexp.MustCompile(`^\d{10,}`)
	reAmount  = regexp.MustCompile(`-?[\d,]+\.?\d*`)
	reTime    = regexp.MustCompile(`\d{4}[-/]\d{2}[-/]\d{2}\s*\d{2}:\d{2}(:\d{2})?`)
)

func (m *DocumentMapper) Parse(path string) (*Parsed, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开PDF失败: %w", err)
	}
	defer f.Close()

	if r.NumPage() == 0 {
		return nil, ErrUnrecognizedFormat
	}

	holder := extractHolder(r)

	parsed := &Parsed{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			cells := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				s := strings.TrimSpace(word.S)
				if s != "" {
					cells = append(cells, s)
				}
			}
			if rec := statementRecord(cells, holder); rec != nil {
				parsed.Records = append(parsed.Records, rec)
			}
		}
	}

	if len(parsed.Records) == 0 {
		return nil, ErrUnrecognizedFormat
	}
	return parsed, nil
}

type accountHolder struct {
	name, idCard, wechatID string
}

// extractHolder 从首页抬头提取账户持有人信息
func extractHolder(r *pdf.Reader) accountHolder {
	var h accountHolder
	p := r.Page(1)
	if p.V.IsNull() {
		return h
	}
	var sb strings.Builder
	texts := p.Content().Text
	for _, t := range texts {
		sb.WriteString(t.S)
	}
	text := sb.String()
	if m := reHolderName.FindStringSubmatch(text); m != nil {
		h.name = strings.TrimSpace(m[1])
	}
	if m := reHolderID.FindStringSubmatch(text); m != nil {
		h.idCard = strings.TrimSpace(m[1])
	}
	if m := reHolderWx.FindStringSubmatch(text); m != nil {
		h.wechatID = strings.TrimSpace(m[1])
	}
	return h
}

// statementRecord 把一行单词序列按流水表固定列序组装成记录。
// 非流水行（页眉、合计、持有人信息）返回 nil。
func statementRecord(cells []string, holder accountHolder) Record {
	if len(cells) < 6 {
		return nil
	}
	if !reOrderNo.MatchString(cells[0]) {
		return nil
	}
	timeStr := reTime.FindString(strings.Join(cells, " "))
	if timeStr == "" {
		return nil
	}

	rec := Record{
		FieldTransOrderID: cells[0],
		FieldTransTime:    timeStr,
		FieldOwnerName:    holder.name,
		FieldOwnerID:      holder.idCard,
		FieldOwnerAccount: holder.wechatID,
		FieldBillSource:   "微信",
	}
	if len(cells) > 3 {
		rec[FieldDirection] = cells[3]
	}
	if len(cells) > 5 {
		rec[FieldAmount] = strings.ReplaceAll(reAmount.FindString(cells[5]), ",", "")
	}
	if len(cells) > 6 {
		rec[FieldCounterparty] = cells[6]
	}
	if len(cells) > 7 {
		rec[FieldMerchantOrderID] = cells[7]
	}
	return rec
}
