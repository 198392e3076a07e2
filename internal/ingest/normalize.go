package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"fundflow/internal/models"

	"github.com/shopspring/decimal"
)

// CleanCounterparty 对交易对方名称去噪：
// 只保留中日韩统一表意文字、ASCII 字母和数字，其余字符全部剔除。
func CleanCounterparty(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Han, r):
			b.WriteRune(r)
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// unitFactor 把申报单位换算成系数：元 ×1，角 ×0.1，分 ×0.01
func unitFactor(unit string) (decimal.Decimal, error) {
	switch unit {
	case models.UnitYuan, "":
		return decimal.NewFromInt(1), nil
	case models.UnitJiao:
		return decimal.NewFromFloat(0.1), nil
	case models.UnitFen:
		return decimal.NewFromFloat(0.01), nil
	}
	return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrInvalidUnit, unit)
}

// reAmountNoise 金额里的千分位逗号、货币符号等非数字字符
var reAmountNoise = regexp.MustCompile(`[^\d.\-]`)

// parseAmountCent 把原始金额字符串换算成以分计的标准金额。
// factor 为申报单位系数；direction 为收/支标记，原始金额无符号时用它定号。
func parseAmountCent(raw string, factor decimal.Decimal, direction string) (int64, error) {
	cleaned := reAmountNoise.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" || cleaned == "-" {
		return 0, fmt.Errorf("金额为空: %q", raw)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("金额无法解析 %q: %w", raw, err)
	}
	d = d.Mul(factor)

	// 收/支方向定号：支出为负，收入为正
	switch {
	case strings.Contains(direction, "出") || strings.Contains(direction, "支"):
		d = d.Abs().Neg()
	case strings.Contains(direction, "入") || strings.Contains(direction, "收"):
		d = d.Abs()
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// timeLayouts 各来源常见的交易时间格式
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"20060102150405",
}

// parseTransTime 尝试所有已知格式解析交易时间
func parseTransTime(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("交易时间为空")
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("交易时间无法解析: %q", s)
}
