package ingest

import (
	"testing"
	"time"

	"fundflow/internal/models"

	"github.com/shopspring/decimal"
)

// TestCleanCounterparty 只保留中日韩文字、ASCII字母和数字
func TestCleanCounterparty(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"张三烟酒店", "张三烟酒店"},
		{"张三(个人)", "张三个人"},
		{" 李四  五金 ", "李四五金"},
		{"ABC-Store_01", "ABCStore01"},
		{"王五*/|二手回收!!", "王五二手回收"},
		{"【平台】收款·二维码", "平台收款二维码"},
		{"", ""},
		{"***", ""},
	}
	for _, tc := range cases {
		if got := CleanCounterparty(tc.in); got != tc.want {
			t.Errorf("CleanCounterparty(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// TestParseAmountCent_Units 申报单位换算：元×1 角×0.1 分×0.01
func TestParseAmountCent_Units(t *testing.T) {
	cases := []struct {
		raw  string
		unit string
		want int64 // 分
	}{
		{"150", models.UnitYuan, 15000},
		{"1500", models.UnitJiao, 15000},
		{"15000", models.UnitFen, 15000}, // 原始15000分 = 150.00元
		{"9999", models.UnitFen, 9999},   // 99.99元，低于默认阈值，由管线丢弃
		{"1,234.56", models.UnitYuan, 123456},
		{"¥200.50", models.UnitYuan, 20050},
		{"-300", models.UnitYuan, -30000},
	}
	for _, tc := range cases {
		factor, err := unitFactor(tc.unit)
		if err != nil {
			t.Fatalf("unitFactor(%q): %v", tc.unit, err)
		}
		got, err := parseAmountCent(tc.raw, factor, "")
		if err != nil {
			t.Errorf("parseAmountCent(%q, %s) error = %v", tc.raw, tc.unit, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseAmountCent(%q, %s) = %d, want %d", tc.raw, tc.unit, got, tc.want)
		}
	}
}

// TestParseAmountCent_Direction 收/支方向补符号：支出为负，收入为正
func TestParseAmountCent_Direction(t *testing.T) {
	one := decimal.NewFromInt(1)
	cases := []struct {
		raw, direction string
		want           int64
	}{
		{"500", "支出", -50000},
		{"500", "出", -50000},
		{"-500", "支出", -50000}, // 已带负号时不再翻转
		{"500", "收入", 50000},
		{"-500", "收入", 50000}, // 方向以申报为准
		{"500", "", 50000},     // 无方向保持原符号
		{"-500", "", -50000},
	}
	for _, tc := range cases {
		got, err := parseAmountCent(tc.raw, one, tc.direction)
		if err != nil {
			t.Errorf("parseAmountCent(%q, %q) error = %v", tc.raw, tc.direction, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseAmountCent(%q, %q) = %d, want %d", tc.raw, tc.direction, got, tc.want)
		}
	}
}

// TestParseAmountCent_Invalid 解析不了的金额报错，不猜测
func TestParseAmountCent_Invalid(t *testing.T) {
	one := decimal.NewFromInt(1)
	for _, raw := range []string{"", "   ", "-", "金额", "N/A"} {
		if _, err := parseAmountCent(raw, one, ""); err == nil {
			t.Errorf("parseAmountCent(%q) error = nil, want error", raw)
		}
	}
}

// TestUnitFactor_Invalid 未知单位拒绝
func TestUnitFactor_Invalid(t *testing.T) {
	if _, err := unitFactor("dollar"); err == nil {
		t.Error("unitFactor(dollar) error = nil, want error")
	}
	// 空单位按元处理
	if _, err := unitFactor(""); err != nil {
		t.Errorf("unitFactor(\"\") error = %v, want nil", err)
	}
}

// TestParseTransTime 各来源常见时间格式
func TestParseTransTime(t *testing.T) {
	valid := []struct {
		raw  string
		want time.Time
	}{
		{"2024-01-05 10:30:00", time.Date(2024, 1, 5, 10, 30, 0, 0, time.Local)},
		{"2024/01/05 10:30:00", time.Date(2024, 1, 5, 10, 30, 0, 0, time.Local)},
		{"2024-01-05 10:30", time.Date(2024, 1, 5, 10, 30, 0, 0, time.Local)},
		{"2024-01-05", time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local)},
		{"20240105103000", time.Date(2024, 1, 5, 10, 30, 0, 0, time.Local)},
	}
	for _, tc := range valid {
		got, err := parseTransTime(tc.raw)
		if err != nil {
			t.Errorf("parseTransTime(%q) error = %v", tc.raw, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("parseTransTime(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}

	for _, raw := range []string{"", "昨天", "2024-13-05", "not-a-time"} {
		if _, err := parseTransTime(raw); err == nil {
			t.Errorf("parseTransTime(%q) error = nil, want error", raw)
		}
	}
}
