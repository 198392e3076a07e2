package ingest

import "testing"

// TestMatchHeader_Synonyms 不同来源的表头同义词都应映射到标准字段
func TestMatchHeader_Synonyms(t *testing.T) {
	cells := []string{"序号", "交易时间", "交易金额", "对方户名", "户名", "流水号", "备注"}
	cm, ok := matchHeader(cells)
	if !ok {
		t.Fatalf("matchHeader(%v) ok = false, want true", cells)
	}

	want := map[int]string{
		1: FieldTransTime,
		2: FieldAmount,
		3: FieldCounterparty,
		4: FieldOwnerName,
		5: FieldTransOrderID,
		6: FieldRemark,
	}
	for i, field := range want {
		if cm.fields[i] != field {
			t.Errorf("column %d = %q, want %q", i, cm.fields[i], field)
		}
	}
	if _, mapped := cm.fields[0]; mapped {
		t.Error("未识别的列 序号 不应被映射")
	}
	if cm.fenUnit {
		t.Error("fenUnit = true, want false")
	}
}

// TestMatchHeader_OrderInsensitive 列顺序不影响识别
func TestMatchHeader_OrderInsensitive(t *testing.T) {
	cells := []string{"金额(元)", "交易对方", "姓名", "交易时间"}
	cm, ok := matchHeader(cells)
	if !ok {
		t.Fatal("matchHeader ok = false, want true")
	}
	if cm.fields[0] != FieldAmount || cm.fields[3] != FieldTransTime {
		t.Errorf("fields = %v", cm.fields)
	}
}

// TestMatchHeader_MissingRequired 缺少时间或金额列不算表头
func TestMatchHeader_MissingRequired(t *testing.T) {
	cases := [][]string{
		{"姓名", "交易对方", "备注"},         // 两者都缺
		{"交易时间", "交易对方"},            // 缺金额
		{"金额", "交易对方"},              // 缺时间
		{},                          // 空行
		{"Date", "Amount", "Payee"}, // 英文表头不在词典里
	}
	for _, cells := range cases {
		if _, ok := matchHeader(cells); ok {
			t.Errorf("matchHeader(%v) ok = true, want false", cells)
		}
	}
}

// TestMatchHeader_FenUnit 财付通"交易金额(分)"表头触发分单位覆盖
func TestMatchHeader_FenUnit(t *testing.T) {
	cells := []string{"交易单号", "交易时间", "交易金额(分)", "对手侧账户名称", "借贷类型"}
	cm, ok := matchHeader(cells)
	if !ok {
		t.Fatal("matchHeader ok = false, want true")
	}
	if !cm.fenUnit {
		t.Error("fenUnit = false, want true")
	}
	if cm.fields[3] != FieldCounterparty {
		t.Errorf("对手侧账户名称 -> %q, want %q", cm.fields[3], FieldCounterparty)
	}
	if cm.fields[4] != FieldDirection {
		t.Errorf("借贷类型 -> %q, want %q", cm.fields[4], FieldDirection)
	}
}

// TestMatchHeader_WhitespaceInHeader 表头内的空白不影响识别
func TestMatchHeader_WhitespaceInHeader(t *testing.T) {
	cells := []string{" 交易 时间 ", "金 额", "交易 对方"}
	cm, ok := matchHeader(cells)
	if !ok {
		t.Fatal("matchHeader ok = false, want true")
	}
	if cm.fields[0] != FieldTransTime || cm.fields[1] != FieldAmount {
		t.Errorf("fields = %v", cm.fields)
	}
}

// TestBuildRecord 行数据按列映射组装，空行返回 nil
func TestBuildRecord(t *testing.T) {
	cm, ok := matchHeader([]string{"交易时间", "金额", "交易对方"})
	if !ok {
		t.Fatal("matchHeader failed")
	}

	rec := buildRecord(cm, []string{"2024-01-05 10:00:00", "1500", "张三烟酒店"})
	if rec == nil {
		t.Fatal("buildRecord returned nil for non-empty row")
	}
	if rec[FieldTransTime] != "2024-01-05 10:00:00" {
		t.Errorf("trans_time = %q", rec[FieldTransTime])
	}
	if rec[FieldAmount] != "1500" {
		t.Errorf("amount = %q", rec[FieldAmount])
	}

	if rec := buildRecord(cm, []string{"", "", ""}); rec != nil {
		t.Errorf("buildRecord empty row = %v, want nil", rec)
	}

	// 行比表头短：缺的列留空，不越界
	short := buildRecord(cm, []string{"2024-01-05", "200"})
	if short == nil {
		t.Fatal("buildRecord returned nil for short row")
	}
	if short[FieldCounterparty] != "" {
		t.Errorf("counterparty = %q, want empty", short[FieldCounterparty])
	}
}
