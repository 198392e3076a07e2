package ingest

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// headerScanLimit 在文件前若干行内寻找表头，跳过账单抬头等说明行
const headerScanLimit = 20

// ExcelMapper 解析 xlsx/xls 账单（银行导出、支付宝导出等表格形态）
type ExcelMapper struct{}

func (m *ExcelMapper) Parse(path string) (*Parsed, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("打开Excel失败: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrUnrecognizedFormat
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	// 定位表头行
	var cm *columnMap
	headerIdx := -1
	for i, row := range rows {
		if i >= headerScanLimit {
			break
		}
		if c, ok := matchHeader(row); ok {
			cm = c
			headerIdx = i
			break
		}
	}
	if cm == nil {
		return nil, ErrUnrecognizedFormat
	}

	parsed := &Parsed{FenUnit: cm.fenUnit}
	for _, row := range rows[headerIdx+1:] {
		if rec := buildRecord(cm, row); rec != nil {
			parsed.Records = append(parsed.Records, rec)
		}
	}
	return parsed, nil
}
