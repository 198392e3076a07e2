package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TextMapper 解析制表符/逗号分隔的 txt、csv 账单（财付通导出常见形态）。
// 公安机关拿到的导出文件编码很杂，按 UTF-8 → GB18030 → GBK → UTF-16 依次尝试。
type TextMapper struct{}

func (m *TextMapper) Parse(path string) (*Parsed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}

	text, err := decodeText(raw)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	// 在前 50 行内找表头行，再按表头行判断分隔符
	headerIdx := -1
	var cm *columnMap
	var sep rune
	for i, line := range lines {
		if i >= 50 {
			break
		}
		s := sniffDelimiter(line)
		cells := splitLine(line, s)
		if c, ok := matchHeader(cells); ok {
			headerIdx, cm, sep = i, c, s
			break
		}
	}
	if cm == nil {
		return nil, ErrUnrecognizedFormat
	}

	// 表头之后的部分交给 csv 解析，容忍列数不齐的行
	r := csv.NewReader(strings.NewReader(strings.Join(lines[headerIdx+1:], "\n")))
	r.Comma = sep
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	parsed := &Parsed{FenUnit: cm.fenUnit}
	for {
		cells, err := r.Read()
		if err != nil {
			break // 脏行跳过，EOF 结束
		}
		if rec := buildRecord(cm, cells); rec != nil {
			parsed.Records = append(parsed.Records, rec)
		}
	}
	return parsed, nil
}

// decodeText 依次尝试常见编码，全部失败按 GB18030 宽松解码兜底
func decodeText(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoders := []encoding.Encoding{
		simplifiedchinese.GB18030,
		simplifiedchinese.GBK,
		unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
		unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	}
	for _, enc := range decoders {
		out, _, err := transform.Bytes(enc.NewDecoder(), raw)
		if err == nil && utf8.Valid(out) {
			return string(out), nil
		}
	}
	out, _, err := transform.Bytes(simplifiedchinese.GB18030.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("无法识别文件编码: %w", ErrUnrecognizedFormat)
	}
	return string(out), nil
}

// sniffDelimiter 有制表符按制表符，其次逗号，再次分号
func sniffDelimiter(line string) rune {
	switch {
	case strings.ContainsRune(line, '\t'):
		return '\t'
	case strings.ContainsRune(line, ','):
		return ','
	case strings.ContainsRune(line, ';'):
		return ';'
	}
	return '\t'
}

func splitLine(line string, sep rune) []string {
	return strings.Split(line, string(sep))
}
