package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnrecognizedFormat 文件表头没有命中任何已知词典，整个文件拒绝
	ErrUnrecognizedFormat = errors.New("未识别的账单格式")
	// ErrInvalidIdentity 申报的人员身份不在闭合枚举内，整批拒绝
	ErrInvalidIdentity = errors.New("无效的人员身份")
	// ErrInvalidUnit 申报的金额单位未知
	ErrInvalidUnit = errors.New("无效的金额单位")
)

// SourceKind 标记账单文件的来源形态，派发到对应的映射器
type SourceKind int

const (
	SourceUnknown     SourceKind = iota
	SourceSpreadsheet            // xlsx / xls
	SourceText                   // txt / csv（制表符或逗号分隔）
	SourceDocument               // pdf 流水证明
)

func (k SourceKind) String() string {
	switch k {
	case SourceSpreadsheet:
		return "spreadsheet"
	case SourceText:
		return "text"
	case SourceDocument:
		return "document"
	}
	return "unknown"
}

// KindForFile 按扩展名判断来源形态
func KindForFile(name string) SourceKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return SourceSpreadsheet
	case ".txt", ".csv":
		return SourceText
	case ".pdf":
		return SourceDocument
	}
	return SourceUnknown
}

// Parsed 是一个文件映射后的产物
type Parsed struct {
	Records []Record
	// FenUnit 表头声明金额以分计，覆盖上传时申报的单位
	FenUnit bool
}

// Mapper 把一个原始文件解析成中间记录序列。
// 解析是无状态且确定的：同一份字节永远得到同样的输出。
type Mapper interface {
	Parse(path string) (*Parsed, error)
}

// MapperFor 按来源形态选出对应的映射器
func MapperFor(kind SourceKind) (Mapper, error) {
	switch kind {
	case SourceSpreadsheet:
		return &ExcelMapper{}, nil
	case SourceText:
		return &TextMapper{}, nil
	case SourceDocument:
		return &DocumentMapper{}, nil
	}
	return nil, fmt.Errorf("不支持的文件类型: %w", ErrUnrecognizedFormat)
}
