// Package document 把评估记录转换为与版面无关的内容块序列。
package document

import (
	"time"

	"github.com/iWorld-y/risk_report/app/risk_report/pkg/assessment"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/diag"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/fonts"
)

// Block 内容块，只有本包内的类型实现
type Block interface {
	block()
}

// Spacer 垂直留白，单位 pt
type Spacer struct {
	Height float64
}

// Paragraph 一段文字
type Paragraph struct {
	Text  string
	Style TextStyle
}

// Separator 居中的水平分隔线
type Separator struct {
	// WidthRatio 占正文宽度的比例 (0, 1]
	WidthRatio float64
	Color      RGB
}

// Cell 表格单元格
type Cell struct {
	Text string
	// Caption 显示在 Text 下方的小号说明文字，可为空
	Caption string
	// Label 标签单元格使用粗体 (中文字体下无粗体)
	Label bool
}

// Table 表格，Widths 单位 mm
type Table struct {
	Widths []float64
	Rows   [][]Cell
	Style  TableStyle
}

// PageBreak 强制分页
type PageBreak struct{}

func (Spacer) block()    {}
func (Paragraph) block() {}
func (Separator) block() {}
func (Table) block()     {}
func (PageBreak) block() {}

// Document 一次渲染的完整内容
type Document struct {
	Blocks   []Block
	Font     fonts.Font
	Language assessment.Language
	Location assessment.LocationSettings
	// GeneratedAt 渲染时间，页脚与文件名共用
	GeneratedAt time.Time
	Diagnostics []diag.Diagnostic
}
