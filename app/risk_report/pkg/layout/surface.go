// Package layout 把内容块排版到 PDF 页面，并负责页眉页脚。
package layout

import "github.com/iWorld-y/risk_report/app/risk_report/pkg/document"

// 长度单位换算
const (
	mmPerInch = 25.4
	mmPerPt   = mmPerInch / 72
)

func pt(v float64) float64 { return v * mmPerPt }

func inch(v float64) float64 { return v * mmPerInch }

// Anchor 文本水平锚点
type Anchor int

const (
	AnchorLeft Anchor = iota
	AnchorCenter
	AnchorRight
)

// TextFont 文本绘制参数，字号单位 pt
type TextFont struct {
	Size  float64
	Bold  bool
	Color document.RGB
}

// Surface 装饰器使用的绘图接口，坐标单位 mm，原点在页面左上角。
// 实现方负责选择字体：中文报告使用解析到的字体，英文使用 Helvetica。
type Surface interface {
	PageNo() int
	PageSize() (w, h float64)
	// SaveState 与 RestoreState 成对调用，恢复字体、颜色与线宽
	SaveState()
	RestoreState()
	FillRect(x, y, w, h float64, c document.RGB)
	Line(x1, y1, x2, y2, width float64, c document.RGB)
	// DrawString 在基线 y 处绘制单行文本，x 的含义由 anchor 决定
	DrawString(x, y float64, s string, f TextFont, anchor Anchor)
}
