package document

import "fmt"

// RGB 颜色
type RGB struct {
	R, G, B int
}

// Hex 解析 "#rrggbb"，格式错误时 panic，仅用于包级常量
func Hex(s string) RGB {
	var c RGB
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		panic(fmt.Sprintf("document: bad color %q: %v", s, err))
	}
	return c
}

// 报告配色
var (
	Primary    = Hex("#667eea")
	Secondary  = Hex("#764ba2")
	LabelFill  = Hex("#f0f4ff")
	StripeFill = Hex("#f9f9ff")
	GridLight  = Hex("#e0e0e0")
	GridBasic  = Hex("#d4d4d4")
	FooterFill = Hex("#f8f9fa")
	FooterText = Hex("#666666")
	Black      = RGB{0, 0, 0}
	White      = RGB{255, 255, 255}
)

// Align 水平对齐
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignJustify
)

// TextStyle 段落样式，长度单位 pt
type TextStyle struct {
	Name        string
	Size        float64
	Leading     float64
	Color       RGB
	Bold        bool
	Align       Align
	SpaceBefore float64
	SpaceAfter  float64
	// Fill 非空时绘制与正文同宽的底色
	Fill    *RGB
	Padding float64
}

// LineHeight 行高，未设置 Leading 时取字号的 1.2 倍
func (s TextStyle) LineHeight() float64 {
	if s.Leading > 0 {
		return s.Leading
	}
	return s.Size * 1.2
}

func fill(c RGB) *RGB { return &c }

// 段落样式
var (
	BannerStyle = TextStyle{
		Name: "banner", Size: 16, Color: Hex("#333333"), Bold: true,
		Align: AlignCenter, SpaceAfter: 5,
	}
	TitleStyle = TextStyle{
		Name: "title", Size: 22, Color: Primary, Bold: true,
		Align: AlignCenter, SpaceAfter: 10,
	}
	SubtitleStyle = TextStyle{
		Name: "subtitle", Size: 11, Color: Secondary, Bold: true,
		Align: AlignCenter, SpaceAfter: 20,
	}
	HeadingStyle = TextStyle{
		Name: "heading", Size: 14, Color: White, Bold: true,
		SpaceBefore: 12, SpaceAfter: 8, Fill: fill(Primary), Padding: 6,
	}
	SubheadingStyle = TextStyle{
		Name: "subheading", Size: 12, Color: Hex("#2c3e50"), Bold: true,
		SpaceAfter: 6,
	}
	BodyStyle = TextStyle{
		Name: "body", Size: 9, Leading: 12, Color: Hex("#555555"),
		Align: AlignJustify,
	}
	NoteStyle = TextStyle{
		Name: "note", Size: 9, Leading: 12, Color: Black,
	}
)

// VAlign 单元格垂直对齐
type VAlign int

const (
	VAlignMiddle VAlign = iota
	VAlignTop
)

// TableStyle 表格样式
type TableStyle struct {
	FontSize float64
	Grid     RGB
	// HeaderFill 非空时第一行作为表头
	HeaderFill *RGB
	HeaderText RGB
	// LabelColumns 使用 LabelFill 底色的列
	LabelColumns []int
	LabelFill    RGB
	// RowFills 数据行交替底色
	RowFills []RGB
	Padding  float64
	VAlign   VAlign
}

// IsLabelColumn 第 col 列是否为标签列
func (s TableStyle) IsLabelColumn(col int) bool {
	for _, c := range s.LabelColumns {
		if c == col {
			return true
		}
	}
	return false
}

// RowFill 第 row 个数据行 (不含表头) 的底色，nil 表示不填充
func (s TableStyle) RowFill(row int) *RGB {
	if len(s.RowFills) == 0 {
		return nil
	}
	c := s.RowFills[row%len(s.RowFills)]
	return &c
}

// 表格样式
var (
	BasicInfoTable = TableStyle{
		FontSize:     9,
		Grid:         GridBasic,
		LabelColumns: []int{0, 2},
		LabelFill:    LabelFill,
		RowFills:     []RGB{White, StripeFill},
		Padding:      8,
		VAlign:       VAlignMiddle,
	}
	RiskMatrixTable = TableStyle{
		FontSize:   8,
		Grid:       GridLight,
		HeaderFill: fill(Secondary),
		HeaderText: White,
		RowFills:   []RGB{White, StripeFill},
		Padding:    6,
		VAlign:     VAlignTop,
	}
	SignatureTable = TableStyle{
		FontSize:     9,
		Grid:         GridLight,
		LabelColumns: []int{0, 2},
		LabelFill:    LabelFill,
		Padding:      6,
		VAlign:       VAlignMiddle,
	}
)

// Inch 英寸转 mm
func Inch(v float64) float64 { return v * 25.4 }
