package layout

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/iWorld-y/risk_report/app/risk_report/pkg/document"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/fonts"
)

// 页边距 (mm)
var (
	marginSide     = inch(1)
	marginTop      = inch(0.8)
	marginBottom   = inch(0.8)
	cellPadding    = pt(3)
	gridLineWidth  = pt(0.5)
	captionShrink  = 1.0 // 说明文字比单元格正文小 1pt
	captionColor   = document.Hex("#555555")
	separatorSpace = pt(1)
)

// Options 渲染参数
type Options struct {
	// HeaderTitle 第 2 页起页眉中的标题
	HeaderTitle string
	Compress    bool
	Author      string
	Creator     string
}

// Result 渲染结果
type Result struct {
	PDF   []byte
	Pages int
}

// Render 把文档排版为 PDF。fpdf 的内部错误与 panic 都以 error 返回，不产生部分输出。
func Render(doc *document.Document, opts Options) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("layout engine panic: %v", r)
		}
	}()

	e, err := newEngine(doc, opts)
	if err != nil {
		return nil, err
	}
	if err := e.layout(doc.Blocks); err != nil {
		return nil, err
	}

	pages := e.pdf.PageNo()
	var buf bytes.Buffer
	if err := e.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return &Result{PDF: buf.Bytes(), Pages: pages}, nil
}

type fontState struct {
	family string
	style  string
	size   float64
}

type drawState struct {
	font      fontState
	fill      document.RGB
	text      document.RGB
	draw      document.RGB
	lineWidth float64
}

// engine fpdf 适配器，同时实现 Surface
type engine struct {
	pdf  *fpdf.Fpdf
	font fonts.Font
	tr   func(string) string
	dec  *Decorator

	cur       fontState
	saved     []drawState
	autoBreak bool

	pageW, pageH float64
	left, top    float64
	contentW     float64
	bottom       float64 // 正文区域下边界
}

func newEngine(doc *document.Document, opts Options) (*engine, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginSide, marginTop, marginSide)
	pdf.SetCellMargin(0)
	pdf.SetCompression(opts.Compress)

	title := opts.HeaderTitle
	if title == "" {
		title = document.DefaultBanner
	}
	pdf.SetTitle(title, true)
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}
	if opts.Creator != "" {
		pdf.SetCreator(opts.Creator, true)
	}
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
		pdf.SetModificationDate(doc.GeneratedAt)
	}

	e := &engine{
		pdf:  pdf,
		font: doc.Font,
		dec:  NewDecorator(title, doc.Location.Line(doc.Language), doc.GeneratedAt),
	}
	if doc.Font.UTF8 {
		pdf.AddUTF8FontFromBytes(doc.Font.Family, "", doc.Font.Data)
		if pdf.Err() {
			return nil, fmt.Errorf("register font %s: %w", doc.Font.Family, pdf.Error())
		}
		e.tr = bmpOnly
	} else {
		e.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	e.pageW, e.pageH = pdf.GetPageSize()
	e.left, e.top = marginSide, marginTop
	e.contentW = e.pageW - 2*marginSide
	e.bottom = e.pageH - marginBottom

	// fpdf 只通过该回调判断是否换页，关闭自动换页时必须返回 false
	pdf.SetAcceptPageBreakFunc(func() bool {
		if !e.autoBreak {
			return false
		}
		e.dec.PageFilled(e)
		return true
	})
	e.setAutoBreak(true)
	pdf.AddPage()
	e.setFont(9, false)
	if pdf.Err() {
		return nil, pdf.Error()
	}
	return e, nil
}

func (e *engine) layout(blocks []document.Block) error {
	for i, b := range blocks {
		e.place(b)
		if e.pdf.Err() {
			return fmt.Errorf("block %d (%T): %w", i, b, e.pdf.Error())
		}
		e.dec.AfterBlock(e, b)
	}
	return nil
}

func (e *engine) place(b document.Block) {
	switch b := b.(type) {
	case document.Spacer:
		e.advance(pt(b.Height))
	case document.Paragraph:
		e.paragraph(b)
	case document.Separator:
		e.separator(b)
	case document.Table:
		e.table(b)
	case document.PageBreak:
		e.pdf.AddPage()
	}
}

// advance 向下移动，到达正文底部时停在底部而不换页
func (e *engine) advance(h float64) {
	y := math.Min(e.pdf.GetY()+h, e.bottom)
	e.pdf.SetY(y)
}

func (e *engine) atTop() bool {
	return e.pdf.GetY() <= e.top+0.01
}

// ensure 剩余空间不足 h 时换页，换页前先装饰当前页
func (e *engine) ensure(h float64) {
	if e.pdf.GetY()+h <= e.bottom || e.atTop() {
		return
	}
	e.pageBreak()
}

func (e *engine) pageBreak() {
	e.dec.PageFilled(e)
	e.pdf.AddPage()
}

func (e *engine) setAutoBreak(on bool) {
	e.autoBreak = on
	e.pdf.SetAutoPageBreak(on, marginBottom)
}

func (e *engine) paragraph(p document.Paragraph) {
	st := p.Style
	if st.SpaceBefore > 0 && !e.atTop() {
		e.advance(pt(st.SpaceBefore))
	}
	e.setFont(st.Size, st.Bold)
	e.setTextColor(st.Color)
	lh := pt(st.LineHeight())

	if st.Fill != nil {
		e.filledParagraph(p.Text, st, lh)
	} else {
		e.pdf.SetX(e.left)
		e.pdf.MultiCell(e.contentW, lh, e.tr(p.Text), "", multiAlign(st.Align), false)
	}

	if st.SpaceAfter > 0 {
		e.advance(pt(st.SpaceAfter))
	}
}

// filledParagraph 带底色的段落 (章节标题)，尽量放在同一页，超过一页时逐页续排
func (e *engine) filledParagraph(text string, st document.TextStyle, lh float64) {
	pad := pt(st.Padding)
	lines := e.split(text, e.contentW-2*pad)

	e.setAutoBreak(false)
	defer e.setAutoBreak(true)

	e.ensure(float64(len(lines))*lh + 2*pad)
	for len(lines) > 0 {
		fit := int((e.bottom - e.pdf.GetY() - 2*pad) / lh)
		if fit < 1 {
			fit = 1
		}
		if fit > len(lines) {
			fit = len(lines)
		}

		y := e.pdf.GetY()
		h := float64(fit)*lh + 2*pad
		e.setFillColor(*st.Fill)
		e.pdf.Rect(e.left, y, e.contentW, h, "F")
		for i, line := range lines[:fit] {
			e.pdf.SetXY(e.left+pad, y+pad+float64(i)*lh)
			e.pdf.CellFormat(e.contentW-2*pad, lh, line, "", 0, cellAlign(st.Align), false, 0, "")
		}
		e.pdf.SetY(y + h)

		lines = lines[fit:]
		if len(lines) > 0 {
			e.pageBreak()
		}
	}
}

func (e *engine) separator(s document.Separator) {
	ratio := s.WidthRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	w := e.contentW * ratio
	x := e.left + (e.contentW-w)/2
	y := e.pdf.GetY() + separatorSpace
	e.setDrawColor(s.Color)
	e.pdf.SetLineWidth(pt(1))
	e.pdf.Line(x, y, x+w, y)
	e.advance(2 * separatorSpace)
}

// cellLine 单元格中已折好的一行，caption 表示说明文字
type cellLine struct {
	text    string
	caption bool
}

type cellBox struct {
	lines []cellLine
	bold  bool
}

// tableMetrics 同一张表共用的字号与行高
type tableMetrics struct {
	x0      float64
	pad     float64
	size    float64
	capSize float64
	lh, clh float64
}

func (m tableMetrics) lineHeight(l cellLine) float64 {
	if l.caption {
		return m.clh
	}
	return m.lh
}

func (m tableMetrics) boxHeight(b cellBox) float64 {
	h := 0.0
	for _, l := range b.lines {
		h += m.lineHeight(l)
	}
	return h
}

func (m tableMetrics) rowHeight(boxes []cellBox) float64 {
	h := 0.0
	for _, b := range boxes {
		h = math.Max(h, m.boxHeight(b))
	}
	return h + 2*cellPadding
}

// take 从每个单元格取出高度不超过 avail 的前若干行。
// force 为 true 时每个非空单元格至少取一行。
func (m tableMetrics) take(boxes []cellBox, avail float64, force bool) (seg, rest []cellBox) {
	seg = make([]cellBox, len(boxes))
	rest = make([]cellBox, len(boxes))
	for i, b := range boxes {
		n, h := 0, 0.0
		for n < len(b.lines) && h+m.lineHeight(b.lines[n]) <= avail {
			h += m.lineHeight(b.lines[n])
			n++
		}
		if n == 0 && force && len(b.lines) > 0 {
			n = 1
		}
		seg[i] = cellBox{lines: b.lines[:n], bold: b.bold}
		rest[i] = cellBox{lines: b.lines[n:], bold: b.bold}
	}
	return seg, rest
}

func emptyBoxes(boxes []cellBox) bool {
	for _, b := range boxes {
		if len(b.lines) > 0 {
			return false
		}
	}
	return true
}

func (e *engine) table(t document.Table) {
	st := t.Style
	if len(t.Widths) == 0 || len(t.Rows) == 0 {
		return
	}

	// 行高在换页检查之前算好，绘制时不允许 fpdf 自动换页
	e.setAutoBreak(false)
	defer e.setAutoBreak(true)

	total := 0.0
	for _, w := range t.Widths {
		total += w
	}
	m := tableMetrics{
		x0:      (e.pageW - total) / 2,
		pad:     pt(st.Padding),
		size:    st.FontSize,
		capSize: st.FontSize - captionShrink,
	}
	m.lh, m.clh = pt(m.size*1.2), pt(m.capSize*1.2)

	for r, row := range t.Rows {
		header := r == 0 && st.HeaderFill != nil
		dataRow := r
		if st.HeaderFill != nil {
			dataRow = r - 1
		}
		if len(row) > len(t.Widths) {
			row = row[:len(t.Widths)]
		}

		boxes := make([]cellBox, len(row))
		for c, cell := range row {
			inner := t.Widths[c] - 2*m.pad
			b := cellBox{bold: cell.Label || header}
			e.setFont(m.size, b.bold)
			for _, line := range e.split(cell.Text, inner) {
				b.lines = append(b.lines, cellLine{text: line})
			}
			if cell.Caption != "" {
				e.setFont(m.capSize, false)
				for _, line := range e.split(cell.Caption, inner) {
					b.lines = append(b.lines, cellLine{text: line, caption: true})
				}
			}
			boxes[c] = b
		}
		e.tableRow(t, boxes, m, dataRow, header)
	}
}

// tableRow 绘制一行。高度超过一页的行按文本行切分，续行在下一页重画格线。
func (e *engine) tableRow(t document.Table, boxes []cellBox, m tableMetrics, dataRow int, header bool) {
	rowH := m.rowHeight(boxes)
	if rowH <= e.bottom-e.top {
		e.ensure(rowH)
		e.drawRow(t, boxes, m, rowH, dataRow, header, t.Style.VAlign)
		return
	}

	for !emptyBoxes(boxes) {
		seg, rest := m.take(boxes, e.bottom-e.pdf.GetY()-2*cellPadding, e.atTop())
		if emptyBoxes(seg) {
			e.pageBreak()
			continue
		}
		e.drawRow(t, seg, m, m.rowHeight(seg), dataRow, header, document.VAlignTop)
		boxes = rest
		if !emptyBoxes(boxes) {
			e.pageBreak()
		}
	}
}

func (e *engine) drawRow(t document.Table, boxes []cellBox, m tableMetrics, rowH float64, dataRow int, header bool, valign document.VAlign) {
	st := t.Style
	y := e.pdf.GetY()
	x := m.x0
	for c, b := range boxes {
		w := t.Widths[c]
		if fill := cellFill(st, c, dataRow, header); fill != nil {
			e.setFillColor(*fill)
			e.pdf.Rect(x, y, w, rowH, "F")
		}
		e.setDrawColor(st.Grid)
		e.pdf.SetLineWidth(gridLineWidth)
		e.pdf.Rect(x, y, w, rowH, "D")

		ty := y + cellPadding
		if valign == document.VAlignMiddle {
			ty = y + (rowH-m.boxHeight(b))/2
		}
		color, align := document.Black, "L"
		if header {
			color, align = st.HeaderText, "C"
		}
		for _, line := range b.lines {
			lh := m.lineHeight(line)
			if line.caption {
				e.setFont(m.capSize, false)
				e.setTextColor(captionColor)
			} else {
				e.setFont(m.size, b.bold)
				e.setTextColor(color)
			}
			e.pdf.SetXY(x+m.pad, ty)
			e.pdf.CellFormat(w-2*m.pad, lh, line.text, "", 0, align, false, 0, "")
			ty += lh
		}
		x += w
	}
	e.pdf.SetY(y + rowH)
}

// cellFill 表头底色优先，其次标签列，最后是行交替色
func cellFill(st document.TableStyle, col, dataRow int, header bool) *document.RGB {
	if header {
		return st.HeaderFill
	}
	if st.IsLabelColumn(col) {
		c := st.LabelFill
		return &c
	}
	return st.RowFill(dataRow)
}

// split 按当前字体折行，返回已编码、可直接输出的行
func (e *engine) split(text string, w float64) []string {
	if text == "" {
		return []string{""}
	}
	if e.font.UTF8 {
		lines := e.pdf.SplitText(e.tr(text), w)
		if len(lines) == 0 {
			return []string{""}
		}
		return lines
	}

	// 内置字体的宽度表只有 256 项，先把 cp1252 字节逐个映射为 rune 再折行
	lines := e.pdf.SplitText(widen(e.tr(text)), w)
	if len(lines) == 0 {
		return []string{""}
	}
	for i, line := range lines {
		lines[i] = narrow(line)
	}
	return lines
}

// bmpOnly 把基本多文种平面以外的字符 (如 emoji) 替换为 U+FFFD，
// fpdf 的 UTF-8 宽度表只有 65536 项
func bmpOnly(s string) string {
	if strings.IndexFunc(s, func(r rune) bool { return r > 0xFFFF }) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return utf8.RuneError
		}
		return r
	}, s)
}

func widen(s string) string {
	r := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		r[i] = rune(s[i])
	}
	return string(r)
}

func narrow(s string) string {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		b = append(b, byte(r))
	}
	return string(b)
}

func multiAlign(a document.Align) string {
	switch a {
	case document.AlignCenter:
		return "C"
	case document.AlignJustify:
		return "J"
	default:
		return "L"
	}
}

func cellAlign(a document.Align) string {
	if a == document.AlignCenter {
		return "C"
	}
	return "L"
}

func (e *engine) setFont(size float64, bold bool) {
	fs := fontState{family: "Helvetica", size: size}
	if e.font.UTF8 {
		fs.family = e.font.Family
	} else if bold {
		fs.style = "B"
	}
	e.applyFont(fs)
}

func (e *engine) applyFont(fs fontState) {
	if fs.family == "" {
		return
	}
	e.pdf.SetFont(fs.family, fs.style, fs.size)
	e.cur = fs
}

func (e *engine) setFillColor(c document.RGB) { e.pdf.SetFillColor(c.R, c.G, c.B) }
func (e *engine) setTextColor(c document.RGB) { e.pdf.SetTextColor(c.R, c.G, c.B) }
func (e *engine) setDrawColor(c document.RGB) { e.pdf.SetDrawColor(c.R, c.G, c.B) }

// Surface

func (e *engine) PageNo() int { return e.pdf.PageNo() }

func (e *engine) PageSize() (float64, float64) { return e.pageW, e.pageH }

func (e *engine) SaveState() {
	st := drawState{font: e.cur, lineWidth: e.pdf.GetLineWidth()}
	st.fill.R, st.fill.G, st.fill.B = e.pdf.GetFillColor()
	st.text.R, st.text.G, st.text.B = e.pdf.GetTextColor()
	st.draw.R, st.draw.G, st.draw.B = e.pdf.GetDrawColor()
	e.saved = append(e.saved, st)
}

func (e *engine) RestoreState() {
	if len(e.saved) == 0 {
		return
	}
	st := e.saved[len(e.saved)-1]
	e.saved = e.saved[:len(e.saved)-1]
	e.applyFont(st.font)
	e.setFillColor(st.fill)
	e.setTextColor(st.text)
	e.setDrawColor(st.draw)
	e.pdf.SetLineWidth(st.lineWidth)
}

func (e *engine) FillRect(x, y, w, h float64, c document.RGB) {
	e.setFillColor(c)
	e.pdf.Rect(x, y, w, h, "F")
}

func (e *engine) Line(x1, y1, x2, y2, width float64, c document.RGB) {
	e.setDrawColor(c)
	e.pdf.SetLineWidth(width)
	e.pdf.Line(x1, y1, x2, y2)
}

func (e *engine) DrawString(x, y float64, s string, f TextFont, anchor Anchor) {
	e.setFont(f.Size, f.Bold)
	e.setTextColor(f.Color)
	txt := e.tr(s)
	switch anchor {
	case AnchorCenter:
		x -= e.pdf.GetStringWidth(txt) / 2
	case AnchorRight:
		x -= e.pdf.GetStringWidth(txt)
	}
	e.pdf.Text(x, y, txt)
}
