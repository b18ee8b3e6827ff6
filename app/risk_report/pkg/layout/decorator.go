package layout

import (
	"fmt"
	"time"

	"github.com/iWorld-y/risk_report/app/risk_report/pkg/document"
)

// 页眉页脚尺寸 (mm)
var (
	headerHeight   = inch(0.6)
	headerBaseline = inch(0.4)
	footerHeight   = inch(0.7)
	footerBaseline = inch(0.25)
	footerInset    = inch(0.5)
)

const (
	headerFontSize = 12
	footerFontSize = 8
	ruleWidth      = 1 // pt
)

// Decorator 在内容落到页面后绘制页眉页脚。
// 首页只有页脚，其余页面页眉页脚都有；每页只绘制一次。
type Decorator struct {
	title     string
	location  string
	generated string

	done map[int]bool
}

// NewDecorator 创建装饰器。location 为页脚左侧的地点文本，
// generated 为本次渲染的生成时间，所有页面共用。
func NewDecorator(title, location string, generated time.Time) *Decorator {
	if title == "" {
		title = document.DefaultBanner
	}
	return &Decorator{
		title:     title,
		location:  location,
		generated: fmt.Sprintf("Generated: %s", generated.Format("2006-01-02 15:04:05")),
		done:      make(map[int]bool),
	}
}

// AfterBlock 每个内容块放置后调用。分页块本身不触发绘制。
func (d *Decorator) AfterBlock(s Surface, b document.Block) {
	if _, ok := b.(document.PageBreak); ok {
		return
	}
	d.decorate(s)
}

// PageFilled 内容溢出导致换页前调用，当前页已有内容
func (d *Decorator) PageFilled(s Surface) {
	d.decorate(s)
}

// Decorated 返回已绘制的页码数
func (d *Decorator) Decorated() int {
	return len(d.done)
}

func (d *Decorator) decorate(s Surface) {
	page := s.PageNo()
	if page < 1 || d.done[page] {
		return
	}
	d.done[page] = true

	s.SaveState()
	defer s.RestoreState()

	w, h := s.PageSize()
	if page > 1 {
		s.FillRect(0, 0, w, headerHeight, document.Primary)
		s.DrawString(w/2, headerBaseline, d.title,
			TextFont{Size: headerFontSize, Bold: true, Color: document.White}, AnchorCenter)
	}

	top := h - footerHeight
	s.FillRect(0, top, w, footerHeight, document.FooterFill)
	s.Line(0, top, w, top, pt(ruleWidth), document.Primary)

	f := TextFont{Size: footerFontSize, Color: document.FooterText}
	y := h - footerBaseline
	s.DrawString(footerInset, y, d.location, f, AnchorLeft)
	s.DrawString(w/2, y, d.generated, f, AnchorCenter)
	s.DrawString(w-footerInset, y, fmt.Sprintf("Page %d", page), f, AnchorRight)
}
