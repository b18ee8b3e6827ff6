package document

import (
	"context"
	"fmt"
	"time"

	"github.com/iWorld-y/risk_report/app/risk_report/pkg/assessment"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/diag"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/fonts"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/translate"
)

// 空白占位
const (
	EmptyValue      = "-"
	NamePlaceholder = "_________________"
	DatePlaceholder = "__________"
)

// DefaultBanner 首页抬头
const DefaultBanner = "PRODUCTION RISK ASSESSMENT REPORT"

// 报告中的固定文案，中文报告时逐条翻译
const (
	textTitle       = "Production Risk Assessment Report"
	textReportDate  = "Report Date:"
	textBasicInfo   = "1. BASIC INFORMATION"
	textRiskMatrix  = "2. RISK ASSESSMENT MATRIX"
	textComments    = "3. DEPARTMENT COMMENTS"
	textConclusions = "4. CONCLUSION & APPROVALS"
	textRiskStage   = "Risk Stage"
	textDescription = "Description"
	textCAP         = "CAP Description"
	textConclusion  = "Conclusion:"
	textDate        = "Date:"
	textProcessNote = "Note: QC will send this report to office together with final inspection report. " +
		"Office assistant will upload to ERP system and send email to factory/agent accordingly."
	textConfidential = "This report is confidential and property of the company. Unauthorized distribution is prohibited."
)

var (
	commentLabels = map[assessment.Department]string{
		assessment.Sales:     "Sales Comments:",
		assessment.Technical: "Technical Comments:",
		assessment.QC:        "QC Manager Comments:",
	}
	signatureLabels = map[assessment.Department]string{
		assessment.Sales:     "Sales:",
		assessment.Technical: "Technical:",
		assessment.QC:        "QC Manager:",
	}
)

// Translator 标签翻译，*translate.Cache 实现该接口
type Translator interface {
	Lookup(ctx context.Context, text string, target assessment.Language) translate.Result
}

// Builder 内容块构建器，可并发使用
type Builder struct {
	translator Translator
	banner     string
	clock      func() time.Time
	location   *time.Location
}

// Option Builder 构造选项
type Option func(*Builder)

// WithBanner 设置首页抬头
func WithBanner(s string) Option {
	return func(b *Builder) {
		if s != "" {
			b.banner = s
		}
	}
}

// WithClock 替换时钟
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.clock = now }
}

// WithTimeZone 设置报告日期与生成时间所用时区
func WithTimeZone(loc *time.Location) Option {
	return func(b *Builder) {
		if loc != nil {
			b.location = loc
		}
	}
}

// NewBuilder 创建构建器，translator 为 nil 时标签保持英文
func NewBuilder(t Translator, opts ...Option) *Builder {
	b := &Builder{
		translator: t,
		banner:     DefaultBanner,
		clock:      time.Now,
		location:   time.UTC,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build 生成内容块。只翻译固定标签，用户填写的内容原样输出。
// 翻译失败不会中断构建，诊断记录在 Document.Diagnostics 中。
func (b *Builder) Build(ctx context.Context, rec *assessment.Record, lang assessment.Language,
	loc assessment.LocationSettings, font fonts.Font) *Document {
	s := &session{
		ctx:       ctx,
		builder:   b,
		lang:      lang,
		collector: diag.NewCollector(),
	}
	now := b.clock().In(b.location)

	s.masthead(loc, now)
	s.basicInfo(rec)
	s.riskMatrix(rec)
	s.add(PageBreak{})
	s.comments(rec)
	s.conclusion(rec)
	s.closing()

	return &Document{
		Blocks:      s.blocks,
		Font:        font,
		Language:    lang,
		Location:    loc,
		GeneratedAt: now,
		Diagnostics: s.collector.Items(),
	}
}

// session 单次构建的状态
type session struct {
	ctx       context.Context
	builder   *Builder
	lang      assessment.Language
	collector *diag.Collector
	blocks    []Block
}

func (s *session) add(blocks ...Block) {
	s.blocks = append(s.blocks, blocks...)
}

// tr 翻译固定文案，英文报告直接返回
func (s *session) tr(text string) string {
	if s.lang != assessment.Mandarin || s.builder.translator == nil {
		return text
	}
	res := s.builder.translator.Lookup(s.ctx, text, s.lang)
	if res.Diag != nil {
		s.collector.Add(*res.Diag)
	}
	return res.Text
}

func (s *session) heading(text string) {
	s.add(Paragraph{Text: s.tr(text), Style: HeadingStyle})
}

func (s *session) masthead(loc assessment.LocationSettings, now time.Time) {
	s.add(
		Spacer{Height: 10},
		Paragraph{Text: s.builder.banner, Style: BannerStyle},
		Paragraph{Text: s.tr(textTitle), Style: TitleStyle},
		Paragraph{Text: loc.Line(s.lang), Style: SubtitleStyle},
		Paragraph{Text: s.tr(textReportDate) + " " + now.Format(assessment.DateLayout), Style: SubtitleStyle},
		Separator{WidthRatio: 0.8, Color: Primary},
		Spacer{Height: 15},
	)
}

func (s *session) basicInfo(rec *assessment.Record) {
	s.heading(textBasicInfo)
	s.add(Spacer{Height: 5})

	label := func(text string) Cell { return Cell{Text: s.tr(text), Label: true} }
	s.add(
		Table{
			Widths: []float64{Inch(1.5), Inch(2.0), Inch(1.5), Inch(2.0)},
			Rows: [][]Cell{
				{label("PO / Order Number:"), value(rec.PONumber), label("Style / Model:"), value(rec.Style)},
				{label("Brand / Trademark:"), value(rec.Brand), label("Sales / Business:"), value(rec.SalesPerson)},
				{label("Factory Name:"), value(rec.FactoryName), label("Assessment Date:"), value(rec.AssessmentDate)},
			},
			Style: BasicInfoTable,
		},
		Spacer{Height: 15},
	)
}

func (s *session) riskMatrix(rec *assessment.Record) {
	s.heading(textRiskMatrix)
	s.add(Spacer{Height: 5})

	rows := [][]Cell{{
		{Text: s.tr(textRiskStage), Label: true},
		{Text: s.tr(textDescription), Label: true},
		{Text: s.tr(textCAP), Label: true},
	}}
	for _, c := range assessment.RiskCategories {
		risk := rec.Risk(c)
		rows = append(rows, []Cell{
			{
				Text:    s.tr(fmt.Sprintf("%d. %s", c.Number(), c.Title())),
				Caption: s.tr(c.Caption()),
				Label:   true,
			},
			value(risk.Description),
			value(risk.CAP),
		})
	}
	s.add(
		Table{
			Widths: []float64{Inch(1.8), Inch(2.5), Inch(2.5)},
			Rows:   rows,
			Style:  RiskMatrixTable,
		},
		Spacer{Height: 20},
	)
}

func (s *session) comments(rec *assessment.Record) {
	s.heading(textComments)
	s.add(Spacer{Height: 10})

	for i, d := range assessment.Departments {
		s.add(
			Paragraph{Text: s.tr(commentLabels[d]), Style: SubheadingStyle},
			Paragraph{Text: orDash(rec.Comments.Of(d)), Style: BodyStyle},
		)
		if i < len(assessment.Departments)-1 {
			s.add(Spacer{Height: 8})
		}
	}
	s.add(Spacer{Height: 15})
}

func (s *session) conclusion(rec *assessment.Record) {
	s.heading(textConclusions)
	s.add(
		Spacer{Height: 10},
		Paragraph{Text: s.tr(textConclusion), Style: SubheadingStyle},
		Paragraph{Text: orDash(rec.Conclusion), Style: BodyStyle},
		Spacer{Height: 15},
	)

	var rows [][]Cell
	for _, d := range assessment.Departments {
		sig := rec.Signatures.Of(d)
		rows = append(rows, []Cell{
			{Text: s.tr(signatureLabels[d]), Label: true},
			{Text: orPlaceholder(sig.Name, NamePlaceholder)},
			{Text: s.tr(textDate), Label: true},
			{Text: formatDate(sig.Date)},
		})
	}
	s.add(Table{
		Widths: []float64{Inch(1.2), Inch(2.3), Inch(0.8), Inch(1.5)},
		Rows:   rows,
		Style:  SignatureTable,
	})
}

func (s *session) closing() {
	s.add(
		Spacer{Height: 20},
		Paragraph{Text: s.tr(textProcessNote), Style: NoteStyle},
		Spacer{Height: 10},
		Paragraph{Text: s.tr(textConfidential), Style: NoteStyle},
	)
}

func value(v string) Cell {
	return Cell{Text: orDash(v)}
}

func orDash(v string) string {
	return orPlaceholder(v, EmptyValue)
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return DatePlaceholder
	}
	return t.Format(assessment.DateLayout)
}
