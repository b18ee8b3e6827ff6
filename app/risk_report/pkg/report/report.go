// Package report 串联字体解析、内容构建与排版，输出最终的 PDF。
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/iWorld-y/risk_report/app/risk_report/pkg/assessment"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/config"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/diag"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/document"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/fonts"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/layout"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/logger"
)

// ErrLayout 排版失败，不产生任何输出
var ErrLayout = errors.New("layout build failed")

// FontResolver 字体解析，*fonts.Resolver 实现该接口
type FontResolver interface {
	Resolve(ctx context.Context, lang assessment.Language) (fonts.Font, []diag.Diagnostic)
}

// Output 一次渲染的结果
type Output struct {
	ID          uuid.UUID
	PDF         []byte
	Filename    string
	Pages       int
	GeneratedAt time.Time
	Language    assessment.Language
	Location    assessment.LocationSettings
	Font        string
	Diagnostics []diag.Diagnostic
}

// Assembler 报告装配器，可并发使用
type Assembler struct {
	builder *document.Builder
	fonts   FontResolver
	opts    layout.Options
}

// NewAssembler 创建装配器
func NewAssembler(builder *document.Builder, resolver FontResolver, opts layout.Options) *Assembler {
	return &Assembler{builder: builder, fonts: resolver, opts: opts}
}

// New 按配置创建装配器，translator 可以为 nil
func New(cfg *config.Config, translator document.Translator) *Assembler {
	builder := document.NewBuilder(translator,
		document.WithBanner(cfg.Report.Banner),
		document.WithTimeZone(cfg.Report.Location()),
	)
	opts := layout.Options{
		HeaderTitle: cfg.Report.Banner,
		Compress:    cfg.Report.Compression(),
		Creator:     "risk_report",
	}
	return NewAssembler(builder, fonts.NewResolver(cfg.Fonts), opts)
}

// Render 渲染一份报告。翻译与字体问题只产生诊断，排版失败返回 ErrLayout。
func (a *Assembler) Render(ctx context.Context, rec *assessment.Record, lang assessment.Language,
	loc assessment.LocationSettings) (*Output, error) {
	if loc.City == "" {
		loc.City = assessment.DefaultCity
	}

	collector := diag.NewCollector()
	font, fontDiags := a.fonts.Resolve(ctx, lang)
	for _, d := range fontDiags {
		collector.Add(d)
	}

	doc := a.builder.Build(ctx, rec, lang, loc, font)
	for _, d := range doc.Diagnostics {
		collector.Add(d)
	}

	res, err := layout.Render(doc, a.opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLayout, err)
	}

	out := &Output{
		ID:          uuid.New(),
		PDF:         res.PDF,
		Filename:    FileName(rec.PONumber, loc.City, doc.GeneratedAt),
		Pages:       res.Pages,
		GeneratedAt: doc.GeneratedAt,
		Language:    lang,
		Location:    loc,
		Font:        font.Family,
		Diagnostics: collector.Items(),
	}
	for _, d := range out.Diagnostics {
		logger.Log.Warnf("[%s] %s", out.ID, d)
	}
	logger.Log.Infof("报告生成完成 [%s]: %s, %d 页, %d 字节", out.ID, out.Filename, out.Pages, len(out.PDF))
	return out, nil
}

// FileName Risk_Assessment_Report_<PO>_<City>_<YYYYmmdd_HHMMSS>.pdf
func FileName(po, city string, at time.Time) string {
	return fmt.Sprintf("Risk_Assessment_Report_%s_%s_%s.pdf",
		sanitize(po, "NA"), sanitize(city, assessment.DefaultCity), at.Format("20060102_150405"))
}

// sanitize 只保留字母、数字、'-' 与 '_'，其余字符替换为 '_'
func sanitize(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
}
