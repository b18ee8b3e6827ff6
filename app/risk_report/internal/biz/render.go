package biz

import (
	"context"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/risk_report/app/risk_report/pkg/assessment"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/config"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/report"
)

var (
	// ErrMissingRequiredField PO 号或工厂名称未填写
	ErrMissingRequiredField = errors.BadRequest("MISSING_REQUIRED_FIELD", "Please fill in at least PO Number and Factory Name!")
	// ErrInvalidForm 表单内容无法解析
	ErrInvalidForm = errors.BadRequest("INVALID_FORM", "invalid form")
	// ErrLayoutBuildFailed 排版失败
	ErrLayoutBuildFailed = errors.InternalServer("LAYOUT_BUILD_FAILED", "failed to build report layout")
)

// RenderRun 一次渲染的归档记录，不保存 PDF 本身
type RenderRun struct {
	ID          string
	PONumber    string
	FactoryName string
	City        string
	Language    string
	FileName    string
	Pages       int
	SizeBytes   int
	Diagnostics int
	CreatedAt   time.Time
}

type RenderRepo interface {
	SaveRun(ctx context.Context, run *RenderRun) error
	ListRuns(ctx context.Context, page, pageSize int) ([]*RenderRun, int, error)
}

// Renderer 报告渲染能力，*report.Assembler 实现该接口
type Renderer interface {
	Render(ctx context.Context, rec *assessment.Record, lang assessment.Language,
		loc assessment.LocationSettings) (*report.Output, error)
}

// RenderRequest 一次渲染请求
type RenderRequest struct {
	Form     *assessment.Form
	Language assessment.LanguageSettings
	Location assessment.LocationSettings
}

type RenderUseCase struct {
	repo        RenderRepo
	renderer    Renderer
	tz          *time.Location
	defaultCity string
	now         func() time.Time
	log         *log.Helper
}

func NewRenderUseCase(repo RenderRepo, renderer Renderer, cfg *config.Config, logger log.Logger) *RenderUseCase {
	return &RenderUseCase{
		repo:        repo,
		renderer:    renderer,
		tz:          cfg.Report.Location(),
		defaultCity: cfg.Report.DefaultCity,
		now:         time.Now,
		log:         log.NewHelper(logger),
	}
}

// Render 校验必填项后渲染报告，并归档渲染记录。归档失败不影响返回结果。
func (uc *RenderUseCase) Render(ctx context.Context, req *RenderRequest) (*report.Output, error) {
	form := req.Form
	if form == nil {
		form = &assessment.Form{}
	}
	rec, err := form.ToRecord(uc.now().In(uc.tz))
	if err != nil {
		return nil, ErrInvalidForm.WithCause(err).WithMetadata(map[string]string{"detail": err.Error()})
	}
	if missing := rec.MissingRequired(); len(missing) > 0 {
		return nil, ErrMissingRequiredField.WithMetadata(map[string]string{"fields": strings.Join(missing, ",")})
	}

	lang := req.Language.PDF
	if lang == "" {
		lang = assessment.English
	}
	loc := req.Location
	if loc.City == "" {
		loc.City = uc.defaultCity
	}

	out, err := uc.renderer.Render(ctx, rec, lang, loc)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("render failed: po=%s err=%v", rec.PONumber, err)
		if errors.Is(err, report.ErrLayout) {
			return nil, ErrLayoutBuildFailed.WithCause(err)
		}
		return nil, errors.InternalServer("RENDER_FAILED", err.Error()).WithCause(err)
	}

	run := &RenderRun{
		ID:          out.ID.String(),
		PONumber:    rec.PONumber,
		FactoryName: rec.FactoryName,
		City:        loc.City,
		Language:    string(lang),
		FileName:    out.Filename,
		Pages:       out.Pages,
		SizeBytes:   len(out.PDF),
		Diagnostics: len(out.Diagnostics),
		CreatedAt:   out.GeneratedAt,
	}
	if err := uc.repo.SaveRun(ctx, run); err != nil {
		uc.log.WithContext(ctx).Warnf("save render run %s: %v", run.ID, err)
	}
	return out, nil
}

// List 分页列出渲染记录
func (uc *RenderUseCase) List(ctx context.Context, page, pageSize int) ([]*RenderRun, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return uc.repo.ListRuns(ctx, page, pageSize)
}
