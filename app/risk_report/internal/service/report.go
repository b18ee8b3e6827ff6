package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/risk_report/app/risk_report/internal/biz"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/assessment"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/report"
)

const (
	OperationCreateReport = "/risk_report.v1.Report/CreateReport"
	OperationListCities   = "/risk_report.v1.Report/ListCities"
	OperationListRenders  = "/risk_report.v1.Report/ListRenders"
)

// CreateReportRequest 表单字段平铺在顶层，语言与地点设置附加在同一个对象中
type CreateReportRequest struct {
	assessment.Form
	UILanguage  string `json:"ui_language"`
	PDFLanguage string `json:"pdf_language"`
	City        string `json:"city"`
}

type CityReply struct {
	Name      string `json:"name"`
	LocalName string `json:"local_name"`
}

type ListCitiesReply struct {
	Cities      []CityReply `json:"cities"`
	DefaultCity string      `json:"default_city"`
}

type RenderSummary struct {
	ID          string `json:"id"`
	PONumber    string `json:"po_number"`
	FactoryName string `json:"factory"`
	City        string `json:"city"`
	Language    string `json:"language"`
	FileName    string `json:"file_name"`
	Pages       int    `json:"pages"`
	SizeBytes   int    `json:"size_bytes"`
	Diagnostics int    `json:"diagnostics"`
	CreatedAt   string `json:"created_at"`
}

type ListRendersReply struct {
	Renders []*RenderSummary `json:"renders"`
	Total   int              `json:"total"`
}

type ReportService struct {
	uc  *biz.RenderUseCase
	log *log.Helper
}

func NewReportService(uc *biz.RenderUseCase, logger log.Logger) *ReportService {
	return &ReportService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

// RegisterRoutes 注册 HTTP 路由
func (s *ReportService) RegisterRoutes(srv *http.Server) {
	r := srv.Route("/api/v1")
	r.POST("/reports", s.createReportHandler)
	r.GET("/cities", s.listCitiesHandler)
	r.GET("/renders", s.listRendersHandler)
}

// CreateReport 渲染报告
func (s *ReportService) CreateReport(ctx context.Context, req *CreateReportRequest) (*report.Output, error) {
	ui, err := assessment.ParseLanguage(req.UILanguage)
	if err != nil {
		return nil, errors.BadRequest("INVALID_LANGUAGE", err.Error())
	}
	pdf, err := assessment.ParseLanguage(req.PDFLanguage)
	if err != nil {
		return nil, errors.BadRequest("INVALID_LANGUAGE", err.Error())
	}

	return s.uc.Render(ctx, &biz.RenderRequest{
		Form:     &req.Form,
		Language: assessment.LanguageSettings{UI: ui, PDF: pdf},
		Location: assessment.LocationSettings{City: req.City},
	})
}

// ListCities 返回可选城市
func (s *ReportService) ListCities(ctx context.Context) (*ListCitiesReply, error) {
	cities := assessment.Cities()
	reply := &ListCitiesReply{
		Cities:      make([]CityReply, 0, len(cities)),
		DefaultCity: assessment.DefaultCity,
	}
	for _, c := range cities {
		reply.Cities = append(reply.Cities, CityReply{Name: c.Name, LocalName: c.LocalName})
	}
	return reply, nil
}

// ListRenders 分页列出渲染记录
func (s *ReportService) ListRenders(ctx context.Context, page, pageSize int) (*ListRendersReply, error) {
	runs, total, err := s.uc.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]*RenderSummary, 0, len(runs))
	for _, r := range runs {
		list = append(list, &RenderSummary{
			ID:          r.ID,
			PONumber:    r.PONumber,
			FactoryName: r.FactoryName,
			City:        r.City,
			Language:    r.Language,
			FileName:    r.FileName,
			Pages:       r.Pages,
			SizeBytes:   r.SizeBytes,
			Diagnostics: r.Diagnostics,
			CreatedAt:   r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return &ListRendersReply{Renders: list, Total: total}, nil
}

func (s *ReportService) createReportHandler(ctx http.Context) error {
	var in CreateReportRequest
	if err := ctx.Bind(&in); err != nil {
		return errors.BadRequest("INVALID_REQUEST", err.Error())
	}
	http.SetOperation(ctx, OperationCreateReport)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.CreateReport(ctx, req.(*CreateReportRequest))
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	reply := out.(*report.Output)

	header := ctx.Response().Header()
	header.Set("Content-Disposition", contentDisposition(reply.Filename))
	header.Set("X-Render-Id", reply.ID.String())
	header.Set("X-Render-Pages", strconv.Itoa(reply.Pages))
	header.Set("X-Render-Diagnostics", strconv.Itoa(len(reply.Diagnostics)))
	return ctx.Blob(200, "application/pdf", reply.PDF)
}

func (s *ReportService) listCitiesHandler(ctx http.Context) error {
	http.SetOperation(ctx, OperationListCities)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.ListCities(ctx)
	})
	out, err := h(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *ReportService) listRendersHandler(ctx http.Context) error {
	q := ctx.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	http.SetOperation(ctx, OperationListRenders)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.ListRenders(ctx, page, pageSize)
	})
	out, err := h(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

// contentDisposition 生成下载头。filename 只含 ASCII，原始文件名放在 RFC 5987 的 filename* 中。
func contentDisposition(name string) string {
	ascii := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	if ascii == name {
		return fmt.Sprintf("attachment; filename=%q", name)
	}
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", ascii, url.PathEscape(name))
}
