package service

import (
	"bytes"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/risk_report/app/risk_report/internal/biz"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/config"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/report"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/translate"
)

// mockRenderRepo 内存版渲染记录仓库
type mockRenderRepo struct {
	runs []*biz.RenderRun
}

func (m *mockRenderRepo) SaveRun(ctx context.Context, run *biz.RenderRun) error {
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockRenderRepo) ListRuns(ctx context.Context, page, pageSize int) ([]*biz.RenderRun, int, error) {
	return m.runs, len(m.runs), nil
}

func newTestServer(repo biz.RenderRepo) *http.Server {
	cfg := config.Default()
	uc := biz.NewRenderUseCase(repo, report.New(cfg, translate.NewCache(nil)), cfg, log.DefaultLogger)
	srv := http.NewServer()
	NewReportService(uc, log.DefaultLogger).RegisterRoutes(srv)
	return srv
}

func do(srv *http.Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestCreateReport(t *testing.T) {
	repo := &mockRenderRepo{}
	srv := newTestServer(repo)

	body := `{"po_number":"PO-2024-001","factory":"ABC Mfg","city":"Shenzhen","pdf_language":"en",
		"risks":{"material":{"description":"Sole delamination risk at seam X","cap":"Extra bonding test"}}}`
	rec := do(srv, nethttp.MethodPost, "/api/v1/reports", body)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Risk_Assessment_Report_PO-2024-001_Shenzhen_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Errorf("body is not a PDF")
	}
	if len(repo.runs) != 1 || repo.runs[0].City != "Shenzhen" {
		t.Errorf("runs = %+v", repo.runs)
	}
}

func TestCreateReportMissingRequired(t *testing.T) {
	srv := newTestServer(&mockRenderRepo{})
	rec := do(srv, nethttp.MethodPost, "/api/v1/reports", `{"po_number":"PO-1"}`)
	if rec.Code != nethttp.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "MISSING_REQUIRED_FIELD") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCreateReportBadLanguage(t *testing.T) {
	srv := newTestServer(&mockRenderRepo{})
	rec := do(srv, nethttp.MethodPost, "/api/v1/reports", `{"po_number":"PO-1","factory":"F","pdf_language":"fr"}`)
	if rec.Code != nethttp.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestListCities(t *testing.T) {
	rec := do(newTestServer(&mockRenderRepo{}), nethttp.MethodGet, "/api/v1/cities", "")
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var reply ListCitiesReply
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(reply.Cities) != 40 || reply.DefaultCity != "Shanghai" {
		t.Errorf("reply = %d cities, default %q", len(reply.Cities), reply.DefaultCity)
	}
}

func TestListRenders(t *testing.T) {
	repo := &mockRenderRepo{runs: []*biz.RenderRun{{ID: "a", PONumber: "PO-1"}}}
	rec := do(newTestServer(repo), nethttp.MethodGet, "/api/v1/renders?page=1&page_size=5", "")
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var reply ListRendersReply
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reply.Total != 1 || reply.Renders[0].PONumber != "PO-1" {
		t.Errorf("reply = %+v", reply)
	}
}

func TestCreateReportNonASCIIFilename(t *testing.T) {
	srv := newTestServer(&mockRenderRepo{})
	body := `{"po_number":"订单-1","factory":"广州制衣厂","city":"Ürümqi","pdf_language":"en"}`
	rec := do(srv, nethttp.MethodPost, "/api/v1/reports", body)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	cd := rec.Header().Get("Content-Disposition")
	for i := 0; i < len(cd); i++ {
		if cd[i] > 0x7e {
			t.Fatalf("Content-Disposition has non-ASCII byte: %q", cd)
		}
	}
	if !strings.Contains(cd, `filename="Risk_Assessment_Report___-1_`) {
		t.Errorf("ASCII fallback missing: %q", cd)
	}
	if !strings.Contains(cd, "filename*=UTF-8''Risk_Assessment_Report_%E8%AE%A2%E5%8D%95-1_%C3%9Cr%C3%BCmqi_") {
		t.Errorf("encoded filename missing: %q", cd)
	}
}

func TestContentDisposition(t *testing.T) {
	tests := []struct {
		name, want string
	}{
		{"Risk_Assessment_Report_PO-1_Shanghai_20240506_102030.pdf",
			`attachment; filename="Risk_Assessment_Report_PO-1_Shanghai_20240506_102030.pdf"`},
		{"订单.pdf", `attachment; filename="__.pdf"; filename*=UTF-8''%E8%AE%A2%E5%8D%95.pdf`},
	}
	for _, tt := range tests {
		if got := contentDisposition(tt.name); got != tt.want {
			t.Errorf("contentDisposition(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
