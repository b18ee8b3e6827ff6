package fonts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/iWorld-y/risk_report/app/risk_report/pkg/assessment"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/config"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/diag"
)

// mockRegistrar 按候选名返回预设结果
type mockRegistrar struct {
	ok    map[string]bool
	tried []string
}

func (m *mockRegistrar) Register(ctx context.Context, c Candidate) (Font, error) {
	m.tried = append(m.tried, c.Name)
	if m.ok[c.Name] {
		return Font{Family: c.Name, Data: []byte("font"), UTF8: true, Source: c.Path}, nil
	}
	return Font{}, errors.New("cannot register " + c.Name)
}

var testCandidates = []Candidate{{Name: "a.ttf"}, {Name: "b.ttf"}, {Name: "c.ttf"}}

func TestResolveEnglishUsesDefault(t *testing.T) {
	reg := &mockRegistrar{ok: map[string]bool{"a.ttf": true}}
	r := NewResolver(config.FontsConfig{}, WithRegistrar(reg), WithCandidates(testCandidates...))

	f, diags := r.Resolve(context.Background(), assessment.English)
	if f.Family != Default.Family || !f.IsDefault() {
		t.Errorf("Resolve(en) = %+v, want Default", f)
	}
	if len(diags) != 0 || len(reg.tried) != 0 {
		t.Errorf("en must not attempt candidates: diags=%v tried=%v", diags, reg.tried)
	}
}

func TestResolveMandarinAllFail(t *testing.T) {
	reg := &mockRegistrar{}
	r := NewResolver(config.FontsConfig{}, WithRegistrar(reg), WithCandidates(testCandidates...))

	f, diags := r.Resolve(context.Background(), assessment.Mandarin)
	if !f.IsDefault() {
		t.Errorf("Resolve(zh) = %+v, want Default", f)
	}
	if len(diags) != len(testCandidates) {
		t.Fatalf("got %d diagnostics, want %d", len(diags), len(testCandidates))
	}
	for i, d := range diags {
		if d.Kind != diag.FontRegistrationFailed || d.Subject != testCandidates[i].Name {
			t.Errorf("diags[%d] = %v", i, d)
		}
	}
}

func TestResolveMandarinFirstSuccessWins(t *testing.T) {
	reg := &mockRegistrar{ok: map[string]bool{"b.ttf": true, "c.ttf": true}}
	r := NewResolver(config.FontsConfig{}, WithRegistrar(reg), WithCandidates(testCandidates...))

	f, diags := r.Resolve(context.Background(), assessment.Mandarin)
	if f.Family != "b.ttf" || !f.UTF8 {
		t.Errorf("Resolve(zh) = %+v, want b.ttf", f)
	}
	if len(diags) != 1 || diags[0].Subject != "a.ttf" {
		t.Errorf("diags = %v", diags)
	}
	if diff := cmp.Diff([]string{"a.ttf", "b.ttf"}, reg.tried); diff != "" {
		t.Errorf("tried mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "truetype", "noto")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "NotoSansSC-Regular.ttf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := Discover(config.FontsConfig{
		CJKFont:    "/opt/fonts/company.ttf",
		SearchDirs: []string{dir},
		Candidates: []string{"notosanssc-regular.ttf", "missing.ttf"},
	})
	want := []Candidate{
		{Name: "company.ttf", Path: "/opt/fonts/company.ttf"},
		{Name: "notosanssc-regular.ttf", Path: filepath.Join(sub, "NotoSansSC-Regular.ttf")},
		{Name: "missing.ttf"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
	}
}

func TestFileRegistrarRejects(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		c    Candidate
		want error
	}{
		{"no path", Candidate{Name: "simsun.ttf"}, ErrNotFound},
		{"missing file", Candidate{Name: "x.ttf", Path: filepath.Join(dir, "x.ttf")}, ErrNotFound},
		{"collection", Candidate{Name: "simsun.ttc", Path: write("simsun.ttc", []byte("ttcf\x00\x01\x00\x00"))}, ErrCollection},
		{"cff", Candidate{Name: "cff.otf", Path: write("cff.otf", []byte("OTTO\x00\x0a\x00\x80"))}, ErrOutline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FileRegistrar{}.Register(context.Background(), tt.c)
			if !errors.Is(err, tt.want) {
				t.Errorf("Register() error = %v, want %v", err, tt.want)
			}
		})
	}

	garbage := Candidate{Name: "bad.ttf", Path: write("bad.ttf", []byte("not a font at all"))}
	if _, err := (FileRegistrar{}).Register(context.Background(), garbage); err == nil {
		t.Errorf("Register(garbage) succeeded")
	}
}

func TestResolveWithRealFileRegistrarFallsBack(t *testing.T) {
	r := NewResolver(config.FontsConfig{}, WithCandidates(Candidate{Name: "nowhere.ttf"}))
	f, diags := r.Resolve(context.Background(), assessment.Mandarin)
	if !f.IsDefault() || len(diags) != 1 || !errors.Is(diags[0].Err, ErrNotFound) {
		t.Errorf("Resolve() = %+v, %v", f, diags)
	}
}
