package layout

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/iWorld-y/risk_report/app/risk_report/pkg/assessment"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/document"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/fonts"
)

var testNow = time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)

func buildDoc(t *testing.T, lang assessment.Language) *document.Document {
	t.Helper()
	rec := assessment.NewRecord(testNow)
	rec.PONumber = "PO-2024-001"
	rec.FactoryName = "ABC Mfg"
	rec.Risks[assessment.StyleRisk].Description = "Complex overlays, café-style piping"
	b := document.NewBuilder(nil, document.WithClock(func() time.Time { return testNow }))
	return b.Build(context.Background(), rec, lang, assessment.LocationSettings{City: "Shanghai"}, fonts.Default)
}

func TestRenderEnglish(t *testing.T) {
	res, err := Render(buildDoc(t, assessment.English), Options{Compress: false})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(res.PDF, []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", res.PDF[:16])
	}
	if res.Pages < 2 {
		t.Errorf("Pages = %d, want at least 2 (forced break before comments)", res.Pages)
	}
}

func TestRenderMandarinWithFallbackFont(t *testing.T) {
	res, err := Render(buildDoc(t, assessment.Mandarin), Options{Compress: true})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(res.PDF) == 0 {
		t.Errorf("empty output")
	}
}

func TestOverflowDecoratesEveryPage(t *testing.T) {
	rows := [][]document.Cell{{{Text: "Risk Stage", Label: true}, {Text: "Description", Label: true}}}
	for i := 0; i < 120; i++ {
		rows = append(rows, []document.Cell{{Text: "stage", Caption: "caption"}, {Text: "row text"}})
	}
	doc := &document.Document{
		Blocks: []document.Block{
			document.Paragraph{Text: strings.Repeat("Long note line. ", 600), Style: document.NoteStyle},
			document.Table{Widths: []float64{60, 100}, Rows: rows, Style: document.RiskMatrixTable},
			document.PageBreak{},
			document.Paragraph{Text: "tail", Style: document.HeadingStyle},
		},
		Font:        fonts.Default,
		Language:    assessment.English,
		Location:    assessment.LocationSettings{City: "Beijing"},
		GeneratedAt: testNow,
	}

	e, err := newEngine(doc, Options{})
	if err != nil {
		t.Fatalf("newEngine() error = %v", err)
	}
	if err := e.layout(doc.Blocks); err != nil {
		t.Fatalf("layout() error = %v", err)
	}
	pages := e.pdf.PageNo()
	if pages < 4 {
		t.Fatalf("expected overflow onto several pages, got %d", pages)
	}
	if got := e.dec.Decorated(); got != pages {
		t.Errorf("decorated %d of %d pages", got, pages)
	}
	if len(e.saved) != 0 {
		t.Errorf("state stack not empty: %d", len(e.saved))
	}
}

func TestWidenNarrow(t *testing.T) {
	in := "caf\xe9"
	if got := narrow(widen(in)); got != in {
		t.Errorf("narrow(widen(%q)) = %q", in, got)
	}
}

func utf8Font() fonts.Font {
	return fonts.Font{Family: "goregular", Data: goregular.TTF, UTF8: true, Source: "goregular"}
}

func TestRenderUTF8Font(t *testing.T) {
	rec := assessment.NewRecord(testNow)
	rec.PONumber = "订单-1"
	rec.FactoryName = "广州制衣厂"
	rec.Risks[assessment.MaterialRisk].Description = "Seam check OK \U0001F44D"
	rec.Comments.QC = "包装检查 \U0001F9F5 done"
	rec.Signatures.QC.Name = "王芳"
	b := document.NewBuilder(nil, document.WithClock(func() time.Time { return testNow }))
	doc := b.Build(context.Background(), rec, assessment.Mandarin, assessment.LocationSettings{City: "Guangzhou"}, utf8Font())

	res, err := Render(doc, Options{Compress: true})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(res.PDF, []byte("%PDF-")) {
		t.Errorf("output is not a PDF")
	}
	if res.Pages < 2 {
		t.Errorf("Pages = %d, want at least 2", res.Pages)
	}
}

func TestTallRowSplitsAcrossPages(t *testing.T) {
	long := strings.Repeat("Sole delamination risk at seam X. ", 400)
	for _, font := range []fonts.Font{fonts.Default, utf8Font()} {
		doc := &document.Document{
			Blocks: []document.Block{
				document.Table{
					Widths: []float64{40, 60, 60},
					Rows: [][]document.Cell{
						{{Text: "Risk Stage"}, {Text: "Description"}, {Text: "CAP Description"}},
						{{Text: "2. Raw Material Risk", Label: true, Caption: "material caption"}, {Text: long}, {Text: "Extra bonding test"}},
						{{Text: "3. Factory Performance Risk", Label: true}, {Text: "-"}, {Text: "-"}},
					},
					Style: document.RiskMatrixTable,
				},
			},
			Font:        font,
			Language:    assessment.Mandarin,
			Location:    assessment.LocationSettings{City: "Guangzhou"},
			GeneratedAt: testNow,
		}

		e, err := newEngine(doc, Options{})
		if err != nil {
			t.Fatalf("%s: newEngine() error = %v", font.Family, err)
		}
		if err := e.layout(doc.Blocks); err != nil {
			t.Fatalf("%s: layout() error = %v", font.Family, err)
		}

		pages := e.pdf.PageNo()
		if pages < 3 || pages > 20 {
			t.Errorf("%s: pages = %d, want the row continued over a handful of pages", font.Family, pages)
		}
		if y := e.pdf.GetY(); y > e.bottom+0.01 {
			t.Errorf("%s: final y = %.1fmm, below content bottom %.1fmm", font.Family, y, e.bottom)
		}
		if got := e.dec.Decorated(); got != pages {
			t.Errorf("%s: decorated %d of %d pages", font.Family, got, pages)
		}
		if !e.autoBreak {
			t.Errorf("%s: auto page break not restored after table", font.Family)
		}
	}
}

func TestTakeSplitsLines(t *testing.T) {
	m := tableMetrics{lh: 4, clh: 3}
	boxes := []cellBox{
		{lines: []cellLine{{text: "a"}, {text: "b"}, {text: "c", caption: true}}},
		{lines: []cellLine{{text: "x"}}},
	}

	seg, rest := m.take(boxes, 8, false)
	if len(seg[0].lines) != 2 || len(rest[0].lines) != 1 || len(seg[1].lines) != 1 || len(rest[1].lines) != 0 {
		t.Errorf("take(8) = %+v / %+v", seg, rest)
	}

	seg, _ = m.take(boxes, 1, false)
	if !emptyBoxes(seg) {
		t.Errorf("take(1) should not fit any line: %+v", seg)
	}
	seg, _ = m.take(boxes, 1, true)
	if len(seg[0].lines) != 1 || len(seg[1].lines) != 1 {
		t.Errorf("forced take = %+v", seg)
	}
}

func TestBMPOnly(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"地点: Guangzhou (广州)", "地点: Guangzhou (广州)"},
		{"OK \U0001F44D", "OK \uFFFD"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := bmpOnly(tt.in); got != tt.want {
			t.Errorf("bmpOnly(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
