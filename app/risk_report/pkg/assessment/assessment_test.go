package assessment

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{"", English, false},
		{"en", English, false},
		{"en-US", English, false},
		{"English", English, false},
		{"zh", Mandarin, false},
		{"zh-CN", Mandarin, false},
		{"zh-Hans", Mandarin, false},
		{"Mandarin", Mandarin, false},
		{"fr", "", true},
		{"not a tag!", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLanguage(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLanguage(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLocationLine(t *testing.T) {
	tests := []struct {
		city string
		lang Language
		want string
	}{
		{"Shanghai", English, "Location: Shanghai"},
		{"Shanghai", Mandarin, "地点: Shanghai (上海)"},
		{"Guangzhou", Mandarin, "地点: Guangzhou (广州)"},
		{"Atlantis", Mandarin, "Location: Atlantis"},
	}
	for _, tt := range tests {
		got := LocationSettings{City: tt.city}.Line(tt.lang)
		if got != tt.want {
			t.Errorf("Line(%q, %q) = %q, want %q", tt.city, tt.lang, got, tt.want)
		}
	}
}

func TestCitiesCopy(t *testing.T) {
	list := Cities()
	if len(list) != 40 {
		t.Fatalf("Cities() len = %d, want 40", len(list))
	}
	list[0].Name = "changed"
	if Cities()[0].Name != "Guangzhou" {
		t.Errorf("Cities() returned shared backing array")
	}
}

func TestNewRecordDefaults(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	r := NewRecord(now)

	if r.AssessmentDate != "2024-03-05" {
		t.Errorf("AssessmentDate = %q", r.AssessmentDate)
	}
	for i, c := range RiskCategories {
		if r.Risks[i].Category != c {
			t.Errorf("Risks[%d].Category = %v, want %v", i, r.Risks[i].Category, c)
		}
	}
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, d := range Departments {
		if got := r.Signatures.Of(d).Date; !got.Equal(want) {
			t.Errorf("signature %d date = %v, want %v", d, got, want)
		}
	}
	if diff := cmp.Diff([]string{"po_number", "factory"}, r.MissingRequired()); diff != "" {
		t.Errorf("MissingRequired() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormToRecord(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	f := &Form{
		PONumber:    " PO-2024-001 ",
		FactoryName: "ABC Mfg",
		Risks: map[string]RiskInput{
			"material": {Description: "Sole delamination risk at seam X", CAP: "Extra bonding test"},
		},
		TechComments:  "ok",
		TechSignature: SignatureInput{Name: "Li Wei", Date: "2024-02-10"},
	}

	r, err := f.ToRecord(now)
	if err != nil {
		t.Fatalf("ToRecord() error = %v", err)
	}
	if r.PONumber != "PO-2024-001" {
		t.Errorf("PONumber = %q", r.PONumber)
	}
	got := r.Risk(MaterialRisk)
	if got.Description != "Sole delamination risk at seam X" || got.CAP != "Extra bonding test" {
		t.Errorf("Risk(MaterialRisk) = %+v", got)
	}
	if r.Risks[MaterialRisk].Category != MaterialRisk {
		t.Errorf("material risk stored at wrong index")
	}
	if r.Comments.Of(Technical) != "ok" {
		t.Errorf("technical comment = %q", r.Comments.Of(Technical))
	}
	if s := r.Signatures.Of(Technical); s.Name != "Li Wei" || s.Date.Format(DateLayout) != "2024-02-10" {
		t.Errorf("technical signature = %+v", s)
	}
	if s := r.Signatures.Of(Sales); s.Name != "" || s.Date.Format(DateLayout) != "2024-01-01" {
		t.Errorf("sales signature = %+v", s)
	}
	if len(r.MissingRequired()) != 0 {
		t.Errorf("MissingRequired() = %v", r.MissingRequired())
	}
}

func TestFormToRecordErrors(t *testing.T) {
	now := time.Now()
	bad := &Form{Risks: map[string]RiskInput{"shipping": {}}}
	if _, err := bad.ToRecord(now); err == nil {
		t.Errorf("expected error for unknown risk category")
	}
	badDate := &Form{QCSignature: SignatureInput{Date: "10/02/2024"}}
	if _, err := badDate.ToRecord(now); err == nil {
		t.Errorf("expected error for malformed signature date")
	}
}

func TestRiskFromLiteralRecord(t *testing.T) {
	// 未经 NewRecord 构造，Category 全为零值
	r := &Record{}
	for i := range r.Risks {
		r.Risks[i].Description = fmt.Sprintf("r%d", i+1)
	}
	for _, c := range RiskCategories {
		got := r.Risk(c)
		if got.Category != c {
			t.Errorf("Risk(%v).Category = %v", c, got.Category)
		}
		if want := fmt.Sprintf("r%d", c.Number()); got.Description != want {
			t.Errorf("Risk(%v).Description = %q, want %q", c, got.Description, want)
		}
	}
	if got := r.Risk(RiskCategory(9)); got.Description != "" {
		t.Errorf("Risk(9) = %+v, want empty", got)
	}
}
