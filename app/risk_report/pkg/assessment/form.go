package assessment

import (
	"fmt"
	"strings"
	"time"
)

// RiskInput 表单中的单个风险项
type RiskInput struct {
	Description string `json:"description" yaml:"description"`
	CAP         string `json:"cap" yaml:"cap"`
}

// SignatureInput 表单中的签字项，日期格式 YYYY-MM-DD
type SignatureInput struct {
	Name string `json:"name" yaml:"name"`
	Date string `json:"date" yaml:"date"`
}

// Form 表单提交的原始数据 (JSON/YAML)，通过 ToRecord 转换为 Record
type Form struct {
	PONumber       string `json:"po_number" yaml:"po_number"`
	Style          string `json:"style" yaml:"style"`
	Brand          string `json:"brand" yaml:"brand"`
	SalesPerson    string `json:"sales" yaml:"sales"`
	FactoryName    string `json:"factory" yaml:"factory"`
	AssessmentDate string `json:"assessment_date" yaml:"assessment_date"`

	// Risks 以类别键 (style/material/factory/package/other) 索引
	Risks map[string]RiskInput `json:"risks" yaml:"risks"`

	SalesComments string `json:"sales_comments" yaml:"sales_comments"`
	TechComments  string `json:"tech_comments" yaml:"tech_comments"`
	QCComments    string `json:"qc_comments" yaml:"qc_comments"`
	Conclusion    string `json:"conclusion" yaml:"conclusion"`

	SalesSignature SignatureInput `json:"sales_signature" yaml:"sales_signature"`
	TechSignature  SignatureInput `json:"tech_signature" yaml:"tech_signature"`
	QCSignature    SignatureInput `json:"qc_signature" yaml:"qc_signature"`
}

// ToRecord 转换为 Record 并在此处完成默认值填充。
// 未填写的日期默认为 now 当天；无法识别的风险类别键会返回错误。
func (f *Form) ToRecord(now time.Time) (*Record, error) {
	r := NewRecord(now)
	r.PONumber = strings.TrimSpace(f.PONumber)
	r.Style = strings.TrimSpace(f.Style)
	r.Brand = strings.TrimSpace(f.Brand)
	r.SalesPerson = strings.TrimSpace(f.SalesPerson)
	r.FactoryName = strings.TrimSpace(f.FactoryName)
	if d := strings.TrimSpace(f.AssessmentDate); d != "" {
		r.AssessmentDate = d
	}

	for key, in := range f.Risks {
		c, ok := ParseRiskCategory(key)
		if !ok {
			return nil, fmt.Errorf("unknown risk category %q", key)
		}
		r.Risks[c] = RiskSection{
			Category:    c,
			Description: strings.TrimSpace(in.Description),
			CAP:         strings.TrimSpace(in.CAP),
		}
	}

	r.Comments = Comments{
		Sales:     strings.TrimSpace(f.SalesComments),
		Technical: strings.TrimSpace(f.TechComments),
		QC:        strings.TrimSpace(f.QCComments),
	}
	r.Conclusion = strings.TrimSpace(f.Conclusion)

	var err error
	if r.Signatures.Sales, err = f.SalesSignature.toSignature(r.Signatures.Sales.Date); err != nil {
		return nil, fmt.Errorf("sales signature: %w", err)
	}
	if r.Signatures.Technical, err = f.TechSignature.toSignature(r.Signatures.Technical.Date); err != nil {
		return nil, fmt.Errorf("technical signature: %w", err)
	}
	if r.Signatures.QC, err = f.QCSignature.toSignature(r.Signatures.QC.Date); err != nil {
		return nil, fmt.Errorf("qc signature: %w", err)
	}
	return r, nil
}

func (s SignatureInput) toSignature(def time.Time) (Signature, error) {
	sig := Signature{Name: strings.TrimSpace(s.Name), Date: def}
	if d := strings.TrimSpace(s.Date); d != "" {
		t, err := time.ParseInLocation(DateLayout, d, def.Location())
		if err != nil {
			return Signature{}, fmt.Errorf("invalid date %q: %w", d, err)
		}
		sig.Date = t
	}
	return sig, nil
}
