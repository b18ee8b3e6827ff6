// Package assessment 定义生产风险评估记录及其语言、地点设置。
package assessment

import (
	"strings"
	"time"
)

// DateLayout 报告中所有日期的格式
const DateLayout = "2006-01-02"

// RiskCategory 风险类别，顺序固定，对应报告中的 1-5 编号
type RiskCategory int

const (
	StyleRisk RiskCategory = iota
	MaterialRisk
	FactoryRisk
	PackageRisk
	OtherRisk
)

// RiskCategories 按报告顺序排列的全部类别
var RiskCategories = [5]RiskCategory{StyleRisk, MaterialRisk, FactoryRisk, PackageRisk, OtherRisk}

var riskMeta = [...]struct {
	key     string
	title   string
	caption string
}{
	StyleRisk:    {"style", "Style & Construction Risk", "Potential production risk generated by styling features on this product"},
	MaterialRisk: {"material", "Raw Material Risk", "Potential risk presented to manufacture by properties of the material"},
	FactoryRisk:  {"factory", "Factory Performance Risk", "Factory production potential risks (including finishing etc.)"},
	PackageRisk:  {"package", "Package Risk", "Packaging related risks"},
	OtherRisk:    {"other", "Other Risks", "Any other potential risks"},
}

// Key 表单中使用的类别键，例如 "style"
func (c RiskCategory) Key() string { return riskMeta[c].key }

// Title 英文标题，不含编号
func (c RiskCategory) Title() string { return riskMeta[c].title }

// Caption 类别说明
func (c RiskCategory) Caption() string { return riskMeta[c].caption }

// Number 报告中的编号 (1-5)
func (c RiskCategory) Number() int { return int(c) + 1 }

func (c RiskCategory) String() string { return c.Key() }

// ParseRiskCategory 根据表单键解析类别
func ParseRiskCategory(key string) (RiskCategory, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, c := range RiskCategories {
		if c.Key() == k {
			return c, true
		}
	}
	return 0, false
}

// RiskSection 单个风险类别的描述与纠正措施 (CAP)
type RiskSection struct {
	Category    RiskCategory
	Description string
	CAP         string
}

// Department 部门，用于评论与签字
type Department int

const (
	Sales Department = iota
	Technical
	QC
)

// Departments 报告中部门出现的顺序
var Departments = [3]Department{Sales, Technical, QC}

// Comments 各部门评论
type Comments struct {
	Sales     string
	Technical string
	QC        string
}

// Of 返回指定部门的评论
func (c Comments) Of(d Department) string {
	switch d {
	case Sales:
		return c.Sales
	case Technical:
		return c.Technical
	default:
		return c.QC
	}
}

// Signature 签字信息。Date 为零值表示未填写。
type Signature struct {
	Name string
	Date time.Time
}

// Signatures 各部门签字
type Signatures struct {
	Sales     Signature
	Technical Signature
	QC        Signature
}

// Of 返回指定部门的签字
func (s Signatures) Of(d Department) Signature {
	switch d {
	case Sales:
		return s.Sales
	case Technical:
		return s.Technical
	default:
		return s.QC
	}
}

// Record 一份完整的评估记录，交给渲染器后只读
type Record struct {
	PONumber       string
	Style          string
	Brand          string
	SalesPerson    string
	FactoryName    string
	AssessmentDate string

	Risks      [5]RiskSection
	Comments   Comments
	Conclusion string
	Signatures Signatures
}

// NewRecord 创建一份空记录：类别按固定顺序就位，评估日期与签字日期默认当天
func NewRecord(now time.Time) *Record {
	r := &Record{AssessmentDate: now.Format(DateLayout)}
	for i, c := range RiskCategories {
		r.Risks[i].Category = c
	}
	today := truncateDay(now)
	r.Signatures.Sales.Date = today
	r.Signatures.Technical.Date = today
	r.Signatures.QC.Date = today
	return r
}

// Risk 返回指定类别的风险描述。Risks 按类别顺序存放，Category 字段以下标为准。
func (r *Record) Risk(c RiskCategory) RiskSection {
	if c < StyleRisk || c > OtherRisk {
		return RiskSection{Category: c}
	}
	s := r.Risks[c]
	s.Category = c
	return s
}

// MissingRequired 返回缺失的必填字段名 (PO 号、工厂名称)
func (r *Record) MissingRequired() []string {
	var missing []string
	if strings.TrimSpace(r.PONumber) == "" {
		missing = append(missing, "po_number")
	}
	if strings.TrimSpace(r.FactoryName) == "" {
		missing = append(missing, "factory")
	}
	return missing
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
