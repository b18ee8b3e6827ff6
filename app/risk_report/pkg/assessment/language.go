package assessment

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language 报告/界面语言，仅支持英文与中文
type Language string

const (
	English  Language = "en"
	Mandarin Language = "zh"
)

// Tag 返回对应的 BCP 47 标签
func (l Language) Tag() language.Tag {
	if l == Mandarin {
		return language.SimplifiedChinese
	}
	return language.English
}

// ParseLanguage 解析语言参数。
// 接受 "en"、"zh-CN" 这类标签，也接受表单里的 "English"、"Mandarin"。
func ParseLanguage(s string) (Language, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "":
		return English, nil
	case "english":
		return English, nil
	case "mandarin", "chinese", "中文":
		return Mandarin, nil
	}

	tag, err := language.Parse(v)
	if err != nil {
		return "", fmt.Errorf("unsupported language %q: %w", s, err)
	}
	base, _ := tag.Base()
	switch base.String() {
	case "en":
		return English, nil
	case "zh":
		return Mandarin, nil
	default:
		return "", fmt.Errorf("unsupported language %q", s)
	}
}

// LanguageSettings 语言设置。UI 与 PDF 语言相互独立，渲染只看 PDF。
type LanguageSettings struct {
	UI  Language `json:"ui_language" yaml:"ui_language"`
	PDF Language `json:"pdf_language" yaml:"pdf_language"`
}

// Translating 是否需要把文档标签翻译成中文
func (s LanguageSettings) Translating() bool {
	return s.PDF == Mandarin
}
