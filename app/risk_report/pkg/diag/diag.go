// Package diag 承载渲染过程中的非致命诊断信息。
//
// 翻译失败、字体注册失败等情况不会中断渲染，而是返回一个可用的降级值，
// 并把诊断信息交给调用方统一展示。
package diag

import (
	"fmt"
	"sync"
)

// Kind 诊断类别
type Kind int

const (
	// TranslationUnavailable 翻译后端缺失或调用失败，已回退为原文
	TranslationUnavailable Kind = iota + 1
	// FontRegistrationFailed 某个候选字体注册失败，已尝试下一个
	FontRegistrationFailed
)

func (k Kind) String() string {
	switch k {
	case TranslationUnavailable:
		return "translation_unavailable"
	case FontRegistrationFailed:
		return "font_registration_failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Diagnostic 单条诊断
type Diagnostic struct {
	Kind    Kind
	Subject string // 出问题的对象，例如字体候选名或待翻译文本
	Err     error
}

func (d Diagnostic) String() string {
	if d.Err == nil {
		return fmt.Sprintf("%s: %s", d.Kind, d.Subject)
	}
	return fmt.Sprintf("%s: %s: %v", d.Kind, d.Subject, d.Err)
}

// Collector 线程安全的诊断收集器，按 (Kind, 错误信息) 去重
type Collector struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	items []Diagnostic
}

// NewCollector 创建收集器
func NewCollector() *Collector {
	return &Collector{seen: make(map[string]struct{})}
}

// Add 记录一条诊断，返回是否为新条目
func (c *Collector) Add(d Diagnostic) bool {
	key := d.Kind.String() + "|" + errText(d.Err)
	if d.Err == nil {
		key += "|" + d.Subject
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[key]; ok {
		return false
	}
	c.seen[key] = struct{}{}
	c.items = append(c.items, d)
	return true
}

// Items 返回已收集诊断的副本
func (c *Collector) Items() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
