// Package translate 提供带缓存的文本翻译。
//
// Cache 对 (原文, 目标语言) 做精确匹配的记忆化，未命中时调用远程 Backend。
// 翻译失败不是致命错误：缓存并返回原文，同时附带一条诊断。
// 调用方取消请求导致的失败只返回原文，不写入缓存。
package translate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/sync/singleflight"

	"github.com/iWorld-y/risk_report/app/risk_report/pkg/assessment"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/diag"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/logger"
)

// ErrNoBackend 未配置翻译后端
var ErrNoBackend = errors.New("translation backend not configured")

// Backend 远程翻译能力
type Backend interface {
	Translate(ctx context.Context, text string, target assessment.Language) (string, error)
}

// Key 缓存键
type Key struct {
	Text   string
	Target assessment.Language
}

// Entry 持久化的翻译条目
type Entry struct {
	Key
	Translation string
}

// Store 可选的持久化层，用于进程重启后预热缓存
type Store interface {
	LoadTranslations(ctx context.Context) ([]Entry, error)
	SaveTranslation(ctx context.Context, e Entry) error
}

// Result 翻译结果。Diag 非空表示 Text 是降级后的原文。
type Result struct {
	Text string
	Diag *diag.Diagnostic
}

// Cache 翻译缓存，生命周期与进程一致，不做淘汰
type Cache struct {
	backend Backend
	store   Store

	mu      sync.RWMutex
	entries map[Key]string
	group   singleflight.Group
}

// Option Cache 构造选项
type Option func(*Cache)

// WithStore 设置持久化层
func WithStore(s Store) Option {
	return func(c *Cache) { c.store = s }
}

// NewCache 创建缓存。backend 为 nil 时所有查询直接返回原文。
func NewCache(backend Backend, opts ...Option) *Cache {
	c := &Cache{
		backend: backend,
		entries: make(map[Key]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Warm 从持久化层加载已有翻译，返回加载条数
func (c *Cache) Warm(ctx context.Context) (int, error) {
	if c.store == nil {
		return 0, nil
	}
	list, err := c.store.LoadTranslations(ctx)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	for _, e := range list {
		c.entries[e.Key] = e.Translation
	}
	c.mu.Unlock()
	return len(list), nil
}

// Len 当前缓存条目数
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Get 返回译文，失败时返回原文并记录警告日志
func (c *Cache) Get(ctx context.Context, text string, target assessment.Language) string {
	res := c.Lookup(ctx, text, target)
	if res.Diag != nil {
		logger.Log.Warnf("翻译失败，使用原文: %s", res.Diag)
	}
	return res.Text
}

// Lookup 查询译文
func (c *Cache) Lookup(ctx context.Context, text string, target assessment.Language) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Text: text}
	}

	key := Key{Text: text, Target: target}
	if v, ok := c.load(key); ok {
		return Result{Text: v}
	}

	if IsNumeric(text) {
		c.put(key, text)
		return Result{Text: text}
	}

	if c.backend == nil {
		c.put(key, text)
		return Result{Text: text, Diag: &diag.Diagnostic{
			Kind:    diag.TranslationUnavailable,
			Subject: text,
			Err:     ErrNoBackend,
		}}
	}

	v, _, _ := c.group.Do(string(target)+"\x00"+text, func() (any, error) {
		if v, ok := c.load(key); ok {
			return outcome{text: v}, nil
		}
		out, err := c.backend.Translate(ctx, text, target)
		if err != nil {
			// 请求被取消时不缓存，之后的请求仍会重试
			if !cancelled(ctx, err) {
				c.put(key, text)
			}
			return outcome{text: text, err: err}, nil
		}
		c.put(key, out)
		c.persist(ctx, Entry{Key: key, Translation: out})
		return outcome{text: out}, nil
	})

	o := v.(outcome)
	res := Result{Text: o.text}
	if o.err != nil {
		res.Diag = &diag.Diagnostic{Kind: diag.TranslationUnavailable, Subject: text, Err: o.err}
	}
	return res
}

func cancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

type outcome struct {
	text string
	err  error
}

func (c *Cache) load(key Key) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache) put(key Key, v string) {
	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
}

func (c *Cache) persist(ctx context.Context, e Entry) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveTranslation(ctx, e); err != nil {
		logger.Log.Warnf("保存翻译缓存失败 [%s]: %v", e.Text, err)
	}
}

// IsNumeric 判断文本是否为纯数字类记号 (数字、小数、日期等)。
// 去掉 '.'、','、'-' 后剩余部分非空且全为数字即视为不可翻译。
func IsNumeric(text string) bool {
	s := strings.TrimSpace(text)
	s = strings.NewReplacer(".", "", ",", "", "-", "").Replace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
