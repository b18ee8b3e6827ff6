// Package fonts 为中文报告挑选可用的 TrueType 字体。
//
// 候选字体按顺序尝试注册，第一个成功的胜出；全部失败时回退到内置的
// Helvetica，并为每个失败的候选返回一条诊断。
package fonts

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/iWorld-y/risk_report/app/risk_report/pkg/assessment"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/config"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/diag"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/logger"
)

// Font 解析后的字体。UTF8 为 false 时表示 PDF 内置字体，Data 为空。
type Font struct {
	Family string
	Data   []byte
	UTF8   bool
	// Source 字体来源，通常是文件路径
	Source string
}

// Default 内置 Helvetica，仅能显示 Latin-1 字符
var Default = Font{Family: "Helvetica"}

// IsDefault 是否为内置字体
func (f Font) IsDefault() bool {
	return !f.UTF8
}

// Candidate 候选字体
type Candidate struct {
	Name string
	Path string
}

// ErrNotFound 候选字体文件不存在
var ErrNotFound = errors.New("font file not found")

// Registrar 负责验证并注册单个候选字体
type Registrar interface {
	Register(ctx context.Context, c Candidate) (Font, error)
}

// DefaultCandidates 内置候选文件名，按优先级排列
var DefaultCandidates = []string{
	"simsun.ttf",
	"simhei.ttf",
	"msyh.ttf",
	"DroidSansFallbackFull.ttf",
	"NotoSansSC-Regular.ttf",
	"wqy-microhei.ttf",
	"wqy-zenhei.ttf",
}

// Resolver 字体解析器
type Resolver struct {
	registrar  Registrar
	candidates func() []Candidate
}

// Option Resolver 构造选项
type Option func(*Resolver)

// WithRegistrar 替换注册器
func WithRegistrar(r Registrar) Option {
	return func(res *Resolver) { res.registrar = r }
}

// WithCandidates 使用固定的候选列表，不再搜索字体目录
func WithCandidates(list ...Candidate) Option {
	return func(res *Resolver) {
		res.candidates = func() []Candidate { return list }
	}
}

// NewResolver 根据配置创建解析器
func NewResolver(cfg config.FontsConfig, opts ...Option) *Resolver {
	r := &Resolver{
		registrar:  FileRegistrar{},
		candidates: func() []Candidate { return Discover(cfg) },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve 为指定语言选择字体。英文直接使用 Default，不尝试任何候选。
// 不会返回错误：失败的候选记为诊断，全部失败时返回 Default。
func (r *Resolver) Resolve(ctx context.Context, lang assessment.Language) (Font, []diag.Diagnostic) {
	if lang != assessment.Mandarin {
		return Default, nil
	}

	var diags []diag.Diagnostic
	for _, c := range r.candidates() {
		f, err := r.registrar.Register(ctx, c)
		if err == nil {
			logger.Log.Infof("使用中文字体: %s (%s)", c.Name, f.Source)
			return f, diags
		}
		logger.Log.Warnf("字体不可用 [%s]: %v", c.Name, err)
		diags = append(diags, diag.Diagnostic{
			Kind:    diag.FontRegistrationFailed,
			Subject: c.Name,
			Err:     err,
		})
	}
	logger.Log.Warn("未找到可用的中文字体，回退到 Helvetica")
	return Default, diags
}

// Discover 按配置生成候选列表：先是 CJKFont 指定的文件，
// 再是在搜索目录中按文件名查找到的字体。找不到的文件仍保留为候选，
// 注册时以 ErrNotFound 失败。
func Discover(cfg config.FontsConfig) []Candidate {
	var out []Candidate
	if cfg.CJKFont != "" {
		out = append(out, Candidate{Name: filepath.Base(cfg.CJKFont), Path: cfg.CJKFont})
	}

	names := cfg.Candidates
	if len(names) == 0 {
		names = DefaultCandidates
	}
	dirs := append(append([]string(nil), cfg.SearchDirs...), SystemDirs()...)
	index := indexDirs(dirs)
	for _, name := range names {
		out = append(out, Candidate{Name: name, Path: index[strings.ToLower(name)]})
	}
	return out
}

// SystemDirs 当前平台常见的字体目录
func SystemDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		dirs := []string{filepath.Join(os.Getenv("WINDIR"), "Fonts")}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "AppData", "Local", "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		dirs := []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	default:
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".fonts"), filepath.Join(home, ".local", "share", "fonts"))
		}
		return dirs
	}
}

// indexDirs 递归扫描目录，建立 小写文件名 -> 路径 的索引，先出现的目录优先
func indexDirs(dirs []string) map[string]string {
	index := make(map[string]string)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			key := strings.ToLower(d.Name())
			if _, ok := index[key]; !ok {
				index[key] = path
			}
			return nil
		})
	}
	return index
}
