package fonts

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/sfnt"
)

var (
	// ErrCollection 字体集合 (.ttc) 无法直接嵌入
	ErrCollection = errors.New("font collections are not supported")
	// ErrOutline 仅支持 TrueType 轮廓，CFF (OTTO) 字体不可用
	ErrOutline = errors.New("only TrueType outlines are supported")
	// ErrNoHan 字体不包含汉字字形
	ErrNoHan = errors.New("font has no Han glyphs")
)

// hanProbe 用于检测汉字覆盖的字符
var hanProbe = []rune{'中', '风', '险'}

// FileRegistrar 从文件系统读取并验证字体
type FileRegistrar struct{}

// Register 实现 Registrar
func (FileRegistrar) Register(ctx context.Context, c Candidate) (Font, error) {
	if err := ctx.Err(); err != nil {
		return Font{}, err
	}
	if c.Path == "" {
		return Font{}, fmt.Errorf("%s: %w", c.Name, ErrNotFound)
	}
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Font{}, fmt.Errorf("%s: %w", c.Path, ErrNotFound)
		}
		return Font{}, err
	}

	family := familyName(c)
	if err := Validate(family, data); err != nil {
		return Font{}, fmt.Errorf("%s: %w", c.Path, err)
	}
	return Font{Family: family, Data: data, UTF8: true, Source: c.Path}, nil
}

// Validate 检查字体数据能否用于中文报告：
// 单个 TrueType 字体、包含汉字字形，且能被 fpdf 正常加载。
func Validate(family string, data []byte) error {
	if len(data) < 4 {
		return errors.New("font data too short")
	}
	switch string(data[:4]) {
	case "ttcf":
		return ErrCollection
	case "OTTO":
		return ErrOutline
	}
	if !isTrueType(data) {
		return errors.New("not a TrueType font")
	}

	f, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	var buf sfnt.Buffer
	for _, r := range hanProbe {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return fmt.Errorf("glyph lookup: %w", err)
		}
		if idx == 0 {
			return fmt.Errorf("%w: missing %q", ErrNoHan, r)
		}
	}

	return probe(family, data)
}

// probe 在一个临时文档上试注册，fpdf 的注册错误会污染整个文档
func probe(family string, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("register font: %v", r)
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(family, "", data)
	if pdf.Err() {
		return fmt.Errorf("register font: %w", pdf.Error())
	}
	pdf.AddPage()
	pdf.SetFont(family, "", 10)
	if w := pdf.GetStringWidth(string(hanProbe)); w <= 0 || pdf.Err() {
		return fmt.Errorf("register font: unusable metrics: %v", pdf.Error())
	}
	return nil
}

func familyName(c Candidate) string {
	base := c.Name
	if base == "" {
		base = filepath.Base(c.Path)
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(base)
}

// isTrueType 判断数据是否以 TrueType 版本号开头
func isTrueType(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	v := binary.BigEndian.Uint32(data[:4])
	return v == 0x00010000 || string(data[:4]) == "true"
}
