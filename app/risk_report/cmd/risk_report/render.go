package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/risk_report/app/risk_report/internal/biz"
	"github.com/iWorld-y/risk_report/app/risk_report/internal/conf"
	"github.com/iWorld-y/risk_report/app/risk_report/internal/data"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/assessment"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/config"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/logger"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/report"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/translate"
)

// renderInput 输入文件结构 (YAML 或 JSON)，表单字段与语言、地点设置平铺在同一层
type renderInput struct {
	assessment.Form `yaml:",inline"`
	UILanguage      string `yaml:"ui_language"`
	PDFLanguage     string `yaml:"pdf_language"`
	City            string `yaml:"city"`
}

type renderOptions struct {
	configPath string
	output     string
	pdfLang    string
	uiLang     string
	city       string
}

func newRenderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <record-file>",
		Short: "Render an assessment record (YAML or JSON) to PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Renderer configuration file path")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output PDF path (default: <output_dir>/<generated name>)")
	cmd.Flags().StringVar(&opts.pdfLang, "lang", "", "PDF language: en or zh (overrides the record file)")
	cmd.Flags().StringVar(&opts.uiLang, "ui-lang", "", "Interface language for command output: en or zh")
	cmd.Flags().StringVar(&opts.city, "city", "", "Assessment location (overrides the record file)")
	return cmd
}

func runRender(cmd *cobra.Command, path string, opts renderOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadRendererConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	in, err := readRenderInput(path)
	if err != nil {
		return err
	}
	settings, loc, err := resolveSettings(in, opts, cfg)
	if err != nil {
		return err
	}

	klog := logger.NewKratosLogger(nil)
	d, cleanup, err := data.NewData(dataConf(cfg), klog)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer cleanup()

	backend, err := translate.NewOpenAIBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init translation backend: %w", err)
	}
	cache := translate.NewCache(backend, translate.WithStore(data.NewTranslationStore(d, klog)))
	if _, err := cache.Warm(ctx); err != nil {
		logger.Log.Warnf("预热翻译缓存失败: %v", err)
	}

	uc := biz.NewRenderUseCase(data.NewRenderRepo(d, klog), report.New(cfg, cache), cfg, klog)
	out, err := uc.Render(ctx, &biz.RenderRequest{
		Form:     &in.Form,
		Language: settings,
		Location: loc,
	})
	if err != nil {
		return renderError(err)
	}

	target := opts.output
	if target == "" {
		target = filepath.Join(cfg.Report.OutputDir, out.Filename)
	}
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(target, out.PDF, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	printSummary(cmd, settings.UI, target, out)
	return nil
}

func loadRendererConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		cfg.ApplyEnv()
		return cfg, nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func readRenderInput(path string) (*renderInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record file: %w", err)
	}
	var in renderInput
	// JSON 是 YAML 的子集，两种格式共用一个解码器
	if err := yaml.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("parse record file %s: %w", path, err)
	}
	return &in, nil
}

func resolveSettings(in *renderInput, opts renderOptions, cfg *config.Config) (assessment.LanguageSettings, assessment.LocationSettings, error) {
	var settings assessment.LanguageSettings

	pdf := firstNonEmpty(opts.pdfLang, in.PDFLanguage)
	lang, err := assessment.ParseLanguage(pdf)
	if err != nil {
		return settings, assessment.LocationSettings{}, fmt.Errorf("pdf language: %w", err)
	}
	settings.PDF = lang

	ui, err := assessment.ParseLanguage(firstNonEmpty(opts.uiLang, in.UILanguage))
	if err != nil {
		return settings, assessment.LocationSettings{}, fmt.Errorf("ui language: %w", err)
	}
	settings.UI = ui

	loc := assessment.LocationSettings{City: firstNonEmpty(opts.city, in.City, cfg.Report.DefaultCity)}
	if !loc.KnownCity() {
		logger.Log.Warnf("未知城市 %q，地点将以英文显示", loc.City)
	}
	return settings, loc, nil
}

func dataConf(cfg *config.Config) *conf.Data {
	dsn := cfg.DB.DSN()
	if dsn == "" {
		return nil
	}
	return &conf.Data{Database: &conf.Database{Driver: "postgres", Source: dsn}}
}

// renderError 将 kratos 业务错误还原为面向命令行的提示
func renderError(err error) error {
	se := kerrors.FromError(err)
	if se == nil || se.Reason == "" {
		return err
	}
	if fields, ok := se.Metadata["fields"]; ok {
		return fmt.Errorf("%s (missing: %s)", se.Message, fields)
	}
	if detail, ok := se.Metadata["detail"]; ok {
		return fmt.Errorf("%s: %s", se.Message, detail)
	}
	if cause := se.Unwrap(); cause != nil {
		return fmt.Errorf("%s: %w", se.Message, cause)
	}
	return fmt.Errorf("%s", se.Message)
}

var summaryLabels = map[assessment.Language][]string{
	assessment.English:  {"File", "Pages", "Size (bytes)", "Font", "Render ID", "Warnings"},
	assessment.Mandarin: {"文件", "页数", "大小 (字节)", "字体", "渲染 ID", "警告"},
}

func printSummary(cmd *cobra.Command, ui assessment.Language, path string, out *report.Output) {
	labels, ok := summaryLabels[ui]
	if !ok {
		labels = summaryLabels[assessment.English]
	}
	values := []string{
		path,
		strconv.Itoa(out.Pages),
		strconv.Itoa(len(out.PDF)),
		out.Font,
		out.ID.String(),
		strconv.Itoa(len(out.Diagnostics)),
	}
	rows := make([][]string, len(labels))
	for i := range labels {
		rows[i] = []string{labels[i], values[i]}
	}
	for _, d := range out.Diagnostics {
		rows = append(rows, []string{"", d.String()})
	}

	header := []string{"Report", ""}
	if ui == assessment.Mandarin {
		header[0] = "报告"
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(header, rows))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
