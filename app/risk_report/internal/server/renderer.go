package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/risk_report/app/risk_report/internal/conf"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/config"
	rrLogger "github.com/iWorld-y/risk_report/app/risk_report/pkg/logger"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/report"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/translate"
)

// NewRendererConfig 将 internal/conf.Renderer 转换为 pkg/config.Config，并初始化渲染日志
func NewRendererConfig(c *conf.Renderer, logger log.Logger) *config.Config {
	cfg := &config.Config{}
	if c != nil {
		if c.Llm != nil {
			cfg.LLM = config.LLMConfig{
				BaseURL: c.Llm.BaseUrl,
				APIKey:  c.Llm.ApiKey,
				Model:   c.Llm.Model,
				Timeout: int(c.Llm.Timeout),
			}
		}
		if c.Fonts != nil {
			cfg.Fonts = config.FontsConfig{
				CJKFont:    c.Fonts.CjkFont,
				SearchDirs: c.Fonts.SearchDirs,
				Candidates: c.Fonts.Candidates,
			}
		}
		if c.Report != nil {
			cfg.Report = config.ReportConfig{
				TimeZone:    c.Report.TimeZone,
				DefaultCity: c.Report.DefaultCity,
				Banner:      c.Report.Banner,
				Compress:    c.Report.Compress,
			}
		}
		if c.Log != nil {
			cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
		}
		if c.Concurrency != nil {
			cfg.Concurrency = config.ConcurrencyConfig{
				QPS: int(c.Concurrency.Qps),
				RPM: int(c.Concurrency.Rpm),
			}
		}
	}
	cfg = config.WithDefaults(cfg)
	cfg.ApplyEnv()

	if err := rrLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.NewHelper(logger).Errorf("Failed to init renderer logger: %v", err)
		_ = rrLogger.InitLogger("info", "") // 降级处理
	}
	return cfg
}

// NewTranslationCache 创建翻译缓存。未配置 API Key 时缓存只做透传。
func NewTranslationCache(cfg *config.Config, store translate.Store, logger log.Logger) (*translate.Cache, error) {
	helper := log.NewHelper(logger)
	ctx := context.Background()

	backend, err := translate.NewOpenAIBackend(ctx, cfg)
	if err != nil {
		helper.Errorf("Failed to init translation backend: %v", err)
		return nil, err
	}
	if backend == nil {
		helper.Warnf("%s not set, Mandarin reports will keep English labels", config.EnvAPIKey)
	}

	cache := translate.NewCache(backend, translate.WithStore(store))
	n, err := cache.Warm(ctx)
	if err != nil {
		helper.Warnf("Failed to warm translation cache: %v", err)
	} else if n > 0 {
		helper.Infof("loaded %d cached translations", n)
	}
	return cache, nil
}

// NewAssembler 创建报告装配器
func NewAssembler(cfg *config.Config, cache *translate.Cache) *report.Assembler {
	return report.New(cfg, cache)
}
