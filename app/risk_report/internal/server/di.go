package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/risk_report/app/risk_report/internal/biz"
	"github.com/iWorld-y/risk_report/app/risk_report/internal/data"
	"github.com/iWorld-y/risk_report/app/risk_report/internal/service"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/report"
)

// ProviderSet 是报告服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewRendererConfig,
	NewTranslationCache,
	NewAssembler,
	wire.Bind(new(biz.Renderer), new(*report.Assembler)),

	// Data providers
	data.NewData,
	data.NewRenderRepo,
	data.NewTranslationStore,

	// UseCase providers
	biz.NewRenderUseCase,

	// Service providers
	service.NewReportService,
)
