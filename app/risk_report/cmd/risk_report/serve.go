package main

import (
	"fmt"
	"os"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/env"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/risk_report/app/risk_report/internal/conf"
)

func newServeCommand() *cobra.Command {
	var flagconf string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the report HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(flagconf)
		},
	}

	// 默认指向 risk_report 项目的配置文件
	cmd.Flags().StringVar(&flagconf, "conf", "app/risk_report/configs/config.yaml", "config path, eg: --conf config.yaml")
	return cmd
}

func runServe(flagconf string) error {
	// 初始化日志记录器，包含时间戳、调用者信息、服务ID等上下文
	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	// 配置文件中的 ${KEY:default} 占位符从 RISK_REPORT_ 前缀的环境变量解析
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
			env.NewSource("RISK_REPORT_"),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		return fmt.Errorf("load config %s: %w", flagconf, err)
	}

	// 扫描配置到 Bootstrap 结构体
	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		return fmt.Errorf("scan config: %w", err)
	}

	app, cleanup, err := initApp(bc.Server, bc.Data, bc.Renderer, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	return app.Run()
}
