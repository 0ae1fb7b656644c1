package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yeisme/docvault/pkg/configs"
	ctxPkg "github.com/yeisme/docvault/pkg/context"
	"github.com/yeisme/docvault/pkg/internal/jobs"
	"github.com/yeisme/docvault/pkg/internal/storage"
	nlog "github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/metrics"
	"github.com/yeisme/docvault/pkg/scheduler"
	"github.com/yeisme/docvault/pkg/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the document repository service",
	RunE:  runServe,
}

// registerServeCommand 注册 serve 命令.
func registerServeCommand() {
	rootCmd.AddCommand(serveCmd)
}

// runServe 启动服务：指标、追踪、存储与维护任务，收到终止信号后逐一收尾.
func runServe(cmd *cobra.Command, args []string) error {
	cfg := configs.GetConfig()
	logger := nlog.Logger()

	if cfg.Metrics.Enabled {
		if err := metrics.InitMetrics(cfg.Metrics); err != nil {
			return err
		}

		if err := metrics.StartMetricsServer(cfg.Metrics); err != nil {
			return err
		}
	}

	if cfg.Tracing.Enabled {
		if err := tracing.InitTracer(cfg.Tracing); err != nil {
			return err
		}

		defer func() {
			if err := tracing.ShutdownTracer(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("tracer shutdown failed")
			}
		}()
	}

	mgr, err := storage.Init(cmd.Context())
	if err != nil {
		return err
	}

	defer func() {
		if err := mgr.Close(); err != nil {
			logger.Warn().Err(err).Msg("storage shutdown failed")
		}
	}()

	appCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	sched, err := scheduler.NewScheduler()
	if err != nil {
		return err
	}

	if err := jobs.Register(appCtx, sched, &cfg.Scheduler); err != nil {
		return err
	}

	sched.Start()

	defer func() {
		if err := sched.Stop(); err != nil {
			logger.Warn().Err(err).Msg("scheduler shutdown failed")
		}
	}()

	logger.Info().Str("version", configs.AppVersion).Msg("docvault service started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutdown signal received")

	return nil
}
