package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-report/infrastructure/exporter"
	"github.com/vfg2006/traffic-report/infrastructure/loader"
	"github.com/vfg2006/traffic-report/internal/config"
	"github.com/vfg2006/traffic-report/internal/domain"
	"github.com/vfg2006/traffic-report/internal/usecases/aggregating"
	"github.com/vfg2006/traffic-report/internal/usecases/cleaning"
	"github.com/vfg2006/traffic-report/internal/usecases/comparing"
	"github.com/vfg2006/traffic-report/internal/usecases/ranking"
	"github.com/vfg2006/traffic-report/internal/usecases/reporting"
	"github.com/vfg2006/traffic-report/pkg/log"
)

// Códigos de saída por classe de erro
const (
	exitOK           = 0
	exitFailure      = 1
	exitInputFormat  = 2
	exitInsufficient = 3
	exitWrite        = 4
	exitUsage        = 64
)

const usage = "uso: report <session_counts.csv> <adds_to_cart.csv>"

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Error("Configuração inválida")
		os.Exit(exitFailure)
	}

	log.Configure(cfg.App.LogLevel, cfg.App.Env)

	os.Exit(run(context.Background(), cfg, os.Args[1:], os.Stdout))
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(out, usage)
		return exitUsage
	}

	ctx, runID := log.WithRunID(ctx)
	logger := log.ForContext(ctx)

	service := newReportingService(cfg)

	report, err := service.Run(ctx, args[0], args[1])
	if err != nil {
		logger.WithError(err).Error("Falha ao gerar o relatório")
		return exitCode(err)
	}

	logger.WithFields(log.Fields{
		"output":    cfg.Output.Path,
		"report_id": report.ReportID,
	}).Info("Planilha gerada")

	fmt.Fprintf(out, "Planilha gerada com sucesso: %s (run %s)\n", cfg.Output.Path, runID)
	return exitOK
}

func newReportingService(cfg *config.Config) reporting.ReportingService {
	exporters := []exporter.Exporter{exporter.NewExcelExporter(cfg.Output.Path, cfg.Output.ChartsEnabled)}
	if cfg.Output.SummaryJSONPath != "" {
		exporters = append(exporters, exporter.NewJSONExporter(cfg.Output.SummaryJSONPath))
	}

	return reporting.NewReportingService(
		loader.NewCSVLoader(),
		cleaning.NewCleaningService(cfg),
		aggregating.NewAggregatingService(cfg),
		comparing.NewComparingService(),
		ranking.NewBrowserRankingService(cfg),
		exporter.NewMultiExporter(exporters...),
	)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrInputFormat):
		return exitInputFormat
	case errors.Is(err, domain.ErrInsufficientData):
		return exitInsufficient
	case errors.Is(err, domain.ErrWrite):
		return exitWrite
	}
	return exitFailure
}
