package reporting

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/traffic-report/infrastructure/exporter"
	"github.com/vfg2006/traffic-report/infrastructure/loader"
	"github.com/vfg2006/traffic-report/internal/domain"
	"github.com/vfg2006/traffic-report/internal/usecases/aggregating"
	"github.com/vfg2006/traffic-report/internal/usecases/cleaning"
	"github.com/vfg2006/traffic-report/internal/usecases/comparing"
	"github.com/vfg2006/traffic-report/internal/usecases/ranking"
	"github.com/vfg2006/traffic-report/pkg/log"
	"github.com/vfg2006/traffic-report/pkg/utils"
)

type ReportingService interface {
	Build(ctx context.Context, sessionsPath, cartAddsPath string) (*domain.Report, error)
	Run(ctx context.Context, sessionsPath, cartAddsPath string) (*domain.Report, error)
}

type Service struct {
	loader      loader.Loader
	cleaning    cleaning.CleaningService
	aggregating aggregating.AggregatingService
	comparing   comparing.ComparingService
	ranking     ranking.RankingService
	exporter    exporter.Exporter
	now         func() time.Time
}

func NewReportingService(
	sessionLoader loader.Loader,
	cleaningService cleaning.CleaningService,
	aggregatingService aggregating.AggregatingService,
	comparingService comparing.ComparingService,
	rankingService ranking.RankingService,
	reportExporter exporter.Exporter,
) ReportingService {
	return &Service{
		loader:      sessionLoader,
		cleaning:    cleaningService,
		aggregating: aggregatingService,
		comparing:   comparingService,
		ranking:     rankingService,
		exporter:    reportExporter,
		now:         time.Now,
	}
}

// Run monta o relatório completo e só então o exporta; em caso de erro nada é gravado
func (s *Service) Run(ctx context.Context, sessionsPath, cartAddsPath string) (*domain.Report, error) {
	ctx = ensureRunID(ctx)
	logger := log.ForContext(ctx)

	report, err := s.Build(ctx, sessionsPath, cartAddsPath)
	if err != nil {
		return nil, err
	}

	if err := s.exporter.Export(report); err != nil {
		return nil, errors.Wrap(err, "erro ao exportar relatório")
	}

	logger.WithFields(log.Fields{
		"report_id": report.ReportID,
		"warnings":  len(report.Warnings),
	}).Info("Relatório gerado com sucesso")

	return report, nil
}

// Build executa carga, limpeza, agregação, comparação e ranking sem gravar nada
func (s *Service) Build(ctx context.Context, sessionsPath, cartAddsPath string) (*domain.Report, error) {
	ctx = ensureRunID(ctx)
	logger := log.ForContext(ctx)

	rawSessions, err := s.loader.LoadSessionCounts(sessionsPath)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao carregar extrato de sessões")
	}

	rawCartAdds, err := s.loader.LoadCartAdds(cartAddsPath)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao carregar extrato de adds-to-cart")
	}

	sessions := s.cleaning.CleanSessions(sessionsPath, rawSessions)
	cartAdds := s.cleaning.CleanCartAdds(cartAddsPath, rawCartAdds)

	monthDevice := s.aggregating.AggregateByMonthDevice(sessions.Records, cartAdds.Records)
	monthTotals := s.aggregating.MonthTotals(monthDevice.Rows)

	comparison, err := s.comparing.Compare(monthTotals)
	if err != nil {
		logger.WithError(err).Error("Não foi possível comparar os meses")
		return nil, err
	}

	browsers := s.aggregating.AggregateByBrowser(sessions.Records)
	topBrowsers := s.ranking.Rank(browsers)

	reportID, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar id do relatório")
	}

	warnings := make([]domain.DataQualityWarning, 0, len(sessions.Warnings)+len(cartAdds.Warnings))
	warnings = append(warnings, sessions.Warnings...)
	warnings = append(warnings, cartAdds.Warnings...)

	report := &domain.Report{
		RunID:           log.GetRunID(ctx),
		ReportID:        reportID,
		GeneratedAt:     s.now().UTC(),
		SessionsFile:    sessionsPath,
		CartAddsFile:    cartAddsPath,
		MonthDevice:     monthDevice.Rows,
		MonthTotals:     monthTotals,
		Browsers:        browsers,
		TopBrowsers:     topBrowsers,
		Comparison:      comparison,
		Warnings:        warnings,
		MissingCartAdds: monthDevice.MissingCartAdds,
		Stats: &domain.CleaningStats{
			SessionRows:     sessions.Rows,
			SessionsKept:    len(sessions.Records),
			SessionsDropped: sessions.Dropped,
			CartRows:        cartAdds.Rows,
			CartKept:        cartAdds.Rows - cartAdds.Dropped,
			CartDropped:     cartAdds.Dropped,
		},
	}

	logger.WithFields(log.Fields{
		"report_id":      reportID,
		"months":         len(monthTotals) - len(monthDevice.Rows),
		"previous_month": comparison.PreviousMonth.String(),
		"current_month":  comparison.CurrentMonth.String(),
		"top_browsers":   len(topBrowsers),
	}).Info("Relatório montado")

	return report, nil
}

func ensureRunID(ctx context.Context) context.Context {
	if log.GetRunID(ctx) != "" {
		return ctx
	}
	ctx, _ = log.WithRunID(ctx)
	return ctx
}
