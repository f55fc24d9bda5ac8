package exporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/vfg2006/traffic-report/internal/domain"
)

// Nomes das abas da planilha
const (
	SheetMonthDevice      = "Month Device Agg"
	SheetComparison       = "Month to Month Comparison"
	SheetTopBrowsers      = "Top 20 Browsers"
	SheetMonthWithTotals  = "Month Aggs with Total"
	SheetDataQuality      = "Data Quality"
	SheetRunInfo          = "Run Info"
	SheetChartData        = "Chart Data"
	SheetCharts           = "Charts"
	topBrowsersSheetLimit = 20
)

var aggregateHeaders = []string{"Month", "Device Category", "Sessions", "Transactions", "Quantity", "Adds To Cart", "ECR"}

// BuildSheets monta as tabelas do relatório na ordem em que aparecem na planilha
func BuildSheets(report *domain.Report) []Sheet {
	sheets := []Sheet{
		aggregateSheet(SheetMonthDevice, report.MonthDevice),
		comparisonSheet(report.Comparison),
		topBrowsersSheet(report.TopBrowsers),
		aggregateSheet(SheetMonthWithTotals, report.MonthTotals),
		dataQualitySheet(report.Warnings),
		runInfoSheet(report),
	}

	return sheets
}

func aggregateSheet(name string, rows []domain.MonthDeviceAggregate) Sheet {
	sheet := Sheet{
		Name:    name,
		Headers: aggregateHeaders,
		Rows:    make([][]interface{}, 0, len(rows)),
	}

	for _, row := range rows {
		sheet.Rows = append(sheet.Rows, []interface{}{
			row.Month.Label(),
			row.DeviceCategory.Title(),
			row.Sessions,
			row.Transactions,
			row.Quantity,
			int64OrNil(row.AddsToCart),
			row.ECR,
		})
	}

	return sheet
}

func comparisonSheet(comparison *domain.MonthComparisonReport) Sheet {
	sheet := Sheet{
		Name:    SheetComparison,
		Headers: []string{"Device Category", "Metric", "Previous Month", "Current Month", "Abs Change", "Pct Change"},
	}
	if comparison == nil {
		return sheet
	}

	sheet.Headers[2] = comparison.PreviousMonth.Label()
	sheet.Headers[3] = comparison.CurrentMonth.Label()

	sheet.Rows = make([][]interface{}, 0, len(comparison.Rows))
	for _, row := range comparison.Rows {
		sheet.Rows = append(sheet.Rows, []interface{}{
			row.DeviceCategory.Title(),
			metricLabel(row.Metric),
			floatOrNil(row.Previous),
			floatOrNil(row.Current),
			floatOrNil(row.AbsChange),
			floatOrNil(row.PctChange),
		})
	}

	return sheet
}

func topBrowsersSheet(items []domain.BrowserRankingItem) Sheet {
	sheet := Sheet{
		Name:    SheetTopBrowsers,
		Headers: []string{"Position", "Browser", "Sessions", "Transactions", "Quantity", "ECR", "Session Share (%)"},
		Rows:    make([][]interface{}, 0, len(items)),
	}

	for _, item := range items {
		sheet.Rows = append(sheet.Rows, []interface{}{
			item.Position,
			item.Browser,
			item.Sessions,
			item.Transactions,
			item.Quantity,
			item.ECR,
			item.SessionShare,
		})
	}

	return sheet
}

func dataQualitySheet(warnings []domain.DataQualityWarning) Sheet {
	sheet := Sheet{
		Name:    SheetDataQuality,
		Headers: []string{"Source", "Line", "Field", "Value", "Reason", "Action"},
		Rows:    make([][]interface{}, 0, len(warnings)),
	}

	for _, w := range warnings {
		sheet.Rows = append(sheet.Rows, []interface{}{w.Source, w.Line, w.Field, w.Value, w.Reason, string(w.Action)})
	}

	return sheet
}

func runInfoSheet(report *domain.Report) Sheet {
	sheet := Sheet{
		Name:    SheetRunInfo,
		Headers: []string{"Key", "Value"},
	}

	add := func(key string, value interface{}) {
		sheet.Rows = append(sheet.Rows, []interface{}{key, value})
	}

	add("Run ID", report.RunID)
	add("Report ID", report.ReportID)
	add("Generated At", report.GeneratedAt.Format(time.RFC3339))
	add("Sessions File", report.SessionsFile)
	add("Cart Adds File", report.CartAddsFile)

	if report.Comparison != nil {
		add("Previous Month", report.Comparison.PreviousMonth.String())
		add("Current Month", report.Comparison.CurrentMonth.String())
	}

	if report.Stats != nil {
		add("Session Rows", report.Stats.SessionRows)
		add("Session Rows Kept", report.Stats.SessionsKept)
		add("Session Rows Dropped", report.Stats.SessionsDropped)
		add("Cart Rows", report.Stats.CartRows)
		add("Cart Rows Kept", report.Stats.CartKept)
		add("Cart Rows Dropped", report.Stats.CartDropped)
	}

	add("Warnings", len(report.Warnings))

	if len(report.MissingCartAdds) > 0 {
		months := make([]string, 0, len(report.MissingCartAdds))
		for _, m := range report.MissingCartAdds {
			months = append(months, m.String())
		}
		add("Months Without Cart Adds", strings.Join(months, ", "))
	}

	return sheet
}

// Colunas da aba de dados dos gráficos
const (
	chartMonthCol          = "A"
	chartTotalECRCol       = "E"
	chartBrowserCol        = "G"
	chartBrowserSessionCol = "H"
)

var chartDevices = []domain.DeviceCategory{domain.DeviceDesktop, domain.DeviceMobile, domain.DeviceTablet}

// chartDataSheet pivota sessões por mês e dispositivo, o ECR total do mês e os principais navegadores
func chartDataSheet(report *domain.Report) (Sheet, int, int) {
	type monthRow struct {
		month    domain.YearMonth
		sessions map[domain.DeviceCategory]int64
		ecr      *float64
	}

	var months []*monthRow
	index := make(map[domain.YearMonth]*monthRow)
	for _, row := range report.MonthDevice {
		mr, ok := index[row.Month]
		if !ok {
			mr = &monthRow{month: row.Month, sessions: make(map[domain.DeviceCategory]int64)}
			index[row.Month] = mr
			months = append(months, mr)
		}
		mr.sessions[row.DeviceCategory] += row.Sessions
	}
	for _, total := range report.MonthTotals {
		if total.DeviceCategory != domain.DeviceTotal {
			continue
		}
		if mr, ok := index[total.Month]; ok {
			ecr := total.ECR
			mr.ecr = &ecr
		}
	}

	browsers := report.TopBrowsers
	if len(browsers) > topBrowsersSheetLimit {
		browsers = browsers[:topBrowsersSheetLimit]
	}

	headers := []string{"Month"}
	for _, device := range chartDevices {
		headers = append(headers, device.Title())
	}
	headers = append(headers, "Total ECR", "", "Browser", "Sessions")

	n := len(months)
	if len(browsers) > n {
		n = len(browsers)
	}

	sheet := Sheet{Name: SheetChartData, Headers: headers, Rows: make([][]interface{}, 0, n)}
	for i := 0; i < n; i++ {
		row := make([]interface{}, len(headers))
		if i < len(months) {
			mr := months[i]
			row[0] = mr.month.Label()
			for j, device := range chartDevices {
				row[j+1] = mr.sessions[device]
			}
			row[len(chartDevices)+1] = floatOrNil(mr.ecr)
		}
		if i < len(browsers) {
			row[len(headers)-2] = browsers[i].Browser
			row[len(headers)-1] = browsers[i].Sessions
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet, len(months), len(browsers)
}

func metricLabel(metric domain.Metric) string {
	switch metric {
	case domain.MetricSessions:
		return "Sessions"
	case domain.MetricTransactions:
		return "Transactions"
	case domain.MetricQuantity:
		return "Quantity"
	case domain.MetricAddsToCart:
		return "Adds To Cart"
	case domain.MetricECR:
		return "ECR"
	}
	return string(metric)
}

// dataRange monta a referência absoluta de uma coluna da aba de dados dos gráficos
func dataRange(col string, first, last int) string {
	return fmt.Sprintf("'%s'!$%s$%d:$%s$%d", SheetChartData, col, first, col, last)
}

func floatOrNil(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func int64OrNil(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
