package exporter

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-report/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet = "Sheet1"
	columnWidth  = 18
)

// chartPlacement posiciona um gráfico em uma aba
type chartPlacement struct {
	sheet string
	cell  string
	chart *excelize.Chart
}

// ExcelExporter grava o relatório em um único arquivo .xlsx, uma aba por tabela
type ExcelExporter struct {
	path          string
	chartsEnabled bool
}

func NewExcelExporter(path string, chartsEnabled bool) *ExcelExporter {
	return &ExcelExporter{
		path:          path,
		chartsEnabled: chartsEnabled,
	}
}

func (e *ExcelExporter) Export(report *domain.Report) error {
	p, err := e.stage(report)
	if err != nil {
		return err
	}
	return p.commit()
}

func (e *ExcelExporter) stage(report *domain.Report) (*pendingFile, error) {
	sheets := BuildSheets(report)

	var charts []chartPlacement
	if e.chartsEnabled {
		data, months, browsers := chartDataSheet(report)
		sheets = append(sheets, data)
		charts = buildCharts(months, browsers)
	}

	p, err := e.stageWorkbook(sheets, charts)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"path":   e.path,
		"sheets": len(sheets),
		"charts": len(charts),
	}).Info("Planilha do relatório preparada")

	return p, nil
}

// WriteSheets grava as tabelas informadas, na ordem, em um único arquivo
func (e *ExcelExporter) WriteSheets(sheets []Sheet) error {
	p, err := e.stageWorkbook(sheets, nil)
	if err != nil {
		return err
	}
	return p.commit()
}

func (e *ExcelExporter) stageWorkbook(sheets []Sheet, charts []chartPlacement) (*pendingFile, error) {
	if len(sheets) == 0 {
		return nil, &domain.WriteError{Path: e.path, Err: errors.New("nenhuma aba para gravar")}
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logrus.WithError(err).Warn("Erro ao fechar a planilha")
		}
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, &domain.WriteError{Path: e.path, Err: err}
	}

	for i, sheet := range sheets {
		if err := addSheet(f, i, sheet, headerStyle); err != nil {
			return nil, &domain.WriteError{Path: e.path, Err: errors.Wrapf(err, "erro na aba %q", sheet.Name)}
		}
	}

	for _, placement := range charts {
		idx, err := f.GetSheetIndex(placement.sheet)
		if err != nil {
			return nil, &domain.WriteError{Path: e.path, Err: err}
		}
		if idx < 0 {
			if _, err := f.NewSheet(placement.sheet); err != nil {
				return nil, &domain.WriteError{Path: e.path, Err: err}
			}
		}
		if err := f.AddChart(placement.sheet, placement.cell, placement.chart); err != nil {
			return nil, &domain.WriteError{Path: e.path, Err: errors.Wrap(err, "erro ao adicionar gráfico")}
		}
	}

	f.SetActiveSheet(0)

	return stageFile(e.path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
}

func addSheet(f *excelize.File, position int, sheet Sheet, headerStyle int) error {
	if position == 0 {
		if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
			return err
		}
	} else if _, err := f.NewSheet(sheet.Name); err != nil {
		return err
	}

	header := make([]interface{}, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return err
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet.Name, cell, &row); err != nil {
			return err
		}
	}

	if len(sheet.Headers) == 0 {
		return nil
	}

	lastCol, err := excelize.ColumnNumberToName(len(sheet.Headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet.Name, "A", lastCol, columnWidth); err != nil {
		return err
	}

	return f.SetCellStyle(sheet.Name, "A1", fmt.Sprintf("%s1", lastCol), headerStyle)
}

// buildCharts referencia a aba "Chart Data": meses nas linhas 2..months+1, navegadores em 2..browsers+1
func buildCharts(months, browsers int) []chartPlacement {
	var charts []chartPlacement

	if months > 0 {
		last := months + 1
		series := make([]excelize.ChartSeries, 0, len(chartDevices))
		for i := range chartDevices {
			col, _ := excelize.ColumnNumberToName(i + 2)
			series = append(series, excelize.ChartSeries{
				Name:       fmt.Sprintf("'%s'!$%s$1", SheetChartData, col),
				Categories: dataRange(chartMonthCol, 2, last),
				Values:     dataRange(col, 2, last),
			})
		}

		charts = append(charts,
			chartPlacement{
				sheet: SheetCharts,
				cell:  "A1",
				chart: &excelize.Chart{
					Type:      excelize.Col,
					Series:    series,
					Title:     []excelize.RichTextRun{{Text: "Sessions by Month and Device"}},
					Legend:    excelize.ChartLegend{Position: "bottom"},
					Dimension: excelize.ChartDimension{Width: 720, Height: 360},
				},
			},
			chartPlacement{
				sheet: SheetCharts,
				cell:  "M1",
				chart: &excelize.Chart{
					Type: excelize.Line,
					Series: []excelize.ChartSeries{{
						Name:       fmt.Sprintf("'%s'!$%s$1", SheetChartData, chartTotalECRCol),
						Categories: dataRange(chartMonthCol, 2, last),
						Values:     dataRange(chartTotalECRCol, 2, last),
					}},
					Title:     []excelize.RichTextRun{{Text: "ECR by Month"}},
					Legend:    excelize.ChartLegend{Position: "none"},
					Dimension: excelize.ChartDimension{Width: 720, Height: 360},
				},
			},
		)
	}

	if browsers > 0 {
		last := browsers + 1
		charts = append(charts, chartPlacement{
			sheet: SheetCharts,
			cell:  "A20",
			chart: &excelize.Chart{
				Type: excelize.Bar,
				Series: []excelize.ChartSeries{{
					Name:       fmt.Sprintf("'%s'!$%s$1", SheetChartData, chartBrowserSessionCol),
					Categories: dataRange(chartBrowserCol, 2, last),
					Values:     dataRange(chartBrowserSessionCol, 2, last),
				}},
				Title:     []excelize.RichTextRun{{Text: "Top Browsers by Sessions"}},
				Legend:    excelize.ChartLegend{Position: "none"},
				Dimension: excelize.ChartDimension{Width: 720, Height: 480},
			},
		})
	}

	return charts
}
