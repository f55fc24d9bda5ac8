// Package loader lê os extratos de sessões e de adds-to-cart para registros brutos
package loader

//go:generate mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-report/internal/domain"
)

// Colunas canônicas (após normalização do cabeçalho)
const (
	ColumnBrowser        = "browser"
	ColumnDeviceCategory = "devicecategory"
	ColumnDate           = "date"
	ColumnSessions       = "sessions"
	ColumnTransactions   = "transactions"
	ColumnQuantity       = "quantity"
	ColumnYear           = "year"
	ColumnMonth          = "month"
	ColumnAddsToCart     = "addstocart"
)

// Nomes alternativos aceitos para cada coluna canônica
var columnAliases = map[string][]string{
	ColumnBrowser:        {"browser"},
	ColumnDeviceCategory: {"devicecategory", "device"},
	ColumnDate:           {"date"},
	ColumnSessions:       {"sessions"},
	ColumnTransactions:   {"transactions"},
	ColumnQuantity:       {"quantity", "qty"},
	ColumnYear:           {"year"},
	ColumnMonth:          {"month"},
	ColumnAddsToCart:     {"addstocart", "cartadds"},
}

var sessionColumns = []string{
	ColumnBrowser,
	ColumnDeviceCategory,
	ColumnDate,
	ColumnSessions,
	ColumnTransactions,
	ColumnQuantity,
}

var cartColumns = []string{
	ColumnMonth,
	ColumnAddsToCart,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Loader interface {
	LoadSessionCounts(path string) ([]domain.RawSessionRecord, error)
	LoadCartAdds(path string) ([]domain.RawCartAddRecord, error)
}

// CSVLoader lê arquivos CSV (ou TSV, pela extensão) com cabeçalho na primeira linha
type CSVLoader struct{}

func NewCSVLoader() Loader {
	return &CSVLoader{}
}

func (l *CSVLoader) LoadSessionCounts(path string) ([]domain.RawSessionRecord, error) {
	tbl, err := readTable(path, sessionColumns)
	if err != nil {
		return nil, err
	}

	records := make([]domain.RawSessionRecord, 0, len(tbl.rows))
	for i, row := range tbl.rows {
		records = append(records, domain.RawSessionRecord{
			Line:           tbl.lines[i],
			Browser:        tbl.field(row, ColumnBrowser),
			DeviceCategory: tbl.field(row, ColumnDeviceCategory),
			Date:           tbl.field(row, ColumnDate),
			Sessions:       tbl.field(row, ColumnSessions),
			Transactions:   tbl.field(row, ColumnTransactions),
			Quantity:       tbl.field(row, ColumnQuantity),
		})
	}

	logrus.WithFields(logrus.Fields{
		"file": path,
		"rows": len(records),
	}).Info("Extrato de sessões carregado")

	return records, nil
}

func (l *CSVLoader) LoadCartAdds(path string) ([]domain.RawCartAddRecord, error) {
	tbl, err := readTable(path, cartColumns)
	if err != nil {
		return nil, err
	}

	records := make([]domain.RawCartAddRecord, 0, len(tbl.rows))
	for i, row := range tbl.rows {
		records = append(records, domain.RawCartAddRecord{
			Line:       tbl.lines[i],
			Year:       tbl.field(row, ColumnYear),
			Month:      tbl.field(row, ColumnMonth),
			AddsToCart: tbl.field(row, ColumnAddsToCart),
		})
	}

	logrus.WithFields(logrus.Fields{
		"file":     path,
		"rows":     len(records),
		"has_year": tbl.has(ColumnYear),
	}).Info("Extrato de adds-to-cart carregado")

	return records, nil
}

// table guarda as linhas de dados e a posição de cada coluna canônica
type table struct {
	columns map[string]int
	rows    [][]string
	lines   []int
}

func (t *table) has(column string) bool {
	_, ok := t.columns[column]
	return ok
}

// field retorna o valor da coluna ou vazio quando a linha é mais curta que o cabeçalho
func (t *table) field(row []string, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func readTable(path string, required []string) (*table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &domain.InputFormatError{File: path, Reason: "não foi possível abrir o arquivo", Err: err}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &domain.InputFormatError{File: path, Reason: "não foi possível ler o arquivo", Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		reader.Comma = '\t'
	}

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &domain.InputFormatError{File: path, Reason: "arquivo vazio"}
	}
	if err != nil {
		return nil, parseError(path, err)
	}

	columns := mapColumns(header)
	for _, column := range required {
		if _, ok := columns[column]; !ok {
			return nil, &domain.InputFormatError{
				File:   path,
				Column: column,
				Line:   1,
				Reason: "coluna obrigatória ausente",
			}
		}
	}

	tbl := &table{columns: columns}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(path, err)
		}
		if isBlank(row) {
			continue
		}

		line, _ := reader.FieldPos(0)
		tbl.rows = append(tbl.rows, row)
		tbl.lines = append(tbl.lines, line)
	}

	return tbl, nil
}

// mapColumns associa cada coluna canônica à sua posição; a primeira ocorrência prevalece
func mapColumns(header []string) map[string]int {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		key := NormalizeHeader(name)
		if _, exists := byName[key]; !exists {
			byName[key] = i
		}
	}

	columns := make(map[string]int, len(columnAliases))
	for canonical, aliases := range columnAliases {
		for _, alias := range aliases {
			if idx, ok := byName[alias]; ok {
				columns[canonical] = idx
				break
			}
		}
	}

	return columns
}

// NormalizeHeader reduz um cabeçalho à forma canônica: "dim_deviceCategory" e "Device Category" viram "devicecategory"
func NormalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "dim_")

	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isBlank(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func parseError(path string, err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &domain.InputFormatError{
			File:   path,
			Line:   csvErr.Line,
			Reason: "conteúdo não é um CSV válido",
			Err:    csvErr.Err,
		}
	}
	return &domain.InputFormatError{File: path, Reason: "conteúdo não é um CSV válido", Err: err}
}
