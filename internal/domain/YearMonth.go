package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// YearMonth é a chave canônica (ano, mês) usada para agrupar séries mensais
type YearMonth struct {
	Year  int
	Month time.Month
}

// Layouts aceitos para um mês isolado, do mais ao menos comum nos extratos
var yearMonthLayouts = []string{
	"2006-01",
	"01-2006", // mm-yyyy, mesmo formato dos períodos mensais
	"2006/01",
	"01/2006",
	"January 2006",
	"Jan 2006",
	"200601",
	"2006-01-02",
}

func NewYearMonth(year int, month time.Month) YearMonth {
	return YearMonth{Year: year, Month: month}
}

// YearMonthOf retorna o mês ao qual a data pertence
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth converte textos como "2013-01", "01-2013" ou "January 2013" em YearMonth
func ParseYearMonth(value string) (YearMonth, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return YearMonth{}, errors.New("mês vazio")
	}

	for _, layout := range yearMonthLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return YearMonthOf(t), nil
		}
	}

	return YearMonth{}, errors.Errorf("mês inválido: %q", value)
}

// ParseMonth converte o número (1-12) ou o nome em inglês de um mês
func ParseMonth(value string) (time.Month, error) {
	value = strings.TrimSpace(value)

	if n, err := strconv.ParseFloat(value, 64); err == nil {
		if n != float64(int(n)) || n < 1 || n > 12 {
			return 0, errors.Errorf("número de mês fora do intervalo 1-12: %q", value)
		}
		return time.Month(int(n)), nil
	}

	// time.Parse compara nomes de meses sem diferenciar maiúsculas
	for _, layout := range []string{"January", "Jan"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Month(), nil
		}
	}

	return 0, errors.Errorf("mês inválido: %q", value)
}

// Compare retorna -1, 0 ou 1 conforme a ordem cronológica
func (ym YearMonth) Compare(other YearMonth) int {
	switch {
	case ym.Year < other.Year:
		return -1
	case ym.Year > other.Year:
		return 1
	case ym.Month < other.Month:
		return -1
	case ym.Month > other.Month:
		return 1
	}
	return 0
}

func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Compare(other) < 0
}

// String retorna o mês no formato yyyy-mm
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Label retorna o nome do mês seguido do ano (ex: January 2013)
func (ym YearMonth) Label() string {
	return fmt.Sprintf("%s %d", ym.Month.String(), ym.Year)
}

func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

func (ym *YearMonth) UnmarshalText(text []byte) error {
	parsed, err := ParseYearMonth(string(text))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}
