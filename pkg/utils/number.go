package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return Round(f, 2)
}

// Round arredonda para o número de casas informado (meio para longe do zero)
func Round(f float64, places int32) float64 {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}

	return decimal.NewFromFloat(f).Round(places).InexactFloat64()
}

// ParseCount converte contadores como "1,234" ou "12.0" em inteiro não negativo
func ParseCount(value string) (int64, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" {
		return 0, errors.New("valor vazio")
	}

	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		if n < 0 {
			return 0, errors.Errorf("valor negativo: %d", n)
		}
		return n, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, errors.Errorf("valor numérico inválido: %q", value)
	}
	if !d.IsInteger() {
		return 0, errors.Errorf("valor não inteiro: %q", value)
	}
	if d.IsNegative() {
		return 0, errors.Errorf("valor negativo: %s", d.String())
	}

	return d.IntPart(), nil
}
