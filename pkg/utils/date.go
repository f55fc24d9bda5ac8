package utils

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ParseDate tenta cada layout na ordem e retorna a primeira data válida.
// Anos com dois dígitos ("06" no layout) são sempre lidos como 20yy.
func ParseDate(dateStr string, layouts ...string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, errors.New("data vazia")
	}

	if len(layouts) == 0 {
		layouts = []string{"2006-01-02"}
	}

	for _, layout := range layouts {
		if date, err := time.Parse(layout, dateStr); err == nil {
			if hasTwoDigitYear(layout) && date.Year() < 2000 {
				date = time.Date(date.Year()+100, date.Month(), date.Day(),
					date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
			}
			return date, nil
		}
	}

	return time.Time{}, errors.Errorf("data inválida: %q", dateStr)
}

func hasTwoDigitYear(layout string) bool {
	return strings.Count(layout, "06") > strings.Count(layout, "2006")
}
