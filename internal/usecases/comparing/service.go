package comparing

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-report/internal/domain"
)

const (
	pctPlaces = 2
	ecrPlaces = 6
)

var hundred = decimal.NewFromInt(100)

type ComparingService interface {
	Compare(rows []domain.MonthDeviceAggregate) (*domain.MonthComparisonReport, error)
}

type Service struct{}

func NewComparingService() ComparingService {
	return &Service{}
}

// Compare compara os dois meses mais recentes presentes nas linhas, dispositivo a dispositivo
func (s *Service) Compare(rows []domain.MonthDeviceAggregate) (*domain.MonthComparisonReport, error) {
	months := distinctMonths(rows)
	if len(months) < 2 {
		return nil, &domain.InsufficientDataError{Months: months}
	}

	previous, current := months[len(months)-2], months[len(months)-1]

	type sides struct {
		previous *domain.MonthDeviceAggregate
		current  *domain.MonthDeviceAggregate
	}
	byDevice := make(map[domain.DeviceCategory]*sides)
	for i := range rows {
		row := &rows[i]
		if row.Month != previous && row.Month != current {
			continue
		}

		entry, ok := byDevice[row.DeviceCategory]
		if !ok {
			entry = &sides{}
			byDevice[row.DeviceCategory] = entry
		}

		if row.Month == previous {
			entry.previous = row
		} else {
			entry.current = row
		}
	}

	devices := make([]domain.DeviceCategory, 0, len(byDevice))
	for device := range byDevice {
		devices = append(devices, device)
	}
	sort.Slice(devices, func(i, j int) bool {
		if devices[i].Rank() != devices[j].Rank() {
			return devices[i].Rank() < devices[j].Rank()
		}
		return devices[i] < devices[j]
	})

	report := &domain.MonthComparisonReport{
		PreviousMonth: previous,
		CurrentMonth:  current,
		Rows:          make([]domain.MonthComparison, 0, len(devices)*len(domain.ComparedMetrics)),
	}

	for _, device := range devices {
		entry := byDevice[device]
		for _, metric := range domain.ComparedMetrics {
			report.Rows = append(report.Rows, compareMetric(device, metric, entry.previous, entry.current))
		}
	}

	logrus.WithFields(logrus.Fields{
		"previous_month": previous.String(),
		"current_month":  current.String(),
		"devices":        len(devices),
	}).Info("Comparação entre meses concluída")

	return report, nil
}

func compareMetric(device domain.DeviceCategory, metric domain.Metric, previous, current *domain.MonthDeviceAggregate) domain.MonthComparison {
	places := int32(ecrPlaces)

	comparison := domain.MonthComparison{
		DeviceCategory: device,
		Metric:         metric,
	}

	prev := metric.Value(previous)
	cur := metric.Value(current)

	if prev != nil {
		comparison.Previous = roundPtr(decimal.NewFromFloat(*prev), places)
	}
	if cur != nil {
		comparison.Current = roundPtr(decimal.NewFromFloat(*cur), places)
	}
	if prev == nil || cur == nil {
		return comparison
	}

	comparison.AbsChange = roundPtr(decimal.NewFromFloat(*cur).Sub(decimal.NewFromFloat(*prev)), places)
	comparison.PctChange = PctChange(*prev, *cur)

	return comparison
}

// PctChange calcula a variação percentual; nil quando o valor anterior é zero
func PctChange(previous, current float64) *float64 {
	prev := decimal.NewFromFloat(previous)
	if prev.IsZero() {
		return nil
	}
	return roundPtr(decimal.NewFromFloat(current).Sub(prev).Div(prev).Mul(hundred), pctPlaces)
}

func distinctMonths(rows []domain.MonthDeviceAggregate) []domain.YearMonth {
	seen := make(map[domain.YearMonth]bool)
	months := make([]domain.YearMonth, 0)
	for _, row := range rows {
		if !seen[row.Month] {
			seen[row.Month] = true
			months = append(months, row.Month)
		}
	}

	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})

	return months
}

func roundPtr(d decimal.Decimal, places int32) *float64 {
	v := d.Round(places).InexactFloat64()
	return &v
}
