package aggregating

import (
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-report/internal/config"
	"github.com/vfg2006/traffic-report/internal/domain"
)

type AggregatingService interface {
	AggregateByMonthDevice(sessions []domain.SessionRecord, cartAdds []domain.CartAddRecord) *MonthDeviceResult
	AggregateByBrowser(sessions []domain.SessionRecord) []domain.BrowserAggregate
	MonthTotals(rows []domain.MonthDeviceAggregate) []domain.MonthDeviceAggregate
}

// MonthDeviceResult traz os agregados por mês e dispositivo e os meses sem adds-to-cart
type MonthDeviceResult struct {
	Rows            []domain.MonthDeviceAggregate
	MissingCartAdds []domain.YearMonth
}

type Service struct {
	missingCartAdds config.MissingCartAddsPolicy
}

func NewAggregatingService(cfg *config.Config) AggregatingService {
	return &Service{
		missingCartAdds: cfg.Report.MissingCartAdds,
	}
}

type monthDeviceKey struct {
	month  domain.YearMonth
	device domain.DeviceCategory
}

func (s *Service) AggregateByMonthDevice(sessions []domain.SessionRecord, cartAdds []domain.CartAddRecord) *MonthDeviceResult {
	groups := make(map[monthDeviceKey]*domain.MonthDeviceAggregate)
	for _, record := range sessions {
		key := monthDeviceKey{month: record.Month, device: record.DeviceCategory}

		agg, ok := groups[key]
		if !ok {
			agg = &domain.MonthDeviceAggregate{Month: record.Month, DeviceCategory: record.DeviceCategory}
			groups[key] = agg
		}

		agg.Sessions += record.Sessions
		agg.Transactions += record.Transactions
		agg.Quantity += record.Quantity
	}

	addsByMonth := make(map[domain.YearMonth]int64, len(cartAdds))
	for _, c := range cartAdds {
		addsByMonth[c.Month] += c.AddsToCart
	}

	result := &MonthDeviceResult{Rows: make([]domain.MonthDeviceAggregate, 0, len(groups))}
	sessionMonths := make(map[domain.YearMonth]bool)
	for _, agg := range groups {
		agg.ECR = domain.ConversionRate(agg.Transactions, agg.Sessions)

		if adds, ok := addsByMonth[agg.Month]; ok {
			agg.AddsToCart = int64Ptr(adds)
		} else if s.missingCartAdds == config.MissingCartAddsZero {
			agg.AddsToCart = int64Ptr(0)
		}

		if !sessionMonths[agg.Month] {
			sessionMonths[agg.Month] = true
			if _, ok := addsByMonth[agg.Month]; !ok {
				result.MissingCartAdds = append(result.MissingCartAdds, agg.Month)
			}
		}

		result.Rows = append(result.Rows, *agg)
	}

	for month := range addsByMonth {
		if !sessionMonths[month] {
			logrus.WithField("month", month.String()).Debug("Mês de adds-to-cart sem sessões, ignorado")
		}
	}

	sortMonthDevice(result.Rows)
	sort.Slice(result.MissingCartAdds, func(i, j int) bool {
		return result.MissingCartAdds[i].Before(result.MissingCartAdds[j])
	})

	if len(result.MissingCartAdds) > 0 {
		logrus.WithFields(logrus.Fields{
			"months": len(result.MissingCartAdds),
			"policy": s.missingCartAdds,
		}).Warn("Meses sem adds-to-cart no extrato de carrinho")
	}

	return result
}

func (s *Service) AggregateByBrowser(sessions []domain.SessionRecord) []domain.BrowserAggregate {
	groups := make(map[string]*domain.BrowserAggregate)
	for _, record := range sessions {
		agg, ok := groups[record.Browser]
		if !ok {
			agg = &domain.BrowserAggregate{Browser: record.Browser}
			groups[record.Browser] = agg
		}

		agg.Sessions += record.Sessions
		agg.Transactions += record.Transactions
		agg.Quantity += record.Quantity
	}

	browsers := make([]domain.BrowserAggregate, 0, len(groups))
	for _, agg := range groups {
		agg.ECR = domain.ConversionRate(agg.Transactions, agg.Sessions)
		browsers = append(browsers, *agg)
	}

	sort.Slice(browsers, func(i, j int) bool {
		return browsers[i].Browser < browsers[j].Browser
	})

	return browsers
}

// MonthTotals soma os dispositivos de cada mês em uma linha "total".
// Adds-to-cart é o valor do mês, repetido em cada dispositivo, por isso não é somado.
func (s *Service) MonthTotals(rows []domain.MonthDeviceAggregate) []domain.MonthDeviceAggregate {
	totals := make(map[domain.YearMonth]*domain.MonthDeviceAggregate)
	for _, row := range rows {
		total, ok := totals[row.Month]
		if !ok {
			total = &domain.MonthDeviceAggregate{Month: row.Month, DeviceCategory: domain.DeviceTotal}
			if row.AddsToCart != nil {
				total.AddsToCart = int64Ptr(*row.AddsToCart)
			}
			totals[row.Month] = total
		}

		total.Sessions += row.Sessions
		total.Transactions += row.Transactions
		total.Quantity += row.Quantity
	}

	result := make([]domain.MonthDeviceAggregate, 0, len(rows)+len(totals))
	result = append(result, rows...)
	for _, total := range totals {
		total.ECR = domain.ConversionRate(total.Transactions, total.Sessions)
		result = append(result, *total)
	}

	sortMonthDevice(result)

	return result
}

func sortMonthDevice(rows []domain.MonthDeviceAggregate) {
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Month.Compare(rows[j].Month); c != 0 {
			return c < 0
		}
		if ri, rj := rows[i].DeviceCategory.Rank(), rows[j].DeviceCategory.Rank(); ri != rj {
			return ri < rj
		}
		return rows[i].DeviceCategory < rows[j].DeviceCategory
	})
}

func int64Ptr(v int64) *int64 {
	return &v
}
