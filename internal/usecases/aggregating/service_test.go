package aggregating

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/traffic-report/internal/config"
	"github.com/vfg2006/traffic-report/internal/domain"
	"github.com/vfg2006/traffic-report/pkg/log"
)

var (
	jan2013 = domain.NewYearMonth(2013, time.January)
	feb2013 = domain.NewYearMonth(2013, time.February)
)

func newService(policy config.MissingCartAddsPolicy) AggregatingService {
	return NewAggregatingService(&config.Config{
		Report: config.Report{TopBrowsersLimit: 20, MissingCartAdds: policy},
	})
}

func session(month domain.YearMonth, device domain.DeviceCategory, browser string, sessions, transactions, quantity int64) domain.SessionRecord {
	return domain.SessionRecord{
		Browser:        browser,
		DeviceCategory: device,
		Date:           time.Date(month.Year, month.Month, 1, 0, 0, 0, 0, time.UTC),
		Month:          month,
		Sessions:       sessions,
		Transactions:   transactions,
		Quantity:       quantity,
	}
}

func sampleSessions() []domain.SessionRecord {
	return []domain.SessionRecord{
		session(jan2013, domain.DeviceDesktop, "Chrome", 100, 10, 12),
		session(jan2013, domain.DeviceDesktop, "Safari", 50, 5, 6),
		session(jan2013, domain.DeviceMobile, "Safari", 80, 2, 2),
		session(jan2013, domain.DeviceTablet, "Safari", 0, 0, 0),
		session(feb2013, domain.DeviceDesktop, "Chrome", 120, 6, 9),
		session(feb2013, domain.DeviceMobile, "Firefox", 40, 4, 4),
	}
}

func TestService_AggregateByMonthDevice(t *testing.T) {
	log.SetupTestLogger()

	tests := []struct {
		name     string
		policy   config.MissingCartAddsPolicy
		cartAdds []domain.CartAddRecord
		validate func(t *testing.T, result *MonthDeviceResult)
	}{
		{
			name:   "Deve agrupar por mês e dispositivo com ECR",
			policy: config.MissingCartAddsNull,
			cartAdds: []domain.CartAddRecord{
				{Month: jan2013, AddsToCart: 300},
				{Month: feb2013, AddsToCart: 200},
			},
			validate: func(t *testing.T, result *MonthDeviceResult) {
				require.Len(t, result.Rows, 5)
				assert.Empty(t, result.MissingCartAdds)

				first := result.Rows[0]
				assert.Equal(t, jan2013, first.Month)
				assert.Equal(t, domain.DeviceDesktop, first.DeviceCategory)
				assert.Equal(t, int64(150), first.Sessions)
				assert.Equal(t, int64(15), first.Transactions)
				assert.Equal(t, int64(18), first.Quantity)
				assert.Equal(t, 0.1, first.ECR)
				require.NotNil(t, first.AddsToCart)
				assert.Equal(t, int64(300), *first.AddsToCart)

				tablet := result.Rows[2]
				assert.Equal(t, domain.DeviceTablet, tablet.DeviceCategory)
				assert.Equal(t, 0.0, tablet.ECR)

				assert.Equal(t, feb2013, result.Rows[3].Month)
				assert.Equal(t, int64(200), *result.Rows[4].AddsToCart)
			},
		},
		{
			name:     "Mês sem adds-to-cart deve ficar nulo e não ser descartado",
			policy:   config.MissingCartAddsNull,
			cartAdds: []domain.CartAddRecord{{Month: jan2013, AddsToCart: 300}},
			validate: func(t *testing.T, result *MonthDeviceResult) {
				require.Len(t, result.Rows, 5)
				assert.Equal(t, []domain.YearMonth{feb2013}, result.MissingCartAdds)
				for _, row := range result.Rows {
					if row.Month == feb2013 {
						assert.Nil(t, row.AddsToCart)
					} else {
						assert.NotNil(t, row.AddsToCart)
					}
				}
			},
		},
		{
			name:     "Política zero deve preencher adds-to-cart com zero",
			policy:   config.MissingCartAddsZero,
			cartAdds: nil,
			validate: func(t *testing.T, result *MonthDeviceResult) {
				assert.Equal(t, []domain.YearMonth{jan2013, feb2013}, result.MissingCartAdds)
				for _, row := range result.Rows {
					require.NotNil(t, row.AddsToCart)
					assert.Zero(t, *row.AddsToCart)
				}
			},
		},
		{
			name:   "Meses de carrinho sem sessões devem ser ignorados",
			policy: config.MissingCartAddsNull,
			cartAdds: []domain.CartAddRecord{
				{Month: jan2013, AddsToCart: 1},
				{Month: feb2013, AddsToCart: 2},
				{Month: domain.NewYearMonth(2013, time.March), AddsToCart: 3},
			},
			validate: func(t *testing.T, result *MonthDeviceResult) {
				for _, row := range result.Rows {
					assert.NotEqual(t, domain.NewYearMonth(2013, time.March), row.Month)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newService(tt.policy).AggregateByMonthDevice(sampleSessions(), tt.cartAdds)
			tt.validate(t, result)
		})
	}
}

func TestService_AggregateByMonthDevice_PermutationInvariant(t *testing.T) {
	log.SetupTestLogger()
	service := newService(config.MissingCartAddsNull)
	cartAdds := []domain.CartAddRecord{{Month: jan2013, AddsToCart: 300}}

	expected := service.AggregateByMonthDevice(sampleSessions(), cartAdds)
	expectedBrowsers := service.AggregateByBrowser(sampleSessions())

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := sampleSessions()
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		assert.Equal(t, expected, service.AggregateByMonthDevice(shuffled, cartAdds))
		assert.Equal(t, expectedBrowsers, service.AggregateByBrowser(shuffled))
	}
}

func TestService_AggregateByMonthDevice_SumsAndRates(t *testing.T) {
	log.SetupTestLogger()
	service := newService(config.MissingCartAddsNull)
	sessions := sampleSessions()

	result := service.AggregateByMonthDevice(sessions, nil)

	var inputSessions, outputSessions, inputTransactions, outputTransactions int64
	for _, s := range sessions {
		inputSessions += s.Sessions
		inputTransactions += s.Transactions
	}
	for _, row := range result.Rows {
		outputSessions += row.Sessions
		outputTransactions += row.Transactions

		assert.GreaterOrEqual(t, row.ECR, 0.0)
		assert.LessOrEqual(t, row.ECR, 1.0)
		if row.Sessions == 0 {
			assert.Zero(t, row.ECR)
		}
	}

	assert.Equal(t, inputSessions, outputSessions)
	assert.Equal(t, inputTransactions, outputTransactions)
}

func TestService_AggregateByBrowser(t *testing.T) {
	browsers := newService(config.MissingCartAddsNull).AggregateByBrowser(sampleSessions())

	require.Len(t, browsers, 3)
	assert.Equal(t, []string{"Chrome", "Firefox", "Safari"}, []string{browsers[0].Browser, browsers[1].Browser, browsers[2].Browser})
	assert.Equal(t, domain.BrowserAggregate{
		Browser:      "Chrome",
		Sessions:     220,
		Transactions: 16,
		Quantity:     21,
		ECR:          16.0 / 220.0,
	}, browsers[0])
	assert.Equal(t, int64(130), browsers[2].Sessions)
}

func TestService_MonthTotals(t *testing.T) {
	log.SetupTestLogger()
	service := newService(config.MissingCartAddsNull)
	cartAdds := []domain.CartAddRecord{{Month: jan2013, AddsToCart: 300}}

	rows := service.AggregateByMonthDevice(sampleSessions(), cartAdds).Rows
	result := service.MonthTotals(rows)

	require.Len(t, result, 7)

	janTotal := result[3]
	assert.Equal(t, domain.DeviceTotal, janTotal.DeviceCategory)
	assert.Equal(t, jan2013, janTotal.Month)
	assert.Equal(t, int64(230), janTotal.Sessions)
	assert.Equal(t, int64(17), janTotal.Transactions)
	assert.Equal(t, 17.0/230.0, janTotal.ECR)
	require.NotNil(t, janTotal.AddsToCart)
	assert.Equal(t, int64(300), *janTotal.AddsToCart)

	febTotal := result[6]
	assert.Equal(t, domain.DeviceTotal, febTotal.DeviceCategory)
	assert.Equal(t, int64(160), febTotal.Sessions)
	assert.Nil(t, febTotal.AddsToCart)

	// A entrada não deve ser alterada
	assert.Len(t, rows, 5)
}
