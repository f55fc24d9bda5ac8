package cleaning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/traffic-report/internal/config"
	"github.com/vfg2006/traffic-report/internal/domain"
	"github.com/vfg2006/traffic-report/pkg/log"
)

func newService(policy config.TransactionsPolicy) CleaningService {
	return NewCleaningService(&config.Config{
		Cleaning: config.Cleaning{
			DateLayouts:        []string{"1/2/06", "1/2/2006", "2006-01-02"},
			TransactionsPolicy: policy,
		},
	})
}

func validRow(line int) domain.RawSessionRecord {
	return domain.RawSessionRecord{
		Line:           line,
		Browser:        "Safari",
		DeviceCategory: "tablet",
		Date:           "7/1/12",
		Sessions:       "2928",
		Transactions:   "127",
		Quantity:       "221",
	}
}

func TestService_CleanSessions(t *testing.T) {
	log.SetupTestLogger()

	tests := []struct {
		name     string
		policy   config.TransactionsPolicy
		row      func() domain.RawSessionRecord
		validate func(t *testing.T, result *SessionsResult)
	}{
		{
			name:   "Deve converter uma linha válida",
			policy: config.TransactionsReject,
			row:    func() domain.RawSessionRecord { return validRow(2) },
			validate: func(t *testing.T, result *SessionsResult) {
				require.Len(t, result.Records, 1)
				assert.Empty(t, result.Warnings)
				assert.Equal(t, domain.SessionRecord{
					Browser:        "Safari",
					DeviceCategory: domain.DeviceTablet,
					Date:           time.Date(2012, time.July, 1, 0, 0, 0, 0, time.UTC),
					Month:          domain.NewYearMonth(2012, time.July),
					Sessions:       2928,
					Transactions:   127,
					Quantity:       221,
				}, result.Records[0])
			},
		},
		{
			name:   "Navegador vazio deve virar (not set) com aviso",
			policy: config.TransactionsReject,
			row: func() domain.RawSessionRecord {
				r := validRow(2)
				r.Browser = ""
				return r
			},
			validate: func(t *testing.T, result *SessionsResult) {
				require.Len(t, result.Records, 1)
				assert.Equal(t, domain.NotSetBrowser, result.Records[0].Browser)
				require.Len(t, result.Warnings, 1)
				assert.Equal(t, domain.ActionRepaired, result.Warnings[0].Action)
				assert.Equal(t, 1, result.Repaired)
			},
		},
		{
			name:   "Transações e quantidade vazias devem virar zero",
			policy: config.TransactionsReject,
			row: func() domain.RawSessionRecord {
				r := validRow(2)
				r.Transactions = ""
				r.Quantity = ""
				return r
			},
			validate: func(t *testing.T, result *SessionsResult) {
				require.Len(t, result.Records, 1)
				assert.Zero(t, result.Records[0].Transactions)
				assert.Zero(t, result.Records[0].Quantity)
				assert.Len(t, result.Warnings, 2)
				assert.Equal(t, 1, result.Repaired)
			},
		},
		{
			name:   "Deve aceitar separador de milhar e decimal inteiro",
			policy: config.TransactionsReject,
			row: func() domain.RawSessionRecord {
				r := validRow(2)
				r.Sessions = "1,250"
				r.Transactions = "12.0"
				r.DeviceCategory = " Desktop "
				r.Date = "2013-01-31"
				return r
			},
			validate: func(t *testing.T, result *SessionsResult) {
				require.Len(t, result.Records, 1)
				assert.Equal(t, int64(1250), result.Records[0].Sessions)
				assert.Equal(t, int64(12), result.Records[0].Transactions)
				assert.Equal(t, domain.DeviceDesktop, result.Records[0].DeviceCategory)
				assert.Equal(t, domain.NewYearMonth(2013, time.January), result.Records[0].Month)
			},
		},
		{
			name:   "Sessões negativas devem descartar a linha",
			policy: config.TransactionsReject,
			row: func() domain.RawSessionRecord {
				r := validRow(2)
				r.Sessions = "-1"
				return r
			},
			validate: func(t *testing.T, result *SessionsResult) {
				assert.Empty(t, result.Records)
				assert.Equal(t, 1, result.Dropped)
				require.NotEmpty(t, result.Warnings)
				assert.Equal(t, FieldSessions, result.Warnings[0].Field)
			},
		},
		{
			name:   "Sessões vazias devem descartar a linha",
			policy: config.TransactionsReject,
			row: func() domain.RawSessionRecord {
				r := validRow(2)
				r.Sessions = ""
				return r
			},
			validate: func(t *testing.T, result *SessionsResult) {
				assert.Empty(t, result.Records)
				assert.Equal(t, 1, result.Dropped)
			},
		},
		{
			name:   "Dispositivo desconhecido deve descartar a linha",
			policy: config.TransactionsReject,
			row: func() domain.RawSessionRecord {
				r := validRow(2)
				r.DeviceCategory = "smart tv"
				return r
			},
			validate: func(t *testing.T, result *SessionsResult) {
				assert.Empty(t, result.Records)
				require.Len(t, result.Warnings, 1)
				assert.Equal(t, FieldDeviceCategory, result.Warnings[0].Field)
				assert.Equal(t, domain.ActionDropped, result.Warnings[0].Action)
			},
		},
		{
			name:   "Data inválida deve descartar a linha",
			policy: config.TransactionsReject,
			row: func() domain.RawSessionRecord {
				r := validRow(2)
				r.Date = "ontem"
				return r
			},
			validate: func(t *testing.T, result *SessionsResult) {
				assert.Empty(t, result.Records)
				assert.Equal(t, FieldDate, result.Warnings[0].Field)
			},
		},
		{
			name:   "Zero sessões e cinco transações devem ser descartadas na política reject",
			policy: config.TransactionsReject,
			row: func() domain.RawSessionRecord {
				r := validRow(7)
				r.Sessions = "0"
				r.Transactions = "5"
				return r
			},
			validate: func(t *testing.T, result *SessionsResult) {
				assert.Empty(t, result.Records)
				assert.Equal(t, 1, result.Dropped)
				require.Len(t, result.Warnings, 1)
				assert.Equal(t, 7, result.Warnings[0].Line)
				assert.Equal(t, FieldTransactions, result.Warnings[0].Field)
				assert.Equal(t, domain.ActionDropped, result.Warnings[0].Action)
			},
		},
		{
			name:   "Política clamp deve limitar transações às sessões",
			policy: config.TransactionsClamp,
			row: func() domain.RawSessionRecord {
				r := validRow(2)
				r.Sessions = "3"
				r.Transactions = "5"
				return r
			},
			validate: func(t *testing.T, result *SessionsResult) {
				require.Len(t, result.Records, 1)
				assert.Equal(t, int64(3), result.Records[0].Transactions)
				assert.Equal(t, domain.ActionRepaired, result.Warnings[0].Action)
			},
		},
		{
			name:   "Política passthrough deve manter a linha com aviso",
			policy: config.TransactionsPassthrough,
			row: func() domain.RawSessionRecord {
				r := validRow(2)
				r.Sessions = "0"
				r.Transactions = "5"
				return r
			},
			validate: func(t *testing.T, result *SessionsResult) {
				require.Len(t, result.Records, 1)
				assert.Equal(t, int64(5), result.Records[0].Transactions)
				assert.Equal(t, domain.ActionKept, result.Warnings[0].Action)
				assert.Zero(t, result.Dropped)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newService(tt.policy).CleanSessions("sessions.csv", []domain.RawSessionRecord{tt.row()})

			assert.Equal(t, 1, result.Rows)
			for _, w := range result.Warnings {
				assert.Equal(t, "sessions.csv", w.Source)
			}
			tt.validate(t, result)
		})
	}
}

func TestService_CleanSessions_BadRowDoesNotAbort(t *testing.T) {
	log.SetupTestLogger()

	bad := validRow(3)
	bad.Sessions = "abc"

	result := newService(config.TransactionsReject).CleanSessions("sessions.csv", []domain.RawSessionRecord{
		validRow(2), bad, validRow(4),
	})

	assert.Len(t, result.Records, 2)
	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, 1, result.Dropped)
}

func TestService_CleanCartAdds(t *testing.T) {
	log.SetupTestLogger()

	tests := []struct {
		name     string
		raw      []domain.RawCartAddRecord
		validate func(t *testing.T, result *CartAddsResult)
	}{
		{
			name: "Deve combinar ano e mês e ordenar cronologicamente",
			raw: []domain.RawCartAddRecord{
				{Line: 2, Year: "2013", Month: "1", AddsToCart: "100"},
				{Line: 3, Year: "2012", Month: "12", AddsToCart: "90"},
				{Line: 4, Year: "12", Month: "July", AddsToCart: "191,504"},
			},
			validate: func(t *testing.T, result *CartAddsResult) {
				assert.Empty(t, result.Warnings)
				assert.Equal(t, []domain.CartAddRecord{
					{Month: domain.NewYearMonth(2012, time.July), AddsToCart: 191504},
					{Month: domain.NewYearMonth(2012, time.December), AddsToCart: 90},
					{Month: domain.NewYearMonth(2013, time.January), AddsToCart: 100},
				}, result.Records)
			},
		},
		{
			name: "Deve aceitar o mês completo em uma única coluna",
			raw: []domain.RawCartAddRecord{
				{Line: 2, Month: "2013-02", AddsToCart: "10"},
				{Line: 3, Month: "March 2013", AddsToCart: "20"},
			},
			validate: func(t *testing.T, result *CartAddsResult) {
				require.Len(t, result.Records, 2)
				assert.Equal(t, domain.NewYearMonth(2013, time.March), result.Records[1].Month)
			},
		},
		{
			name: "Meses duplicados devem ser somados com aviso",
			raw: []domain.RawCartAddRecord{
				{Line: 2, Year: "2013", Month: "1", AddsToCart: "100"},
				{Line: 3, Year: "2013", Month: "01", AddsToCart: "50"},
			},
			validate: func(t *testing.T, result *CartAddsResult) {
				require.Len(t, result.Records, 1)
				assert.Equal(t, int64(150), result.Records[0].AddsToCart)
				require.Len(t, result.Warnings, 1)
				assert.Equal(t, 3, result.Warnings[0].Line)
				assert.Equal(t, 1, result.Repaired)
			},
		},
		{
			name: "Linhas inválidas devem ser descartadas sem interromper",
			raw: []domain.RawCartAddRecord{
				{Line: 2, Year: "2013", Month: "13", AddsToCart: "100"},
				{Line: 3, Year: "abc", Month: "1", AddsToCart: "100"},
				{Line: 4, Month: "sem ano", AddsToCart: "100"},
				{Line: 5, Year: "2013", Month: "2", AddsToCart: "-5"},
				{Line: 6, Year: "2013", Month: "3", AddsToCart: ""},
				{Line: 7, Year: "2013", Month: "4", AddsToCart: "7"},
			},
			validate: func(t *testing.T, result *CartAddsResult) {
				require.Len(t, result.Records, 1)
				assert.Equal(t, domain.NewYearMonth(2013, time.April), result.Records[0].Month)
				assert.Equal(t, 5, result.Dropped)
				assert.Len(t, result.Warnings, 5)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newService(config.TransactionsReject).CleanCartAdds("adds.csv", tt.raw)
			assert.Equal(t, len(tt.raw), result.Rows)
			tt.validate(t, result)
		})
	}
}

func TestService_TwoDigitYearsMatchAcrossFiles(t *testing.T) {
	log.SetupTestLogger()
	service := newService(config.TransactionsReject)

	row := validRow(2)
	row.Date = "3/15/70"
	sessions := service.CleanSessions("sessions.csv", []domain.RawSessionRecord{row})
	cartAdds := service.CleanCartAdds("adds.csv", []domain.RawCartAddRecord{
		{Line: 2, Year: "70", Month: "3", AddsToCart: "10"},
	})

	require.Len(t, sessions.Records, 1)
	require.Len(t, cartAdds.Records, 1)
	assert.Equal(t, domain.NewYearMonth(2070, time.March), sessions.Records[0].Month)
	assert.Equal(t, sessions.Records[0].Month, cartAdds.Records[0].Month)
}
