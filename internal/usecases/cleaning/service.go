package cleaning

import (
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-report/internal/config"
	"github.com/vfg2006/traffic-report/internal/domain"
	"github.com/vfg2006/traffic-report/pkg/utils"
)

// Campos usados nos avisos de qualidade
const (
	FieldBrowser        = "browser"
	FieldDeviceCategory = "device_category"
	FieldDate           = "date"
	FieldSessions       = "sessions"
	FieldTransactions   = "transactions"
	FieldQuantity       = "quantity"
	FieldYear           = "year"
	FieldMonth          = "month"
	FieldAddsToCart     = "adds_to_cart"
)

type CleaningService interface {
	CleanSessions(source string, raw []domain.RawSessionRecord) *SessionsResult
	CleanCartAdds(source string, raw []domain.RawCartAddRecord) *CartAddsResult
}

// SessionsResult traz as linhas válidas do extrato de sessões e o que foi descartado ou corrigido
type SessionsResult struct {
	Records  []domain.SessionRecord
	Warnings []domain.DataQualityWarning
	Rows     int
	Dropped  int
	Repaired int
}

type CartAddsResult struct {
	Records  []domain.CartAddRecord // Um registro por mês, em ordem cronológica
	Warnings []domain.DataQualityWarning
	Rows     int
	Dropped  int
	Repaired int
}

type Service struct {
	dateLayouts        []string
	transactionsPolicy config.TransactionsPolicy
}

func NewCleaningService(cfg *config.Config) CleaningService {
	return &Service{
		dateLayouts:        cfg.Cleaning.DateLayouts,
		transactionsPolicy: cfg.Cleaning.TransactionsPolicy,
	}
}

// rowIssues acumula os avisos de uma única linha
type rowIssues struct {
	source   string
	line     int
	warnings []domain.DataQualityWarning
	dropped  bool
	repaired bool
}

func (r *rowIssues) add(field, value, reason string, action domain.WarningAction) {
	r.warnings = append(r.warnings, domain.DataQualityWarning{
		Source: r.source,
		Line:   r.line,
		Field:  field,
		Value:  value,
		Reason: reason,
		Action: action,
	})

	switch action {
	case domain.ActionDropped:
		r.dropped = true
	case domain.ActionRepaired:
		r.repaired = true
	}
}

func (s *Service) CleanSessions(source string, raw []domain.RawSessionRecord) *SessionsResult {
	result := &SessionsResult{
		Records: make([]domain.SessionRecord, 0, len(raw)),
		Rows:    len(raw),
	}

	for _, row := range raw {
		issues := &rowIssues{source: source, line: row.Line}
		record := s.cleanSession(row, issues)

		result.Warnings = append(result.Warnings, issues.warnings...)
		switch {
		case issues.dropped:
			result.Dropped++
			continue
		case issues.repaired:
			result.Repaired++
		}
		result.Records = append(result.Records, record)
	}

	logWarnings(result.Warnings)
	logrus.WithFields(logrus.Fields{
		"file":     source,
		"rows":     result.Rows,
		"kept":     len(result.Records),
		"dropped":  result.Dropped,
		"repaired": result.Repaired,
	}).Info("Limpeza do extrato de sessões concluída")

	return result
}

func (s *Service) cleanSession(row domain.RawSessionRecord, issues *rowIssues) domain.SessionRecord {
	record := domain.SessionRecord{Browser: row.Browser}

	if record.Browser == "" {
		record.Browser = domain.NotSetBrowser
		issues.add(FieldBrowser, row.Browser, "navegador vazio, usando "+domain.NotSetBrowser, domain.ActionRepaired)
	}

	device, err := domain.ParseDeviceCategory(row.DeviceCategory)
	if err != nil {
		issues.add(FieldDeviceCategory, row.DeviceCategory, err.Error(), domain.ActionDropped)
	}
	record.DeviceCategory = device

	date, err := utils.ParseDate(row.Date, s.dateLayouts...)
	if err != nil {
		issues.add(FieldDate, row.Date, err.Error(), domain.ActionDropped)
	}
	record.Date = date
	record.Month = domain.YearMonthOf(date)

	if row.Sessions == "" {
		issues.add(FieldSessions, row.Sessions, "sessões ausentes", domain.ActionDropped)
	} else if record.Sessions, err = utils.ParseCount(row.Sessions); err != nil {
		issues.add(FieldSessions, row.Sessions, err.Error(), domain.ActionDropped)
	}

	record.Transactions = parseOptionalCount(FieldTransactions, row.Transactions, issues)
	record.Quantity = parseOptionalCount(FieldQuantity, row.Quantity, issues)

	if issues.dropped || record.Transactions <= record.Sessions {
		return record
	}

	value := strconv.FormatInt(record.Transactions, 10)
	switch s.transactionsPolicy {
	case config.TransactionsClamp:
		issues.add(FieldTransactions, value, "transações maiores que sessões, limitadas às sessões", domain.ActionRepaired)
		record.Transactions = record.Sessions
	case config.TransactionsPassthrough:
		issues.add(FieldTransactions, value, "transações maiores que sessões", domain.ActionKept)
	default:
		issues.add(FieldTransactions, value, "transações maiores que sessões", domain.ActionDropped)
	}

	return record
}

// parseOptionalCount trata vazio como zero; valores inválidos descartam a linha
func parseOptionalCount(field, value string, issues *rowIssues) int64 {
	if value == "" {
		issues.add(field, value, "valor ausente, usando 0", domain.ActionRepaired)
		return 0
	}

	n, err := utils.ParseCount(value)
	if err != nil {
		issues.add(field, value, err.Error(), domain.ActionDropped)
		return 0
	}
	return n
}

func (s *Service) CleanCartAdds(source string, raw []domain.RawCartAddRecord) *CartAddsResult {
	result := &CartAddsResult{Rows: len(raw)}

	byMonth := make(map[domain.YearMonth]int64)
	for _, row := range raw {
		issues := &rowIssues{source: source, line: row.Line}

		month, ok := resolveCartMonth(row, issues)

		var adds int64
		if row.AddsToCart == "" {
			issues.add(FieldAddsToCart, row.AddsToCart, "adds-to-cart ausente", domain.ActionDropped)
		} else if n, err := utils.ParseCount(row.AddsToCart); err != nil {
			issues.add(FieldAddsToCart, row.AddsToCart, err.Error(), domain.ActionDropped)
		} else {
			adds = n
		}

		if !ok || issues.dropped {
			result.Warnings = append(result.Warnings, issues.warnings...)
			result.Dropped++
			continue
		}

		if _, exists := byMonth[month]; exists {
			issues.add(FieldMonth, month.String(), "mês duplicado, valores somados", domain.ActionRepaired)
		}
		if issues.repaired {
			result.Repaired++
		}
		result.Warnings = append(result.Warnings, issues.warnings...)

		byMonth[month] += adds
	}

	result.Records = make([]domain.CartAddRecord, 0, len(byMonth))
	for month, adds := range byMonth {
		result.Records = append(result.Records, domain.CartAddRecord{Month: month, AddsToCart: adds})
	}
	sort.Slice(result.Records, func(i, j int) bool {
		return result.Records[i].Month.Before(result.Records[j].Month)
	})

	logWarnings(result.Warnings)
	logrus.WithFields(logrus.Fields{
		"file":     source,
		"rows":     result.Rows,
		"months":   len(result.Records),
		"dropped":  result.Dropped,
		"repaired": result.Repaired,
	}).Info("Limpeza do extrato de adds-to-cart concluída")

	return result
}

// resolveCartMonth combina ano e mês quando há coluna de ano; senão o mês deve trazer o ano
func resolveCartMonth(row domain.RawCartAddRecord, issues *rowIssues) (domain.YearMonth, bool) {
	if row.Year == "" {
		ym, err := domain.ParseYearMonth(row.Month)
		if err != nil {
			issues.add(FieldMonth, row.Month, err.Error(), domain.ActionDropped)
			return domain.YearMonth{}, false
		}
		return ym, true
	}

	year, err := utils.ParseCount(row.Year)
	if err != nil {
		issues.add(FieldYear, row.Year, err.Error(), domain.ActionDropped)
		return domain.YearMonth{}, false
	}
	// Anos com dois dígitos seguem o extrato de sessões (12 = 2012)
	if year < 100 {
		year += 2000
	}

	month, err := domain.ParseMonth(row.Month)
	if err != nil {
		issues.add(FieldMonth, row.Month, err.Error(), domain.ActionDropped)
		return domain.YearMonth{}, false
	}

	return domain.NewYearMonth(int(year), month), true
}

func logWarnings(warnings []domain.DataQualityWarning) {
	for _, w := range warnings {
		logrus.WithFields(logrus.Fields{
			"file":   w.Source,
			"line":   w.Line,
			"field":  w.Field,
			"value":  w.Value,
			"action": w.Action,
		}).Warn(w.Reason)
	}
}
