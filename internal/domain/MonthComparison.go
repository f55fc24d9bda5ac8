package domain

// Metric identifica uma métrica comparada entre meses
type Metric string

const (
	MetricSessions     Metric = "sessions"
	MetricTransactions Metric = "transactions"
	MetricQuantity     Metric = "quantity"
	MetricAddsToCart   Metric = "adds_to_cart"
	MetricECR          Metric = "ecr"
)

// ComparedMetrics lista as métricas na ordem de exibição
var ComparedMetrics = []Metric{
	MetricSessions,
	MetricAddsToCart,
	MetricTransactions,
	MetricQuantity,
	MetricECR,
}

// Value extrai a métrica de um agregado; nil quando o valor é nulo
func (m Metric) Value(agg *MonthDeviceAggregate) *float64 {
	if agg == nil {
		return nil
	}

	var v float64
	switch m {
	case MetricSessions:
		v = float64(agg.Sessions)
	case MetricTransactions:
		v = float64(agg.Transactions)
	case MetricQuantity:
		v = float64(agg.Quantity)
	case MetricAddsToCart:
		if agg.AddsToCart == nil {
			return nil
		}
		v = float64(*agg.AddsToCart)
	case MetricECR:
		v = agg.ECR
	default:
		return nil
	}

	return &v
}

// MonthComparison compara uma métrica de um dispositivo entre os dois meses mais recentes
type MonthComparison struct {
	DeviceCategory DeviceCategory `json:"device_category"`
	Metric         Metric         `json:"metric"`
	Previous       *float64       `json:"previous"`
	Current        *float64       `json:"current"`
	AbsChange      *float64       `json:"abs_change"`
	PctChange      *float64       `json:"pct_change"` // Em pontos percentuais; nil quando o valor anterior é zero ou nulo
}

// MonthComparisonReport agrupa as comparações com os meses envolvidos
type MonthComparisonReport struct {
	PreviousMonth YearMonth         `json:"previous_month"`
	CurrentMonth  YearMonth         `json:"current_month"`
	Rows          []MonthComparison `json:"rows"`
}
