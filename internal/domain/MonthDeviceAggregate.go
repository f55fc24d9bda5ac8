package domain

// MonthDeviceAggregate agrega as sessões de um mês para uma categoria de dispositivo
type MonthDeviceAggregate struct {
	Month          YearMonth      `json:"month"`
	DeviceCategory DeviceCategory `json:"device_category"`
	Sessions       int64          `json:"sessions"`
	Transactions   int64          `json:"transactions"`
	Quantity       int64          `json:"quantity"`
	AddsToCart     *int64         `json:"adds_to_cart"` // nil quando o mês não consta no arquivo de carrinho
	ECR            float64        `json:"ecr"`
}

// ConversionRate calcula o ECR (transações / sessões), zero quando não há sessões
func ConversionRate(transactions, sessions int64) float64 {
	if sessions <= 0 {
		return 0
	}
	return float64(transactions) / float64(sessions)
}
