package domain

import "time"

// Report reúne todas as tabelas derivadas de uma execução
type Report struct {
	RunID           string                 `json:"run_id"`
	ReportID        string                 `json:"report_id"`
	GeneratedAt     time.Time              `json:"generated_at"`
	SessionsFile    string                 `json:"sessions_file"`
	CartAddsFile    string                 `json:"cart_adds_file"`
	MonthDevice     []MonthDeviceAggregate `json:"month_device"`
	MonthTotals     []MonthDeviceAggregate `json:"month_totals"`
	Browsers        []BrowserAggregate     `json:"-"`
	TopBrowsers     []BrowserRankingItem   `json:"top_browsers"`
	Comparison      *MonthComparisonReport `json:"comparison"`
	Warnings        []DataQualityWarning   `json:"warnings"`
	MissingCartAdds []YearMonth            `json:"missing_cart_adds,omitempty"` // Meses sem entrada no arquivo de carrinho
	Stats           *CleaningStats         `json:"stats"`
}

// CleaningStats resume o resultado da limpeza por arquivo
type CleaningStats struct {
	SessionRows     int `json:"session_rows"`
	SessionsKept    int `json:"sessions_kept"`
	SessionsDropped int `json:"sessions_dropped"`
	CartRows        int `json:"cart_rows"`
	CartKept        int `json:"cart_kept"`
	CartDropped     int `json:"cart_dropped"`
}
