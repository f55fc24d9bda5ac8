package domain

// BrowserAggregate agrega todas as sessões de um navegador
type BrowserAggregate struct {
	Browser      string  `json:"browser"`
	Sessions     int64   `json:"sessions"`
	Transactions int64   `json:"transactions"`
	Quantity     int64   `json:"quantity"`
	ECR          float64 `json:"ecr"`
}

// BrowserRankingItem é um navegador posicionado no ranking por sessões
type BrowserRankingItem struct {
	Position int `json:"position"`
	BrowserAggregate
	SessionShare float64 `json:"session_share"` // Percentual das sessões de todos os navegadores
}
