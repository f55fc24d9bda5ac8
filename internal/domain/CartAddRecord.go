package domain

// RawCartAddRecord é uma linha do extrato mensal de adds-to-cart.
// Year fica vazio quando o arquivo traz o mês completo em uma única coluna.
type RawCartAddRecord struct {
	Line       int
	Year       string
	Month      string
	AddsToCart string
}

// CartAddRecord é o total de adds-to-cart de um mês
type CartAddRecord struct {
	Month      YearMonth
	AddsToCart int64
}
