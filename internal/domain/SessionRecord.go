package domain

import "time"

// NotSetBrowser substitui o navegador vazio, seguindo a convenção do Google Analytics
const NotSetBrowser = "(not set)"

// RawSessionRecord é uma linha do extrato de sessões, ainda sem conversão de tipos
type RawSessionRecord struct {
	Line           int
	Browser        string
	DeviceCategory string
	Date           string
	Sessions       string
	Transactions   string
	Quantity       string
}

// SessionRecord é uma linha do extrato de sessões já limpa
type SessionRecord struct {
	Browser        string
	DeviceCategory DeviceCategory
	Date           time.Time
	Month          YearMonth
	Sessions       int64
	Transactions   int64
	Quantity       int64
}
