package domain

import "fmt"

// WarningAction indica o que foi feito com a linha problemática
type WarningAction string

const (
	ActionDropped  WarningAction = "dropped"
	ActionRepaired WarningAction = "repaired"
	ActionKept     WarningAction = "kept"
)

// DataQualityWarning registra uma linha descartada ou corrigida durante a limpeza.
// Não é fatal: a execução continua.
type DataQualityWarning struct {
	Source string        `json:"source"` // Arquivo de origem
	Line   int           `json:"line"`
	Field  string        `json:"field"`
	Value  string        `json:"value"`
	Reason string        `json:"reason"`
	Action WarningAction `json:"action"`
}

func (w DataQualityWarning) Error() string {
	return fmt.Sprintf("data quality warning: %s:%d %s=%q: %s (%s)", w.Source, w.Line, w.Field, w.Value, w.Reason, w.Action)
}
