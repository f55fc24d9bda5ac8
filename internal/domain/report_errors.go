package domain

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Erros específicos do relatório de tráfego
var (
	ErrInputFormat      = errors.New("input format error")
	ErrInsufficientData = errors.New("insufficient data")
	ErrWrite            = errors.New("write error")
)

// InputFormatError indica um arquivo de entrada ilegível ou sem as colunas obrigatórias
type InputFormatError struct {
	File   string // Caminho do arquivo
	Column string // Coluna envolvida (quando aplicável)
	Line   int    // Linha do arquivo (quando aplicável)
	Reason string // Motivo legível
	Err    error  // Erro original (quando houver)
}

func (e *InputFormatError) Error() string {
	var b strings.Builder
	b.WriteString(ErrInputFormat.Error())
	b.WriteString(": ")
	b.WriteString(e.File)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " (coluna %s)", e.Column)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is permite errors.Is(err, ErrInputFormat)
func (e *InputFormatError) Is(target error) bool {
	return target == ErrInputFormat
}

// Unwrap retorna o erro subjacente
func (e *InputFormatError) Unwrap() error {
	return e.Err
}

// InsufficientDataError indica que não há dois meses distintos para comparar
type InsufficientDataError struct {
	Months []YearMonth // Meses encontrados
}

func (e *InsufficientDataError) Error() string {
	months := make([]string, 0, len(e.Months))
	for _, m := range e.Months {
		months = append(months, m.String())
	}
	return fmt.Sprintf("%s: são necessários ao menos dois meses distintos, encontrados %d [%s]",
		ErrInsufficientData.Error(), len(e.Months), strings.Join(months, ", "))
}

func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}

// WriteError indica falha ao gravar um arquivo de saída
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrWrite.Error(), e.Path, e.Err)
}

func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
