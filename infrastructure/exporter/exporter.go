// Package exporter grava o relatório de tráfego em planilha e, opcionalmente, em JSON
package exporter

//go:generate mockgen -source=exporter.go -destination=mocks/mock_exporter.go -package=mocks

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/vfg2006/traffic-report/internal/domain"
)

type Exporter interface {
	Export(report *domain.Report) error
}

// Sheet é uma tabela nomeada: cabeçalho e linhas na ordem de escrita.
// Valores nil viram células vazias.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// stager é implementado pelos exportadores que gravam em arquivo: o conteúdo vai
// para um temporário e só chega ao destino no commit
type stager interface {
	stage(report *domain.Report) (*pendingFile, error)
}

// MultiExporter repassa o relatório a cada exportador em ordem e para no primeiro erro.
// Arquivos só são movidos para o destino depois que todos os exportadores foram preparados.
type MultiExporter struct {
	exporters []Exporter
}

func NewMultiExporter(exporters ...Exporter) Exporter {
	return &MultiExporter{exporters: exporters}
}

func (m *MultiExporter) Export(report *domain.Report) error {
	pending := make([]*pendingFile, 0, len(m.exporters))
	discardAll := func(files []*pendingFile) {
		for _, p := range files {
			p.discard()
		}
	}

	for _, exporter := range m.exporters {
		if s, ok := exporter.(stager); ok {
			p, err := s.stage(report)
			if err != nil {
				discardAll(pending)
				return err
			}
			pending = append(pending, p)
			continue
		}

		if err := exporter.Export(report); err != nil {
			discardAll(pending)
			return err
		}
	}

	for i, p := range pending {
		if err := p.commit(); err != nil {
			discardAll(pending[i+1:])
			return err
		}
	}

	return nil
}

// pendingFile é um arquivo completo aguardando a troca atômica para o destino
type pendingFile struct {
	tmpName string
	path    string
}

// commit renomeia o temporário para o destino
func (p *pendingFile) commit() error {
	if err := os.Rename(p.tmpName, p.path); err != nil {
		p.discard()
		return &domain.WriteError{Path: p.path, Err: err}
	}
	return nil
}

func (p *pendingFile) discard() {
	_ = os.Remove(p.tmpName)
}

// stageFile grava o conteúdo em um temporário no diretório do destino
func stageFile(path string, write func(w io.Writer) error) (_ *pendingFile, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return nil, &domain.WriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = write(tmp); err != nil {
		return nil, &domain.WriteError{Path: path, Err: err}
	}
	if err = tmp.Chmod(0o644); err != nil {
		return nil, &domain.WriteError{Path: path, Err: errors.Wrap(err, "erro ao ajustar permissões")}
	}
	if err = tmp.Close(); err != nil {
		return nil, &domain.WriteError{Path: path, Err: err}
	}

	return &pendingFile{tmpName: tmpName, path: path}, nil
}
