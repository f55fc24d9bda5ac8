package exporter

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-report/internal/domain"
	"github.com/vfg2006/traffic-report/pkg/utils"
)

// JSONExporter grava o resumo do relatório em JSON
type JSONExporter struct {
	path string
}

func NewJSONExporter(path string) *JSONExporter {
	return &JSONExporter{path: path}
}

func (e *JSONExporter) Export(report *domain.Report) error {
	p, err := e.stage(report)
	if err != nil {
		return err
	}
	return p.commit()
}

func (e *JSONExporter) stage(report *domain.Report) (*pendingFile, error) {
	data, err := utils.PrettyJSON(report)
	if err != nil {
		return nil, &domain.WriteError{Path: e.path, Err: err}
	}

	p, err := stageFile(e.path, func(w io.Writer) error {
		_, err := w.Write(append(data, '\n'))
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"path":  e.path,
		"bytes": len(data),
	}).Info("Resumo JSON preparado")

	return p, nil
}
