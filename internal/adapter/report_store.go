package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	m "gooze.dev/pkg/classmut/internal/model"
	"gopkg.in/yaml.v3"
)

// ReportStore persists analysis reports.
type ReportStore interface {
	SaveReport(path string, report m.Report) error
	LoadReport(path string) (m.Report, error)
}

type yamlReportStore struct{}

// NewYAMLReportStore stores reports as YAML files.
func NewYAMLReportStore() ReportStore {
	return yamlReportStore{}
}

func (yamlReportStore) SaveReport(path string, report m.Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	return nil
}

func (yamlReportStore) LoadReport(path string) (m.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return m.Report{}, fmt.Errorf("read report %s: %w", path, err)
	}

	var report m.Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return m.Report{}, fmt.Errorf("unmarshal report %s: %w", path, err)
	}

	return report, nil
}
