// Package controller provides output adapters for displaying analysis results.
package controller

import (
	"context"

	m "gooze.dev/pkg/classmut/internal/model"
)

// DisplayMode selects how much of a report is shown.
type DisplayMode int

// Available DisplayMode values.
const (
	ModeSummary DisplayMode = iota
	ModeDetailed
)

// DisplayOption is a functional option for DisplayReport.
type DisplayOption func(*DisplayConfig)

// DisplayConfig holds configuration for displaying a report.
type DisplayConfig struct {
	mode        DisplayMode
	rejectsOnly bool
}

// WithSummaryMode prints only per-class totals.
func WithSummaryMode() DisplayOption {
	return func(c *DisplayConfig) {
		c.mode = ModeSummary
	}
}

// WithDetailedMode prints one row per mutant.
func WithDetailedMode() DisplayOption {
	return func(c *DisplayConfig) {
		c.mode = ModeDetailed
	}
}

// WithRejectsOnly hides kept mutants in detailed mode.
func WithRejectsOnly() DisplayOption {
	return func(c *DisplayConfig) {
		c.rejectsOnly = true
	}
}

func newDisplayConfig(options []DisplayOption) DisplayConfig {
	cfg := DisplayConfig{mode: ModeDetailed}
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// UI defines how analysis results reach the user.
type UI interface {
	DisplayReport(ctx context.Context, report m.Report, options ...DisplayOption) error
	DisplayLoops(ctx context.Context, report m.Report) error
	DisplayDisassembly(ctx context.Context, listing string) error
	DisplayDiff(ctx context.Context, mutant m.MutantReport, diff string) error
}
