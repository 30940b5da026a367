package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "gooze.dev/pkg/classmut/internal/model"
)

func newTestUI() (*SimpleUI, *bytes.Buffer) {
	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	return NewSimpleUI(cmd), &out
}

func sampleReport() m.Report {
	report := m.Report{Classes: []m.ClassReport{
		{
			Class: "CountedLoop",
			Methods: []m.MethodReport{{
				Name:       "count",
				Descriptor: "()V",
				Loops:      []m.LoopReport{{Start: 2, End: 8, Patterns: []string{"counter-increment"}}},
				Mutants: []m.MutantReport{
					{ID: "k", Description: "negated conditional: if_icmpge L9", Verdict: "KEEP"},
					{ID: "r", Description: "removed local variable increment: iinc 0 1", Verdict: "REJECT", Pattern: "counter-increment"},
				},
			}},
		},
		{
			Class: "InfiniteLoop",
			Methods: []m.MethodReport{{
				Name:       "forever",
				Descriptor: "()V",
				Loops:      []m.LoopReport{{Start: 2, End: 3}},
			}},
		},
		{Class: "Broken", Error: "parse Broken: truncated class file"},
	}}
	report.Tally()

	return report
}

func TestSimpleUI_DisplayReport(t *testing.T) {
	tests := []struct {
		name       string
		options    []DisplayOption
		contains   []string
		notContain []string
	}{
		{
			name: "detailed",
			contains: []string{
				"CountedLoop", "count()V", "iinc 0 1", "if_icmpge L9", "counter-increment",
				"malformed", "truncated class file",
				"Kept 1, rejected 1, malformed classes 1",
			},
		},
		{
			name:       "rejects only",
			options:    []DisplayOption{WithRejectsOnly()},
			contains:   []string{"iinc 0 1"},
			notContain: []string{"if_icmpge L9"},
		},
		{
			name:       "summary",
			options:    []DisplayOption{WithSummaryMode()},
			contains:   []string{"METHODS", "REJECTED", "InfiniteLoop", "Kept 1, rejected 1"},
			notContain: []string{"iinc 0 1"},
		},
		{
			name:       "last mode wins",
			options:    []DisplayOption{WithSummaryMode(), WithDetailedMode()},
			contains:   []string{"iinc 0 1"},
			notContain: []string{"REJECTED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui, out := newTestUI()

			require.NoError(t, ui.DisplayReport(context.Background(), sampleReport(), tt.options...))

			for _, want := range tt.contains {
				assert.Contains(t, out.String(), want)
			}

			for _, unwanted := range tt.notContain {
				assert.NotContains(t, out.String(), unwanted)
			}
		})
	}
}

func TestSimpleUI_DisplayLoops(t *testing.T) {
	ui, out := newTestUI()

	require.NoError(t, ui.DisplayLoops(context.Background(), sampleReport()))

	assert.Contains(t, out.String(), "L2-L8")
	assert.Contains(t, out.String(), "counter-increment")
	assert.Contains(t, out.String(), "L2-L3")
	assert.Contains(t, out.String(), unguardedLabel)
	assert.Contains(t, out.String(), "Total Loops 2")
}

func TestSimpleUI_DisplayDiff(t *testing.T) {
	ui, out := newTestUI()
	mutant := m.MutantReport{ID: "CountedLoop::count()V@7:REMOVE_INCREMENTS", Verdict: "REJECT", Pattern: "counter-increment"}

	require.NoError(t, ui.DisplayDiff(context.Background(), mutant, "-  L7    iinc 0 1\n"))

	lines := strings.Split(out.String(), "\n")
	assert.Contains(t, lines[0], "CountedLoop::count()V@7:REMOVE_INCREMENTS -> ")
	assert.Contains(t, lines[0], "REJECT")
	assert.Contains(t, lines[0], "(counter-increment)")
	assert.Equal(t, "-  L7    iinc 0 1", lines[1])
}

func TestSimpleUI_DisplayDisassembly(t *testing.T) {
	ui, out := newTestUI()

	require.NoError(t, ui.DisplayDisassembly(context.Background(), "listing\n"))
	assert.Equal(t, "listing\n", out.String())
}

func TestSimpleUI_CanceledContext(t *testing.T) {
	ui, out := newTestUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, ui.DisplayReport(ctx, sampleReport()), context.Canceled)
	assert.ErrorIs(t, ui.DisplayLoops(ctx, sampleReport()), context.Canceled)
	assert.ErrorIs(t, ui.DisplayDisassembly(ctx, "x"), context.Canceled)
	assert.ErrorIs(t, ui.DisplayDiff(ctx, m.MutantReport{}, ""), context.Canceled)
	assert.Empty(t, out.String())
}
