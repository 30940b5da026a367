package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	m "gooze.dev/pkg/classmut/internal/model"
)

var (
	keepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	rejectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// SimpleUI implements UI by writing tables to the command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayReport prints a report as a table followed by the run totals.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report, options ...DisplayOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := newDisplayConfig(options)

	var tableStr string
	if cfg.mode == ModeSummary {
		tableStr = renderSummaryTable(report)
	} else {
		tableStr = renderMutantTable(report, cfg.rejectsOnly)
	}

	s.printf("\n%s", tableStr)

	for _, c := range report.Classes {
		if c.Error != "" {
			s.printf("%s %s: %s\n", errorStyle.Render("malformed"), c.Class, c.Error)
		}
	}

	s.printf("Kept %d, rejected %d, malformed classes %d\n", report.Kept, report.Rejected, report.Malformed)

	return nil
}

func renderMutantTable(report m.Report, rejectsOnly bool) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Class", "Method", "Mutant", "Verdict", "Pattern"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
	})

	for _, c := range report.Classes {
		for _, method := range c.Methods {
			for _, mu := range method.Mutants {
				if rejectsOnly && mu.Verdict != m.Reject.String() {
					continue
				}

				table.Append([]string{c.Class, method.Name + method.Descriptor, mu.Description, styleVerdict(mu.Verdict), mu.Pattern})
			}
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Classes %d", len(report.Classes)), "", "",
		fmt.Sprintf("%d", report.Kept+report.Rejected), "",
	})

	table.Render()

	return tableBuffer.String()
}

func renderSummaryTable(report m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Class", "Methods", "Kept", "Rejected"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
	})

	for _, c := range report.Classes {
		kept, rejected := 0, 0

		for _, method := range c.Methods {
			for _, mu := range method.Mutants {
				if mu.Verdict == m.Reject.String() {
					rejected++
				} else {
					kept++
				}
			}
		}

		table.Append([]string{c.Class, fmt.Sprintf("%d", len(c.Methods)), fmt.Sprintf("%d", kept), fmt.Sprintf("%d", rejected)})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Classes %d", len(report.Classes)), "",
		fmt.Sprintf("%d", report.Kept), fmt.Sprintf("%d", report.Rejected),
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayLoops prints every loop region with the exit patterns found in it.
func (s *SimpleUI) DisplayLoops(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Class", "Method", "Loop", "Patterns"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	loops := 0

	for _, c := range report.Classes {
		for _, method := range c.Methods {
			for _, loop := range method.Loops {
				patterns := faintStyle.Render(unguardedLabel)
				if loop.Guarded() {
					patterns = strings.Join(loop.Patterns, ", ")
				}

				table.Append([]string{c.Class, method.Name + method.Descriptor, fmt.Sprintf("L%d-L%d", loop.Start, loop.End), patterns})

				loops++
			}
		}
	}

	table.SetFooter([]string{fmt.Sprintf("Total Loops %d", loops), "", "", ""})
	table.Render()

	s.printf("\n%s", tableBuffer.String())

	return nil
}

// DisplayDisassembly prints a method listing.
func (s *SimpleUI) DisplayDisassembly(ctx context.Context, listing string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", listing)

	return nil
}

// DisplayDiff prints a mutant header followed by its diff against the
// original method.
func (s *SimpleUI) DisplayDiff(ctx context.Context, mutant m.MutantReport, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	header := fmt.Sprintf("%s -> %s", mutant.ID, styleVerdict(mutant.Verdict))
	if mutant.Pattern != "" {
		header += " (" + mutant.Pattern + ")"
	}

	s.printf("%s\n%s\n", header, diff)

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func styleVerdict(verdict string) string {
	if verdict == m.Reject.String() {
		return rejectStyle.Render(verdict)
	}

	return keepStyle.Render(verdict)
}

const unguardedLabel = "unguarded"
