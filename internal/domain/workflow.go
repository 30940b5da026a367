package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"

	"gooze.dev/pkg/classmut/internal/adapter"
	"gooze.dev/pkg/classmut/internal/classfile"
	"gooze.dev/pkg/classmut/internal/domain/mutagens"
	m "gooze.dev/pkg/classmut/internal/model"
	"gooze.dev/pkg/classmut/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// AnalyzeArgs selects what an analysis run covers.
type AnalyzeArgs struct {
	Classes []string
	// Methods restricts the run to methods with these names. Empty selects
	// every method with a body.
	Methods   []string
	Operators []m.OperatorID
	Threads   uint
	// Reports is where the report is saved. Empty skips saving.
	Reports string
	// Emit is where kept mutants are written as class files. Empty skips
	// writing.
	Emit string
	// Progress is called from worker goroutines as each class finishes,
	// malformed ones included. Nil disables it.
	Progress ProgressFunc
}

// ProgressFunc receives the class just finished and how many of total are done.
type ProgressFunc func(class string, done, total int)

// Workflow runs the engine and the filter over classes.
type Workflow interface {
	// Analyze mutates and filters every selected method. Malformed classes
	// are reported and skipped; a class missing from the source fails the
	// run.
	Analyze(ctx context.Context, args AnalyzeArgs) (m.Report, error)
	// Loops reports the loops of every selected method without mutating.
	Loops(ctx context.Context, args AnalyzeArgs) (m.Report, error)
	// Merge combines saved reports into one, ordered by class name.
	Merge(ctx context.Context, args MergeArgs) (m.Report, error)
	// View loads a saved report.
	View(ctx context.Context, path string) (m.Report, error)
}

// MergeArgs names the reports to combine and where to save the result.
type MergeArgs struct {
	Inputs []string
	// Reports is where the merged report is saved. Empty skips saving.
	Reports string
}

type workflow struct {
	adapter.ReportStore
	adapter.MutantStore
	Engine
	Filter

	source   adapter.ByteSource
	registry *mutagens.Registry
	recorder telemetry.Recorder
}

// NewWorkflow creates a Workflow. recorder may be nil.
func NewWorkflow(
	source adapter.ByteSource,
	reportStore adapter.ReportStore,
	mutantStore adapter.MutantStore,
	filter Filter,
	registry *mutagens.Registry,
	recorder telemetry.Recorder,
) Workflow {
	if recorder == nil {
		recorder = telemetry.Discard{}
	}

	onDrop := func(_ *m.Method, operator m.OperatorID, _ int, _ error) {
		recorder.MutantDropped(string(operator))
	}

	return &workflow{
		ReportStore: reportStore,
		MutantStore: mutantStore,
		Engine:      NewEngine(onDrop),
		Filter:      filter,
		source:      source,
		registry:    registry,
		recorder:    recorder,
	}
}

func (w *workflow) Analyze(ctx context.Context, args AnalyzeArgs) (m.Report, error) {
	ops, err := w.registry.Resolve(args.Operators...)
	if err != nil {
		return m.Report{}, err
	}

	report, err := w.run(ctx, args, func(unit *m.ClassUnit, method *m.Method) (m.MethodReport, error) {
		return w.analyzeMethod(unit, method, ops, args.Emit)
	})
	if err != nil {
		return m.Report{}, err
	}

	if args.Reports != "" {
		if err := w.SaveReport(args.Reports, report); err != nil {
			slog.Error("Failed to save report", "path", args.Reports, "error", err)
			return report, fmt.Errorf("save report: %w", err)
		}
	}

	return report, nil
}

func (w *workflow) Loops(ctx context.Context, args AnalyzeArgs) (m.Report, error) {
	return w.run(ctx, args, func(_ *m.ClassUnit, method *m.Method) (m.MethodReport, error) {
		return m.MethodReport{Name: method.Name, Descriptor: method.Descriptor, Loops: w.loopReports(method)}, nil
	})
}

func (w *workflow) Merge(ctx context.Context, args MergeArgs) (m.Report, error) {
	var merged m.Report

	for _, path := range args.Inputs {
		if err := ctx.Err(); err != nil {
			return m.Report{}, err
		}

		report, err := w.LoadReport(path)
		if err != nil {
			slog.Error("Failed to load report", "path", path, "error", err)
			return m.Report{}, fmt.Errorf("load report %s: %w", path, err)
		}

		merged.Classes = append(merged.Classes, report.Classes...)
	}

	slices.SortStableFunc(merged.Classes, func(a, b m.ClassReport) int {
		return strings.Compare(a.Class, b.Class)
	})
	merged.Tally()

	if args.Reports != "" {
		if err := w.SaveReport(args.Reports, merged); err != nil {
			slog.Error("Failed to save report", "path", args.Reports, "error", err)
			return merged, fmt.Errorf("save report: %w", err)
		}
	}

	return merged, nil
}

func (w *workflow) View(ctx context.Context, path string) (m.Report, error) {
	if err := ctx.Err(); err != nil {
		return m.Report{}, err
	}

	report, err := w.LoadReport(path)
	if err != nil {
		return m.Report{}, fmt.Errorf("load report %s: %w", path, err)
	}

	return report, nil
}

func (w *workflow) run(ctx context.Context, args AnalyzeArgs, perMethod func(*m.ClassUnit, *m.Method) (m.MethodReport, error)) (m.Report, error) {
	classes := make([]m.ClassReport, len(args.Classes))

	var finished atomic.Int64

	progress := func(name string) {
		if args.Progress != nil {
			args.Progress(name, int(finished.Add(1)), len(args.Classes))
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	if args.Threads > 0 {
		group.SetLimit(int(args.Threads))
	}

	for i, name := range args.Classes {
		group.Go(func() error {
			unit, err := classfile.ParseFrom(ctx, w.source, name)
			if err != nil {
				var mce *classfile.MalformedClassError
				if errors.As(err, &mce) {
					w.recorder.ClassMalformed()
					classes[i] = m.ClassReport{Class: name, Error: err.Error()}
					progress(name)

					return nil
				}

				slog.Error("Failed to load class", "class", name, "error", err)

				return fmt.Errorf("load %s: %w", name, err)
			}

			w.recorder.ClassParsed()

			classes[i] = m.ClassReport{Class: unit.Name}
			for _, method := range unit.Methods(selectMethods(args.Methods)) {
				if err := ctx.Err(); err != nil {
					return err
				}

				mr, err := perMethod(unit, method)
				if err != nil {
					return err
				}

				classes[i].Methods = append(classes[i].Methods, mr)
			}

			progress(unit.Name)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return m.Report{}, err
	}

	report := m.Report{Classes: classes}
	report.Tally()

	return report, nil
}

func selectMethods(names []string) m.MethodPredicate {
	return func(method *m.Method) bool {
		return method.HasCode() && (len(names) == 0 || slices.Contains(names, method.Name))
	}
}

func (w *workflow) analyzeMethod(unit *m.ClassUnit, method *m.Method, ops []mutagens.Operator, emit string) (m.MethodReport, error) {
	mutants := w.Mutate(method, ops...)
	decisions := w.Decide(method, mutants)

	report := m.MethodReport{
		Name:       method.Name,
		Descriptor: method.Descriptor,
		Loops:      w.loopReports(method),
		Mutants:    make([]m.MutantReport, 0, len(decisions)),
	}

	for _, d := range decisions {
		w.recorder.MutantGenerated(string(d.Mutant.Operator))
		w.recorder.Decision(d.Verdict.String(), d.Pattern)

		mr := m.NewMutantReport(d)

		if emit != "" && d.Kept() {
			path, err := w.emit(unit, d.Mutant, emit)
			if err != nil {
				return m.MethodReport{}, err
			}

			mr.Path = path
		}

		report.Mutants = append(report.Mutants, mr)
	}

	return report, nil
}

// emit writes a kept mutant for the downstream runner. Classes the writer
// cannot encode are skipped with a warning.
func (w *workflow) emit(unit *m.ClassUnit, mutant *m.Mutant, root string) (string, error) {
	data, err := classfile.WriteMutant(unit, mutant)
	if err != nil {
		slog.Warn("Skipped mutant that cannot be encoded", "mutant", mutant.ID(), "error", err)
		return "", nil
	}

	path, err := w.SaveMutant(root, mutant, data)
	if err != nil {
		slog.Error("Failed to save mutant", "mutant", mutant.ID(), "error", err)
		return "", fmt.Errorf("save mutant %s: %w", mutant.ID(), err)
	}

	return path, nil
}

func (w *workflow) loopReports(method *m.Method) []m.LoopReport {
	guarded := make(map[Loop][]string)
	for _, g := range w.GuardedLoops(method) {
		guarded[g.Loop] = g.Patterns
	}

	var out []m.LoopReport

	for _, loop := range FindLoops(method.Instructions) {
		out = append(out, m.LoopReport{Start: loop.Start, End: loop.End, Patterns: guarded[loop]})
	}

	return out
}
