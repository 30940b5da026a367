package fixture

import (
	"context"
	"errors"
	"fmt"

	"gooze.dev/pkg/classmut/internal/adapter"
	"gooze.dev/pkg/classmut/internal/classfile"
	m "gooze.dev/pkg/classmut/internal/model"
)

// ErrNoSamples is returned when no producer had a matching sample, so
// nothing was checked.
var ErrNoSamples = errors.New("no samples found")

// SampleFunc checks one producer's compilation of a sample.
type SampleFunc func(producer m.Producer, method *m.Method) error

// ForEachSample loads className for every producer, picks the first method
// accepted by pred and calls fn with it. Producers without the class or
// without a matching method are skipped. It returns ErrNoSamples when fn
// was never called.
func ForEachSample(ctx context.Context, repo adapter.FixtureRepository, className string, pred m.MethodPredicate, fn SampleFunc) error {
	checked := 0

	for _, producer := range m.Producers() {
		unit, err := classfile.ParseFrom(ctx, adapter.SourceFor(repo, producer), className)
		if err != nil {
			if errors.Is(err, adapter.ErrClassNotFound) {
				continue
			}

			return fmt.Errorf("%s sample %s: %w", producer, className, err)
		}

		method, ok := unit.FirstMethod(pred)
		if !ok {
			continue
		}

		if err := fn(producer, method); err != nil {
			return fmt.Errorf("%s sample %s: %w", producer, className, err)
		}

		checked++
	}

	if checked == 0 {
		return fmt.Errorf("%s: %w", className, ErrNoSamples)
	}

	return nil
}
