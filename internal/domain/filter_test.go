package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/classmut/internal/adapter"
	"gooze.dev/pkg/classmut/internal/domain"
	"gooze.dev/pkg/classmut/internal/domain/mutagens"
	"gooze.dev/pkg/classmut/internal/fixture"
	m "gooze.dev/pkg/classmut/internal/model"
)

func sampleRepo(t *testing.T) *adapter.MemoryFixtures {
	t.Helper()

	repo := adapter.NewMemoryFixtures()
	require.NoError(t, fixture.Populate(repo))

	return repo
}

func newFilter(t *testing.T) domain.Filter {
	t.Helper()

	filter, err := domain.NewFilter(domain.DefaultFilterConfig())
	require.NoError(t, err)

	return filter
}

type verdict struct {
	Verdict string
	Pattern string
}

func decide(t *testing.T, method *m.Method, ids ...m.OperatorID) []m.FilterDecision {
	t.Helper()

	mutants := domain.NewEngine(nil).Mutate(method, operators(t, ids...)...)

	return newFilter(t).Decide(method, mutants)
}

func verdicts(decisions []m.FilterDecision) []verdict {
	out := make([]verdict, 0, len(decisions))
	for _, d := range decisions {
		out = append(out, verdict{Verdict: d.Verdict.String(), Pattern: d.Pattern})
	}

	return out
}

func TestFilter_Decide(t *testing.T) {
	ctx := context.Background()
	repo := sampleRepo(t)

	t.Run("rejects a removed counter increment", func(t *testing.T) {
		err := fixture.ForEachSample(ctx, repo, "CountedLoop", m.Named("count"), func(_ m.Producer, method *m.Method) error {
			decisions := decide(t, method, mutagens.RemoveIncrements)

			assert.Equal(t, []verdict{{"REJECT", domain.PatternCounterIncrement}}, verdicts(decisions))

			return nil
		})

		require.NoError(t, err)
	})

	t.Run("keeps a mutated body statement", func(t *testing.T) {
		err := fixture.ForEachSample(ctx, repo, "CountedLoop", m.Named("count"), func(_ m.Producer, method *m.Method) error {
			decisions := decide(t, method, mutagens.VoidMethodCalls)

			assert.Equal(t, []verdict{{"KEEP", ""}}, verdicts(decisions))

			return nil
		})

		require.NoError(t, err)
	})

	t.Run("keeps a mutated break condition", func(t *testing.T) {
		err := fixture.ForEachSample(ctx, repo, "LoopWithBreak", m.Named("search"), func(p m.Producer, method *m.Method) error {
			var breaks []m.FilterDecision

			for _, d := range decide(t, method, mutagens.NegateConditionals) {
				if op := method.Instructions[d.Mutant.Index].Op; op == m.IF_ICMPNE || op == m.IF_ICMPEQ {
					breaks = append(breaks, d)
				}
			}

			require.Len(t, breaks, 1, p.String())
			assert.True(t, breaks[0].Kept(), p.String())

			return nil
		})

		require.NoError(t, err)
	})

	t.Run("rejects a removed increment when the bound is loaded first", func(t *testing.T) {
		err := fixture.ForEachSample(ctx, repo, "BoundFirstLoop", m.Named("approach"), func(p m.Producer, method *m.Method) error {
			decisions := decide(t, method, mutagens.RemoveIncrements)

			assert.Equal(t, []verdict{{"REJECT", domain.PatternCounterIncrement}}, verdicts(decisions), p.String())

			return nil
		})

		require.NoError(t, err)
	})

	t.Run("rejects a removed array bound increment", func(t *testing.T) {
		err := fixture.ForEachSample(ctx, repo, "ArrayLoop", m.Named("sum"), func(_ m.Producer, method *m.Method) error {
			decisions := decide(t, method, mutagens.RemoveIncrements)

			assert.Equal(t, []verdict{{"REJECT", domain.PatternArrayLengthBound}}, verdicts(decisions))

			return nil
		})

		require.NoError(t, err)
	})

	t.Run("keeps arithmetic inside a guarded loop", func(t *testing.T) {
		err := fixture.ForEachSample(ctx, repo, "ArrayLoop", m.Named("sum"), func(_ m.Producer, method *m.Method) error {
			decisions := decide(t, method, mutagens.Math)

			assert.Equal(t, []verdict{{"KEEP", ""}}, verdicts(decisions))

			return nil
		})

		require.NoError(t, err)
	})

	t.Run("keeps mutants of an unguarded loop", func(t *testing.T) {
		err := fixture.ForEachSample(ctx, repo, "InfiniteLoop", m.Named("forever"), func(_ m.Producer, method *m.Method) error {
			decisions := decide(t, method, mutagens.RemoveIncrements)

			assert.Equal(t, []verdict{{"KEEP", ""}}, verdicts(decisions))

			return nil
		})

		require.NoError(t, err)
	})

	t.Run("rejects a removed head guard", func(t *testing.T) {
		sample, ok := fixture.Lookup("CountedLoop")
		require.True(t, ok)

		unit, err := sample.Unit(m.Javac)
		require.NoError(t, err)

		method, ok := unit.FirstMethod(m.Named("count"))
		require.True(t, ok)

		decisions := decide(t, method, mutagens.RemoveConditionals)

		assert.Equal(t, []verdict{{"REJECT", domain.PatternCounterIncrement}}, verdicts(decisions))
	})

	t.Run("returns one decision per mutant in order", func(t *testing.T) {
		method := clampMethod(t)
		mutants := domain.NewEngine(nil).Mutate(method, mutagens.DefaultRegistry().All()...)

		decisions := newFilter(t).Decide(method, mutants)

		require.Len(t, decisions, len(mutants))

		for i, d := range decisions {
			assert.Same(t, mutants[i], d.Mutant)
			assert.True(t, d.Kept())
		}
	})

	t.Run("reports no samples", func(t *testing.T) {
		err := fixture.ForEachSample(ctx, repo, "Missing", m.Named("run"), func(m.Producer, *m.Method) error {
			t.Fatal("no sample should be checked")
			return nil
		})

		assert.ErrorIs(t, err, fixture.ErrNoSamples)
	})

	t.Run("reports no samples when no method matches", func(t *testing.T) {
		err := fixture.ForEachSample(ctx, repo, "CountedLoop", m.Named("missing"), func(m.Producer, *m.Method) error {
			t.Fatal("no sample should be checked")
			return nil
		})

		assert.ErrorIs(t, err, fixture.ErrNoSamples)
	})
}

func TestFilter_ProducerInvariance(t *testing.T) {
	ctx := context.Background()
	repo := sampleRepo(t)

	for _, sample := range fixture.Samples() {
		for _, id := range []m.OperatorID{mutagens.RemoveIncrements, mutagens.VoidMethodCalls} {
			t.Run(sample.Class+"/"+string(id), func(t *testing.T) {
				got := make(map[m.Producer][]verdict)

				err := fixture.ForEachSample(ctx, repo, sample.Class, m.Named(sample.Method), func(p m.Producer, method *m.Method) error {
					got[p] = verdicts(decide(t, method, id))
					return nil
				})
				require.NoError(t, err)

				require.Len(t, got, len(m.Producers()))
				assert.Equal(t, got[m.Javac], got[m.Eclipse])
			})
		}
	}
}

func TestFilter_Loops(t *testing.T) {
	ctx := context.Background()
	repo := sampleRepo(t)
	filter := newFilter(t)

	for _, sample := range fixture.Samples() {
		t.Run(sample.Class, func(t *testing.T) {
			err := fixture.ForEachSample(ctx, repo, sample.Class, m.Named(sample.Method), func(p m.Producer, method *m.Method) error {
				loops := domain.FindLoops(method.Instructions)
				require.Len(t, loops, 1, p.String())

				guarded := filter.GuardedLoops(method)
				unguarded := filter.UnguardedLoops(method)

				if sample.Guarded {
					require.Len(t, guarded, 1, p.String())
					assert.Equal(t, loops[0], guarded[0].Loop)
					assert.NotEmpty(t, guarded[0].Patterns)
					assert.Empty(t, unguarded, p.String())
				} else {
					assert.Empty(t, guarded, p.String())
					assert.Equal(t, loops, unguarded)
				}

				return nil
			})

			require.NoError(t, err)
		})
	}
}

func TestFilter_PatternsPerSample(t *testing.T) {
	ctx := context.Background()
	repo := sampleRepo(t)
	filter := newFilter(t)

	tests := []struct {
		class   string
		method  string
		pattern string
	}{
		{"CountedLoop", "count", domain.PatternCounterIncrement},
		{"BoundFirstLoop", "approach", domain.PatternCounterIncrement},
		{"ArrayLoop", "sum", domain.PatternArrayLengthBound},
		{"IteratorLoop", "drain", domain.PatternObservableCondition},
		{"FlagLoop", "spin", domain.PatternObservableCondition},
	}

	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			err := fixture.ForEachSample(ctx, repo, tt.class, m.Named(tt.method), func(p m.Producer, method *m.Method) error {
				guarded := filter.GuardedLoops(method)
				require.Len(t, guarded, 1)
				assert.Contains(t, guarded[0].Patterns, tt.pattern, p.String())

				return nil
			})

			require.NoError(t, err)
		})
	}
}

func TestFindLoops(t *testing.T) {
	t.Run("one loop per back-edge", func(t *testing.T) {
		insns := build(t, fixture.NewAssembler().
			Label("outer").Op(m.NOP).
			Label("inner").Var(m.ILOAD, 0).Jump(m.IFNE, "inner").
			Var(m.ILOAD, 0).Jump(m.IFNE, "outer").
			Jump(m.GOTO, "inner").
			Op(m.RETURN))

		loops := domain.FindLoops(insns)

		assert.Equal(t, []domain.Loop{{Start: 0, End: 4}, {Start: 1, End: 2}, {Start: 1, End: 5}}, loops)
		assert.True(t, loops[0].Contains(4))
		assert.False(t, loops[1].Contains(3))
		assert.Equal(t, "[1,2]", loops[1].String())
	})

	t.Run("no loops in straight-line code", func(t *testing.T) {
		assert.Empty(t, domain.FindLoops(clampMethod(t).Instructions))
	})
}

func TestFilterConfig(t *testing.T) {
	assert.Equal(t, domain.FilterConfig{GuardWindow: 4, HeadWindow: 6}, domain.DefaultFilterConfig())

	_, err := domain.NewFilter(domain.FilterConfig{GuardWindow: -1})
	assert.ErrorContains(t, err, "must not be negative")

	patterns := domain.LoopExitPatterns(domain.DefaultFilterConfig())
	require.Len(t, patterns, 3)
	assert.Equal(t, domain.PatternArrayLengthBound, patterns[0].ID)
	assert.Equal(t, domain.PatternCounterIncrement, patterns[1].ID)
	assert.Equal(t, domain.PatternObservableCondition, patterns[2].ID)
}

func TestNewFilterWithPatterns(t *testing.T) {
	// Arrange
	sample, ok := fixture.Lookup("FlagLoop")
	require.True(t, ok)

	unit, err := sample.Unit(m.Javac)
	require.NoError(t, err)

	method, ok := unit.FirstMethod(m.Named("spin"))
	require.True(t, ok)

	// Act
	none := domain.NewFilterWithPatterns()
	counterOnly := domain.NewFilterWithPatterns(domain.LoopExitPatterns(domain.DefaultFilterConfig())[1])

	// Assert
	assert.Empty(t, none.GuardedLoops(method))
	assert.Empty(t, counterOnly.GuardedLoops(method))
	assert.Len(t, counterOnly.UnguardedLoops(method), 1)
}
