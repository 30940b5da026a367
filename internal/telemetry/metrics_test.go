package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	mt := NewMetrics()

	mt.ClassParsed()
	mt.ClassParsed()
	mt.ClassMalformed()
	mt.MutantGenerated("MATH")
	mt.MutantDropped("VOID_METHOD_CALLS")
	mt.Decision("REJECT", "counter-increment")
	mt.Decision("KEEP", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(mt.classes.WithLabelValues("parsed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.classes.WithLabelValues("malformed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.mutants.WithLabelValues("MATH", "generated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.mutants.WithLabelValues("VOID_METHOD_CALLS", "dropped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.decisions.WithLabelValues("REJECT", "counter-increment")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.decisions.WithLabelValues("KEEP", "none")))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()

	a.ClassParsed()

	assert.Equal(t, 1, testutil.CollectAndCount(a.classes))
	assert.Equal(t, 0, testutil.CollectAndCount(b.classes))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	mt := NewMetrics()
	mt.Decision("REJECT", "observable-condition")

	path := filepath.Join(t.TempDir(), "classmut.prom")
	require.NoError(t, mt.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `classmut_filter_decisions_total{pattern="observable-condition",verdict="REJECT"} 1`))
}

func TestMetrics_WriteTextfileBadPath(t *testing.T) {
	mt := NewMetrics()

	err := mt.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.Error(t, err)
}
