// Package telemetry counts analysis outcomes in a Prometheus registry.
package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "classmut"

// Recorder receives analysis events.
type Recorder interface {
	ClassParsed()
	ClassMalformed()
	MutantGenerated(operator string)
	MutantDropped(operator string)
	Decision(verdict, pattern string)
}

// Metrics is a Recorder backed by its own registry, so several instances
// can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	classes   *prometheus.CounterVec
	mutants   *prometheus.CounterVec
	decisions *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them.
func NewMetrics() *Metrics {
	mt := &Metrics{
		registry: prometheus.NewRegistry(),
		classes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classes_total",
			Help:      "Classes read, by parse result",
		}, []string{"result"}),
		mutants: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutants_total",
			Help:      "Mutants by operator and engine result",
		}, []string{"operator", "result"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_decisions_total",
			Help:      "Infinite-loop filter decisions by verdict and pattern",
		}, []string{"verdict", "pattern"}),
	}

	mt.registry.MustRegister(mt.classes, mt.mutants, mt.decisions)

	return mt
}

// Registry exposes the underlying registry.
func (mt *Metrics) Registry() *prometheus.Registry {
	return mt.registry
}

func (mt *Metrics) ClassParsed() {
	mt.classes.WithLabelValues("parsed").Inc()
}

func (mt *Metrics) ClassMalformed() {
	mt.classes.WithLabelValues("malformed").Inc()
}

func (mt *Metrics) MutantGenerated(operator string) {
	mt.mutants.WithLabelValues(operator, "generated").Inc()
}

func (mt *Metrics) MutantDropped(operator string) {
	mt.mutants.WithLabelValues(operator, "dropped").Inc()
}

func (mt *Metrics) Decision(verdict, pattern string) {
	if pattern == "" {
		pattern = "none"
	}

	mt.decisions.WithLabelValues(verdict, pattern).Inc()
}

// WriteTextfile writes the current counters in the text exposition format.
func (mt *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, mt.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}

	return nil
}

// Discard is a Recorder that ignores every event.
type Discard struct{}

func (Discard) ClassParsed()                     {}
func (Discard) ClassMalformed()                  {}
func (Discard) MutantGenerated(operator string)  {}
func (Discard) MutantDropped(operator string)    {}
func (Discard) Decision(verdict, pattern string) {}
