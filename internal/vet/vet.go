package vet

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mapvet/internal/closure"
	"mapvet/internal/consistency"
	"mapvet/internal/diagnostic"
	"mapvet/internal/mapping"
	"mapvet/internal/match"
	"mapvet/internal/metadata"
	"mapvet/internal/model"
)

// violationsTotal counts reported violations by code
var violationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mapvet_violations_total",
	Help: "Total mapping violations by code",
}, []string{"code"})

// Option configures Run.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	suggestions int
}

// WithLogger sets the logger for stage summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSuggestions sets the number of "did you mean" candidates attached to
// unknown-name diagnostics.
func WithSuggestions(n int) Option {
	return func(o *options) { o.suggestions = n }
}

type stage struct {
	name  string
	check func(*model.ContainerMapping, *metadata.Catalog) *diagnostic.Diagnostics
}

// Run validates cm against cat and returns every finding, sorted by
// location. It does not modify cm.
func Run(cm *model.ContainerMapping, cat *metadata.Catalog, opts ...Option) *diagnostic.Diagnostics {
	o := options{logger: slog.Default(), suggestions: match.DefaultLimit}
	for _, opt := range opts {
		opt(&o)
	}

	res := &diagnostic.Diagnostics{}

	if cm == nil || cat == nil {
		res.Merge(mapping.Validate(cm, cat))
		record(res)

		return res
	}

	stages := []stage{
		{"structure", func(cm *model.ContainerMapping, cat *metadata.Catalog) *diagnostic.Diagnostics {
			return mapping.Validate(cm, cat, mapping.WithSuggestions(o.suggestions))
		}},
		{"query view closure", closure.QueryViews},
		{"function mapping closure", closure.FunctionMappings},
		{"mapped once", consistency.MappedOnce},
		{"operation ends", consistency.OperationEnds},
	}

	for _, s := range stages {
		found := s.check(cm, cat)

		o.logger.Debug("validation stage finished",
			slog.String("container", cm.Conceptual()),
			slog.String("stage", s.name),
			slog.Int("errors", len(found.Errors)))

		res.Merge(found)
	}

	res.Sort()
	record(res)

	if res.HasErrors() {
		o.logger.Warn("mapping has errors",
			slog.String("container", cm.Conceptual()),
			slog.Int("errors", len(res.Errors)),
			slog.Int("warnings", len(res.Warnings)))
	} else {
		o.logger.Info("mapping is valid",
			slog.String("container", cm.Conceptual()),
			slog.Int("warnings", len(res.Warnings)))
	}

	return res
}

func record(res *diagnostic.Diagnostics) {
	for _, d := range res.Errors {
		violationsTotal.WithLabelValues(d.Code.String()).Inc()
	}
}
