package cells

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	"mapvet/internal/common"
	"mapvet/internal/config"
	"mapvet/internal/model"
)

var (
	// cacheHits counts cell-group requests served from the memo slot
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapvet_cell_group_cache_hits_total",
		Help: "Total cell-group requests served from a memoized result",
	})

	// cacheMisses counts cell-group requests that had to compute
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapvet_cell_group_cache_misses_total",
		Help: "Total cell-group requests that computed a result",
	})

	// extractions counts calls into the cell extractor
	extractions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapvet_cell_extractions_total",
		Help: "Total cell extractions",
	})
)

// Cache computes the cell groups of a container mapping at most once and
// memoizes them on the container mapping. It is safe for concurrent use.
type Cache struct {
	extractor Extractor
	logger    *slog.Logger
	group     singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for miss and extraction events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCache returns a cache that produces cells with extractor.
func NewCache(extractor Extractor, opts ...Option) *Cache {
	c := &Cache{extractor: extractor, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the cell groups of cm. The first call per container mapping
// extracts and partitions the cells; concurrent first calls share one
// computation. Every call returns a private copy.
//
// cfg is not part of the cache key: a container mapping has one memoized
// result whatever generation settings later callers pass. A nil cm yields an
// unsuccessful output.
func (c *Cache) Get(cm *model.ContainerMapping, cfg config.Generation) model.CellGroupOutput {
	if cm == nil {
		return model.CellGroupOutput{}
	}

	if out, ok := cm.CellGroups(); ok {
		cacheHits.Inc()
		return out
	}

	v, _, _ := c.group.Do(cm.Key(), func() (any, error) {
		if out, ok := cm.CellGroups(); ok {
			cacheHits.Inc()
			return out, nil
		}

		cacheMisses.Inc()
		c.logger.Debug("computing cell groups",
			slog.String("container", cm.Conceptual()),
			slog.String("key", cm.Key()),
			slog.String("view_mode", cfg.ViewMode))

		return cm.StoreCellGroups(c.compute(cm)), nil
	})

	out, ok := v.(model.CellGroupOutput)
	if !ok {
		return model.CellGroupOutput{}
	}

	// Callers sharing a flight receive the same value.
	return out.Clone()
}

func (c *Cache) compute(cm *model.ContainerMapping) model.CellGroupOutput {
	extractions.Inc()

	cells, identifiers, ok := c.extractor.Extract(cm)
	if !ok || common.IsEmpty(cells) {
		c.logger.Debug("no cells extracted; cell groups unavailable",
			slog.String("container", cm.Conceptual()))

		return model.CellGroupOutput{Cells: cells, Identifiers: identifiers}
	}

	fks := cm.ForeignKeys()
	groups := Partition(cells, fks)

	c.logger.Debug("partitioned cells",
		slog.String("container", cm.Conceptual()),
		slog.Int("cells", len(cells)),
		slog.Int("foreign_keys", len(fks)),
		slog.Int("groups", len(groups)))

	return model.CellGroupOutput{
		Cells:       cells,
		Groups:      groups,
		ForeignKeys: fks,
		Identifiers: identifiers,
		Success:     true,
	}
}
