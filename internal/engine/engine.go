// Package engine orchestrates create, read, update, move, and delete
// operations against the node tree. Every operation validates through the
// navigator and comparison service before issuing its first mutating
// statement, runs inside one store transaction, and rolls back
// unconditionally on failure.
package engine

import (
	"context"
	"time"

	"github.com/scrose/mle-api/internal/comparisons"
	"github.com/scrose/mle-api/internal/importer"
	"github.com/scrose/mle-api/internal/jobs"
	"github.com/scrose/mle-api/internal/observability"
	"github.com/scrose/mle-api/internal/tree"
	"github.com/scrose/mle-api/pkg/entity"
	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

// phase names the stages of the operation state machine for logging.
type phase string

const (
	phaseValidating phase = "validating"
	phaseApplying   phase = "applying"
	phaseCommitted  phase = "committed"
	phaseRejected   phase = "rejected"
	phaseRolledBack phase = "rolled_back"
)

// Engine coordinates the schema registry, entity factory, navigator,
// comparison service, and store. It holds no per-operation state and is
// safe for concurrent use; the registry is the only data shared across
// operations and is immutable after startup.
type Engine struct {
	store    nodes.Store
	registry *schema.Registry
	factory  *entity.Factory
	nav      *tree.Navigator
	cmp      *comparisons.Service
	files    importer.Importer
	queue    jobs.Enqueuer
	log      nodes.Logger
	metrics  observability.MetricsRecorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine logging to l.
func WithLogger(l nodes.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMetrics records operation outcomes through rec.
func WithMetrics(rec observability.MetricsRecorder) Option {
	return func(e *Engine) {
		if rec != nil {
			e.metrics = rec
		}
	}
}

// WithImporter enables file ingestion for file-bearing entity types.
func WithImporter(imp importer.Importer) Option {
	return func(e *Engine) { e.files = imp }
}

// WithJobQueue enables post-commit enqueueing of image-processing jobs.
func WithJobQueue(q jobs.Enqueuer) Option {
	return func(e *Engine) { e.queue = q }
}

// New constructs an engine over the given store and registry.
func New(store nodes.Store, registry *schema.Registry, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		registry: registry,
		nav:      tree.NewNavigator(registry),
		cmp:      comparisons.NewService(),
		log:      nodes.NopLogger{},
		metrics:  observability.NopMetrics{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.factory = entity.NewFactory(registry, entity.WithLogger(e.log))
	return e
}

// Navigator exposes the tree navigator for read-side callers.
func (e *Engine) Navigator() *tree.Navigator {
	return e.nav
}

// Factory exposes the entity factory bound to the engine's registry.
func (e *Engine) Factory() *entity.Factory {
	return e.factory
}

// op wraps one operation with metrics and phase logging. The closure sets
// applied once the first mutating statement has been issued so failures can
// be reported as rejections (validate phase) or rollbacks (apply phase).
type op struct {
	name    string
	applied bool
}

func (e *Engine) run(ctx context.Context, name string, fn func(o *op) error) error {
	start := time.Now()
	o := &op{name: name}
	err := fn(o)
	e.metrics.Observe(ctx, name, err == nil, time.Since(start))
	switch {
	case err == nil:
		e.log.Debug("operation finished", "op", name, "phase", string(phaseCommitted))
	case o.applied:
		e.log.Error("operation rolled back", "op", name, "phase", string(phaseRolledBack),
			"kind", string(nodes.KindOf(err)), "error", err)
	default:
		e.log.Warn("operation rejected", "op", name, "phase", string(phaseRejected),
			"kind", string(nodes.KindOf(err)), "error", err)
	}
	return err
}
