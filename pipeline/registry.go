package pipeline

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/hupe1980/shadercache"
	"github.com/hupe1980/shadercache/internal/resource"
	"golang.org/x/sync/errgroup"
)

// ErrDuplicate is returned when registering a pipeline whose name is taken.
var ErrDuplicate = errors.New("pipeline already registered")

// ReloadError reports the pipeline a reload failure belongs to.
type ReloadError struct {
	Pipeline string
	Err      error
}

func (e *ReloadError) Error() string {
	return fmt.Sprintf("pipeline %s: %v", e.Pipeline, e.Err)
}

func (e *ReloadError) Unwrap() error { return e.Err }

// Option configures a Registry.
type Option func(*options)

type options struct {
	workers int64
	logger  *shadercache.Logger
}

// WithWorkers bounds how many stages compile at once. Default is 4.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = int64(n)
		}
	}
}

// WithLogger sets the logger. Default discards.
func WithLogger(logger *shadercache.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Registry holds the live pipelines.
type Registry struct {
	compiler Compiler
	rc       *resource.Controller
	logger   *shadercache.Logger

	mu        sync.Mutex
	pipelines map[string]Pipeline
}

// NewRegistry returns an empty registry compiling with comp.
func NewRegistry(comp Compiler, optFns ...Option) *Registry {
	o := options{
		workers: 4,
		logger:  shadercache.NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&o)
	}

	return &Registry{
		compiler:  comp,
		rc:        resource.NewController(resource.Config{MaxWorkers: o.workers}),
		logger:    o.logger,
		pipelines: make(map[string]Pipeline),
	}
}

// Register adds p. Names must be unique.
func (r *Registry) Register(p Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, ok := r.pipelines[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	r.pipelines[name] = p
	return nil
}

// Unregister removes the pipeline called name and reports whether it existed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.pipelines[name]
	delete(r.pipelines, name)
	return ok
}

// Len returns the number of registered pipelines.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pipelines)
}

// ReloadAll recompiles and rebuilds every registered pipeline.
//
// A pipeline whose stages fail to compile is not rebuilt and keeps its old
// stages; the others are still reloaded. The returned error joins one
// *ReloadError per failed pipeline.
func (r *Registry) ReloadAll(ctx context.Context) error {
	r.mu.Lock()
	pipelines := make([]Pipeline, 0, len(r.pipelines))
	for _, p := range r.pipelines {
		pipelines = append(pipelines, p)
	}
	r.mu.Unlock()

	slices.SortFunc(pipelines, func(a, b Pipeline) int { return cmp.Compare(a.Name(), b.Name()) })

	errs := make([]error, len(pipelines))
	for i, p := range pipelines {
		if err := r.reload(ctx, p); err != nil {
			errs[i] = &ReloadError{Pipeline: p.Name(), Err: err}
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) reload(ctx context.Context, p Pipeline) error {
	sources := p.Sources()
	results := make([][]byte, len(sources))
	hits := make([]bool, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		if err := r.rc.AcquireWorker(gctx); err != nil {
			break
		}
		g.Go(func() error {
			defer r.rc.ReleaseWorker()

			res, err := r.compiler.Compile(gctx, src)
			if err != nil {
				return err
			}
			results[i] = res.Data
			hits[i] = res.Hit
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		// AcquireWorker stops the loop early only when ctx is done.
		err = ctx.Err()
	}
	if err != nil {
		r.logger.LogReload(ctx, p.Name(), 0, 0, err)
		return err
	}

	stages := make(map[string][]byte, len(sources))
	nHits := 0
	for i, src := range sources {
		stages[src] = results[i]
		if hits[i] {
			nHits++
		}
	}

	err = p.Rebuild(stages)
	r.logger.LogReload(ctx, p.Name(), nHits, len(sources)-nHits, err)
	return err
}
