package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hupe1980/shadercache"
	"github.com/hupe1980/shadercache/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePipeline struct {
	name    string
	sources []string

	mu       sync.Mutex
	stages   map[string][]byte
	rebuilds int
	fail     error
}

func (p *fakePipeline) Name() string      { return p.name }
func (p *fakePipeline) Sources() []string { return p.sources }

func (p *fakePipeline) Rebuild(stages map[string][]byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.stages = stages
	p.rebuilds++
	return nil
}

func (p *fakePipeline) snapshot() (map[string][]byte, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stages, p.rebuilds
}

type fixture struct {
	dir      string
	compiles atomic.Int32
	cached   *compiler.Cached
}

func newFixture(t *testing.T, fail map[string]error) *fixture {
	t.Helper()

	c, err := shadercache.Open(shadercache.WithPath(filepath.Join(t.TempDir(), "cache.bin")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	f := &fixture{dir: t.TempDir()}
	f.cached = compiler.NewCached(c, compiler.CompilerFunc(func(_ context.Context, path string, source []byte) ([]byte, error) {
		f.compiles.Add(1)
		if err := fail[filepath.Base(path)]; err != nil {
			return nil, err
		}
		return append([]byte("bc:"), source...), nil
	}))
	return f
}

func (f *fixture) source(t *testing.T, name, body string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestRegistry_RegisterUnregister(t *testing.T) {
	r := NewRegistry(newFixture(t, nil).cached)

	require.NoError(t, r.Register(&fakePipeline{name: "lit"}))
	err := r.Register(&fakePipeline{name: "lit"})
	require.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, r.Len())

	assert.True(t, r.Unregister("lit"))
	assert.False(t, r.Unregister("lit"))
	assert.Zero(t, r.Len())
}

func TestRegistry_ReloadAllUsesCache(t *testing.T) {
	f := newFixture(t, nil)
	mtime := time.Date(2022, 5, 20, 14, 40, 0, 0, time.UTC)
	vs := f.source(t, "lit.vs", "vs", mtime)
	fs := f.source(t, "lit.fs", "fs", mtime)
	shadow := f.source(t, "shadow.vs", "sh", mtime)

	lit := &fakePipeline{name: "lit", sources: []string{vs, fs}}
	sh := &fakePipeline{name: "shadow", sources: []string{shadow, vs}}

	r := NewRegistry(f.cached, WithWorkers(2))
	require.NoError(t, r.Register(lit))
	require.NoError(t, r.Register(sh))

	require.NoError(t, r.ReloadAll(context.Background()))

	stages, n := lit.snapshot()
	assert.Equal(t, 1, n)
	assert.Equal(t, "bc:vs", string(stages[vs]))
	assert.Equal(t, "bc:fs", string(stages[fs]))

	stages, _ = sh.snapshot()
	assert.Equal(t, "bc:sh", string(stages[shadow]))
	assert.Equal(t, "bc:vs", string(stages[vs]))

	// lit.vs is shared by both pipelines and compiled once.
	assert.Equal(t, int32(3), f.compiles.Load())

	// Nothing changed on disk: the second reload compiles nothing.
	require.NoError(t, r.ReloadAll(context.Background()))
	assert.Equal(t, int32(3), f.compiles.Load())
	_, n = lit.snapshot()
	assert.Equal(t, 2, n)

	// Touching one source recompiles only that stage.
	f.source(t, "lit.fs", "fs2", mtime.Add(time.Second))
	require.NoError(t, r.ReloadAll(context.Background()))
	assert.Equal(t, int32(4), f.compiles.Load())
	stages, _ = lit.snapshot()
	assert.Equal(t, "bc:fs2", string(stages[fs]))
}

func TestRegistry_ReloadAllJoinsFailures(t *testing.T) {
	boom := errors.New("undeclared identifier")
	f := newFixture(t, map[string]error{"broken.fs": boom})
	mtime := time.Now()

	good := &fakePipeline{name: "good", sources: []string{f.source(t, "good.vs", "g", mtime)}}
	bad := &fakePipeline{name: "bad", sources: []string{
		f.source(t, "bad.vs", "b", mtime),
		f.source(t, "broken.fs", "x", mtime),
	}}
	rejected := errors.New("device lost")
	refusing := &fakePipeline{name: "refusing", sources: good.sources, fail: rejected}

	r := NewRegistry(f.cached)
	for _, p := range []*fakePipeline{good, bad, refusing} {
		require.NoError(t, r.Register(p))
	}

	err := r.ReloadAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, rejected)

	var re *ReloadError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "bad", re.Pipeline)

	_, n := good.snapshot()
	assert.Equal(t, 1, n, "healthy pipelines still reload")
	_, n = bad.snapshot()
	assert.Zero(t, n, "failed pipeline keeps its old stages")
}

func TestRegistry_ReloadAllCanceled(t *testing.T) {
	f := newFixture(t, nil)
	p := &fakePipeline{name: "lit", sources: []string{f.source(t, "lit.vs", "vs", time.Now())}}

	r := NewRegistry(f.cached)
	require.NoError(t, r.Register(p))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.ReloadAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
	_, n := p.snapshot()
	assert.Zero(t, n)
}
