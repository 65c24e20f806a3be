package mt

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultChunkSize is the scope size used when Config.ChunkSize is not set.
const DefaultChunkSize = 256

// Config holds scheduler limits.
type Config struct {
	// Workers is the maximum number of scopes running at once.
	// If <= 0, defaults to runtime.GOMAXPROCS(0).
	Workers int

	// ChunkSize is the default scope size.
	// If <= 0, defaults to DefaultChunkSize.
	ChunkSize int
}

// Scheduler dispatches scopes onto a fixed number of worker slots.
type Scheduler struct {
	cfg   Config
	slots *semaphore.Weighted
}

// New creates a scheduler.
func New(cfg Config) *Scheduler {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	return &Scheduler{
		cfg:   cfg,
		slots: semaphore.NewWeighted(int64(cfg.Workers)),
	}
}

// Workers returns the worker slot count.
func (s *Scheduler) Workers() int { return s.cfg.Workers }

// ChunkSize returns the default scope size.
func (s *Scheduler) ChunkSize() int { return s.cfg.ChunkSize }

// RunParallel splits [0, count) into scopes of chunk items, runs onRange for
// each and then onComplete once. It returns the number of scopes scheduled.
// When count <= 0 nothing is scheduled, onComplete is not called and 0 is
// returned so the caller can abort that unit of work.
func (s *Scheduler) RunParallel(ctx context.Context, count, chunk int, onRange func(Scope), onComplete func()) (int, error) {
	scopes := Scopes(count, chunk)
	if len(scopes) == 0 {
		return 0, nil
	}
	g := s.NewGroup(ctx, "parallel")
	g.OnComplete = onComplete
	g.StartScopes(scopes, onRange)
	return len(scopes), g.Wait()
}

// Group is a completion barrier over dispatched scopes.
type Group struct {
	// OnComplete is called once by Wait after every scope returned without error.
	OnComplete func()

	s    *Scheduler
	ctx  context.Context
	name string
	wg   sync.WaitGroup
	once sync.Once

	mu  sync.Mutex
	err error
}

// NewGroup creates a group bound to ctx.
func (s *Scheduler) NewGroup(ctx context.Context, name string) *Group {
	return &Group{s: s, ctx: ctx, name: name}
}

// StartSubLoops partitions [0, count) and dispatches the scopes. It returns
// the dispatched scopes. Safe to call from inside a running scope.
func (g *Group) StartSubLoops(count, chunk int, onRange func(Scope)) []Scope {
	if chunk <= 0 {
		chunk = g.s.cfg.ChunkSize
	}
	scopes := Scopes(count, chunk)
	g.StartScopes(scopes, onRange)
	return scopes
}

// StartScopes dispatches precomputed scopes. Safe to call from inside a
// running scope.
func (g *Group) StartScopes(scopes []Scope, onRange func(Scope)) {
	g.wg.Add(len(scopes))
	for _, sc := range scopes {
		go g.run(sc, onRange)
	}
}

func (g *Group) run(sc Scope, onRange func(Scope)) {
	defer g.wg.Done()

	if err := g.s.slots.Acquire(g.ctx, 1); err != nil {
		g.fail(err)
		return
	}
	defer g.s.slots.Release(1)

	defer func() {
		if r := recover(); r != nil {
			g.fail(fmt.Errorf("%s: scope [%d,%d) panicked: %v", g.name, sc.Start, sc.End, r))
		}
	}()

	onRange(sc)
}

func (g *Group) fail(err error) {
	g.mu.Lock()
	if g.err == nil {
		g.err = err
	}
	g.mu.Unlock()
}

// Wait blocks until every dispatched scope returned. On success OnComplete
// runs exactly once, even if Wait is called again.
func (g *Group) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	err := g.err
	g.mu.Unlock()
	if err != nil {
		return err
	}

	g.once.Do(func() {
		if g.OnComplete != nil {
			g.OnComplete()
		}
	})
	return nil
}
