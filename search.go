package main

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ── Optimizer ───────────────────────────────────────────────────────

// Optimizer finds the most geodes one blueprint can open within a horizon.
// It is safe to call Optimize from several goroutines; every call searches
// with its own cache.
type Optimizer struct {
	bp     *Blueprint
	cfg    Config
	logger *slog.Logger
}

// Stats counts the work done by one search.
type Stats struct {
	Nodes       int64 // states expanded (cache misses below the horizon)
	CacheHits   int64
	CacheMisses int64
	Evictions   int64
	Pruned      [numPruneReasons]int64
}

func (s *Stats) add(o Stats) {
	s.Nodes += o.Nodes
	s.CacheHits += o.CacheHits
	s.CacheMisses += o.CacheMisses
	s.Evictions += o.Evictions
	for i := range s.Pruned {
		s.Pruned[i] += o.Pruned[i]
	}
}

// PrunedTotal sums pruned branches over all reasons.
func (s Stats) PrunedTotal() int64 {
	var n int64
	for _, v := range s.Pruned {
		n += v
	}
	return n
}

// Result is the outcome of one blueprint search.
type Result struct {
	BlueprintID int
	Minutes     int
	Geodes      int
	Stats       Stats
	Elapsed     time.Duration
}

// NewOptimizer creates an optimizer for bp. A nil logger uses slog.Default().
func NewOptimizer(bp *Blueprint, cfg Config, logger *slog.Logger) *Optimizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Optimizer{bp: bp, cfg: cfg, logger: logger}
}

// MaxGeodes searches bp with the default configuration.
func MaxGeodes(bp *Blueprint, minutes int) int {
	res, err := NewOptimizer(bp, DefaultConfig(), nil).Optimize(minutes)
	if err != nil {
		// The default backend cannot fail to build.
		panic(err)
	}
	return res.Geodes
}

// Optimize runs the exhaustive pruned search from the starting state and
// returns the best geode count. The only error is a cache backend that
// cannot be built.
func (o *Optimizer) Optimize(minutes int) (Result, error) {
	start := time.Now()
	cache, err := newMemo(o.cfg.Cache)
	if err != nil {
		return Result{}, err
	}
	defer cache.Close()

	run := &search{
		bp:     o.bp,
		cfg:    o.cfg,
		logger: o.logger,
		cache:  cache,
	}
	w := &worker{run: run}
	geodes := max(w.visit(NewState(minutes)), int(run.best.Load()))

	w.stats.Evictions = cache.Evictions()
	res := Result{
		BlueprintID: o.bp.ID,
		Minutes:     minutes,
		Geodes:      geodes,
		Stats:       w.stats,
		Elapsed:     time.Since(start),
	}
	o.logger.Debug("search done",
		"blueprint", o.bp.ID,
		"minutes", minutes,
		"geodes", geodes,
		"nodes", res.Stats.Nodes,
		"cacheHits", res.Stats.CacheHits,
		"pruned", res.Stats.PrunedTotal(),
		"elapsed", res.Elapsed)
	return res, nil
}

// ── Search ──────────────────────────────────────────────────────────

// search is the state shared by every worker of one Optimize call.
type search struct {
	bp     *Blueprint
	cfg    Config
	logger *slog.Logger
	cache  memo

	// best is the highest geode count known to be reachable. It only grows,
	// which keeps values cached under the bound rule valid: a node whose
	// subtree was cut short can only be undervalued when its true value does
	// not beat best.
	best atomic.Int64
}

func (s *search) raise(geodes int) {
	v := int64(geodes)
	for {
		cur := s.best.Load()
		if v <= cur || s.best.CompareAndSwap(cur, v) {
			return
		}
	}
}

func (s *search) key(st State) stateKey {
	k := stateKey{
		robots:    st.Robots,
		materials: st.Materials,
		remaining: st.Remaining,
	}
	if s.cfg.Prune.Deferred && st.Waited() {
		for _, r := range s.bp.Buildable() {
			if Covers(st.LastMaterials, r.Costs) {
				k.deferred |= 1 << uint(r.Material)
			}
		}
	}
	return k
}

// worker walks part of the tree. Workers never share Stats.
type worker struct {
	run   *search
	stats Stats
}

// visit returns the best geode count reachable from st.
func (w *worker) visit(st State) int {
	if st.Remaining <= 0 {
		w.run.raise(st.Materials.Geode)
		return st.Materials.Geode
	}

	key := w.run.key(st)
	if v, ok := w.run.cache.Get(key); ok {
		w.stats.CacheHits++
		return v
	}
	w.stats.CacheMisses++
	w.stats.Nodes++

	if st.Elapsed < w.run.cfg.TraceDepth {
		w.run.logger.Debug("visit",
			"elapsed", st.Elapsed,
			"robots", Glyphs(st.Robots),
			"materials", Glyphs(st.Materials),
			"last", st.LastRobot.String())
	}

	best := st.IdleGeodes()
	w.run.raise(best)

	children := w.children(st)
	if st.Elapsed < w.run.cfg.FanOutDepth && len(children) > 1 {
		best = max(best, w.fanOut(children))
	} else {
		for _, c := range children {
			if w.bounded(c) {
				continue
			}
			best = max(best, w.visit(c))
		}
	}

	w.run.cache.Set(key, best)
	return best
}

// children returns the admissible successors of st, highest robot tier
// first and building nothing last.
func (w *worker) children(st State) []State {
	bp := w.run.bp
	out := make([]State, 0, len(bp.Buildable())+1)
	for i := range bp.Buildable() {
		r := &bp.Buildable()[i]
		if reason := w.run.cfg.Prune.admit(bp, st, *r); reason != Admitted {
			w.stats.Pruned[reason]++
			continue
		}
		if next, ok := st.Next(r); ok {
			out = append(out, next)
		}
	}
	next, _ := st.Next(nil)
	return append(out, next)
}

// bounded reports whether c cannot beat the best answer found so far.
func (w *worker) bounded(c State) bool {
	if !w.run.cfg.Prune.Bound {
		return false
	}
	if int64(upperBound(w.run.bp, c)) <= w.run.best.Load() {
		w.stats.Pruned[PrunedBound]++
		return true
	}
	return false
}

// fanOut searches each child in its own goroutine and returns the best value.
func (w *worker) fanOut(children []State) int {
	type result struct {
		geodes int
		stats  Stats
	}
	results := make([]result, len(children))

	var wg sync.WaitGroup
	for i, c := range children {
		wg.Add(1)
		go func() {
			defer wg.Done()
			child := &worker{run: w.run}
			if !child.bounded(c) {
				results[i].geodes = child.visit(c)
			}
			results[i].stats = child.stats
		}()
	}
	wg.Wait()

	best := 0
	for _, r := range results {
		best = max(best, r.geodes)
		w.stats.add(r.stats)
	}
	return best
}
