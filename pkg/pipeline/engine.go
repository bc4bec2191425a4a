package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

// Engine runs every enabled strategy of a record's variant.
type Engine struct {
	registry *Registry
}

// NewEngine creates an engine backed by the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// RunAll scores the record with all enabled strategies in parallel.
// A failing strategy does not stop the others; its result carries the error.
// Results are sorted by strategy name. Respects context cancellation.
func (e *Engine) RunAll(ctx context.Context, rec *interfaces.Record) ([]*interfaces.StrategyResult, error) {
	if rec == nil {
		return nil, fmt.Errorf("pipeline: record must not be nil")
	}

	strategies := e.registry.Enabled(rec.Variant)
	if len(strategies) == 0 {
		slog.Info("no enabled strategies to run", "variant", rec.Variant)
		return nil, nil
	}

	slog.Debug("scoring with all strategies", "variant", rec.Variant, "strategy_count", len(strategies))

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]*interfaces.StrategyResult, 0, len(strategies))
	)

	for _, s := range strategies {
		wg.Add(1)
		go func(s interfaces.Scorer) {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}

			name := s.Name()
			start := time.Now()
			a, err := s.Score(ctx, rec)
			res := &interfaces.StrategyResult{Strategy: name, Assessment: a, Duration: time.Since(start)}

			if err != nil {
				slog.Debug("strategy failed", "name", name, "error", err)
				res.Assessment = nil
				res.Error = fmt.Errorf("strategy %s: %w", name, err)
				res.Message = res.Error.Error()
			}

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}(s)
	}

	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Strategy < results[j].Strategy
	})

	if err := ctx.Err(); err != nil {
		slog.Warn("scoring cancelled", "error", err)
		return results, err
	}
	return results, nil
}
