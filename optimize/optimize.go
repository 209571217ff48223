// Package optimize evaluates a strategy across a brute force grid of
// parameter combinations. Every combination runs in a fully isolated engine
// instance so the pool shares nothing but the read only data source
package optimize

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/quantfold/ctabacktester/common"
	"github.com/quantfold/ctabacktester/data"
	"github.com/quantfold/ctabacktester/engine"
	"github.com/quantfold/ctabacktester/strategy"
)

// AddParameter registers a value range for one strategy setting. A zero step
// fixes the parameter at start
func (s *Setting) AddParameter(name string, start, end, step float64) error {
	if name == "" {
		return fmt.Errorf("%w: name must be set", ErrInvalidParameter)
	}
	if s.values == nil {
		s.values = make(map[string][]float64)
	}
	if _, ok := s.values[name]; ok {
		return fmt.Errorf("%w: %v already added", ErrInvalidParameter, name)
	}
	if step == 0 {
		s.names = append(s.names, name)
		s.values[name] = []float64{start}
		return nil
	}
	if step < 0 {
		return fmt.Errorf("%w: %v step must be positive", ErrInvalidParameter, name)
	}
	if end < start {
		return fmt.Errorf("%w: %v end below start", ErrInvalidParameter, name)
	}
	var values []float64
	for v := start; v <= end; v += step {
		values = append(values, v)
	}
	s.names = append(s.names, name)
	s.values[name] = values
	return nil
}

// Generate expands the registered ranges into every combination, in a
// deterministic order
func (s *Setting) Generate() []map[string]interface{} {
	if len(s.names) == 0 {
		return nil
	}
	combinations := []map[string]interface{}{{}}
	for _, name := range s.names {
		next := make([]map[string]interface{}, 0, len(combinations)*len(s.values[name]))
		for _, combo := range combinations {
			for _, v := range s.values[name] {
				expanded := make(map[string]interface{}, len(combo)+1)
				for k, cv := range combo {
					expanded[k] = cv
				}
				expanded[name] = v
				next = append(next, expanded)
			}
		}
		combinations = next
	}
	return combinations
}

// Run evaluates every combination across a worker pool and returns the
// results sorted by target metric, best first. Individual evaluation
// failures are logged and skipped; it is an error only when nothing
// succeeds
func Run(s *Setting, workers int, eval EvaluateFunc) ([]Result, error) {
	if s == nil || eval == nil {
		return nil, common.ErrNilArguments
	}
	if s.Target == "" {
		return nil, ErrUnsetTarget
	}
	combinations := s.Generate()
	if len(combinations) == 0 {
		return nil, ErrNoParameters
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(combinations) {
		workers = len(combinations)
	}

	log := common.Log(common.LogOptimize)
	log.Infof("evaluating %d combinations across %d workers", len(combinations), workers)

	jobs := make(chan map[string]interface{})
	var (
		mtx     sync.Mutex
		results []Result
		wg      sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				r, err := eval(params)
				mtx.Lock()
				if err != nil {
					log.WithError(err).Warnf("evaluation failed for %v", params)
				} else {
					results = append(results, *r)
				}
				mtx.Unlock()
			}
		}()
	}
	for _, params := range combinations {
		jobs <- params
	}
	close(jobs)
	wg.Wait()

	if len(results) == 0 {
		return nil, ErrAllEvaluationsFailed
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Target > results[j].Target
	})
	log.Infof("%d of %d combinations succeeded, best %v with %v",
		len(results), len(combinations), results[0].Target, results[0].Parameters)
	return results, nil
}

// Backtest builds an EvaluateFunc running the named strategy with a fresh
// engine per combination. The combination parameters overlay the base
// custom settings
func Backtest(settings engine.Settings, provider data.Provider, strategyName string, custom map[string]interface{}, target string) EvaluateFunc {
	return func(parameters map[string]interface{}) (*Result, error) {
		handler, err := strategy.New(strategyName)
		if err != nil {
			return nil, err
		}
		merged := make(map[string]interface{}, len(custom)+len(parameters))
		for k, v := range custom {
			merged[k] = v
		}
		for k, v := range parameters {
			merged[k] = v
		}
		if err = handler.SetCustomSettings(merged); err != nil {
			return nil, err
		}
		bt, err := engine.New(settings, handler, provider)
		if err != nil {
			return nil, err
		}
		if err = bt.Run(); err != nil {
			return nil, err
		}
		summary := bt.CalculateStatistics(nil)
		return &Result{
			Parameters: parameters,
			Target:     summary.Target(target),
			Summary:    summary,
		}, nil
	}
}
