package optimize

import (
	"errors"

	"github.com/quantfold/ctabacktester/statistics"
)

var (
	// ErrInvalidParameter is returned for a malformed parameter range
	ErrInvalidParameter = errors.New("invalid optimisation parameter")
	// ErrNoParameters is returned when a run is attempted with nothing to
	// vary
	ErrNoParameters = errors.New("no optimisation parameters set")
	// ErrUnsetTarget is returned when no target metric is configured
	ErrUnsetTarget = errors.New("optimisation target must be set")
	// ErrAllEvaluationsFailed is returned when every combination errored
	ErrAllEvaluationsFailed = errors.New("all optimisation evaluations failed")
)

// Setting describes the parameter space and the metric to rank by
type Setting struct {
	// Target is a statistics Map key, for example sharpe_ratio
	Target string

	names  []string
	values map[string][]float64
}

// Result is the outcome of evaluating one parameter combination
type Result struct {
	Parameters map[string]interface{}
	Target     float64
	Summary    *statistics.Summary
}

// EvaluateFunc runs one isolated backtest for a parameter combination
type EvaluateFunc func(parameters map[string]interface{}) (*Result, error)
