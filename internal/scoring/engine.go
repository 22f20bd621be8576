// Package scoring implements the additive fraud classifier and the
// ranking of its per-feature attributions.
package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"sync/atomic"

	"github.com/riskstream/riskstream/internal/models"
)

// ErrModelUnavailable is returned when the model parameters cannot be
// loaded. Scoring cannot proceed; the caller surfaces this as a
// service-unavailable condition. A later call retries the load.
var ErrModelUnavailable = errors.New("fraud model not initialized or found")

// featureParams holds the calibrated parameters for one feature.
type featureParams struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
}

// model is an immutable, loaded parameter set. Shared freely for
// concurrent reads once published.
type model struct {
	Bias     float64         `json:"bias"`
	Features []featureParams `json:"features"`
}

// Engine scores feature vectors with an additive logistic model.
// Parameters load lazily from a named JSON resource on first use.
type Engine struct {
	path   string
	loaded atomic.Pointer[model]
	loadMu sync.Mutex
}

// NewEngine creates an Engine that reads its parameters from path.
// Nothing is loaded until the first Score or Load call.
func NewEngine(path string) *Engine {
	return &Engine{path: path}
}

// Load reads and validates the model parameters. Safe to call
// concurrently; only one load runs at a time and a successful load is
// never repeated.
func (e *Engine) Load() error {
	if e.loaded.Load() != nil {
		return nil
	}

	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	// Another caller may have loaded while we waited on the mutex.
	if e.loaded.Load() != nil {
		return nil
	}

	data, err := os.ReadFile(e.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	var m model
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: invalid model file: %v", ErrModelUnavailable, err)
	}
	if len(m.Features) == 0 {
		return fmt.Errorf("%w: model file has no features", ErrModelUnavailable)
	}
	for _, f := range m.Features {
		if f.Std <= 0 {
			return fmt.Errorf("%w: feature %q has non-positive std", ErrModelUnavailable, f.Name)
		}
	}

	e.loaded.Store(&m)
	return nil
}

// Loaded reports whether model parameters are available.
func (e *Engine) Loaded() bool {
	return e.loaded.Load() != nil
}

// Score evaluates the vector against the loaded model.
// It returns the calibrated fraud probability, the verdict
// (probability > 0.5), and the unordered per-feature contributions in
// log-odds space. The contributions plus the model bias reproduce the
// probability under the sigmoid.
func (e *Engine) Score(v models.FeatureVector) (float64, bool, map[string]float64, error) {
	if err := e.Load(); err != nil {
		return 0, false, nil, err
	}
	m := e.loaded.Load()

	contributions := make(map[string]float64, len(m.Features))
	logit := m.Bias
	for _, f := range m.Features {
		c := f.Weight * (v.Value(f.Name) - f.Mean) / f.Std
		contributions[f.Name] = c
		logit += c
	}

	probability := sigmoid(logit)
	return probability, probability > 0.5, contributions, nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
