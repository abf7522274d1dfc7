// Package registry provides a global registry of board evaluators.
// Evaluators register themselves in init() functions, allowing the CLI
// and configuration to pick a leaf evaluator by name.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/t2048/internal/search"
)

// DefaultEvaluator is the name of the heuristic evaluator.
const DefaultEvaluator = "heuristic"

// EvaluatorInfo contains metadata about a registered evaluator.
type EvaluatorInfo struct {
	Name        string
	Description string
}

// Factory creates an evaluator configured with the given heuristic weights.
// Evaluators that have no weights ignore them.
type Factory func(w search.Weights) search.Evaluator

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

func init() {
	Register(DefaultEvaluator, "empty cells, smoothness, monotonicity and max tile", func(w search.Weights) search.Evaluator {
		return search.Heuristic{Weights: w}
	})
	Register("empty", "number of empty cells", func(search.Weights) search.Evaluator {
		return search.EvaluatorFunc(search.EmptyCount)
	})
	Register("corner", "snake gradient from the top-left corner", func(search.Weights) search.Evaluator {
		return search.EvaluatorFunc(search.Corner)
	})
}

// Register adds an evaluator factory to the registry.
// Panics if an evaluator with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: evaluator %q already registered", name))
	}

	factories[name] = f
	descriptions[name] = description
}

// List returns information about all registered evaluators, sorted by name.
func List() []EvaluatorInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]EvaluatorInfo, 0, len(factories))
	for name := range factories {
		result = append(result, EvaluatorInfo{
			Name:        name,
			Description: descriptions[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates an evaluator by name.
// Returns an error if the name is not registered.
func Create(name string, w search.Weights) (search.Evaluator, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown evaluator %q", name)
	}

	return f(w), nil
}

// Exists checks if an evaluator with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
