package rules

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/solatis/valkeeper/internal/types"
)

// Engine is a registry of named compiled schemas shared by the service and
// CLI. Registration takes a write lock; validation only reads, so any number
// of documents may be validated concurrently.
type Engine struct {
	mu      sync.RWMutex
	schemas map[string]*CompiledSchema
	opts    []CompileOption
}

// NewEngine creates an engine. opts apply to every registered schema.
func NewEngine(opts ...CompileOption) *Engine {
	return &Engine{
		schemas: make(map[string]*CompiledSchema),
		opts:    opts,
	}
}

// Register compiles schema and stores it under name.
// Returns ErrDuplicateSchema if name is taken.
func (e *Engine) Register(name string, schema ObjectSchema) error {
	compiled, err := Compile(schema, e.opts...)
	if err != nil {
		return fmt.Errorf("schema %q: %w", name, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.schemas[name]; exists {
		return fmt.Errorf("%w: %s", types.ErrDuplicateSchema, name)
	}
	e.schemas[name] = compiled
	return nil
}

// Replace compiles schema and stores it under name, overwriting any previous
// registration.
func (e *Engine) Replace(name string, schema ObjectSchema) error {
	compiled, err := Compile(schema, e.opts...)
	if err != nil {
		return fmt.Errorf("schema %q: %w", name, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.schemas[name] = compiled
	return nil
}

// Schema returns the compiled schema registered under name.
func (e *Engine) Schema(name string) (*CompiledSchema, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	compiled, ok := e.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrSchemaNotFound, name)
	}
	return compiled, nil
}

// Names returns the registered schema names in sorted order.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.schemas))
	for name := range e.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate evaluates root against the schema registered under name.
func (e *Engine) Validate(name string, root types.Value) (Report, error) {
	compiled, err := e.Schema(name)
	if err != nil {
		return nil, err
	}
	return compiled.Validate(root), nil
}

// ValidateBatch evaluates each document in order. Cancellation is checked
// between documents; a cancelled batch returns no partial reports.
func (e *Engine) ValidateBatch(ctx context.Context, name string, roots []types.Value) ([]Report, error) {
	compiled, err := e.Schema(name)
	if err != nil {
		return nil, err
	}
	reports := make([]Report, len(roots))
	for i, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reports[i] = compiled.Validate(root)
	}
	return reports, nil
}
