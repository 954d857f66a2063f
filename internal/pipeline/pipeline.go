// Package pipeline wires named dialogue components into an ordered pipeline.
// Components are looked up in an explicit registry; unknown names fail when
// the pipeline is built, not when a turn runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"dialcore/internal/cldb"
	"dialcore/internal/config"
	"dialcore/internal/dialogue"
	"dialcore/internal/preprocess"
)

var ErrUnknownComponent = errors.New("unknown pipeline component")

// Component updates the dialogue for one turn.
type Component interface {
	Name() string
	Process(ctx context.Context, d *dialogue.Dialogue) error
}

// Deps are the shared, read-only resources handed to factories.
type Deps struct {
	DB           *cldb.Database
	Preprocessor *preprocess.Preprocessor
	Logger       *slog.Logger
}

type Factory func(deps Deps, spec config.ComponentSpec) (Component, error)

type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" || f == nil {
		return fmt.Errorf("register component: empty name or factory")
	}
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("register component %q: already registered", name)
	}
	r.factories[name] = f
	return nil
}

func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Build instantiates every component in cfg order.
func (r *Registry) Build(cfg config.PipelineConfig, deps Deps) (*Pipeline, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Preprocessor == nil {
		deps.Preprocessor = preprocess.New(nil)
	}
	p := &Pipeline{logger: deps.Logger}
	for _, spec := range cfg.Components {
		r.mu.RLock()
		f, ok := r.factories[spec.Name]
		r.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, spec.Name)
		}
		c, err := f(deps, spec)
		if err != nil {
			return nil, fmt.Errorf("build component %q: %w", spec.Name, err)
		}
		p.components = append(p.components, c)
	}
	return p, nil
}

// Pipeline is immutable after Build and may be shared between sessions.
type Pipeline struct {
	components []Component
	logger     *slog.Logger
}

func (p *Pipeline) Names() []string {
	out := make([]string, len(p.components))
	for i, c := range p.components {
		out[i] = c.Name()
	}
	return out
}

// Run sets the user input and runs every component once. It stops at the
// first error.
func (p *Pipeline) Run(ctx context.Context, d *dialogue.Dialogue, user string) error {
	d.SetUserInput(user)
	for _, c := range p.components {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Process(ctx, d); err != nil {
			return fmt.Errorf("%s: %w", c.Name(), err)
		}
	}
	return nil
}
