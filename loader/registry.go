package loader

import (
	"context"
	"slices"
	"sync"

	"github.com/ardnew/pyx/lang"
)

// State is the lifecycle stage of a [Module].
type State int

const (
	// Pending modules are registered but still executing.
	Pending State = iota
	// Ready modules have finished executing.
	Ready
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Module is a loaded module record.
type Module struct {
	// Name is the dotted module name.
	Name string
	// Path is the source file.
	Path string
	// Artifact is the compiled artifact file.
	Artifact string
	// Unit is the compiled unit. It is nil until the code is loaded.
	Unit *lang.Unit
	// Cached reports whether Unit was decoded from a fresh artifact.
	Cached bool

	mu    sync.RWMutex
	ns    map[string]any
	deps  []*Module
	state State
}

func newModule(name, path, artifact string) *Module {
	return &Module{
		Name:     name,
		Path:     path,
		Artifact: artifact,
		ns:       make(map[string]any),
	}
}

// State returns the module's lifecycle stage.
func (m *Module) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state
}

func (m *Module) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Set binds name to value in the module namespace.
func (m *Module) Set(name string, value any) {
	m.mu.Lock()
	m.ns[name] = value
	m.mu.Unlock()
}

// Lookup returns the value bound to name.
func (m *Module) Lookup(name string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.ns[name]

	return v, ok
}

// Names returns the bound names in sorted order.
func (m *Module) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.ns))
	for name := range m.ns {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// AddDep records dep as imported by m.
func (m *Module) AddDep(dep *Module) {
	m.mu.Lock()
	m.deps = append(m.deps, dep)
	m.mu.Unlock()
}

// Deps returns the modules imported by m in import order.
func (m *Module) Deps() []*Module {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.deps)
}

// Registry maps module names to module records. It is safe for concurrent
// use.
//
// Imports into one registry run one at a time: the goroutine that starts an
// import holds the registry until that import and everything it imports
// have finished. Loaders sharing a registry share this serialization.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module
	gate    chan struct{}
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]*Module),
		gate:    make(chan struct{}, 1),
	}
}

type holderKey struct{}

// acquire waits until no other import holds r and returns a context marking
// r as held by the caller's call chain.
func (r *Registry) acquire(ctx context.Context) (context.Context, error) {
	select {
	case r.gate <- struct{}{}:
		return context.WithValue(ctx, holderKey{}, r), nil
	case <-ctx.Done():
		return ctx, ctx.Err()
	}
}

func (r *Registry) release() { <-r.gate }

// held reports whether ctx belongs to the call chain holding r.
func (r *Registry) held(ctx context.Context) bool {
	h, _ := ctx.Value(holderKey{}).(*Registry)

	return h == r
}

// Get returns the module registered as name.
//
// A module is registered before its body executes, so Get may return a
// [Pending] module whose namespace is incomplete. Circular imports receive
// such a module, and callers that reach a module through a cycle must not
// assume any particular binding exists yet.
func (r *Registry) Get(name string) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.modules[name]

	return m, ok
}

func (r *Registry) register(m *Module) {
	r.mu.Lock()
	r.modules[m.Name] = m
	r.mu.Unlock()
}

// Remove unregisters name.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	delete(r.modules, name)
	r.mu.Unlock()
}

// Names returns the registered module names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
