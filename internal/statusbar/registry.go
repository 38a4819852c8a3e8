package statusbar

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/sahilm/fuzzy"
)

// Registry holds the status bar's modules
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry creates an empty module registry
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]Module),
	}
}

// Register registers a module
func (r *Registry) Register(module Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := module.Name()
	if _, exists := r.modules[name]; exists {
		return fmt.Errorf("module '%s' already registered", name)
	}

	r.modules[name] = module
	log.Printf("Registered module: %s", name)

	return nil
}

// Get returns a module by exact name
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	module, exists := r.modules[name]
	return module, exists
}

// Names returns all registered module names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Find fuzzy-matches a query against registered module names and returns the
// best match. Control-socket commands use this so "img" resolves to "image".
func (r *Registry) Find(query string) (Module, bool) {
	if module, ok := r.Get(query); ok {
		return module, true
	}

	matches := fuzzy.Find(query, r.Names())
	if len(matches) == 0 {
		return nil, false
	}

	return r.Get(matches[0].Str)
}

// Cleanup cleans up all modules and empties the registry
func (r *Registry) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, module := range r.modules {
		if err := module.Cleanup(); err != nil {
			log.Printf("Failed to clean up module '%s': %v", name, err)
		}
	}

	r.modules = make(map[string]Module)
}
