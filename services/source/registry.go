package source

import (
	"sort"
	"sync"
)

// Registry holds the configured sources by name. It is swapped wholesale when
// settings are reloaded.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

func NewRegistry(sources ...Source) *Registry {
	r := &Registry{}
	r.Replace(sources)
	return r
}

// Replace swaps the registered set. Later duplicates of a name win.
func (r *Registry) Replace(sources []Source) {
	next := make(map[string]Source, len(sources))
	for _, s := range sources {
		if s == nil {
			continue
		}
		next[s.Name()] = s
	}

	r.mu.Lock()
	r.sources = next
	r.mu.Unlock()
}

func (r *Registry) Get(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[name]
	return s, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}
