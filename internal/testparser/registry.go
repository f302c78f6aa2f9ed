package testparser

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrDuplicateParser is returned by Register when the name is taken.
var ErrDuplicateParser = errors.New("parser already registered")

// Registry maps toolchain identifiers to their parsers. A Registry is an
// explicit value owned by whoever builds the runner; there is no
// process-wide default.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// NewRegistry creates a registry holding the built-in parsers.
func NewRegistry() *Registry {
	r := &Registry{
		parsers: make(map[string]Parser),
	}

	dotnetParser := &DotnetParser{}
	for _, name := range []string{"dotnet", "cs", "csharp", "fsharp", "vb"} {
		// Names are unique by construction.
		_ = r.Register(name, dotnetParser)
	}

	return r
}

// Register adds a parser for a toolchain. Names are case-insensitive.
// Registering a name twice fails with ErrDuplicateParser and leaves the
// existing entry in place.
func (r *Registry) Register(toolchain string, parser Parser) error {
	key := strings.ToLower(strings.TrimSpace(toolchain))
	if key == "" {
		return errors.New("parser name is empty")
	}
	if parser == nil {
		return fmt.Errorf("parser %q is nil", toolchain)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.parsers[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateParser, key)
	}
	r.parsers[key] = parser
	return nil
}

// Get returns the parser for the given toolchain identifier.
func (r *Registry) Get(toolchain string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[strings.ToLower(strings.TrimSpace(toolchain))]
	return p, ok
}

// Names returns the registered identifiers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
