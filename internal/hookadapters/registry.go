// Package hookadapters provides concrete hookapi.Adapter implementations
// keyed by name, grounded on the teacher's internal/adapter Runtime:
// buildAdapter resolves a configured adapter name to a concrete
// implementation, and Registry wraps the name->adapter map behind a small
// lookup surface.
package hookadapters

import (
	"fmt"
	"strings"

	"github.com/agentguard/agentguard/pkg/hookapi"
)

// Registry holds the set of hook adapters enabled for this installation.
type Registry struct {
	adapters map[string]hookapi.Adapter
}

// NewRegistry builds a Registry containing one adapter per requested name.
// Unknown names produce an error rather than being silently skipped, since
// a misconfigured adapter name means hooks from that platform would
// otherwise go unevaluated.
func NewRegistry(names []string) (*Registry, error) {
	r := &Registry{adapters: map[string]hookapi.Adapter{}}
	for _, n := range names {
		name := strings.ToLower(n)
		adapter, err := buildAdapter(name)
		if err != nil {
			return nil, err
		}
		r.adapters[name] = adapter
	}
	return r, nil
}

// Get resolves an adapter by name.
func (r *Registry) Get(name string) (hookapi.Adapter, error) {
	a, ok := r.adapters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("HOOK_ADAPTER_NOT_SUPPORTED: adapter %q is not configured", name)
	}
	return a, nil
}

func buildAdapter(name string) (hookapi.Adapter, error) {
	switch name {
	case "claude-code", "claude":
		return newClaudeCodeAdapter(), nil
	case "generic":
		return newGenericAdapter(), nil
	default:
		return nil, fmt.Errorf("HOOK_ADAPTER_NOT_SUPPORTED: unknown adapter %q", name)
	}
}

// DefaultRegistry returns a Registry preloaded with every built-in adapter,
// used when the caller has not narrowed the set via config.
func DefaultRegistry() *Registry {
	r, _ := NewRegistry([]string{"claude-code", "generic"})
	return r
}
