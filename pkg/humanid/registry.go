package humanid

import (
	"errors"
	"fmt"
	"sync"
)

// Registry manages named policies with thread-safe access. New confusable
// policies register alongside the built-ins without touching the checksum
// or generation logic.
type Registry struct {
	policies map[string]*Policy
	mu       sync.RWMutex
}

// DefaultRegistry is the global policy registry. The built-in policies are
// registered under "default" and "legacy".
var DefaultRegistry = NewRegistry()

func init() {
	if err := DefaultRegistry.Register(Default.Name(), Default); err != nil {
		panic(err)
	}
	if err := DefaultRegistry.Register(Legacy.Name(), Legacy); err != nil {
		panic(err)
	}
}

// NewRegistry creates an empty policy registry.
func NewRegistry() *Registry {
	return &Registry{
		policies: make(map[string]*Policy),
	}
}

// Register adds a policy to the registry.
// Returns an error if the name is already registered or inputs are invalid.
func (r *Registry) Register(name string, policy *Policy) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}

	if policy == nil {
		return errors.New("policy cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.policies[name]; exists {
		return fmt.Errorf("policy %q is already registered", name)
	}

	r.policies[name] = policy
	return nil
}

// Get retrieves a policy by name.
// Returns an error if the policy is not found.
func (r *Registry) Get(name string) (*Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	policy, exists := r.policies[name]
	if !exists {
		return nil, fmt.Errorf("policy %q not found", name)
	}

	return policy, nil
}

// List returns a slice of all registered policy names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.policies))
	for name := range r.policies {
		names = append(names, name)
	}

	return names
}

// Unregister removes a policy from the registry.
// Idempotent - does not error if the policy doesn't exist.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.policies, name)
}

// Lookup retrieves a policy from the default registry.
func Lookup(name string) (*Policy, error) {
	return DefaultRegistry.Get(name)
}
