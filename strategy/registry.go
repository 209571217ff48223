package strategy

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	registryMtx sync.RWMutex
	registry    = make(map[string]func() Handler)
)

// Register adds a strategy factory under name. Demo strategies register
// themselves from init so importing their package is enough
func Register(name string, factory func() Handler) error {
	registryMtx.Lock()
	defer registryMtx.Unlock()
	key := strings.ToLower(name)
	if _, ok := registry[key]; ok {
		return fmt.Errorf("%w: %v", ErrAlreadyRegistered, name)
	}
	registry[key] = factory
	return nil
}

// New returns a fresh instance of the named strategy
func New(name string) (Handler, error) {
	registryMtx.RLock()
	defer registryMtx.RUnlock()
	factory, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrStrategyNotFound, name)
	}
	return factory(), nil
}

// Names returns the registered strategy names sorted alphabetically
func Names() []string {
	registryMtx.RLock()
	defer registryMtx.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
