// game/registry.go
package game

import (
	"fmt"
	"sort"
	"sync"
)

// Factory 构造一个新的 Handler 实例，每个房间一份
type Factory func() Handler

// Registry 维护 gameType -> Factory 的映射。启动时注册一次，
// 之后只读。
type Registry struct {
	mutex     sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register binds a type key to its factory. Registering a key twice is
// a startup error, not a runtime condition.
func (r *Registry) Register(gameType string, factory Factory) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.factories[gameType]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateGameType, gameType)
	}
	r.factories[gameType] = factory
	return nil
}

// MustRegister panics on duplicate keys. For wiring in main.
func (r *Registry) MustRegister(gameType string, factory Factory) {
	if err := r.Register(gameType, factory); err != nil {
		panic(err)
	}
}

// Create builds a fresh Handler for the given type key.
func (r *Registry) Create(gameType string) (Handler, error) {
	r.mutex.RLock()
	factory, exists := r.factories[gameType]
	r.mutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGameType, gameType)
	}
	return factory(), nil
}

// Has reports whether a type key is registered.
func (r *Registry) Has(gameType string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	_, exists := r.factories[gameType]
	return exists
}

// Types returns the registered type keys in sorted order.
func (r *Registry) Types() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	types := make([]string, 0, len(r.factories))
	for gameType := range r.factories {
		types = append(types, gameType)
	}
	sort.Strings(types)
	return types
}
