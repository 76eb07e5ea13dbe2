// Package di implements a small token-based dependency injection container.
// Services are registered as lazy factories keyed by string tokens and
// resolved as singletons on first access.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry resolves registered services by token name.
type ServiceRegistry interface {
	Get(name string) any
}

// Container extends ServiceRegistry with registration.
type Container interface {
	ServiceRegistry
	Register(name string, value any)
	RegisterFactory(name string, factory func(ServiceRegistry) any)
}

// Token is a typed handle for a registered service.
type Token[T any] struct {
	name string
}

// NewToken creates a typed token with a unique name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the underlying registry key.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a typed factory under the token's name.
// The factory runs once; subsequent Gets return the cached instance.
func RegisterToken[T any](c Container, tok Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(tok.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves a typed service. Panics on missing token or type
// mismatch; registration bugs should fail loudly at startup.
func GetToken[T any](sr ServiceRegistry, tok Token[T]) T {
	v := sr.Get(tok.name)
	typed, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("di: token %q holds %T, not the requested type", tok.name, v))
	}
	return typed
}

type entry struct {
	once    sync.Once
	factory func(ServiceRegistry) any
	value   any
}

type container struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{entries: make(map[string]*entry)}
}

func (c *container) Register(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := &entry{value: value}
	e.once.Do(func() {})
	c.entries[name] = e
}

func (c *container) RegisterFactory(name string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = &entry{factory: factory}
}

func (c *container) Get(name string) any {
	c.mu.RLock()
	e, ok := c.entries[name]
	c.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("di: token %q is not registered", name))
	}
	e.once.Do(func() {
		if e.factory != nil {
			e.value = e.factory(c)
		}
	})
	return e.value
}
