// Package adapter contains the infrastructure adapters: class byte sources,
// fixture repositories and the report store.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	m "gooze.dev/pkg/classmut/internal/model"
)

// ErrClassNotFound is returned when a byte source has no class by that name.
var ErrClassNotFound = errors.New("class not found")

// ByteSource supplies raw class bytes by fully qualified class name.
type ByteSource interface {
	Bytes(ctx context.Context, className string) ([]byte, error)
}

func notFound(className string) error {
	return fmt.Errorf("%s: %w", className, ErrClassNotFound)
}

// MapByteSource serves classes from memory, keyed by internal name.
type MapByteSource struct {
	mu      sync.RWMutex
	classes map[string][]byte
}

// NewMapByteSource creates an empty in-memory source.
func NewMapByteSource() *MapByteSource {
	return &MapByteSource{classes: make(map[string][]byte)}
}

// Put stores data under className.
func (s *MapByteSource) Put(className string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.classes[m.InternalName(className)] = data
}

func (s *MapByteSource) Bytes(ctx context.Context, className string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.classes[m.InternalName(className)]
	if !ok {
		return nil, notFound(className)
	}

	return data, nil
}

// ChainByteSource asks each source in order and returns the first hit, like
// a classpath.
type ChainByteSource []ByteSource

func (c ChainByteSource) Bytes(ctx context.Context, className string) ([]byte, error) {
	for _, src := range c {
		data, err := src.Bytes(ctx, className)
		if err == nil {
			return data, nil
		}

		if !errors.Is(err, ErrClassNotFound) {
			return nil, err
		}
	}

	return nil, notFound(className)
}

// CachedByteSource keeps recently read classes in an LRU cache. Lookup
// failures are not cached.
type CachedByteSource struct {
	next  ByteSource
	cache *lru.Cache[string, []byte]
}

// NewCachedByteSource wraps next with a cache of size entries.
func NewCachedByteSource(next ByteSource, size int) (*CachedByteSource, error) {
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create class cache: %w", err)
	}

	return &CachedByteSource{next: next, cache: cache}, nil
}

func (c *CachedByteSource) Bytes(ctx context.Context, className string) ([]byte, error) {
	key := m.InternalName(className)
	if data, ok := c.cache.Get(key); ok {
		return data, nil
	}

	data, err := c.next.Bytes(ctx, className)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, data)

	return data, nil
}

// Len reports the number of cached classes.
func (c *CachedByteSource) Len() int {
	return c.cache.Len()
}
