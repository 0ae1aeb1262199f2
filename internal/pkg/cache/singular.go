package cache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

// Singular is a single in-process cached value.
type Singular[T any] struct {
	// m serializes slow paths of MutexGetSet
	m sync.Mutex

	// gm guards gen, which Delete bumps so that a computation racing with a
	// delete never stores its result
	gm  sync.Mutex
	gen uint64

	key string
	c   *cache.Cache
}

func NewSingular[T any](key string) *Singular[T] {
	return &Singular[T]{
		key: key,
		c:   cache.New(cache.NoExpiration, time.Minute*10),
	}
}

func (c *Singular[T]) Get(dest *T) error {
	result, ok := c.c.Get(c.key)
	if !ok {
		return ErrNotFound
	}
	*dest = result.(T)
	return nil
}

func (c *Singular[T]) Set(value T, expire time.Duration) {
	c.c.Set(c.key, value, expire)
}

// MutexGetSet writes the cached value into dest, computing it with valueFunc
// under a lock when missing. Concurrent misses share one computation. A value
// computed while Delete ran is returned to the caller but not cached.
func (c *Singular[T]) MutexGetSet(dest *T, valueFunc func() (T, error), expire time.Duration) error {
	if err := c.Get(dest); err == nil {
		return nil
	}

	c.m.Lock()
	defer c.m.Unlock()
	if err := c.Get(dest); err == nil {
		return nil
	}

	gen := c.generation()
	value, err := valueFunc()
	if err != nil {
		log.Error().Err(err).Str("key", c.key).Msg("failed to get value from valueFunc() in MutexGetSet")
		return err
	}

	c.gm.Lock()
	if c.gen == gen {
		c.Set(value, expire)
	} else {
		log.Debug().Str("key", c.key).Msg("cache deleted while computing, not storing value")
	}
	c.gm.Unlock()

	*dest = value
	return nil
}

func (c *Singular[T]) generation() uint64 {
	c.gm.Lock()
	defer c.gm.Unlock()
	return c.gen
}

func (c *Singular[T]) Delete() error {
	c.gm.Lock()
	defer c.gm.Unlock()
	c.gen++
	c.c.Flush()
	return nil
}
