package cache

import (
	"context"
	"time"

	"github.com/matzehuels/campaigncanvas/pkg/observability"
)

// Namespaced prefixes every key with a namespace and reports hits, misses
// and writes to the registered observability cache hooks.
type Namespaced struct {
	inner Cache
	name  string
}

// Namespace wraps c so that keys are stored as "name:key".
// Nested namespaces join with ":".
func Namespace(c Cache, name string) *Namespaced {
	if n, ok := c.(*Namespaced); ok {
		return &Namespaced{inner: n.inner, name: n.name + ":" + name}
	}
	return &Namespaced{inner: c, name: name}
}

// Name returns the namespace.
func (n *Namespaced) Name() string { return n.name }

func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := n.inner.Get(ctx, n.key(key))
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, n.name)
		} else {
			observability.Cache().OnCacheMiss(ctx, n.name)
		}
	}
	return data, ok, err
}

func (n *Namespaced) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := n.inner.Set(ctx, n.key(key), data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, n.name, len(data))
	return nil
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.key(key))
}

// Close closes the underlying cache.
func (n *Namespaced) Close() error { return n.inner.Close() }

func (n *Namespaced) key(key string) string { return n.name + ":" + key }

var _ Cache = (*Namespaced)(nil)
