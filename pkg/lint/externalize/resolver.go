package externalize

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ModuleType is the module format of a package's main bundle.
type ModuleType string

// Module types.
const (
	ModuleUMD     ModuleType = "umd"
	ModuleAMD     ModuleType = "amd"
	ModuleESM     ModuleType = "esm"
	ModuleCJS     ModuleType = "cjs"
	ModuleUnknown ModuleType = "unknown"
)

// PackageInfo is the package metadata the dynamic rule needs.
type PackageInfo struct {
	Name       string
	Version    string
	File       string // Bundle path relative to the package root, e.g. "dist/lib.umd.js"
	ModuleType ModuleType
	GlobalName string // Global a UMD bundle assigns, if known
}

// Resolver looks up package metadata. Implementations may block.
// A nil PackageInfo with a nil error means the package is unknown.
type Resolver interface {
	Resolve(ctx context.Context, name, version string) (*PackageInfo, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, name, version string) (*PackageInfo, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, name, version string) (*PackageInfo, error) {
	return f(ctx, name, version)
}

// DefaultCacheSize is the CachedResolver size used when none is configured.
const DefaultCacheSize = 256

// CachedResolver keeps recent successful lookups of another resolver.
// Errors are never cached.
type CachedResolver struct {
	next  Resolver
	cache *lru.Cache[string, *PackageInfo]
}

// NewCachedResolver wraps next with a bounded LRU cache.
func NewCachedResolver(next Resolver, size int) (*CachedResolver, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *PackageInfo](size)
	if err != nil {
		return nil, fmt.Errorf("create resolver cache: %w", err)
	}
	return &CachedResolver{next: next, cache: cache}, nil
}

// Resolve returns the cached metadata for name@version or asks the wrapped resolver.
func (c *CachedResolver) Resolve(ctx context.Context, name, version string) (*PackageInfo, error) {
	key := name + "@" + version
	if info, ok := c.cache.Get(key); ok {
		return info, nil
	}
	info, err := c.next.Resolve(ctx, name, version)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, info)
	return info, nil
}

// Purge drops every cached entry.
func (c *CachedResolver) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached entries.
func (c *CachedResolver) Len() int {
	return c.cache.Len()
}
