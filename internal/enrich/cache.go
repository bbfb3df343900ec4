package enrich

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/commcap/prospector/pkg/apollo"
)

// CachedOrgClient wraps an Apollo client with a per-domain TTL cache.
// Concurrent lookups for the same domain are collapsed into a single
// provider call, so a burst of searches over the same businesses pays the
// provider once per domain per TTL window.
type CachedOrgClient struct {
	inner apollo.Client
	cache *gocache.Cache
	group singleflight.Group
}

// NewCachedOrgClient wraps inner with a TTL cache. Only successful responses
// are cached; provider errors are never cached.
func NewCachedOrgClient(inner apollo.Client, ttl time.Duration) *CachedOrgClient {
	return &CachedOrgClient{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// SearchByDomain implements apollo.Client.
func (c *CachedOrgClient) SearchByDomain(ctx context.Context, domain string) (*apollo.SearchResponse, error) {
	if cached, ok := c.cache.Get(domain); ok {
		return cached.(*apollo.SearchResponse), nil
	}

	v, err, _ := c.group.Do(domain, func() (any, error) {
		resp, err := c.inner.SearchByDomain(ctx, domain)
		if err != nil {
			return nil, err
		}
		c.cache.SetDefault(domain, resp)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*apollo.SearchResponse), nil
}
