// Package store provides node fetchers for ancestry computations.
//
// The subpackages implement [ancestry.Fetcher] over different backends:
//
//   - memory: graphs loaded from files, keyed by DAG id
//   - redisstore: one Redis hash per changeset
//   - mongostore: one MongoDB document per changeset
//
// [Cached] wraps any fetcher with a [cache.Cache]. Nodes are immutable once
// written, so a cached node never goes stale; the TTL only bounds how much
// the cache grows.
//
// [ancestry.Fetcher]: github.com/matzehuels/mergebase/pkg/ancestry.Fetcher
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/mergebase/pkg/ancestry"
	"github.com/matzehuels/mergebase/pkg/cache"
	errs "github.com/matzehuels/mergebase/pkg/errors"
	"github.com/matzehuels/mergebase/pkg/observability"
)

const keyTypeNode = "node"

// CachedFetcher serves nodes from a cache and falls back to the wrapped
// fetcher on a miss. Cache failures never fail a fetch.
type CachedFetcher struct {
	Fetcher ancestry.Fetcher
	Cache   cache.Cache
	Keyer   cache.Keyer
	TTL     time.Duration
}

// Cached wraps f with c using the default keyer.
func Cached(f ancestry.Fetcher, c cache.Cache, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{Fetcher: f, Cache: c, Keyer: cache.NewDefaultKeyer(), TTL: ttl}
}

type cachedNode struct {
	Generation uint32   `json:"g"`
	Parents    []string `json:"p,omitempty"`
}

// Fetch implements [ancestry.Fetcher].
func (f *CachedFetcher) Fetch(ctx context.Context, dagID, id string) (*ancestry.Node, error) {
	if id == ancestry.RootID {
		return &ancestry.Node{}, nil
	}
	hooks := observability.Cache()
	key := f.Keyer.NodeKey(dagID, id)

	if data, hit, err := f.Cache.Get(ctx, key); err == nil && hit {
		var cn cachedNode
		if json.Unmarshal(data, &cn) == nil {
			hooks.OnCacheHit(ctx, keyTypeNode)
			return &ancestry.Node{Generation: cn.Generation, Parents: cn.Parents}, nil
		}
		_ = f.Cache.Delete(ctx, key)
	}
	hooks.OnCacheMiss(ctx, keyTypeNode)

	n, err := f.Fetcher.Fetch(ctx, dagID, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, errs.New(errs.ErrCodeInternal, "fetcher returned no node for %s", id)
	}
	if data, err := json.Marshal(cachedNode{Generation: n.Generation, Parents: n.Parents}); err == nil {
		if f.Cache.Set(ctx, key, data, f.TTL) == nil {
			hooks.OnCacheSet(ctx, keyTypeNode, len(data))
		}
	}
	return n, nil
}

var _ ancestry.Fetcher = (*CachedFetcher)(nil)
