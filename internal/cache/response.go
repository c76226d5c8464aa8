// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed cache for serialized JSON list
// responses. List endpoints store their encoded body here so repeated
// reads skip the database; any write to a resource group bumps the
// group's generation, which moves every reader to fresh keys.
package cache

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// keyPrefix is the Valkey key prefix for cached API responses.
	keyPrefix = "api:"

	// genPrefix holds the per-group generation counters.
	genPrefix = keyPrefix + "gen:"

	// DefaultTTL is how long a cached response stays valid.
	DefaultTTL = 60 * time.Second
)

// Resource groups. A group is invalidated as a whole.
const (
	GroupCategories = "categories"
	GroupPosts      = "posts"
	GroupNews       = "news"
)

// ResponseCache caches JSON responses in Valkey. A nil *ResponseCache is
// valid and behaves as an always-missing cache, so callers need no
// branching when caching is disabled.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Valkey
// client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Key builds the cache key for a group and its query parameters. Query
// values are encoded in sorted order so equivalent requests share a key.
func Key(group string, query url.Values) string {
	k := keyPrefix + group
	if enc := query.Encode(); enc != "" {
		k += ":" + enc
	}
	return k
}

// KeyFor returns the key of a group and query under the group's current
// generation. A response loaded before an invalidation is stored under
// the old generation and never read again. An empty result means the
// generation could not be read and the response must not be cached.
func (rc *ResponseCache) KeyFor(ctx context.Context, group string, query url.Values) string {
	if rc == nil {
		return Key(group, query)
	}
	gen, err := rc.client.Get(ctx, genPrefix+group).Int64()
	if err != nil && err != redis.Nil {
		slog.Warn("response cache generation error", "group", group, "error", err)
		return ""
	}
	k := keyPrefix + group + ":v" + strconv.FormatInt(gen, 10)
	if enc := query.Encode(); enc != "" {
		k += ":" + enc
	}
	return k
}

// Get returns the cached body for key. Reports false on miss or error.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if rc == nil || key == "" {
		return nil, false
	}
	val, err := rc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("response cache hit", "key", key)
	return val, true
}

// Set stores body under key with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if rc == nil || key == "" {
		return
	}
	if err := rc.client.Set(ctx, key, body, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// Invalidate bumps the generation of the given groups and then removes
// their cached responses by scanning for the group prefix.
func (rc *ResponseCache) Invalidate(ctx context.Context, groups ...string) {
	if rc == nil {
		return
	}
	for _, group := range groups {
		rc.invalidateGroup(ctx, group)
	}
}

func (rc *ResponseCache) invalidateGroup(ctx context.Context, group string) {
	if err := rc.client.Incr(ctx, genPrefix+group).Err(); err != nil {
		slog.Warn("response cache invalidate error", "group", group, "error", err)
	}

	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, keyPrefix+group+":*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "group", group, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "group", group, "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	slog.Debug("response cache invalidated", "group", group, "deleted", deleted)
}
