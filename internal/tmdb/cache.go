package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cinebox/internal/logging"
)

// API is the lookup surface the enrichment pipeline consumes. Both Client
// and CachedClient satisfy it.
type API interface {
	SearchMovie(ctx context.Context, query string) (*MovieHit, error)
	SearchTV(ctx context.Context, query string) (*TVHit, error)
	MovieDetails(ctx context.Context, id int64) (*MovieDetails, error)
	TVDetails(ctx context.Context, id int64) (*TVDetails, error)
	TVSeasonCount(ctx context.Context, id int64) (int, bool, error)
	TVEpisodeDetails(ctx context.Context, id int64, season, episode int) (*EpisodeDetails, error)
}

// CacheStore is the persistent cache tier. A nil payload with found=true
// records that TMDB had no result for the key, which is distinct from the
// key never having been looked up.
type CacheStore interface {
	GetCache(key string) (payload []byte, found bool, err error)
	PutCache(key string, payload []byte, cachedAt time.Time) error
}

// CachedClient layers an in-process map and a persistent CacheStore in front
// of a remote API. Lookups consult memory first, then the store, then the
// network; remote results backfill both tiers. Successful "no result"
// answers are cached the same way as hits so repeated scans of an unknown
// title stay off the network.
type CachedClient struct {
	remote API
	store  CacheStore
	logger *slog.Logger

	mu     sync.Mutex
	memory map[string][]byte
}

// NewCachedClient wraps remote with the two cache tiers. store may be nil,
// which degrades to memory-only caching.
func NewCachedClient(remote API, store CacheStore, logger *slog.Logger) *CachedClient {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CachedClient{
		remote: remote,
		store:  store,
		logger: logger,
		memory: make(map[string][]byte),
	}
}

// seasonCountEnvelope lets TVSeasonCount share the cache protocol with the
// pointer-returning operations.
type seasonCountEnvelope struct {
	Count int `json:"count"`
}

func (c *CachedClient) SearchMovie(ctx context.Context, query string) (*MovieHit, error) {
	return cachedCall[MovieHit](ctx, c, MovieSearchKey(query), func(ctx context.Context) (*MovieHit, error) {
		return c.remote.SearchMovie(ctx, NormalizeQuery(query))
	})
}

func (c *CachedClient) SearchTV(ctx context.Context, query string) (*TVHit, error) {
	return cachedCall[TVHit](ctx, c, TVSearchKey(query), func(ctx context.Context) (*TVHit, error) {
		return c.remote.SearchTV(ctx, NormalizeQuery(query))
	})
}

func (c *CachedClient) MovieDetails(ctx context.Context, id int64) (*MovieDetails, error) {
	return cachedCall[MovieDetails](ctx, c, MovieDetailsKey(id), func(ctx context.Context) (*MovieDetails, error) {
		return c.remote.MovieDetails(ctx, id)
	})
}

func (c *CachedClient) TVDetails(ctx context.Context, id int64) (*TVDetails, error) {
	return cachedCall[TVDetails](ctx, c, TVDetailsKey(id), func(ctx context.Context) (*TVDetails, error) {
		return c.remote.TVDetails(ctx, id)
	})
}

func (c *CachedClient) TVSeasonCount(ctx context.Context, id int64) (int, bool, error) {
	envelope, err := cachedCall[seasonCountEnvelope](ctx, c, TVSeasonCountKey(id), func(ctx context.Context) (*seasonCountEnvelope, error) {
		count, known, err := c.remote.TVSeasonCount(ctx, id)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, nil
		}
		return &seasonCountEnvelope{Count: count}, nil
	})
	if err != nil {
		return 0, false, err
	}
	if envelope == nil {
		return 0, false, nil
	}
	return envelope.Count, true, nil
}

func (c *CachedClient) TVEpisodeDetails(ctx context.Context, id int64, season, episode int) (*EpisodeDetails, error) {
	key := TVEpisodeKey(id, season, episode)
	return cachedCall[EpisodeDetails](ctx, c, key, func(ctx context.Context) (*EpisodeDetails, error) {
		return c.remote.TVEpisodeDetails(ctx, id, season, episode)
	})
}

// cachedCall runs a lookup through both cache tiers. A cached nil payload
// means TMDB previously answered "no result" and the call returns nil, nil
// without touching the network. Remote errors are returned without being
// cached; cache write failures are logged and otherwise ignored so a broken
// cache never blocks enrichment.
func cachedCall[T any](ctx context.Context, c *CachedClient, key Key, fetch func(ctx context.Context) (*T, error)) (*T, error) {
	canonical := key.String()

	c.mu.Lock()
	payload, cached := c.memory[canonical]
	c.mu.Unlock()
	if cached {
		return decodeCached[T](canonical, payload)
	}

	if c.store != nil {
		payload, found, err := c.store.GetCache(canonical)
		if err != nil {
			c.logger.Warn("cache read failed",
				logging.String("key", canonical),
				logging.Error(err))
		} else if found {
			c.mu.Lock()
			c.memory[canonical] = payload
			c.mu.Unlock()
			return decodeCached[T](canonical, payload)
		}
	}

	result, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	payload = nil
	if result != nil {
		payload, err = json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("encode cache payload for %s: %w", canonical, err)
		}
	}

	c.mu.Lock()
	c.memory[canonical] = payload
	c.mu.Unlock()
	if c.store != nil {
		if err := c.store.PutCache(canonical, payload, time.Now().UTC()); err != nil {
			c.logger.Warn("cache write failed",
				logging.String("key", canonical),
				logging.Error(err))
		}
	}
	return result, nil
}

func decodeCached[T any](key string, payload []byte) (*T, error) {
	if payload == nil {
		return nil, nil
	}
	out := new(T)
	if err := json.Unmarshal(payload, out); err != nil {
		return nil, fmt.Errorf("decode cache payload for %s: %w", key, err)
	}
	return out, nil
}
