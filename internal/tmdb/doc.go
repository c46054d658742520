// Package tmdb resolves movie and TV metadata from The Movie Database.
//
// Client is the raw HTTP layer: typed request/response mapping, bounded
// retries on rate-limit and server errors, and a strict failure taxonomy
// (network, rate-limited, invalid response). A 404 on detail lookups is a
// legitimate "not found" and surfaces as a nil result, not an error.
//
// CachedClient layers the two-tier caching protocol on top: an in-process
// map valid for one run and a persistent CacheStore valid across runs,
// sharing one discriminated Key space. Negative outcomes are cached the
// same as positive ones, so each distinct key costs at most one remote call
// per process and none once persisted.
package tmdb
