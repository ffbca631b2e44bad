// Package assets provides the process-wide asset cache used by the template
// engine and the source resolver.
//
// # Cache Discipline
//
// The Cache holds two maps: raw byte buffers (template start files, local
// file inputs) and parsed fonts. Entries are filled on first use, never
// evicted and never expire; they live as long as the process. Every caller
// receives the same shared value, so cached buffers and fonts must be
// treated as read-only.
//
// Each map sits behind its own sync.RWMutex. Reads take the shared lock;
// the exclusive lock is held only for the insert itself, never for the
// storage read that produced the value. Concurrent misses for the same key
// are collapsed with singleflight, so storage is read once per key.
//
// # Storage Backends
//
// Bytes come from a Storage. FileStorage reads the local filesystem (paths
// relative to a root directory); RedisStorage reads keys from Redis so a
// fleet of instances can share one set of template assets.
package assets
