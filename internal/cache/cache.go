// Package cache provides a small in-process LRU used to memoize monthly
// report computations. Entries expire on read, so stale values never
// outlive their TTL even without a background janitor.
package cache

// Cache is the read-through cache the report layer programs against.
type Cache[T any] interface {
	// Get retrieves a value from the cache.
	Get(key string) (T, bool)

	// Set stores a value in the cache.
	Set(key string, data T)

	// Delete removes a key from the cache.
	Delete(key string)

	// Size returns the current number of items in the cache.
	Size() int
}
