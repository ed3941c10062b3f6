// Package cache provides the Cache interface used by the geocoder to remember
// resolved addresses. The default in-process implementation is Memory.
package cache

// Cache defines the interface for keyed value caching.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	Delete(key string)
	Len() int
	Clear()
}
