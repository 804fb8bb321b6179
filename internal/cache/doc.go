// Package cache provides a generic LRU cache with a soft size limit.
//
//	c := cache.New[string, int](100)
//	c.Set("#42", 42)
//	v, ok := c.Get("#42")
//
// Exceeding the limit evicts the least recently used quarter of the
// entries in one pass, so inserts stay cheap on average. The cache is safe
// for concurrent use and must not be copied after creation.
package cache
