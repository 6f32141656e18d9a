package cache

// entry is the immutable record stored per key. Set and a successful
// GetOrSet replace the whole entry; nothing mutates one in place.
type entry[V any] struct {
	val V

	// Absolute expiration deadline in UnixNano.
	// Zero means "no TTL".
	exp int64
}

// expiredAt reports whether the entry's deadline has passed at the
// given UnixNano instant. Entries without a TTL never expire.
func (e entry[V]) expiredAt(now int64) bool {
	return e.exp != 0 && now >= e.exp
}
