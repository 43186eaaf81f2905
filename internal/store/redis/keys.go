package redis

// KeyPrefixMeta is the prefix for cached fetch-meta results.
const KeyPrefixMeta = "linkshelf:meta:"

// MetaKey returns the Redis key for a cached metadata record, keyed by the
// exact URL the client asked about.
func MetaKey(url string) string {
	return KeyPrefixMeta + url
}
