package api

// Cache-Control header values.
const (
	CacheOneWeek = "public, max-age=604800"
	CacheNoStore = "no-cache"
)

// API limits.
const (
	// MaxRequestBodySize bounds JSON bodies; recipe images arrive inline as
	// base64 data URIs.
	MaxRequestBodySize = 16 << 20
)
