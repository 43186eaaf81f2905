package routes

import (
	"time"

	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
	"github.com/hmoreau/linkshelf/internal/httpserver/mw"
)

// rateLimited builds the per-IP limiter used on the abuse-prone routes:
// credential endpoints and the outbound metadata fetcher.
func rateLimited(d deps.Deps) Middleware {
	return mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateLimitBurst,
		RefillPerIPPerMin: d.RateLimitPerMin,
		MaxEntries:        10000,
		SweepInterval:     time.Minute,
		IdleTTL:           10 * time.Minute,
		TrustProxy:        d.TrustProxy,
	})
}
