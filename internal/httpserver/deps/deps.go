package deps

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/hmoreau/linkshelf/internal/auth"
	"github.com/hmoreau/linkshelf/internal/importer"
	"github.com/hmoreau/linkshelf/internal/logger"
	"github.com/hmoreau/linkshelf/internal/meta"
	"github.com/hmoreau/linkshelf/internal/store"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	// Services and stores
	Auth        *auth.Service
	Collections store.Collections
	Bookmarks   store.Bookmarks
	Extractor   *meta.Extractor
	Importer    *importer.Importer

	// Infra handles (nil-able; only used by readiness/status endpoints)
	Pool        *pgxpool.Pool
	RedisClient *goredis.Client

	// Session cookies
	SecureCookies bool          // Secure attribute on session cookies
	SignInPath    string        // redirect target for unauthenticated page navigations
	AccessTTL     time.Duration // access cookie lifetime
	RefreshTTL    time.Duration // refresh cookie lifetime

	// Access restrictions
	AllowedOrigins []string // CORS origins for the extension boundary
	TrustProxy     bool     // true if running behind a trusted reverse proxy

	// Rate limiting for auth and fetch-meta endpoints
	RateLimitBurst  int
	RateLimitPerMin int
}
