package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/hmoreau/linkshelf/internal/auth"
	"github.com/hmoreau/linkshelf/internal/config"
	"github.com/hmoreau/linkshelf/internal/httpserver"
	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
	"github.com/hmoreau/linkshelf/internal/importer"
	"github.com/hmoreau/linkshelf/internal/logger"
	"github.com/hmoreau/linkshelf/internal/meta"
	"github.com/hmoreau/linkshelf/internal/scheduler"
	"github.com/hmoreau/linkshelf/internal/store/postgres"
	redisstore "github.com/hmoreau/linkshelf/internal/store/redis"
	"github.com/hmoreau/linkshelf/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	pool        *pgxpool.Pool
	redisClient *goredis.Client
	gc          *scheduler.GarbageCollector
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	ctx := context.Background()

	// Postgres is mandatory - fail fast if unavailable.
	loggerClient.Info("Connecting to Postgres")
	pool, err := postgres.Connect(ctx, postgres.ConnectOptions{
		DSN:            cfg.PostgresDSN,
		ConnectTimeout: cfg.PostgresConnectTimeout,
		RetryInterval:  cfg.PostgresRetryInterval,
		MaxWait:        cfg.PostgresMaxWait,
		PingTimeout:    cfg.PostgresPingTimeout,
		WarnThreshold:  cfg.PostgresWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Postgres: %v", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrations(ctx, cfg.PostgresDSN); err != nil {
		loggerClient.Errorf("Failed to run migrations: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Postgres initialized, schema up to date")

	users := postgres.NewUsers(pool)
	sessions := postgres.NewSessions(pool)
	resetTokens := postgres.NewResetTokens(pool)
	collections := postgres.NewCollections(pool)
	bookmarks := postgres.NewBookmarks(pool)

	authService := auth.NewService(users, sessions, resetTokens, auth.Config{
		JWTSecret:       []byte(cfg.JWTSecret),
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		ResetTokenTTL:   cfg.ResetTokenTTL,
	}, loggerClient)

	// Redis is optional: without it fetch-meta just hits pages every time.
	var redisClient *goredis.Client
	extractorOpts := []meta.Option{}
	if cfg.RedisAddr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUser,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			loggerClient.Warnf("Redis unreachable, metadata cache degraded: %v", err)
		}
		extractorOpts = append(extractorOpts,
			meta.WithCache(redisstore.NewMetaCache(redisClient, cfg.MetaCacheTTL)))
	} else {
		loggerClient.Info("Redis not configured, metadata cache disabled")
	}

	extractor := meta.NewExtractor(loggerClient, extractorOpts...)
	imp := importer.New(bookmarks, loggerClient)
	gc := scheduler.NewGarbageCollector(sessions, resetTokens, loggerClient, cfg.GCInterval)

	d := deps.Deps{
		Logger:    loggerClient,
		StartTime: time.Now(),
		Version:   version.Version,
		Commit:    version.Commit,
		BuildDate: version.BuildDate,
		GoVersion: version.GoVersion,
		TimeNow:   time.Now,

		Auth:        authService,
		Collections: collections,
		Bookmarks:   bookmarks,
		Extractor:   extractor,
		Importer:    imp,

		Pool:        pool,
		RedisClient: redisClient,

		SecureCookies: cfg.SecureCookies,
		SignInPath:    cfg.SignInPath,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,

		AllowedOrigins: cfg.AllowedOrigins,
		TrustProxy:     cfg.TrustProxy,

		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		pool:        pool,
		redisClient: redisClient,
		gc:          gc,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting linkshelf v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("linkshelf %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start garbage collector: %w", err)
	}
	a.logger.Info("session garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.pool.Close()
	a.logger.Info("✅ linkshelf stopped cleanly")
	return nil
}
