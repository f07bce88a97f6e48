package commands

import (
	"fmt"

	"github.com/nolan-veed/divcast/internal/contracts"
	"github.com/nolan-veed/divcast/internal/external/yahoo"
	"github.com/nolan-veed/divcast/internal/research"
	"github.com/nolan-veed/divcast/pkg/config"
	"github.com/nolan-veed/divcast/pkg/database"
	"github.com/nolan-veed/divcast/pkg/httputil"
	"github.com/nolan-veed/divcast/pkg/logger"
	"github.com/nolan-veed/divcast/pkg/redis"
)

// deps is the wired object graph every command starts from.
type deps struct {
	cfg     *config.Config
	log     *logger.Logger
	redis   *redis.Client
	cache   *redis.Cache
	db      *database.DB
	service *research.Service
}

// initDeps loads config and wires the service stack. The database is
// optional; when disabled, snapshot persistence is simply off.
func initDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(redisClient, "divcast")
	rateLimiter := redis.NewRateLimiter(redisClient, "divcast")

	httpClient := httputil.New(cfg, log).
		WithRateLimiter(rateLimiter, redis.FeedRateLimit)
	feed := yahoo.NewClient(cfg, httpClient, log)

	var db *database.DB
	var repo contracts.SnapshotRepository
	if cfg.Database.Enabled {
		db, err = database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		repo = research.NewRepository(db.Pool)
		log.Info("Connected to database")
	}

	return &deps{
		cfg:     cfg,
		log:     log,
		redis:   redisClient,
		cache:   cache,
		db:      db,
		service: research.NewService(feed, cache, repo, log, cfg.Cache.TTL),
	}, nil
}

// close releases connections held by the dependency graph.
func (d *deps) close() {
	if d.db != nil {
		d.db.Close()
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
}
