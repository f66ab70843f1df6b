// Package main provides the game server binary that serves the battle engine
// over HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/scarsofash/internal/config"
	"github.com/cory-johannsen/scarsofash/internal/game/ai"
	"github.com/cory-johannsen/scarsofash/internal/game/battle"
	"github.com/cory-johannsen/scarsofash/internal/game/combat"
	"github.com/cory-johannsen/scarsofash/internal/game/dice"
	"github.com/cory-johannsen/scarsofash/internal/game/element"
	"github.com/cory-johannsen/scarsofash/internal/game/service"
	"github.com/cory-johannsen/scarsofash/internal/game/species"
	"github.com/cory-johannsen/scarsofash/internal/game/status"
	"github.com/cory-johannsen/scarsofash/internal/game/world"
	"github.com/cory-johannsen/scarsofash/internal/httpapi"
	"github.com/cory-johannsen/scarsofash/internal/observability"
	"github.com/cory-johannsen/scarsofash/internal/scripting"
	"github.com/cory-johannsen/scarsofash/internal/server"
	"github.com/cory-johannsen/scarsofash/internal/storage/postgres"
	"github.com/cory-johannsen/scarsofash/internal/store"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	var src dice.Source
	if cfg.Game.Seed != 0 {
		src = dice.NewSeededSource(cfg.Game.Seed)
		logger.Warn("using seeded dice", zap.Uint64("seed", cfg.Game.Seed))
	} else {
		src = dice.NewCryptoSource()
	}
	roller := dice.NewLoggedRoller(src, logger)

	logger.Info("starting game server",
		zap.String("http_addr", cfg.HTTP.Addr()),
		zap.String("difficulty", cfg.Game.Difficulty),
	)

	contentStart := time.Now()
	catalog, err := species.LoadDirectory(filepath.Join(cfg.Game.ContentDir, "species"))
	if err != nil {
		logger.Fatal("loading species", zap.Error(err))
	}
	statuses, err := status.LoadDirectory(filepath.Join(cfg.Game.ContentDir, "statuses"))
	if err != nil {
		logger.Fatal("loading statuses", zap.Error(err))
	}
	maps, err := world.LoadMapsFromDir(filepath.Join(cfg.Game.ContentDir, "maps"))
	if err != nil {
		logger.Fatal("loading maps", zap.Error(err))
	}
	atlas, err := world.NewAtlas(maps)
	if err != nil {
		logger.Fatal("building atlas", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("species", len(catalog.All())),
		zap.Int("maps", len(maps)),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	// A nil *Manager must not reach the selector as a non-nil interface.
	var caller ai.ScriptCaller
	if cfg.Game.ScriptDir != "" {
		scriptStart := time.Now()
		mgr := scripting.NewManager(roller, logger)
		mgr.Effectiveness = func(a, d string) float64 {
			return element.Effectiveness(element.Type(a), element.Type(d))
		}
		scopes, err := mgr.LoadTree(cfg.Game.ScriptDir, cfg.Game.ScriptInstructionLimit)
		if err != nil {
			logger.Fatal("loading ai scripts", zap.Error(err))
		}
		defer mgr.Close()
		caller = mgr
		logger.Info("scripting engine initialized",
			zap.Strings("scopes", scopes),
			zap.Duration("elapsed", time.Since(scriptStart)),
		)
	}

	wild := world.NewWildFactory(catalog, src)
	engine := battle.NewEngine(
		catalog,
		combat.NewResolver(statuses, src, logger, cfg.Game.RollEffectChance),
		ai.NewSelector(caller, src, logger),
		wild,
		logger,
	)

	deps := service.Deps{
		Atlas:   atlas,
		Catalog: catalog,
		Engine:  engine,
		Wild:    wild,
		Source:  src,
		Logger:  logger,
	}

	lifecycle := server.NewLifecycle(logger)

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		runs := store.NewRedisStore[*world.Run](client, "run", cfg.Redis.TTL)
		if err := runs.Ping(ctx); err != nil {
			logger.Fatal("connecting to redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		deps.Runs = runs
		deps.Battles = store.NewRedisStore[*battle.Session](client, "battle", cfg.Redis.TTL)
		lifecycle.Add("redis", &server.FuncService{
			StartFn: func() error { return nil },
			StopFn: func() {
				if err := client.Close(); err != nil {
					logger.Warn("closing redis", zap.Error(err))
				}
			},
		})
		logger.Info("redis store connected", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
	} else {
		deps.Runs = store.NewMemoryStore[*world.Run]()
		deps.Battles = store.NewMemoryStore[*battle.Session]()
		logger.Info("using in-memory run store")
	}

	if cfg.Database.Enabled {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		deps.Saves = postgres.NewSaveRepository(pool.DB())
		deps.Stats = postgres.NewStatsRepository(pool.DB())
		deps.Records = postgres.NewRecordRepository(pool.DB())
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)

		done := make(chan struct{})
		lifecycle.Add("postgres", &server.FuncService{
			StartFn: func() error {
				tick := time.NewTicker(30 * time.Second)
				defer tick.Stop()
				for {
					select {
					case <-done:
						return nil
					case <-tick.C:
						if err := pool.Health(ctx, 5*time.Second); err != nil {
							logger.Warn("database health check failed", zap.Error(err))
						}
					}
				}
			},
			StopFn: func() {
				close(done)
				pool.Close()
			},
		})
	}

	svc, err := service.New(deps, service.Options{
		Difficulty:     cfg.Game.Difficulty,
		AutoEnemyTurn:  cfg.Game.AutoEnemyTurn,
		EnemyTurnDelay: cfg.Game.EnemyTurnDelay,
	})
	if err != nil {
		logger.Fatal("creating game service", zap.Error(err))
	}
	defer svc.Close()

	httpSvc := server.NewHTTPService(cfg.HTTP, httpapi.New(svc, catalog, logger), logger)
	lifecycle.Add("http", httpSvc)

	logger.Info("game server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("http_addr", httpSvc.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
