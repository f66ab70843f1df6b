// Package httpapi exposes the game service as a JSON API under /api/v1.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cory-johannsen/scarsofash/internal/game/battle"
	"github.com/cory-johannsen/scarsofash/internal/game/creature"
	"github.com/cory-johannsen/scarsofash/internal/game/service"
	"github.com/cory-johannsen/scarsofash/internal/game/species"
	"github.com/cory-johannsen/scarsofash/internal/game/world"
	"github.com/cory-johannsen/scarsofash/internal/observability"
	"github.com/cory-johannsen/scarsofash/internal/storage/postgres"
)

// Game is the service surface the API drives.
type Game interface {
	NewRun(ctx context.Context, name, starterID, difficultyID string) (*world.Run, error)
	GetRun(ctx context.Context, runID string) (*world.Run, error)
	Enter(ctx context.Context, runID string, pos world.Position) (service.Step, error)
	Encounter(ctx context.Context, runID, speciesID string) (*battle.Session, error)
	StartBoss(ctx context.Context, runID string) (*battle.Session, error)
	Battle(ctx context.Context, runID string) (*battle.Session, error)
	BattleOptions(ctx context.Context, runID string) (battle.Options, error)
	Move(ctx context.Context, runID, move string) (service.Turn, error)
	Switch(ctx context.Context, runID string, index int) (service.Turn, error)
	EnemyTurn(ctx context.Context, runID string) (service.Turn, error)
	Bind(ctx context.Context, runID string) (service.Turn, error)
	Flee(ctx context.Context, runID string) (service.Turn, error)
	Bonfire(ctx context.Context, runID string) (service.Rest, error)
	Respawn(ctx context.Context, runID string) (*world.Run, error)
	Recover(ctx context.Context, runID string) (int, error)
	RunStats(ctx context.Context, runID string) (postgres.RunSummary, error)
	Hall(ctx context.Context) (service.Hall, error)
}

var _ Game = (*service.Service)(nil)

// API holds the handlers.
type API struct {
	game    Game
	catalog *species.Catalog
	logger  *zap.Logger
}

// New builds the router.
//
// Precondition: game and catalog must be non-nil.
func New(game Game, catalog *species.Catalog, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &API{game: game, catalog: catalog, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), observability.RequestLogger(logger))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	v1 := r.Group("/api/v1")
	v1.GET("/species", a.listSpecies)
	v1.GET("/difficulties", a.listDifficulties)
	v1.GET("/hall", a.hall)

	runs := v1.Group("/runs")
	runs.POST("", a.newRun)
	runs.GET("/:id", a.getRun)
	runs.POST("/:id/enter", a.enter)
	runs.POST("/:id/encounter", a.encounter)
	runs.POST("/:id/boss", a.startBoss)
	runs.POST("/:id/bonfire", a.bonfire)
	runs.POST("/:id/respawn", a.respawn)
	runs.POST("/:id/recover", a.recoverSouls)
	runs.GET("/:id/stats", a.runStats)

	b := runs.Group("/:id/battle")
	b.GET("", a.getBattle)
	b.GET("/options", a.getOptions)
	b.POST("/move", a.move)
	b.POST("/switch", a.switchTo)
	b.POST("/enemy-turn", a.turn(Game.EnemyTurn))
	b.POST("/bind", a.turn(Game.Bind))
	b.POST("/flee", a.turn(Game.Flee))
	return r
}

// status maps service and engine errors to HTTP status codes.
func status(err error) int {
	switch {
	case errors.Is(err, service.ErrRunNotFound),
		errors.Is(err, service.ErrNoBattle):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrNotStarter),
		errors.Is(err, service.ErrUnknownDifficulty),
		errors.Is(err, battle.ErrUnknownMove),
		errors.Is(err, battle.ErrInvalidSwitch),
		errors.Is(err, world.ErrUnknownMap):
		return http.StatusBadRequest
	case errors.Is(err, battle.ErrBattleOver),
		errors.Is(err, battle.ErrBattleInProgress),
		errors.Is(err, battle.ErrNotPlayerTurn),
		errors.Is(err, battle.ErrNotEnemyTurn),
		errors.Is(err, battle.ErrInsufficientStamina),
		errors.Is(err, battle.ErrBossBattle),
		errors.Is(err, battle.ErrNotEnoughSouls),
		errors.Is(err, battle.ErrNoLivingCreature),
		errors.Is(err, creature.ErrTeamFull),
		errors.Is(err, world.ErrRunOver),
		errors.Is(err, world.ErrNotDefeated),
		errors.Is(err, world.ErrBlocked),
		errors.Is(err, service.ErrNotAtBonfire),
		errors.Is(err, service.ErrNoEncounter),
		errors.Is(err, service.ErrNoBoss):
		return http.StatusConflict
	case errors.Is(err, service.ErrNoRecords):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) fail(c *gin.Context, err error) {
	code := status(err)
	_ = c.Error(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}

func (a *API) badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
