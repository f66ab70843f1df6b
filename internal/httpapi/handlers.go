package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cory-johannsen/scarsofash/internal/game/difficulty"
	"github.com/cory-johannsen/scarsofash/internal/game/service"
	"github.com/cory-johannsen/scarsofash/internal/game/world"
)

type newRunRequest struct {
	Name       string `json:"name" binding:"required"`
	Starter    string `json:"starter" binding:"required"`
	Difficulty string `json:"difficulty"`
}

type enterRequest struct {
	Map string `json:"map" binding:"required"`
	X   int    `json:"x"`
	Y   int    `json:"y"`
}

type encounterRequest struct {
	Species string `json:"species"`
}

type moveRequest struct {
	Move string `json:"move" binding:"required"`
}

type switchRequest struct {
	Index *int `json:"index" binding:"required"`
}

type speciesSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	MaxHP   int    `json:"max_hp"`
	Stamina int    `json:"max_stamina"`
	Starter bool   `json:"starter,omitempty"`
	Boss    bool   `json:"boss,omitempty"`
	Lore    string `json:"lore,omitempty"`
}

func (a *API) listSpecies(c *gin.Context) {
	onlyStarters := c.Query("starter") == "true"
	out := []speciesSummary{}
	for _, s := range a.catalog.All() {
		if onlyStarters && !s.Starter {
			continue
		}
		out = append(out, speciesSummary{
			ID: s.ID, Name: s.Name, Type: string(s.Type),
			MaxHP: s.MaxHP, Stamina: s.MaxStamina,
			Starter: s.Starter, Boss: s.IsBoss(), Lore: s.Lore,
		})
	}
	c.JSON(http.StatusOK, gin.H{"species": out})
}

func (a *API) listDifficulties(c *gin.Context) {
	out := make([]gin.H, 0, len(difficulty.IDs()))
	for _, id := range difficulty.IDs() {
		p, _ := difficulty.Get(id)
		out = append(out, gin.H{
			"id": p.ID, "name": p.Name, "subtitle": p.Subtitle, "description": p.Description,
			"permadeath": p.Permadeath,
		})
	}
	c.JSON(http.StatusOK, gin.H{"difficulties": out, "default": difficulty.Default})
}

func (a *API) newRun(c *gin.Context) {
	var req newRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.badRequest(c, err)
		return
	}
	run, err := a.game.NewRun(c.Request.Context(), req.Name, req.Starter, req.Difficulty)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, run)
}

func (a *API) getRun(c *gin.Context) {
	run, err := a.game.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (a *API) enter(c *gin.Context) {
	var req enterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.badRequest(c, err)
		return
	}
	pos := world.At(req.Map, world.Point{X: req.X, Y: req.Y})
	step, err := a.game.Enter(c.Request.Context(), c.Param("id"), pos)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, step)
}

func (a *API) encounter(c *gin.Context) {
	var req encounterRequest
	// the body is optional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			a.badRequest(c, err)
			return
		}
	}
	sess, err := a.game.Encounter(c.Request.Context(), c.Param("id"), req.Species)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (a *API) startBoss(c *gin.Context) {
	sess, err := a.game.StartBoss(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (a *API) getBattle(c *gin.Context) {
	sess, err := a.game.Battle(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (a *API) getOptions(c *gin.Context) {
	opts, err := a.game.BattleOptions(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (a *API) move(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.badRequest(c, err)
		return
	}
	a.respondTurn(c, func(ctx context.Context, id string) (service.Turn, error) {
		return a.game.Move(ctx, id, req.Move)
	})
}

func (a *API) switchTo(c *gin.Context) {
	var req switchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.badRequest(c, err)
		return
	}
	a.respondTurn(c, func(ctx context.Context, id string) (service.Turn, error) {
		return a.game.Switch(ctx, id, *req.Index)
	})
}

// turn adapts a body-less battle operation.
func (a *API) turn(op func(Game, context.Context, string) (service.Turn, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		a.respondTurn(c, func(ctx context.Context, id string) (service.Turn, error) {
			return op(a.game, ctx, id)
		})
	}
}

func (a *API) respondTurn(c *gin.Context, op func(context.Context, string) (service.Turn, error)) {
	t, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (a *API) bonfire(c *gin.Context) {
	rest, err := a.game.Bonfire(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rest)
}

func (a *API) respawn(c *gin.Context) {
	run, err := a.game.Respawn(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (a *API) recoverSouls(c *gin.Context) {
	n, err := a.game.Recover(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recovered": n})
}

func (a *API) runStats(c *gin.Context) {
	sum, err := a.game.RunStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (a *API) hall(c *gin.Context) {
	h, err := a.game.Hall(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}
