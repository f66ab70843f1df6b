package world

import (
	"fmt"

	"github.com/cory-johannsen/scarsofash/internal/game/creature"
	"github.com/cory-johannsen/scarsofash/internal/game/dice"
	"github.com/cory-johannsen/scarsofash/internal/game/species"
)

// WildFactory builds fresh wild enemies from encounter pools.
type WildFactory struct {
	catalog *species.Catalog
	src     dice.Source
}

// NewWildFactory creates a WildFactory drawing from catalog.
//
// Precondition: catalog and src must be non-nil.
func NewWildFactory(catalog *species.Catalog, src dice.Source) *WildFactory {
	if catalog == nil || src == nil {
		panic("world.NewWildFactory: catalog and src must be non-nil")
	}
	return &WildFactory{catalog: catalog, src: src}
}

// Roll picks a species from the named pool by weight and builds it.
func (f *WildFactory) Roll(pool string) (*creature.Creature, *species.Species, error) {
	candidates := f.catalog.Pool(pool)
	weights := make([]int, len(candidates))
	for i, s := range candidates {
		weights[i] = s.Encounter.Weight
	}
	i := dice.Weighted(f.src, weights)
	if i < 0 {
		return nil, nil, fmt.Errorf("encounter pool %q has no spawnable species", pool)
	}
	s := candidates[i]
	c, err := f.Build(s)
	if err != nil {
		return nil, nil, err
	}
	return c, s, nil
}

// Build creates one wild s: maxima shifted by the species' variance rolls
// and floored at its minimums, with a chance of arriving already scarred.
// The creature starts at its effective maxima.
func (f *WildFactory) Build(s *species.Species) (*creature.Creature, error) {
	c := creature.New(s)
	enc := s.Encounter
	if enc == nil {
		return c, nil
	}
	hp, err := f.vary(s.MaxHP, enc.HPVariance, enc.MinHP)
	if err != nil {
		return nil, fmt.Errorf("species %q hp variance: %w", s.ID, err)
	}
	st, err := f.vary(s.MaxStamina, enc.StaminaVariance, enc.MinStamina)
	if err != nil {
		return nil, fmt.Errorf("species %q stamina variance: %w", s.ID, err)
	}
	c.Base = creature.Base{MaxHP: hp, MaxStamina: st}
	if dice.Percent(f.src, enc.PreScarPercent) {
		c.AddScar(creature.RandomScar(nil, f.src))
		c.PreScarred = true
	}
	eff := c.Stats(creature.DefaultHollowedThreshold)
	c.HP = eff.MaxHP
	c.SetStamina(eff.MaxStamina, eff.MaxStamina)
	return c, nil
}

func (f *WildFactory) vary(base int, expr string, floor int) (int, error) {
	v := base
	if expr != "" {
		r, err := dice.RollExpr(expr, f.src)
		if err != nil {
			return 0, err
		}
		v += r.Total()
	}
	return max(v, floor, 1), nil
}
