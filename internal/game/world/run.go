package world

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/scarsofash/internal/game/creature"
	"github.com/cory-johannsen/scarsofash/internal/game/dice"
	"github.com/cory-johannsen/scarsofash/internal/game/difficulty"
	"github.com/cory-johannsen/scarsofash/internal/game/species"
)

// EncounterChance is the percent chance an active grass tile starts a battle.
const EncounterChance = 60

var (
	// ErrRunOver is returned for any progress on a permadeath run that wiped.
	ErrRunOver = errors.New("run is over")
	// ErrNotDefeated is returned by Respawn while a living creature remains.
	ErrNotDefeated = errors.New("team has not been defeated")
)

// Souls splits the currency into the at-risk and the safe part.
//
// Invariant: Carried >= 0 and Banked >= 0.
type Souls struct {
	Carried int `json:"carried"`
	Banked  int `json:"banked"`
}

// SoulDrop is the pile left where the team was wiped.
type SoulDrop struct {
	Position Position `json:"position"`
	Amount   int      `json:"amount"`
}

// EncounterTile is a grass tile and whether it can still trigger.
type EncounterTile struct {
	Position Position `json:"position"`
	Active   bool     `json:"active"`
}

// Run is one playthrough: the roster, the currency and the player's place in
// the world. A Run is not safe for concurrent use; callers serialize access.
type Run struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Difficulty     string          `json:"difficulty"`
	Team           *creature.Team  `json:"team"`
	Souls          Souls           `json:"souls"`
	Drop           *SoulDrop       `json:"drop,omitempty"`
	Position       Position        `json:"position"`
	LastBonfire    Position        `json:"last_bonfire"`
	Encounters     []EncounterTile `json:"encounters"`
	BossesDefeated []string        `json:"bosses_defeated,omitempty"`
	Titles         []string        `json:"titles,omitempty"`
	Over           bool            `json:"over,omitempty"`
	// BattleID names the battle in progress, empty between battles.
	BattleID  string    `json:"battle_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRun starts a run at start with one full-strength starter. Unknown
// difficulty ids resolve to difficulty.Default.
//
// Precondition: starter must be non-nil and valid.
func NewRun(name string, starter *species.Species, difficultyID string, start Position, tiles []EncounterTile) *Run {
	enc := make([]EncounterTile, len(tiles))
	copy(enc, tiles)
	return &Run{
		ID:          uuid.NewString(),
		Name:        name,
		Difficulty:  difficulty.Lookup(difficultyID).ID,
		Team:        creature.NewTeam(creature.New(starter)),
		Position:    start,
		LastBonfire: start,
		Encounters:  enc,
		CreatedAt:   time.Now().UTC(),
	}
}

// Policy returns the run's difficulty policy.
func (r *Run) Policy() *difficulty.Policy {
	return difficulty.Lookup(r.Difficulty)
}

// Threshold returns the hollowed threshold under the run's difficulty.
func (r *Run) Threshold() int {
	return r.Policy().HollowedThreshold
}

// InBattle reports whether a battle is in progress.
func (r *Run) InBattle() bool { return r.BattleID != "" }

// Earn adds n carried souls.
func (r *Run) Earn(n int) {
	if n > 0 {
		r.Souls.Carried += n
	}
}

// Spend removes n carried souls.
//
// Postcondition: returns false and changes nothing when fewer than n are carried.
func (r *Run) Spend(n int) bool {
	if n < 0 || r.Souls.Carried < n {
		return false
	}
	r.Souls.Carried -= n
	return true
}

// Bank moves all carried souls to the bank and returns the amount moved.
func (r *Run) Bank() int {
	n := r.Souls.Carried
	r.Souls.Banked += n
	r.Souls.Carried = 0
	return n
}

// WipeDrop records the soul drop after a party wipe at the current position
// and returns the drop now on the map.
//
// The policy decides how much of the carried souls is left behind (the rest
// is lost) and whether banked souls go with them. When nothing is dropped an
// existing pile stays where it was; a new pile replaces an old one.
// Carried souls are always zero afterwards.
func (r *Run) WipeDrop() *SoulDrop {
	p := r.Policy()
	amount := p.DroppedSouls(r.Souls.Carried)
	if p.DropBankedSouls {
		amount += r.Souls.Banked
		r.Souls.Banked = 0
	}
	r.Souls.Carried = 0
	if amount > 0 {
		r.Drop = &SoulDrop{Position: r.Position, Amount: amount}
	}
	if p.Permadeath {
		r.Over = true
	}
	return r.Drop
}

// RecoverSouls picks up the drop when pos is its position.
//
// Postcondition: returns the amount recovered, zero when there was nothing at pos.
func (r *Run) RecoverSouls(pos Position) int {
	if r.Drop == nil || r.Drop.Position != pos {
		return 0
	}
	n := r.Drop.Amount
	r.Souls.Carried += n
	r.Drop = nil
	return n
}

func (r *Run) tile(pos Position) int {
	for i, t := range r.Encounters {
		if t.Position == pos {
			return i
		}
	}
	return -1
}

// TileActive reports whether pos is an encounter tile that can still trigger.
func (r *Run) TileActive(pos Position) bool {
	i := r.tile(pos)
	return i >= 0 && r.Encounters[i].Active
}

// DeactivateTile stops pos from triggering until the next bonfire.
func (r *Run) DeactivateTile(pos Position) bool {
	i := r.tile(pos)
	if i < 0 {
		return false
	}
	r.Encounters[i].Active = false
	return true
}

// ReactivateTiles makes every encounter tile active again.
func (r *Run) ReactivateTiles() {
	for i := range r.Encounters {
		r.Encounters[i].Active = true
	}
}

// TryEncounter rolls the encounter check for pos. Inactive and unknown tiles
// never trigger and consume no randomness.
func (r *Run) TryEncounter(pos Position, src dice.Source) bool {
	if !r.TileActive(pos) {
		return false
	}
	return dice.Percent(src, EncounterChance)
}

// Bonfire rests the team at the current position.
//
// Every creature gets its stamina and status flags reset. HP is restored
// when the policy heals at bonfires: fainted creatures come back at 1 HP and
// the rest at full effective HP. Scars are cleared first when the policy
// allows it so the restored maxima are the unscarred ones. Encounter tiles
// reactivate, carried souls are banked and the bonfire becomes the respawn
// point.
//
// Postcondition: returns the number of souls banked.
func (r *Run) Bonfire() (int, error) {
	if r.Over {
		return 0, ErrRunOver
	}
	p := r.Policy()
	for _, c := range r.Team.Members {
		if p.ScarsHealAtBonfire {
			c.Scars = nil
		}
		st := c.Stats(p.HollowedThreshold)
		if p.BonfireHeals {
			if c.Fainted() {
				c.HP = 1
			} else {
				c.HP = st.MaxHP
			}
		}
		c.ClampToStats(p.HollowedThreshold)
		c.SetStamina(st.MaxStamina, st.MaxStamina)
		c.Guarding = false
		c.Statuses.Clear()
	}
	r.ReactivateTiles()
	r.LastBonfire = r.Position
	return r.Bank(), nil
}

// Respawn revives a wiped team at the last bonfire: every creature gets at
// least 1 HP and full stamina, and the first living member becomes active.
func (r *Run) Respawn() error {
	if r.Over {
		return ErrRunOver
	}
	if r.Team.Living() > 0 {
		return ErrNotDefeated
	}
	th := r.Threshold()
	for _, c := range r.Team.Members {
		st := c.Stats(th)
		c.HP = max(c.HP, 1)
		c.ClampToStats(th)
		c.SetStamina(st.MaxStamina, st.MaxStamina)
		c.Guarding = false
		c.Statuses.Clear()
	}
	r.Position = r.LastBonfire
	r.BattleID = ""
	if i, ok := r.Team.FirstLiving(); ok {
		r.Team.Active = i
	}
	return nil
}

// BossDefeated reports whether speciesID has been beaten on this run.
func (r *Run) BossDefeated(speciesID string) bool {
	for _, id := range r.BossesDefeated {
		if id == speciesID {
			return true
		}
	}
	return false
}

// MarkBossDefeated records a boss victory once.
func (r *Run) MarkBossDefeated(speciesID string) {
	if !r.BossDefeated(speciesID) {
		r.BossesDefeated = append(r.BossesDefeated, speciesID)
	}
}

// Arrival describes what a run found on entering a tile.
type Arrival struct {
	Position  Position `json:"position"`
	Tile      string   `json:"tile"`
	Recovered int      `json:"recovered,omitempty"`
	// Boss names the boss species waiting on this tile, if any.
	Boss string `json:"boss,omitempty"`
	// Grass is set on encounter tiles.
	Grass   bool  `json:"grass,omitempty"`
	Bonfire bool  `json:"bonfire,omitempty"`
	Lore    *Lore `json:"lore,omitempty"`
	// Ghost is filled in by the caller, which knows where runs last fell.
	Ghost *Ghost `json:"ghost,omitempty"`
}

// Enter places the run on pos. Gate tiles carry the run to their linked map;
// a soul drop on the final tile is recovered.
func (r *Run) Enter(a *Atlas, pos Position) (Arrival, error) {
	if r.Over {
		return Arrival{}, ErrRunOver
	}
	m, t, err := a.TileAt(pos)
	if err != nil {
		return Arrival{}, err
	}
	if l, ok := m.LinkAt(pos.Point()); ok {
		pos = At(l.To, l.Arrive)
		if m, t, err = a.TileAt(pos); err != nil {
			return Arrival{}, fmt.Errorf("following link: %w", err)
		}
	}
	r.Position = pos
	arr := Arrival{
		Position:  pos,
		Tile:      string(t),
		Recovered: r.RecoverSouls(pos),
		Grass:     t == TileGrass,
		Bonfire:   t == TileBonfire,
	}
	if t == TileBoss && !r.BossDefeated(m.Boss) {
		arr.Boss = m.Boss
	}
	if l, ok := m.LoreAt(pos.Point()); ok {
		arr.Lore = &l
	}
	return arr, nil
}
