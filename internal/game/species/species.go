// Package species defines the immutable creature templates and their move
// lists. Species are loaded once from YAML and shared read-only by every battle.
package species

import (
	"fmt"

	"github.com/cory-johannsen/scarsofash/internal/game/element"
)

// DefaultSouls is awarded for a defeated species that configures no reward.
const DefaultSouls = 10

// Effect tags a move with its secondary behaviour.
type Effect string

const (
	EffectNone   Effect = ""
	EffectGuard  Effect = "guard"
	EffectRest   Effect = "rest"
	EffectBurn   Effect = "burn"
	EffectPoison Effect = "poison"
	EffectChill  Effect = "chill"
	EffectDrain  Effect = "drain"
	EffectRecoil Effect = "recoil"
	EffectPurify Effect = "purify"
)

var knownEffects = map[Effect]bool{
	EffectNone: true, EffectGuard: true, EffectRest: true, EffectBurn: true,
	EffectPoison: true, EffectChill: true, EffectDrain: true, EffectRecoil: true,
	EffectPurify: true,
}

// Status reports whether the effect inflicts a timed status on the defender.
func (e Effect) Status() bool {
	return e == EffectBurn || e == EffectPoison || e == EffectChill
}

// Arena is a battle-wide field effect activated by a boss phase change.
type Arena string

const (
	ArenaNone          Arena = ""
	ArenaScorchedEarth Arena = "scorched_earth"
)

// Move is a single move definition.
type Move struct {
	Name         string `yaml:"name" json:"name"`
	Cost         int    `yaml:"cost" json:"cost"`
	Damage       int    `yaml:"damage" json:"damage"`
	Priority     bool   `yaml:"priority" json:"priority,omitempty"`
	Effect       Effect `yaml:"effect" json:"effect,omitempty"`
	RecoilDamage int    `yaml:"recoil_damage" json:"recoil_damage,omitempty"`
	DrainHP      int    `yaml:"drain_hp" json:"drain_hp,omitempty"`
	DrainStamina int    `yaml:"drain_stamina" json:"drain_stamina,omitempty"`
	HealAmount   int    `yaml:"heal_amount" json:"heal_amount,omitempty"`
	// EffectChance is a proc percentage for status effects. It is only rolled
	// when the engine is configured to do so; otherwise statuses always land.
	EffectChance int `yaml:"effect_chance" json:"effect_chance,omitempty"`
}

// Damaging reports whether the move deals direct damage.
func (m Move) Damaging() bool { return m.Damage > 0 }

// RestMove is the zero-cost fallback used when nothing else is affordable.
var RestMove = Move{Name: "Rest", Effect: EffectRest}

func (m Move) validate() error {
	if m.Name == "" {
		return fmt.Errorf("move name must not be empty")
	}
	if m.Cost < 0 || m.Damage < 0 {
		return fmt.Errorf("move %q: cost and damage must be >= 0", m.Name)
	}
	if !knownEffects[m.Effect] {
		return fmt.Errorf("move %q: unknown effect %q", m.Name, m.Effect)
	}
	if m.EffectChance < 0 || m.EffectChance > 100 {
		return fmt.Errorf("move %q: effect_chance must be 0-100", m.Name)
	}
	return nil
}

// Preference is a scripted boss move preference. All set conditions must
// hold; the first matching preference whose move is affordable wins.
type Preference struct {
	Move  string `yaml:"move"`
	Phase int    `yaml:"phase"` // 0 = any phase
	// PlayerHPBelow and PlayerHPAbove are fractions of the player's effective
	// max HP; zero disables the check.
	PlayerHPBelow float64 `yaml:"player_hp_below"`
	PlayerHPAbove float64 `yaml:"player_hp_above"`
	// Precondition names an optional Lua hook that must return true.
	Precondition string `yaml:"precondition"`
}

// Boss carries the second-phase configuration of a boss species.
type Boss struct {
	Phase2Moves    []Move       `yaml:"phase2_moves"`
	Phase2Type     element.Type `yaml:"phase2_type"`
	Arena          Arena        `yaml:"arena"`
	PhaseThreshold float64      `yaml:"phase_threshold"`
	PhaseHeal      int          `yaml:"phase_heal"`
	Intro          []string     `yaml:"intro"`
	Phase2Lines    []string     `yaml:"phase2_lines"`
	VictoryLines   []string     `yaml:"victory_lines"`
	Preferences    []Preference `yaml:"preferences"`
}

// Encounter describes how a wild species spawns.
type Encounter struct {
	Pool            string `yaml:"pool"`
	Weight          int    `yaml:"weight"`
	HPVariance      string `yaml:"hp_variance"`
	StaminaVariance string `yaml:"stamina_variance"`
	MinHP           int    `yaml:"min_hp"`
	MinStamina      int    `yaml:"min_stamina"`
	PreScarPercent  int    `yaml:"prescar_percent"`
}

// Species is an immutable creature template.
type Species struct {
	ID         string       `yaml:"id"`
	Name       string       `yaml:"name"`
	Type       element.Type `yaml:"type"`
	MaxHP      int          `yaml:"max_hp"`
	MaxStamina int          `yaml:"max_stamina"`
	Souls      int          `yaml:"souls"`
	Lore       string       `yaml:"lore"`
	Starter    bool         `yaml:"starter"`
	Moves      []Move       `yaml:"moves"`
	Boss       *Boss        `yaml:"boss"`
	Encounter  *Encounter   `yaml:"encounter"`
}

// IsBoss reports whether s has a boss configuration.
func (s *Species) IsBoss() bool { return s.Boss != nil }

// SoulReward returns the souls awarded for defeating s, defaulting to DefaultSouls.
func (s *Species) SoulReward() int {
	if s.Souls <= 0 {
		return DefaultSouls
	}
	return s.Souls
}

// MovesFor returns the move list in effect for the given boss phase.
// Non-bosses and bosses without a phase-two list always use Moves.
func (s *Species) MovesFor(phase int) []Move {
	if phase >= 2 && s.Boss != nil && len(s.Boss.Phase2Moves) > 0 {
		return s.Boss.Phase2Moves
	}
	return s.Moves
}

// TypeFor returns the elemental type in effect for the given boss phase.
func (s *Species) TypeFor(phase int) element.Type {
	if phase >= 2 && s.Boss != nil && s.Boss.Phase2Type != "" {
		return s.Boss.Phase2Type
	}
	return s.Type
}

// Move looks up a move by name in the base move list.
func (s *Species) Move(name string) (Move, bool) {
	for _, m := range s.Moves {
		if m.Name == name {
			return m, true
		}
	}
	return Move{}, false
}

// Validate checks the template invariants and fills boss defaults.
//
// Postcondition: Returns nil iff ID and Name are non-empty, Type is known,
// MaxHP and MaxStamina are >= 1, at least one move exists and every move is
// well formed.
func (s *Species) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("species: id must not be empty")
	}
	if s.Name == "" {
		return fmt.Errorf("species %q: name must not be empty", s.ID)
	}
	if !s.Type.Valid() {
		return fmt.Errorf("species %q: unknown type %q", s.ID, s.Type)
	}
	if s.MaxHP < 1 || s.MaxStamina < 1 {
		return fmt.Errorf("species %q: max_hp and max_stamina must be >= 1", s.ID)
	}
	if s.Souls < 0 {
		return fmt.Errorf("species %q: souls must be >= 0", s.ID)
	}
	if len(s.Moves) == 0 {
		return fmt.Errorf("species %q: at least one move is required", s.ID)
	}
	for _, m := range s.Moves {
		if err := m.validate(); err != nil {
			return fmt.Errorf("species %q: %w", s.ID, err)
		}
	}
	if s.Boss != nil {
		if err := s.validateBoss(); err != nil {
			return err
		}
	}
	if s.Encounter != nil {
		if s.Encounter.Pool == "" {
			return fmt.Errorf("species %q: encounter pool must not be empty", s.ID)
		}
		if s.Encounter.Weight <= 0 {
			s.Encounter.Weight = 1
		}
		if s.Encounter.PreScarPercent < 0 || s.Encounter.PreScarPercent > 100 {
			return fmt.Errorf("species %q: prescar_percent must be 0-100", s.ID)
		}
	}
	return nil
}

func (s *Species) validateBoss() error {
	b := s.Boss
	for _, m := range b.Phase2Moves {
		if err := m.validate(); err != nil {
			return fmt.Errorf("species %q phase 2: %w", s.ID, err)
		}
	}
	if b.Phase2Type != "" && !b.Phase2Type.Valid() {
		return fmt.Errorf("species %q: unknown phase2_type %q", s.ID, b.Phase2Type)
	}
	if b.Arena != ArenaNone && b.Arena != ArenaScorchedEarth {
		return fmt.Errorf("species %q: unknown arena %q", s.ID, b.Arena)
	}
	if b.PhaseThreshold == 0 {
		b.PhaseThreshold = 0.3
	}
	if b.PhaseThreshold < 0 || b.PhaseThreshold >= 1 {
		return fmt.Errorf("species %q: phase_threshold must be in (0,1)", s.ID)
	}
	if b.PhaseHeal == 0 {
		b.PhaseHeal = 20
	}
	for _, p := range b.Preferences {
		if p.Move == "" {
			return fmt.Errorf("species %q: preference move must not be empty", s.ID)
		}
	}
	return nil
}
