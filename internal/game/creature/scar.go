package creature

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/scarsofash/internal/game/dice"
	"github.com/cory-johannsen/scarsofash/internal/game/difficulty"
)

// DefaultHollowedThreshold applies when no policy supplies one.
const DefaultHollowedThreshold = 3

// hollowedFactor scales both effective maxima once a creature is hollowed.
const hollowedFactor = 0.75

// ScarKind identifies what a scar takes away.
type ScarKind string

const (
	ScarMaxHP      ScarKind = "max_hp"
	ScarMaxStamina ScarKind = "max_stamina"
	ScarNoPriority ScarKind = "no_priority"
)

// Scar is a permanent debuff gained on fainting.
type Scar struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Kind        ScarKind `json:"kind"`
	Value       int      `json:"value,omitempty"`
	Description string   `json:"description"`
}

// ScarCatalog is the fixed set of scars a fainting creature can draw from.
var ScarCatalog = []Scar{
	{ID: "fractured", Name: "Fractured", Kind: ScarMaxHP, Value: -5, Description: "-5 max HP"},
	{ID: "hesitant", Name: "Hesitant", Kind: ScarMaxStamina, Value: -2, Description: "-2 max Stamina"},
	{ID: "flinching", Name: "Flinching", Kind: ScarNoPriority, Description: "Quick Strike no longer goes first"},
}

// RandomScar draws one scar uniformly from ScarCatalog. When policy carries
// scar penalties the stat scars take the policy's values; the priority scar
// is never parameterised.
//
// Precondition: src must be non-nil; policy may be nil.
func RandomScar(policy *difficulty.Policy, src dice.Source) Scar {
	s := ScarCatalog[dice.Pick(src, len(ScarCatalog))]
	if policy == nil || policy.ScarPenalties == nil {
		return s
	}
	switch s.Kind {
	case ScarMaxHP:
		s.Value = policy.ScarPenalties.HP
		s.Description = fmt.Sprintf("%d max HP", s.Value)
	case ScarMaxStamina:
		s.Value = policy.ScarPenalties.Stamina
		s.Description = fmt.Sprintf("%d max Stamina", s.Value)
	}
	return s
}

// Base holds a creature's unscarred maxima.
type Base struct {
	MaxHP      int `json:"max_hp"`
	MaxStamina int `json:"max_stamina"`
}

// Stats are effective maxima after scars.
type Stats struct {
	MaxHP      int
	MaxStamina int
	Flinching  bool
	Hollowed   bool
}

// ApplyScars folds scars onto base. Stat scars are summed first; when the
// scar count reaches threshold both maxima are multiplied by 0.75 and
// floored; both are finally clamped to at least 1.
//
// The function is pure: it must be recomputed on every read rather than cached.
// A threshold below 1 is treated as DefaultHollowedThreshold.
func ApplyScars(scars []Scar, base Base, threshold int) Stats {
	if threshold < 1 {
		threshold = DefaultHollowedThreshold
	}
	st := Stats{MaxHP: base.MaxHP, MaxStamina: base.MaxStamina}
	for _, s := range scars {
		switch s.Kind {
		case ScarMaxHP:
			st.MaxHP += s.Value
		case ScarMaxStamina:
			st.MaxStamina += s.Value
		case ScarNoPriority:
			st.Flinching = true
		}
	}
	if len(scars) >= threshold {
		st.Hollowed = true
		st.MaxHP = int(math.Floor(float64(st.MaxHP) * hollowedFactor))
		st.MaxStamina = int(math.Floor(float64(st.MaxStamina) * hollowedFactor))
	}
	st.MaxHP = max(1, st.MaxHP)
	st.MaxStamina = max(1, st.MaxStamina)
	return st
}
