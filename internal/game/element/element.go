// Package element holds the closed set of elemental types and the
// designer-authored effectiveness matrix between them.
package element

import "fmt"

// Type is an elemental affinity.
type Type string

const (
	Fire      Type = "fire"
	Water     Type = "water"
	Grass     Type = "grass"
	Dark      Type = "dark"
	Light     Type = "light"
	DarkLight Type = "darklight"
)

// All lists every known type in table order.
var All = []Type{Fire, Water, Grass, Dark, Light, DarkLight}

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	for _, k := range All {
		if k == t {
			return true
		}
	}
	return false
}

// Parse converts s into a Type.
func Parse(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("element: unknown type %q", s)
	}
	return t, nil
}

// chart is indexed attacker → defender. The matrix is asymmetric by design
// and must not be derived.
var chart = map[Type]map[Type]float64{
	Fire:      {Fire: 1, Water: 0.5, Grass: 1.5, Dark: 1, Light: 0.5, DarkLight: 0.75},
	Water:     {Fire: 1.5, Water: 1, Grass: 0.5, Dark: 1, Light: 1, DarkLight: 1},
	Grass:     {Fire: 0.5, Water: 1.5, Grass: 1, Dark: 0.5, Light: 1, DarkLight: 0.75},
	Dark:      {Fire: 1, Water: 1, Grass: 1.5, Dark: 1, Light: 1.5, DarkLight: 1.25},
	Light:     {Fire: 1.5, Water: 1, Grass: 1, Dark: 0.5, Light: 1, DarkLight: 1.25},
	DarkLight: {Fire: 1.25, Water: 1, Grass: 1.25, Dark: 0.75, Light: 0.75, DarkLight: 1},
}

// Effectiveness returns the damage multiplier for an attacker of type
// attacker striking a defender of type defender.
//
// Postcondition: never fails; unknown or unmapped pairs return 1.0.
func Effectiveness(attacker, defender Type) float64 {
	row, ok := chart[attacker]
	if !ok {
		return 1
	}
	mult, ok := row[defender]
	if !ok {
		return 1
	}
	return mult
}

// Describe returns the log suffix for a multiplier: a super-effective note
// above 1, a resisted note below 1, and nothing at exactly 1.
func Describe(mult float64) string {
	switch {
	case mult > 1:
		return " It's super effective!"
	case mult < 1:
		return " It's not very effective..."
	default:
		return ""
	}
}
