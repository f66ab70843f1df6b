// Package difficulty defines the fixed table of difficulty policies that
// modulate damage, scar severity, capture odds, boss HP and death penalties.
package difficulty

import (
	"math"
	"sort"
)

// Default is the policy id used when a run names no difficulty or an unknown one.
const Default = "scarred"

// ScarPenalties override the numeric value of stat scars.
type ScarPenalties struct {
	HP      int
	Stamina int
}

// Policy is one row of the difficulty table. Policies are immutable; callers
// receive pointers into the package table and must not modify them.
type Policy struct {
	ID          string
	Name        string
	Subtitle    string
	Description string

	WildDamageMult float64
	BossDamageMult float64
	BossHPMult     float64
	CaptureBonus   int

	ScarsHealAtBonfire bool
	BonfireHeals       bool
	HollowedThreshold  int
	ScarPenalties      *ScarPenalties

	SoulDropPercent float64
	DropBankedSouls bool
	Permadeath      bool

	BossPhaseTransition bool
}

var table = map[string]*Policy{
	"ashen": {
		ID: "ashen", Name: "ASHEN", Subtitle: "Easy", Description: "For those who wish to explore.",
		WildDamageMult: 0.5, BossDamageMult: 0.75, BossHPMult: 1.0, CaptureBonus: 20,
		ScarsHealAtBonfire: true, BonfireHeals: true, HollowedThreshold: 3,
		ScarPenalties:   &ScarPenalties{HP: -5, Stamina: -2},
		SoulDropPercent: 0.5, BossPhaseTransition: true,
	},
	"scarred": {
		ID: "scarred", Name: "SCARRED", Subtitle: "Normal", Description: "The path as intended.",
		WildDamageMult: 0.75, BossDamageMult: 1.0, BossHPMult: 1.0,
		BonfireHeals: true, HollowedThreshold: 3,
		ScarPenalties:   &ScarPenalties{HP: -5, Stamina: -2},
		SoulDropPercent: 1.0, BossPhaseTransition: true,
	},
	"hollowed": {
		ID: "hollowed", Name: "HOLLOWED", Subtitle: "Hard", Description: "For those who seek true suffering.",
		WildDamageMult: 1.0, BossDamageMult: 1.0, BossHPMult: 1.25, CaptureBonus: -20,
		BonfireHeals: true, HollowedThreshold: 3,
		ScarPenalties:   &ScarPenalties{HP: -7, Stamina: -3},
		SoulDropPercent: 1.0, DropBankedSouls: true, BossPhaseTransition: true,
	},
	"broken": {
		ID: "broken", Name: "BROKEN", Subtitle: "Nightmare", Description: "You will not survive.",
		WildDamageMult: 1.0, BossDamageMult: 1.0, BossHPMult: 1.25, CaptureBonus: -20,
		HollowedThreshold: 1,
		ScarPenalties:     &ScarPenalties{HP: -7, Stamina: -3},
		SoulDropPercent:   1.0, DropBankedSouls: true, Permadeath: true,
	},
}

// Get returns the policy for id.
func Get(id string) (*Policy, bool) {
	p, ok := table[id]
	return p, ok
}

// Lookup returns the policy for id, falling back to Default.
//
// Postcondition: never returns nil.
func Lookup(id string) *Policy {
	if p, ok := table[id]; ok {
		return p
	}
	return table[Default]
}

// IDs returns every policy id, sorted.
func IDs() []string {
	out := make([]string, 0, len(table))
	for id := range table {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// DamageMult returns the multiplier applied to enemy-sourced damage.
func (p *Policy) DamageMult(boss bool) float64 {
	if boss {
		return p.BossDamageMult
	}
	return p.WildDamageMult
}

// BossMaxHP scales a boss's base max HP.
//
// Postcondition: result >= 1.
func (p *Policy) BossMaxHP(base int) int {
	return max(1, int(math.Floor(float64(base)*p.BossHPMult)))
}

// DroppedSouls returns how many of carried souls are left at the death site.
func (p *Policy) DroppedSouls(carried int) int {
	if carried <= 0 {
		return 0
	}
	return int(math.Floor(float64(carried) * p.SoulDropPercent))
}
