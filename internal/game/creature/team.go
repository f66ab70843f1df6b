package creature

import (
	"errors"
	"fmt"
)

// MaxTeamSize caps the roster.
const MaxTeamSize = 5

var (
	// ErrTeamFull is returned when adding to a roster at MaxTeamSize.
	ErrTeamFull = errors.New("team is full")
	// ErrInvalidSwitch is returned for a switch to a fainted, active or missing slot.
	ErrInvalidSwitch = errors.New("invalid switch target")
)

// Team is the player's ordered roster with one active slot.
//
// Invariant: 0 <= Active < len(Members) whenever Members is non-empty.
type Team struct {
	Members []*Creature `json:"members"`
	Active  int         `json:"active"`
}

// NewTeam returns a team containing first as its active creature.
func NewTeam(first *Creature) *Team {
	return &Team{Members: []*Creature{first}}
}

// ActiveCreature returns the creature currently fighting.
func (t *Team) ActiveCreature() *Creature {
	if t.Active < 0 || t.Active >= len(t.Members) {
		return nil
	}
	return t.Members[t.Active]
}

// Full reports whether the roster is at capacity.
func (t *Team) Full() bool { return len(t.Members) >= MaxTeamSize }

// Add appends c to the roster.
func (t *Team) Add(c *Creature) error {
	if t.Full() {
		return ErrTeamFull
	}
	t.Members = append(t.Members, c)
	return nil
}

// CanSwitchTo reports whether index names a living, non-active member.
func (t *Team) CanSwitchTo(index int) bool {
	return index >= 0 && index < len(t.Members) &&
		index != t.Active && !t.Members[index].Fainted()
}

// CanSwitch reports whether any switch target exists.
func (t *Team) CanSwitch() bool {
	_, ok := t.NextLiving()
	return ok
}

// SwitchTo makes index the active member.
//
// Postcondition: on error the team is unchanged.
func (t *Team) SwitchTo(index int) error {
	if !t.CanSwitchTo(index) {
		return fmt.Errorf("%w: %d", ErrInvalidSwitch, index)
	}
	t.Active = index
	return nil
}

// NextLiving returns the lowest-index living member other than the active one.
func (t *Team) NextLiving() (int, bool) {
	for i, c := range t.Members {
		if i != t.Active && !c.Fainted() {
			return i, true
		}
	}
	return 0, false
}

// FirstLiving returns the lowest-index living member, active or not.
func (t *Team) FirstLiving() (int, bool) {
	for i, c := range t.Members {
		if !c.Fainted() {
			return i, true
		}
	}
	return 0, false
}

// Living counts members with HP above zero.
func (t *Team) Living() int {
	n := 0
	for _, c := range t.Members {
		if !c.Fainted() {
			n++
		}
	}
	return n
}

// TotalScars counts scars across the whole team.
func (t *Team) TotalScars() int {
	n := 0
	for _, c := range t.Members {
		n += len(c.Scars)
	}
	return n
}
