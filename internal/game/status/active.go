package status

import "sort"

// ActiveSet tracks the statuses applied to one creature as id → ticks remaining.
// It serialises as plain JSON so rosters can be persisted verbatim.
// It is not safe for concurrent use.
type ActiveSet struct {
	Remaining map[string]int `json:"remaining,omitempty"`
}

// Apply starts def on this set unless it is already active.
// Statuses never stack and re-application never refreshes the duration.
//
// Precondition: def must not be nil.
// Postcondition: Has(def.ID) is true; returns false if it already was.
func (s *ActiveSet) Apply(def *Def) bool {
	if s.Has(def.ID) {
		return false
	}
	if s.Remaining == nil {
		s.Remaining = make(map[string]int)
	}
	s.Remaining[def.ID] = def.Duration
	return true
}

// Has reports whether id is currently active.
func (s *ActiveSet) Has(id string) bool {
	return s.Remaining[id] > 0
}

// TurnsLeft returns the ticks remaining for id, or 0.
func (s *ActiveSet) TurnsLeft(id string) int {
	return s.Remaining[id]
}

// Remove deletes id from the set. Removing an absent id is a no-op.
func (s *ActiveSet) Remove(id string) {
	delete(s.Remaining, id)
}

// Clear removes every status.
func (s *ActiveSet) Clear() {
	s.Remaining = nil
}

// IDs returns the active ids in sorted order.
func (s *ActiveSet) IDs() []string {
	out := make([]string, 0, len(s.Remaining))
	for id, n := range s.Remaining {
		if n > 0 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Tick is the effect of one status for one upkeep.
type Tick struct {
	Def     *Def
	HP      int
	Stamina int
}

// Tick advances every active status by one upkeep, in id order, and returns
// what each one inflicts. Expired statuses are removed. Ids unknown to reg
// are dropped without effect.
//
// Postcondition: every returned tick's status had its counter decremented.
func (s *ActiveSet) Tick(reg *Registry) []Tick {
	var out []Tick
	for _, id := range s.IDs() {
		def, ok := reg.Get(id)
		if !ok {
			s.Remove(id)
			continue
		}
		out = append(out, Tick{Def: def, HP: def.HPDamage, Stamina: def.StaminaDrain})
		s.Remaining[id]--
		if s.Remaining[id] <= 0 {
			s.Remove(id)
		}
	}
	return out
}

// Amount is the figure reported in the tick message.
func (t Tick) Amount() int {
	if t.HP > 0 {
		return t.HP
	}
	return t.Stamina
}
