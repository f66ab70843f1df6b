package world

import "time"

// FallenLimit is how many permadeath runs the memorial keeps.
const FallenLimit = 20

// Ghost marks the tile where a run last wiped.
type Ghost struct {
	RunID    string   `json:"run_id"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
}

// FallenCreature is one team member as the memorial remembers it.
type FallenCreature struct {
	Name  string `json:"name"`
	Scars int    `json:"scars"`
}

// Fallen is a memorial entry for a permadeath run.
type Fallen struct {
	RunID      string           `json:"run_id"`
	Name       string           `json:"name"`
	PlayTime   time.Duration    `json:"play_time"`
	FinalMap   string           `json:"final_map"`
	TotalScars int              `json:"total_scars"`
	Team       []FallenCreature `json:"team"`
	FellAt     time.Time        `json:"fell_at"`
}

// Clear records one boss beaten on a run.
type Clear struct {
	RunID      string        `json:"run_id"`
	Name       string        `json:"name"`
	Difficulty string        `json:"difficulty"`
	Boss       string        `json:"boss"`
	PlayTime   time.Duration `json:"play_time"`
	TotalScars int           `json:"total_scars"`
}

// PlayTime is the wall-clock time since the run began.
func (r *Run) PlayTime(now time.Time) time.Duration {
	return max(now.Sub(r.CreatedAt), 0)
}

// Ghost returns the marker for a wipe at the run's position. Permadeath
// runs leave none.
func (r *Run) Ghost() (Ghost, bool) {
	if r.Policy().Permadeath {
		return Ghost{}, false
	}
	return Ghost{RunID: r.ID, Name: r.Name, Position: r.Position}, true
}

// Memorial returns the entry for a run that ended in permadeath.
func (r *Run) Memorial(now time.Time) (Fallen, bool) {
	if !r.Over || !r.Policy().Permadeath {
		return Fallen{}, false
	}
	f := Fallen{
		RunID:      r.ID,
		Name:       r.Name,
		PlayTime:   r.PlayTime(now),
		FinalMap:   r.Position.Map,
		TotalScars: r.Team.TotalScars(),
		FellAt:     now,
	}
	for _, c := range r.Team.Members {
		f.Team = append(f.Team, FallenCreature{Name: c.Name, Scars: len(c.Scars)})
	}
	return f, true
}

// Clear returns the record of beating boss.
func (r *Run) Clear(boss string, now time.Time) Clear {
	return Clear{
		RunID:      r.ID,
		Name:       r.Name,
		Difficulty: r.Difficulty,
		Boss:       boss,
		PlayTime:   r.PlayTime(now),
		TotalScars: r.Team.TotalScars(),
	}
}
