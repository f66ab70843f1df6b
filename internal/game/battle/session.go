package battle

import (
	"encoding/json"
	"time"

	"github.com/cory-johannsen/scarsofash/internal/game/creature"
	"github.com/cory-johannsen/scarsofash/internal/game/species"
	"github.com/cory-johannsen/scarsofash/internal/game/world"
)

// Session is one battle. It is owned by a single caller for its whole life;
// the engine mutates it only inside one operation at a time.
type Session struct {
	ID           string             `json:"id"`
	RunID        string             `json:"run_id"`
	Enemy        *creature.Creature `json:"enemy"`
	EnemySpecies string             `json:"enemy_species"`
	Boss         bool               `json:"boss,omitempty"`
	// Phase is 1, or 2 after a boss transformed.
	Phase int           `json:"phase"`
	Arena species.Arena `json:"arena,omitempty"`
	State State         `json:"-"`
	// Log is append-only for the life of the battle.
	Log []string `json:"log"`
	// Encounter is the grass tile that started a wild battle.
	Encounter *world.Position `json:"encounter,omitempty"`
	Turn      int             `json:"turn"`
	StartedAt time.Time       `json:"started_at"`

	// Run is attached by the owner while an operation runs. It is not
	// serialized with the session.
	Run *world.Run `json:"-"`
}

// Over reports whether the battle reached a terminal state.
func (s *Session) Over() bool { return Terminal(s.State) }

type sessionAlias Session

type sessionJSON struct {
	*sessionAlias
	State json.RawMessage `json:"state"`
}

// MarshalJSON encodes the session with its state tagged by kind.
func (s *Session) MarshalJSON() ([]byte, error) {
	st, err := marshalState(s.State)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sessionJSON{sessionAlias: (*sessionAlias)(s), State: st})
}

// UnmarshalJSON decodes a session written by MarshalJSON.
func (s *Session) UnmarshalJSON(b []byte) error {
	aux := sessionJSON{sessionAlias: (*sessionAlias)(s)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	st, err := unmarshalState(aux.State)
	if err != nil {
		return err
	}
	s.State = st
	return nil
}
