package battle

import (
	"encoding/json"
	"fmt"

	"github.com/cory-johannsen/scarsofash/internal/game/creature"
	"github.com/cory-johannsen/scarsofash/internal/game/world"
)

// Kind names a battle state.
type Kind string

const (
	KindPlayerTurn Kind = "player_turn"
	KindEnemyTurn  Kind = "enemy_turn"
	KindVictory    Kind = "victory"
	KindDefeat     Kind = "defeat"
	KindCleared    Kind = "cleared"
	KindCaptured   Kind = "captured"
	KindFled       Kind = "fled"
)

// State is one node of the battle state machine. Each concrete state carries
// only the data valid in it.
type State interface {
	Kind() Kind
}

// PlayerTurn waits for a move, switch, bind or flee.
type PlayerTurn struct{}

// EnemyTurn waits for AdvanceEnemyTurn.
type EnemyTurn struct{}

// Victory ends a boss fight the player won.
type Victory struct {
	Souls     int `json:"souls"`
	Survivors int `json:"survivors"`
	// Titles are the title ids earned by this win.
	Titles []string `json:"titles,omitempty"`
}

// Defeat ends a battle in a party wipe.
type Defeat struct {
	Drop       *world.SoulDrop `json:"drop,omitempty"`
	Permadeath bool            `json:"permadeath,omitempty"`
}

// Cleared ends a wild battle the player won.
type Cleared struct {
	Souls int             `json:"souls"`
	Tile  *world.Position `json:"tile,omitempty"`
}

// Captured ends a wild battle with the enemy bound to the team.
type Captured struct {
	Creature *creature.Creature `json:"creature"`
}

// Fled ends a wild battle the player ran from.
type Fled struct{}

func (PlayerTurn) Kind() Kind { return KindPlayerTurn }
func (EnemyTurn) Kind() Kind  { return KindEnemyTurn }
func (Victory) Kind() Kind    { return KindVictory }
func (Defeat) Kind() Kind     { return KindDefeat }
func (Cleared) Kind() Kind    { return KindCleared }
func (Captured) Kind() Kind   { return KindCaptured }
func (Fled) Kind() Kind       { return KindFled }

// Terminal reports whether s ends the battle.
func Terminal(s State) bool {
	switch s.(type) {
	case PlayerTurn, EnemyTurn:
		return false
	default:
		return true
	}
}

type stateEnvelope struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data,omitempty"`
}

func marshalState(s State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	if string(data) == "{}" {
		data = nil
	}
	return json.Marshal(stateEnvelope{Kind: s.Kind(), Data: data})
}

func unmarshalState(b []byte) (State, error) {
	var env stateEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case KindPlayerTurn:
		return PlayerTurn{}, nil
	case KindEnemyTurn:
		return EnemyTurn{}, nil
	case KindFled:
		return Fled{}, nil
	case KindVictory:
		return decodeState[Victory](env.Data)
	case KindDefeat:
		return decodeState[Defeat](env.Data)
	case KindCleared:
		return decodeState[Cleared](env.Data)
	case KindCaptured:
		return decodeState[Captured](env.Data)
	default:
		return nil, fmt.Errorf("unknown battle state %q", env.Kind)
	}
}

// decodeState reads a state's data. Absent data is the zero state.
func decodeState[S State](data json.RawMessage) (State, error) {
	var s S
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
	}
	return s, nil
}
