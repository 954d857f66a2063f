// Package dialogue holds the typed state of one conversation: the current
// turn's inputs and outputs, the belief state and the turn history.
package dialogue

import (
	"dialcore/internal/da"
	"dialcore/internal/dst"
)

// Turn is a finished turn as recorded in the history.
type Turn struct {
	User   string
	System string
	NLU    *da.Act
	Action *da.Act
	State  dst.BeliefState
}

// Dialogue is not safe for concurrent use; callers serialize turns.
type Dialogue struct {
	User   string
	System string
	NLU    *da.Act
	Action *da.Act

	ended   bool
	state   dst.BeliefState
	history []Turn
}

func New() *Dialogue {
	return &Dialogue{
		NLU:    da.New(),
		Action: da.New(),
		state:  dst.BeliefState{},
	}
}

// State exposes the belief state for in-place updates by the tracker. The map
// itself cannot be replaced.
func (d *Dialogue) State() dst.BeliefState { return d.state }

// Snapshot returns a deep copy of the belief state.
func (d *Dialogue) Snapshot() dst.BeliefState { return d.state.Clone() }

func (d *Dialogue) SetUserInput(text string) { d.User = text }

func (d *Dialogue) SetSystemResponse(text string) { d.System = text }

// EndTurn appends the current turn to the history and resets the per-turn
// fields.
func (d *Dialogue) EndTurn() {
	d.history = append(d.history, Turn{
		User:   d.User,
		System: d.System,
		NLU:    d.NLU,
		Action: d.Action,
		State:  d.state.Clone(),
	})
	d.User = ""
	d.System = ""
	d.NLU = da.New()
	d.Action = da.New()
}

func (d *Dialogue) EndDialogue() { d.ended = true }

func (d *Dialogue) Ended() bool { return d.ended }

// History returns the recorded turns, oldest first.
func (d *Dialogue) History() []Turn {
	out := make([]Turn, len(d.history))
	copy(out, d.history)
	return out
}

func (d *Dialogue) TurnCount() int { return len(d.history) }
