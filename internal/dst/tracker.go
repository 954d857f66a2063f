package dst

import (
	"log/slog"

	"dialcore/internal/da"
)

// Tracker merges turn observations into a belief state:
//
//	observed[none] = 1 - sum(observed)
//	new[k] = old[k]*observed[none] + observed[k]   for k in old ∪ observed
//	new[none] = 1 - sum(new without none)
//
// Observed confidences above 1 in total leave a negative none mass; this is
// logged, not clamped.
type Tracker struct {
	logger *slog.Logger
}

func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{logger: logger}
}

// Observations groups items with both a slot and a value by slot. Within a
// slot a later item with the same value replaces the earlier confidence.
func Observations(act *da.Act) (map[string]Distribution, []string) {
	obs := make(map[string]Distribution)
	var order []string
	for _, it := range act.Items() {
		if !it.HasSlot() || !it.HasValue() {
			continue
		}
		d, ok := obs[it.Slot]
		if !ok {
			d = Distribution{}
			obs[it.Slot] = d
			order = append(order, it.Slot)
		}
		d[it.Value] = it.Confidence
	}
	return obs, order
}

// Update applies act to state in place. state must not be nil.
func (t *Tracker) Update(state BeliefState, act *da.Act) {
	obs, order := Observations(act)
	for _, slot := range order {
		t.UpdateSlot(state, slot, obs[slot])
	}
}

// UpdateSlot merges one slot's observation. observed must not contain
// NoneValue; its none mass is derived.
func (t *Tracker) UpdateSlot(state BeliefState, slot string, observed Distribution) {
	prior, ok := state[slot]
	if !ok || prior == nil {
		prior = Distribution{NoneValue: 1.0}
	}

	observedSum := 0.0
	for _, k := range observed.keys() {
		if k == NoneValue {
			continue
		}
		observedSum += observed[k]
	}
	observedNone := 1.0 - observedSum
	if observedNone < 0 {
		t.logger.Warn("belief update: observed confidences exceed 1", "slot", slot, "sum", observedSum)
	}

	next := make(Distribution, len(prior)+len(observed))
	for k, v := range prior {
		if k == NoneValue {
			continue
		}
		next[k] = v * observedNone
	}
	for k, v := range observed {
		if k == NoneValue {
			continue
		}
		next[k] += v
	}

	rest := 0.0
	for _, k := range next.keys() {
		rest += next[k]
	}
	next[NoneValue] = 1.0 - rest
	state[slot] = next
}
