// Package dst tracks the per-slot belief state of a dialogue.
package dst

import (
	"encoding/json"
	"sort"
)

// NoneValue is the key of the "slot not mentioned" mass. It renders as
// "none" in JSON.
const NoneValue = ""

const noneJSON = "none"

// Distribution maps values of one slot to probabilities. For tracked slots
// the values sum to 1 within floating-point tolerance.
type Distribution map[string]float64

// None returns the mass of NoneValue.
func (d Distribution) None() float64 { return d[NoneValue] }

// Sum adds up every key, none included.
func (d Distribution) Sum() float64 {
	keys := d.keys()
	total := 0.0
	for _, k := range keys {
		total += d[k]
	}
	return total
}

// keys returns the keys in a fixed order so sums are reproducible.
func (d Distribution) keys() []string {
	out := make([]string, 0, len(d))
	for k := range d {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Best returns the most probable non-none value.
func (d Distribution) Best() (string, float64, bool) {
	best, bestP, ok := "", 0.0, false
	for _, k := range d.keys() {
		if k == NoneValue {
			continue
		}
		if !ok || d[k] > bestP {
			best, bestP, ok = k, d[k], true
		}
	}
	return best, bestP, ok
}

func (d Distribution) Clone() Distribution {
	if d == nil {
		return nil
	}
	out := make(Distribution, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func (d Distribution) MarshalJSON() ([]byte, error) {
	out := make(map[string]float64, len(d))
	for k, v := range d {
		if k == NoneValue {
			k = noneJSON
		}
		out[k] = v
	}
	return json.Marshal(out)
}

func (d *Distribution) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Distribution, len(raw))
	for k, v := range raw {
		if k == noneJSON {
			k = NoneValue
		}
		out[k] = v
	}
	*d = out
	return nil
}

// BeliefState maps slot names to distributions. Slots are never removed.
type BeliefState map[string]Distribution

func (b BeliefState) Clone() BeliefState {
	out := make(BeliefState, len(b))
	for slot, d := range b {
		out[slot] = d.Clone()
		if out[slot] == nil {
			out[slot] = Distribution{}
		}
	}
	return out
}

// Slots lists slot names in lexicographic order.
func (b BeliefState) Slots() []string {
	out := make([]string, 0, len(b))
	for s := range b {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
