// Package da holds the dialogue act data model shared by every component:
// dialogue act items (intent, slot, value, confidence) and ordered dialogue
// acts, plus the Cambridge textual notation used for fixtures and evaluation.
package da

import (
	"math"
	"strings"
)

// Item is one dialogue act item. Items compare by intent, slot and value;
// confidence is not part of identity.
type Item struct {
	Intent     string
	Slot       string
	Value      string
	Confidence float64
}

// NewItem builds an item with full confidence. Pass "" for a missing slot or value.
func NewItem(intent, slot, value string) Item {
	return Item{Intent: intent, Slot: slot, Value: value, Confidence: 1.0}
}

// NewItemConf builds an item with an explicit confidence clamped to [0,1].
func NewItemConf(intent, slot, value string, confidence float64) Item {
	return Item{Intent: intent, Slot: slot, Value: value, Confidence: clamp01(confidence)}
}

func (i Item) HasSlot() bool  { return i.Slot != "" }
func (i Item) HasValue() bool { return i.Value != "" }

// Equal reports value equality (intent, slot, value).
func (i Item) Equal(o Item) bool {
	return i.Intent == o.Intent && i.Slot == o.Slot && i.Value == o.Value
}

// Key returns a comparable identity for the item.
func (i Item) Key() ItemKey {
	return ItemKey{Intent: i.Intent, Slot: i.Slot, Value: i.Value}
}

// ItemKey is the identity part of an Item, usable as a map key.
type ItemKey struct {
	Intent string
	Slot   string
	Value  string
}

func (i Item) String() string {
	var sb strings.Builder
	sb.WriteString(i.Intent)
	sb.WriteByte('(')
	writeSlotValue(&sb, i)
	sb.WriteByte(')')
	return sb.String()
}

// Act is an ordered sequence of items for one turn.
type Act struct {
	items []Item
}

// New returns an act holding copies of the given items.
func New(items ...Item) *Act {
	a := &Act{}
	for _, it := range items {
		a.Append(it)
	}
	return a
}

func (a *Act) Append(it Item) {
	a.items = append(a.items, it)
}

// AppendUnique appends it only when no equal item is present yet.
func (a *Act) AppendUnique(it Item) bool {
	if a.Contains(it) {
		return false
	}
	a.items = append(a.items, it)
	return true
}

func (a *Act) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// Items returns a copy of the items in order.
func (a *Act) Items() []Item {
	if a == nil || len(a.items) == 0 {
		return nil
	}
	out := make([]Item, len(a.items))
	copy(out, a.items)
	return out
}

func (a *Act) Contains(it Item) bool {
	if a == nil {
		return false
	}
	for _, cur := range a.items {
		if cur.Equal(it) {
			return true
		}
	}
	return false
}

// Has reports whether any item carries the intent.
func (a *Act) Has(intent string) bool {
	if a == nil {
		return false
	}
	for _, cur := range a.items {
		if cur.Intent == intent {
			return true
		}
	}
	return false
}

// MergeDuplicates collapses structurally equal items into the first
// occurrence. Confidences are summed and capped at 1.
func (a *Act) MergeDuplicates() {
	if a == nil || len(a.items) < 2 {
		return
	}
	index := make(map[ItemKey]int, len(a.items))
	merged := make([]Item, 0, len(a.items))
	for _, it := range a.items {
		if pos, ok := index[it.Key()]; ok {
			merged[pos].Confidence = math.Min(1.0, merged[pos].Confidence+it.Confidence)
			continue
		}
		index[it.Key()] = len(merged)
		merged = append(merged, it)
	}
	a.items = merged
}

// Equal reports whether both acts hold the same multiset of items by value equality.
func (a *Act) Equal(o *Act) bool {
	if a.Len() != o.Len() {
		return false
	}
	counts := make(map[ItemKey]int, a.Len())
	for _, it := range a.Items() {
		counts[it.Key()]++
	}
	for _, it := range o.Items() {
		counts[it.Key()]--
		if counts[it.Key()] < 0 {
			return false
		}
	}
	return true
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
