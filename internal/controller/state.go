package controller

import (
	"encoding/json"

	"github.com/abelbrown/briefing/internal/model"
)

// IDSet is an insertion-ordered set of ids with O(1) membership tests.
// The zero value is an empty set.
type IDSet struct {
	index map[string]int // id -> position in order
	order []string
}

// NewIDSet returns a set containing ids, in order, without duplicates.
func NewIDSet(ids ...string) *IDSet {
	s := &IDSet{index: make(map[string]int, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has reports membership. Safe on a nil set.
func (s *IDSet) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// Len returns the number of ids. Safe on a nil set.
func (s *IDSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Add inserts id at the end if absent.
func (s *IDSet) Add(id string) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = len(s.order)
	s.order = append(s.order, id)
}

// Remove deletes id, keeping the relative order of the rest.
func (s *IDSet) Remove(id string) {
	pos, ok := s.index[id]
	if !ok {
		return
	}
	delete(s.index, id)
	s.order = append(s.order[:pos], s.order[pos+1:]...)
	for i := pos; i < len(s.order); i++ {
		s.index[s.order[i]] = i
	}
}

// Toggle flips membership and returns the new state. Toggling the same id
// twice restores the previous membership. For an id that started absent the
// order is restored too; a present id moves to the end.
func (s *IDSet) Toggle(id string) bool {
	if s.Has(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return true
}

// IDs returns a copy of the ids in insertion order.
func (s *IDSet) IDs() []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s.order...)
}

// Clear empties the set.
func (s *IDSet) Clear() {
	s.index = make(map[string]int)
	s.order = nil
}

func (s *IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = *NewIDSet(ids...)
	return nil
}

// State is everything the dashboard knows. It serializes to JSON so a
// session can be inspected or replayed in tests.
//
// Bookmarks survive restarts through the Store; the two expansion sets are
// ephemeral and start empty on every launch.
type State struct {
	Snapshot           *model.Snapshot `json:"snapshot"`
	Loading            bool            `json:"loading"`
	Filter             Filter          `json:"filter"`
	Bookmarks          *IDSet          `json:"bookmarks"`
	Expanded           *IDSet          `json:"expanded"`
	HighlightsExpanded *IDSet          `json:"highlights_expanded"`
}

// UnmarshalJSON decodes a State, replacing absent or null sets with empty
// ones so the result is as usable as NewState.
func (st *State) UnmarshalJSON(data []byte) error {
	type plain State
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	for _, set := range []**IDSet{&p.Bookmarks, &p.Expanded, &p.HighlightsExpanded} {
		if *set == nil {
			*set = NewIDSet()
		}
	}
	if p.Filter == "" {
		p.Filter = FilterAll
	}
	*st = State(p)
	return nil
}

// NewState returns the initial state: no snapshot, filter "all", empty sets.
func NewState() State {
	return State{
		Filter:             FilterAll,
		Bookmarks:          NewIDSet(),
		Expanded:           NewIDSet(),
		HighlightsExpanded: NewIDSet(),
	}
}

// Stats are the header counters. Neither depends on the active filter.
type Stats struct {
	Total int `json:"total"`
	Saved int `json:"saved"`
}
