package selection

import "sort"

// Selection is the set of claim ids checked for a bulk action. It is a value
// owned by the caller; operations return a new set and never mutate the
// receiver.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection builds a selection from ids, ignoring duplicates.
func NewSelection(ids ...string) Selection {
	s := Selection{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Toggle adds id when absent and removes it when present.
func (s Selection) Toggle(id string) Selection {
	next := s.clone()
	if _, ok := next.ids[id]; ok {
		delete(next.ids, id)
	} else {
		next.ids[id] = struct{}{}
	}
	return next
}

// Clear returns an empty selection.
func (s Selection) Clear() Selection {
	return NewSelection()
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in sorted order.
func (s Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s Selection) clone() Selection {
	next := Selection{ids: make(map[string]struct{}, len(s.ids)+1)}
	for id := range s.ids {
		next.ids[id] = struct{}{}
	}
	return next
}
