package models

import "sort"

// LANSet is an ordered collection of LANs keyed by id.
// Iteration follows insertion order; Put on an existing id replaces in place.
type LANSet struct {
	order []string
	byID  map[string]*LAN
}

func NewLANSet(lans ...*LAN) *LANSet {
	s := &LANSet{byID: make(map[string]*LAN, len(lans))}
	for _, lan := range lans {
		s.Put(lan)
	}
	return s
}

func (s *LANSet) Put(lan *LAN) {
	if s.byID == nil {
		s.byID = make(map[string]*LAN)
	}
	if _, ok := s.byID[lan.ID]; !ok {
		s.order = append(s.order, lan.ID)
	}
	s.byID[lan.ID] = lan
}

func (s *LANSet) Get(id string) (*LAN, bool) {
	lan, ok := s.byID[id]
	return lan, ok
}

func (s *LANSet) Len() int {
	return len(s.order)
}

// List returns the LANs in insertion order.
func (s *LANSet) List() []*LAN {
	out := make([]*LAN, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Networks returns LAN networks in insertion order.
func (s *LANSet) Networks() []string {
	out := make([]string, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Network)
	}
	return out
}

// SortByID reorders the set by LAN id.
func (s *LANSet) SortByID() {
	sort.Strings(s.order)
}
