package resource

import "encoding/json"

// Set is a read-only set of names. Membership uses plain string equality;
// names are neither case-folded nor normalized. Names() reports members in
// the order they were first added.
//
// The zero value is an empty set.
type Set struct {
	names   []string
	members map[string]struct{}
}

// NewSet returns a Set holding names; repeated names collapse to one member.
func NewSet(names ...string) Set {
	var s Set
	for _, n := range names {
		s.add(n)
	}
	return s
}

func (s *Set) add(name string) {
	if s.members == nil {
		s.members = make(map[string]struct{})
	}
	if _, ok := s.members[name]; ok {
		return
	}
	s.members[name] = struct{}{}
	s.names = append(s.names, name)
}

// Len returns the number of members.
func (s Set) Len() int { return len(s.names) }

// Contains reports whether name is a member.
func (s Set) Contains(name string) bool {
	_, ok := s.members[name]
	return ok
}

// Names returns a copy of the members in first-added order.
func (s Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Equal reports whether s and o hold the same members, ignoring order.
func (s Set) Equal(o Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, n := range s.names {
		if !o.Contains(n) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a JSON array.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// MarshalYAML encodes the set as a YAML sequence.
func (s Set) MarshalYAML() (interface{}, error) {
	return s.Names(), nil
}
