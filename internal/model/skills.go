package model

import (
	"sort"
	"strings"
)

// Skills is a case-insensitive set of skill names.
type Skills struct {
	set map[string]struct{}
}

func NewSkills(names ...string) Skills {
	if len(names) == 0 {
		return Skills{}
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return Skills{set: set}
}

func (s Skills) Contains(name string) bool {
	_, ok := s.set[strings.ToLower(name)]
	return ok
}

// ContainsAll reports whether every skill in required is present in s.
func (s Skills) ContainsAll(required Skills) bool {
	for n := range required.set {
		if _, ok := s.set[n]; !ok {
			return false
		}
	}
	return true
}

func (s Skills) Len() int { return len(s.set) }

// Values returns the skills sorted.
func (s Skills) Values() []string {
	out := make([]string, 0, len(s.set))
	for n := range s.set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
