// Package state keeps derived per-route and per-activity values consistent
// while routes are mutated.
package state

import (
	"sync"

	"vrpengine/internal/model"
	"vrpengine/internal/route"
)

// ID enumerates the known state identifiers.
type ID int

const (
	LoadID ID = iota
	LoadAtBeginningID
	LoadAtEndID
	MaxLoadID
	PastMaxLoadID
	FutureMaxLoadID
	LatestOperationStartID
	numIDs
)

// Key binds a state identifier to the type of value stored under it.
type Key[T any] struct {
	id   ID
	name string
}

func (k Key[T]) ID() ID         { return k.id }
func (k Key[T]) String() string { return k.name }

var (
	// Load is the vehicle load right after an activity.
	Load = Key[model.Size]{LoadID, "load"}
	// LoadAtBeginning is the load a route leaves the depot with.
	LoadAtBeginning = Key[model.Size]{LoadAtBeginningID, "load_at_beginning"}
	// LoadAtEnd is the load a route returns to the depot with.
	LoadAtEnd = Key[model.Size]{LoadAtEndID, "load_at_end"}
	// MaxLoad is the component-wise maximum load over a whole route.
	MaxLoad = Key[model.Size]{MaxLoadID, "max_load"}
	// PastMaxLoad is the maximum load from the route start up to an activity.
	PastMaxLoad = Key[model.Size]{PastMaxLoadID, "past_max_load"}
	// FutureMaxLoad is the maximum load from an activity to the route end.
	FutureMaxLoad = Key[model.Size]{FutureMaxLoadID, "future_max_load"}
	// LatestOperationStart is the latest start at an activity that keeps the rest of the route feasible.
	LatestOperationStart = Key[float64]{LatestOperationStartID, "latest_operation_start"}
)

// Store maps (route, key) and (activity, key) to values. It never invalidates
// anything on its own.
type Store struct {
	mu         sync.RWMutex
	routes     map[string]*[numIDs]any
	activities map[*route.Activity]*[numIDs]any
}

func NewStore() *Store {
	return &Store{
		routes:     map[string]*[numIDs]any{},
		activities: map[*route.Activity]*[numIDs]any{},
	}
}

func lookup[T any](slots *[numIDs]any, k Key[T]) (T, bool) {
	var zero T
	if slots == nil || k.id < 0 || k.id >= numIDs {
		return zero, false
	}
	v, ok := slots[k.id].(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// GetRoute returns the route-level value under k; ok is false when absent.
func GetRoute[T any](s *Store, r *route.Route, k Key[T]) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.routes[r.ID()], k)
}

func PutRoute[T any](s *Store, r *route.Route, k Key[T], v T) {
	s.mu.Lock()
	slots := s.routes[r.ID()]
	if slots == nil {
		slots = new([numIDs]any)
		s.routes[r.ID()] = slots
	}
	slots[k.id] = v
	s.mu.Unlock()
}

// GetActivity returns the activity-level value under k; ok is false when absent.
func GetActivity[T any](s *Store, a *route.Activity, k Key[T]) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.activities[a], k)
}

func PutActivity[T any](s *Store, a *route.Activity, k Key[T], v T) {
	s.mu.Lock()
	slots := s.activities[a]
	if slots == nil {
		slots = new([numIDs]any)
		s.activities[a] = slots
	}
	slots[k.id] = v
	s.mu.Unlock()
}

// SizeOrZero reads a size-valued route state, substituting the zero vector.
func SizeOrZero(s *Store, r *route.Route, k Key[model.Size]) model.Size {
	v, _ := GetRoute(s, r, k)
	return v
}

// RemoveActivities forgets every value stored for acts.
func (s *Store) RemoveActivities(acts ...*route.Activity) {
	s.mu.Lock()
	for _, a := range acts {
		delete(s.activities, a)
	}
	s.mu.Unlock()
}

// RemoveRoute forgets the route-level values of r and of its activities.
func (s *Store) RemoveRoute(r *route.Route) {
	s.mu.Lock()
	delete(s.routes, r.ID())
	for _, a := range r.Activities() {
		delete(s.activities, a)
	}
	s.mu.Unlock()
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.routes = map[string]*[numIDs]any{}
	s.activities = map[*route.Activity]*[numIDs]any{}
	s.mu.Unlock()
}
