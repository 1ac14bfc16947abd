package constraint

import (
	"vrpengine/internal/cost"
	"vrpengine/internal/route"
	"vrpengine/internal/state"
)

// Manager combines route constraints and tiered activity constraints.
// Registration happens before evaluation starts; evaluation is read-only and
// safe for concurrent use.
type Manager struct {
	routes      []HardRouteConstraint
	tiers       [numPriorities][]HardActivityConstraint
	timeWindows bool
	loads       bool
}

func NewManager() *Manager { return &Manager{} }

func (m *Manager) AddRouteConstraint(c HardRouteConstraint) {
	m.routes = append(m.routes, c)
}

func (m *Manager) AddActivityConstraint(c HardActivityConstraint, p Priority) {
	if p < Critical || p >= numPriorities {
		p = Low
	}
	m.tiers[p] = append(m.tiers[p], c)
}

// AddLoadConstraints registers capacity checks at route level and, in the
// critical tier ahead of anything registered later, at activity level.
// The store must be maintained by state.Manager.UpdateLoadStates.
func (m *Manager) AddLoadConstraints(s *state.Store) {
	if m.loads {
		return
	}
	m.loads = true
	m.AddRouteConstraint(&LoadRouteConstraint{store: s})
	m.AddActivityConstraint(&ServiceLoadActivityConstraint{store: s}, Critical)
	m.AddActivityConstraint(&ShipmentLoadActivityConstraint{store: s}, Critical)
}

// AddTimeWindowConstraint registers the time window check. The store must be
// maintained by state.Manager.UpdateTimeWindowStates.
func (m *Manager) AddTimeWindowConstraint(s *state.Store, tc cost.TransportCosts, ac cost.ActivityCosts) {
	if m.timeWindows {
		return
	}
	m.timeWindows = true
	m.AddActivityConstraint(&TimeWindowConstraint{store: s, tc: tc, ac: ac}, Critical)
}

func (m *Manager) AddSkillsConstraint() {
	m.AddRouteConstraint(SkillsConstraint{})
}

// ChecksTimeWindows reports whether a time window constraint is registered.
func (m *Manager) ChecksTimeWindows() bool { return m.timeWindows }

// RouteFulfilled reports whether every route constraint holds; it stops at the first failure.
func (m *Manager) RouteFulfilled(ctx *InsertionContext) bool {
	for _, c := range m.routes {
		if !c.Fulfilled(ctx) {
			return false
		}
	}
	return true
}

// ActivityFulfilled evaluates tiers in priority order and, within a tier,
// constraints in registration order. The first status other than Fulfilled
// is returned as is; a Break from a later constraint never overrides an
// earlier NotFulfilled.
func (m *Manager) ActivityFulfilled(ctx *InsertionContext, prev, newAct, next *route.Activity, prevDepTime float64) Status {
	for p := range m.tiers {
		for _, c := range m.tiers[p] {
			if st := c.Fulfilled(ctx, prev, newAct, next, prevDepTime); st != Fulfilled {
				return st
			}
		}
	}
	return Fulfilled
}
