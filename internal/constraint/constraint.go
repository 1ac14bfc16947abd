// Package constraint evaluates hard feasibility rules for candidate insertions.
package constraint

import (
	"fmt"

	"vrpengine/internal/model"
	"vrpengine/internal/route"
	"vrpengine/internal/state"
)

// Status is the outcome of an activity-level check.
type Status int

const (
	Fulfilled Status = iota
	// NotFulfilled rejects this position only.
	NotFulfilled
	// NotFulfilledBreak rejects this position and every later one in the current scan.
	NotFulfilledBreak
)

func (s Status) String() string {
	switch s {
	case Fulfilled:
		return "fulfilled"
	case NotFulfilled:
		return "not_fulfilled"
	case NotFulfilledBreak:
		return "not_fulfilled_break"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Priority orders activity constraint tiers. Critical runs first.
type Priority int

const (
	Critical Priority = iota
	High
	Low
	numPriorities
)

// Placed is a job activity already fixed in the combination being evaluated.
// Index is its insertion position in the unmodified route.
type Placed struct {
	Activity *route.Activity
	Index    int
	EndTime  float64
}

// InsertionContext describes the candidate insertion under evaluation. Index
// is the insertion position, in the unmodified route, of the activity being
// checked; Placed lists the job's earlier activities in job order.
type InsertionContext struct {
	Route            *route.Route
	Job              *model.Job
	NewVehicle       *model.Vehicle
	NewDriver        *model.Driver
	NewDepartureTime float64
	Index            int
	Placed           []Placed

	// LatestStarts holds, by route position, latest operation starts computed
	// for NewVehicle. Nil means the stored states of the route's vehicle apply.
	LatestStarts []float64
}

// CarriedLoad is the net load change of the already placed activities, which
// the vehicle still carries at the current position.
func (c *InsertionContext) CarriedLoad() model.Size {
	var s model.Size
	for _, p := range c.Placed {
		s = s.Add(p.Activity.LoadChange())
	}
	return s
}

// LatestStart is the latest operation start of a, the route activity at
// position i, for the candidate vehicle.
func (c *InsertionContext) LatestStart(s *state.Store, i int, a *route.Activity) float64 {
	if c.LatestStarts != nil && i >= 0 && i < len(c.LatestStarts) && c.Route.At(i) == a {
		return c.LatestStarts[i]
	}
	if v, ok := state.GetActivity(s, a, state.LatestOperationStart); ok {
		return v
	}
	return a.TheoreticalLatest
}

// HardRouteConstraint is checked once per (route, job, vehicle).
type HardRouteConstraint interface {
	Fulfilled(ctx *InsertionContext) bool
}

// HardActivityConstraint is checked for every candidate position of newAct
// between prev and next. prevDepTime is the departure time at prev.
type HardActivityConstraint interface {
	Fulfilled(ctx *InsertionContext, prev, newAct, next *route.Activity, prevDepTime float64) Status
}

type RouteFunc func(ctx *InsertionContext) bool

func (f RouteFunc) Fulfilled(ctx *InsertionContext) bool { return f(ctx) }

type ActivityFunc func(ctx *InsertionContext, prev, newAct, next *route.Activity, prevDepTime float64) Status

func (f ActivityFunc) Fulfilled(ctx *InsertionContext, prev, newAct, next *route.Activity, prevDepTime float64) Status {
	return f(ctx, prev, newAct, next, prevDepTime)
}
