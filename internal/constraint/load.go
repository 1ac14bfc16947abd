package constraint

import (
	"vrpengine/internal/model"
	"vrpengine/internal/route"
	"vrpengine/internal/state"
)

// LoadRouteConstraint checks, against the candidate vehicle's capacity, the
// route's maximum load, the load at the depot plus what the job adds there,
// and the load on return plus what the job adds on the way back.
type LoadRouteConstraint struct {
	store *state.Store
}

func NewLoadRouteConstraint(s *state.Store) *LoadRouteConstraint {
	return &LoadRouteConstraint{store: s}
}

func (c *LoadRouteConstraint) Fulfilled(ctx *InsertionContext) bool {
	capacity := ctx.NewVehicle.Capacity()
	if !state.SizeOrZero(c.store, ctx.Route, state.MaxLoad).IsLessOrEqual(capacity) {
		return false
	}
	atStart := state.SizeOrZero(c.store, ctx.Route, state.LoadAtBeginning)
	if !atStart.Add(ctx.Job.SizeAtStart()).IsLessOrEqual(capacity) {
		return false
	}
	atEnd := state.SizeOrZero(c.store, ctx.Route, state.LoadAtEnd)
	return atEnd.Add(ctx.Job.SizeAtEnd()).IsLessOrEqual(capacity)
}

// ServiceLoadActivityConstraint checks single-stop jobs. A pickup or service
// raises the load from its position to the end, a delivery from the start to
// its position.
type ServiceLoadActivityConstraint struct {
	store *state.Store
}

func (c *ServiceLoadActivityConstraint) Fulfilled(ctx *InsertionContext, prev, newAct, _ *route.Activity, _ float64) Status {
	if newAct.IsShipment() {
		return Fulfilled
	}
	capacity := ctx.NewVehicle.Capacity()
	size := newAct.LoadChange().Abs()
	switch {
	case newAct.IsPickup() || newAct.IsService():
		var future model.Size
		if prev.IsStart() {
			future = state.SizeOrZero(c.store, ctx.Route, state.MaxLoad)
		} else {
			future, _ = state.GetActivity(c.store, prev, state.FutureMaxLoad)
		}
		if !future.Add(size).IsLessOrEqual(capacity) {
			return NotFulfilled
		}
	case newAct.IsDelivery():
		var past model.Size
		if prev.IsStart() {
			past = state.SizeOrZero(c.store, ctx.Route, state.LoadAtBeginning)
		} else {
			past, _ = state.GetActivity(c.store, prev, state.PastMaxLoad)
		}
		if !past.Add(size).IsLessOrEqual(capacity) {
			return NotFulfilledBreak
		}
	}
	return Fulfilled
}

// ShipmentLoadActivityConstraint checks multi-stop jobs by tracking what the
// vehicle carries for the job between its activities. Once an existing
// activity overflows with that extra load, every later position carries the
// load past it too, so the scan stops.
type ShipmentLoadActivityConstraint struct {
	store *state.Store
}

func (c *ShipmentLoadActivityConstraint) Fulfilled(ctx *InsertionContext, _, newAct, _ *route.Activity, _ float64) Status {
	if !newAct.IsShipment() {
		return Fulfilled
	}
	capacity := ctx.NewVehicle.Capacity()
	atPrev := c.existingLoadBefore(ctx).Add(ctx.CarriedLoad())
	if len(ctx.Placed) > 0 && !atPrev.IsLessOrEqual(capacity) {
		return NotFulfilledBreak
	}
	if !atPrev.Add(newAct.LoadChange()).IsLessOrEqual(capacity) {
		return NotFulfilled
	}
	return Fulfilled
}

// existingLoadBefore is the load after the route activity preceding the
// insertion index, ignoring the job under evaluation.
func (c *ShipmentLoadActivityConstraint) existingLoadBefore(ctx *InsertionContext) model.Size {
	if ctx.Index == 0 {
		return state.SizeOrZero(c.store, ctx.Route, state.LoadAtBeginning)
	}
	load, _ := state.GetActivity(c.store, ctx.Route.At(ctx.Index-1), state.Load)
	return load
}
