package constraint

import (
	"math"

	"vrpengine/internal/cost"
	"vrpengine/internal/model"
	"vrpengine/internal/route"
	"vrpengine/internal/state"
)

// TimeWindowConstraint rejects positions where the new activity cannot start
// in its window or would push the next activity past its latest start.
type TimeWindowConstraint struct {
	store *state.Store
	tc    cost.TransportCosts
	ac    cost.ActivityCosts
}

func NewTimeWindowConstraint(s *state.Store, tc cost.TransportCosts, ac cost.ActivityCosts) *TimeWindowConstraint {
	return &TimeWindowConstraint{store: s, tc: tc, ac: ac}
}

func (c *TimeWindowConstraint) Fulfilled(ctx *InsertionContext, prev, newAct, next *route.Activity, prevDep float64) Status {
	v, d := ctx.NewVehicle, ctx.NewDriver
	latestVehicleArrival := v.LatestArrival()

	var (
		latestAtNext float64
		nextLoc      model.Location
	)
	if next.IsEnd() {
		latestAtNext = latestVehicleArrival
		nextLoc = v.EndLocation()
		if !v.ReturnToDepot() {
			nextLoc = newAct.Location()
		}
	} else {
		latestAtNext = ctx.LatestStart(c.store, ctx.Index, next)
		nextLoc = next.Location()
	}

	if latestVehicleArrival < prev.TheoreticalEarliest ||
		latestVehicleArrival < newAct.TheoreticalEarliest ||
		latestVehicleArrival < next.TheoreticalEarliest {
		return NotFulfilledBreak
	}
	if newAct.TheoreticalLatest < prev.TheoreticalEarliest {
		return NotFulfilledBreak
	}

	arrAtNew := prevDep + c.tc.TransportTime(prev.Location(), newAct.Location(), prevDep, d, v)
	duration := c.ac.ActivityDuration(newAct, arrAtNew, d, v)
	endAtNew := math.Max(arrAtNew, newAct.TheoreticalEarliest) + duration

	if arrAtNew > newAct.TheoreticalLatest {
		return NotFulfilledBreak
	}
	latestAtNew := math.Min(newAct.TheoreticalLatest,
		latestAtNext-c.tc.TransportTime(newAct.Location(), nextLoc, latestAtNext, d, v)-duration)
	if arrAtNew > latestAtNew {
		return NotFulfilled
	}
	if next.IsEnd() && !v.ReturnToDepot() {
		return Fulfilled
	}
	arrAtNext := endAtNew + c.tc.TransportTime(newAct.Location(), nextLoc, endAtNew, d, v)
	if arrAtNext > latestAtNext {
		return NotFulfilled
	}
	return Fulfilled
}

// SkillsConstraint requires the candidate vehicle to carry every skill the job needs.
type SkillsConstraint struct{}

func (SkillsConstraint) Fulfilled(ctx *InsertionContext) bool {
	return ctx.NewVehicle.Skills().ContainsAll(ctx.Job.Skills())
}
