package state

import (
	"math"

	"vrpengine/internal/cost"
	"vrpengine/internal/model"
	"vrpengine/internal/route"
)

// UpdateActivityTimes schedules each activity as early as possible from the
// route's departure time.
type UpdateActivityTimes struct {
	tc      cost.TransportCosts
	ac      cost.ActivityCosts
	r       *route.Route
	prev    *route.Activity
	prevEnd float64
}

func NewUpdateActivityTimes(tc cost.TransportCosts, ac cost.ActivityCosts) *UpdateActivityTimes {
	return &UpdateActivityTimes{tc: tc, ac: ac}
}

func (u *UpdateActivityTimes) Begin(r *route.Route) {
	u.r = r
	u.prev = r.Start()
	u.prevEnd = r.DepartureTime()
	r.Start().EndTime = u.prevEnd
}

func (u *UpdateActivityTimes) Visit(a *route.Activity) {
	v, d := u.r.Vehicle(), u.r.Driver()
	a.ArrTime = u.prevEnd + u.tc.TransportTime(u.prev.Location(), a.Location(), u.prevEnd, d, v)
	begin := math.Max(a.ArrTime, a.TheoreticalEarliest)
	a.EndTime = begin + u.ac.ActivityDuration(a, a.ArrTime, d, v)
	u.prev, u.prevEnd = a, a.EndTime
}

func (u *UpdateActivityTimes) Finish() {
	end := u.r.End()
	end.ArrTime = u.prevEnd
	if u.r.Vehicle().ReturnToDepot() {
		end.ArrTime += u.tc.TransportTime(u.prev.Location(), end.Location(), u.prevEnd, u.r.Driver(), u.r.Vehicle())
	}
	end.EndTime = end.ArrTime
	u.r, u.prev = nil, nil
}

// UpdatePracticalTimeWindows walks backwards from the route end and stores,
// per activity, the latest operation start that still lets the vehicle serve
// every later activity and arrive in time.
type UpdatePracticalTimeWindows struct {
	store  *Store
	tc     cost.TransportCosts
	ac     cost.ActivityCosts
	r      *route.Route
	prev   *route.Activity
	latest float64
}

func NewUpdatePracticalTimeWindows(s *Store, tc cost.TransportCosts, ac cost.ActivityCosts) *UpdatePracticalTimeWindows {
	return &UpdatePracticalTimeWindows{store: s, tc: tc, ac: ac}
}

func (u *UpdatePracticalTimeWindows) Begin(r *route.Route) {
	u.r = r
	u.prev = r.End()
	u.latest = r.Vehicle().LatestArrival()
}

func (u *UpdatePracticalTimeWindows) Visit(a *route.Activity) {
	v, d := u.r.Vehicle(), u.r.Driver()
	travels := !u.prev.IsEnd() || v.ReturnToDepot()
	latest := latestOperationStart(u.tc, u.ac, a, u.prev.Location(), travels, u.latest, d, v)
	PutActivity(u.store, a, LatestOperationStart, latest)
	u.prev, u.latest = a, latest
}

func (u *UpdatePracticalTimeWindows) Finish() {
	u.r, u.prev = nil, nil
	u.latest = model.Eternity.End
}

// LatestStartsFor returns, by route position, the latest operation start of
// every activity of r as if v and d served the route.
func LatestStartsFor(r *route.Route, v *model.Vehicle, d *model.Driver, tc cost.TransportCosts, ac cost.ActivityCosts) []float64 {
	out := make([]float64, r.Len())
	latest := v.LatestArrival()
	nextLoc := v.EndLocation()
	travels := v.ReturnToDepot()
	for i := r.Len() - 1; i >= 0; i-- {
		a := r.At(i)
		latest = latestOperationStart(tc, ac, a, nextLoc, travels, latest, d, v)
		out[i] = latest
		nextLoc, travels = a.Location(), true
	}
	return out
}

// latestOperationStart is the latest start at a that still reaches nextLoc by
// latestNext.
func latestOperationStart(tc cost.TransportCosts, ac cost.ActivityCosts, a *route.Activity, nextLoc model.Location, travels bool, latestNext float64, d *model.Driver, v *model.Vehicle) float64 {
	var travel float64
	if travels {
		travel = tc.TransportTime(a.Location(), nextLoc, latestNext, d, v)
	}
	potential := latestNext - travel - ac.ActivityDuration(a, latestNext, d, v)
	return math.Min(a.TheoreticalLatest, potential)
}
