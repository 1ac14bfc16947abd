package insertion

import (
	"math"

	"vrpengine/internal/constraint"
	"vrpengine/internal/cost"
	"vrpengine/internal/metrics"
	"vrpengine/internal/model"
	"vrpengine/internal/route"
	"vrpengine/internal/state"
)

// JobInsertionCalculator prices the insertion of a job into a route with a
// candidate vehicle. bestKnown is a cutoff: combinations that cannot beat it
// may be abandoned. Implementations must not mutate r.
type JobInsertionCalculator interface {
	InsertionData(r *route.Route, j *model.Job, v *model.Vehicle, departure float64, d *model.Driver, bestKnown float64) *Data
}

// Calculator searches every order-preserving combination of positions for the
// job's activities and keeps the cheapest feasible one.
type Calculator struct {
	tc    cost.TransportCosts
	ac    cost.ActivityCosts
	cm    *constraint.Manager
	store *state.Store
}

func NewCalculator(tc cost.TransportCosts, ac cost.ActivityCosts, cm *constraint.Manager, s *state.Store) *Calculator {
	if cm == nil {
		cm = constraint.NewManager()
	}
	if s == nil {
		s = state.NewStore()
	}
	return &Calculator{tc: tc, ac: ac, cm: cm, store: s}
}

func (c *Calculator) InsertionData(r *route.Route, j *model.Job, v *model.Vehicle, departure float64, d *model.Driver, bestKnown float64) *Data {
	if d == nil {
		d = model.NoDriver
	}
	departure = math.Max(departure, v.EarliestStart())
	ctx := &constraint.InsertionContext{
		Route:            r,
		Job:              j,
		NewVehicle:       v,
		NewDriver:        d,
		NewDepartureTime: departure,
	}
	if !c.cm.RouteFulfilled(ctx) {
		metrics.InsertionEvaluations.WithLabelValues("infeasible").Inc()
		return NoInsertion()
	}
	if c.cm.ChecksTimeWindows() && !r.IsEmpty() && !v.Same(r.Vehicle()) {
		ctx.LatestStarts = state.LatestStartsFor(r, v, d, c.tc, c.ac)
	}

	start := route.NewStart(v.StartLocation(), v.EarliestStart(), v.LatestArrival())
	start.EndTime = departure
	s := &search{
		c:        c,
		ctx:      ctx,
		r:        r,
		v:        v,
		d:        d,
		acts:     route.NewActivities(j),
		end:      route.NewEnd(v.EndLocation(), 0, v.LatestArrival()),
		bound:    bestKnown,
		bestCost: math.MaxFloat64,
	}
	s.place(0, 0, start, departure, 0, 0)
	if s.best == nil {
		metrics.InsertionEvaluations.WithLabelValues("infeasible").Inc()
		return NoInsertion()
	}
	metrics.InsertionEvaluations.WithLabelValues("feasible").Inc()

	events := make([]Event, 0, len(s.best)+1)
	for k := len(s.best) - 1; k >= 0; k-- {
		events = append(events, InsertActivity{Activity: s.best[k].Activity, Index: s.best[k].Index})
	}
	if !v.Same(r.Vehicle()) || departure != r.DepartureTime() {
		events = append(events, SwitchVehicle{Vehicle: v, Driver: d, DepartureTime: departure})
	}
	return &Data{
		cost:           s.bestCost,
		vehicle:        v,
		driver:         d,
		departure:      departure,
		additionalTime: s.bestTime,
		events:         events,
	}
}

// search holds the state of one InsertionData call.
type search struct {
	c     *Calculator
	ctx   *constraint.InsertionContext
	r     *route.Route
	v     *model.Vehicle
	d     *model.Driver
	acts  []*route.Activity
	end   *route.Activity
	bound float64

	best     []constraint.Placed
	bestCost float64
	bestTime float64
}

// place scans positions from..Len() for activity k. prev is the activity
// preceding position from and prevDep its departure time.
func (s *search) place(k, from int, prev *route.Activity, prevDep, costSoFar, timeSoFar float64) {
	newAct := s.acts[k]
	windows := newAct.TimeWindows().Windows()
	n := s.r.Len()
	for i := from; i <= n; i++ {
		next := s.r.Next(i)
		if i == n {
			next = s.end
		}
		s.ctx.Index = i
		broken := 0
		for _, w := range windows {
			cand := newAct
			if len(windows) > 1 {
				cand = newAct.WithTimeWindow(w)
			}
			switch s.c.cm.ActivityFulfilled(s.ctx, prev, cand, next, prevDep) {
			case constraint.NotFulfilledBreak:
				broken++
				continue
			case constraint.NotFulfilled:
				continue
			}
			mc, mt, endAt := s.c.marginal(prev, cand, next, prevDep, s.v, s.d)
			total := costSoFar + mc
			last := k == len(s.acts)-1
			// marginals can be negative, so only complete combinations are cut off
			if last && (total >= s.bestCost || total >= s.bound) {
				continue
			}
			s.ctx.Placed = append(s.ctx.Placed, constraint.Placed{Activity: cand, Index: i, EndTime: endAt})
			if last {
				s.bestCost = total
				s.bestTime = timeSoFar + mt
				s.best = append(s.best[:0], s.ctx.Placed...)
			} else {
				s.place(k+1, i, cand, endAt, total, timeSoFar+mt)
			}
			s.ctx.Placed = s.ctx.Placed[:len(s.ctx.Placed)-1]
			s.ctx.Index = i
		}
		if broken == len(windows) || i == n {
			break
		}
		// move past the existing activity at i, with the job's earlier activities already in place
		arr := prevDep + s.c.tc.TransportTime(prev.Location(), next.Location(), prevDep, s.d, s.v)
		if s.c.cm.ChecksTimeWindows() && arr > s.ctx.LatestStart(s.c.store, i, next) {
			break
		}
		prevDep = math.Max(arr, next.TheoreticalEarliest) + s.c.ac.ActivityDuration(next, arr, s.d, s.v)
		prev = next
	}
}

// marginal prices putting newAct between prev and next relative to the direct
// prev-next leg. It returns the extra cost, the extra time and the end time
// at newAct.
func (c *Calculator) marginal(prev, newAct, next *route.Activity, prevDep float64, v *model.Vehicle, d *model.Driver) (float64, float64, float64) {
	ttPN := c.tc.TransportTime(prev.Location(), newAct.Location(), prevDep, d, v)
	arrNew := prevDep + ttPN
	endNew := math.Max(arrNew, newAct.TheoreticalEarliest) + c.ac.ActivityDuration(newAct, arrNew, d, v)
	costs := c.tc.TransportCost(prev.Location(), newAct.Location(), prevDep, d, v) + c.ac.ActivityCost(newAct, arrNew, d, v)
	if next.IsEnd() && !v.ReturnToDepot() {
		return costs, endNew - prevDep, endNew
	}

	ttNX := c.tc.TransportTime(newAct.Location(), next.Location(), endNew, d, v)
	arrNext := endNew + ttNX
	costs += c.tc.TransportCost(newAct.Location(), next.Location(), endNew, d, v) + c.ac.ActivityCost(next, arrNext, d, v)

	ttPX := c.tc.TransportTime(prev.Location(), next.Location(), prevDep, d, v)
	arrNextOld := prevDep + ttPX
	old := c.tc.TransportCost(prev.Location(), next.Location(), prevDep, d, v) + c.ac.ActivityCost(next, arrNextOld, d, v)
	return costs - old, arrNext - arrNextOld, endNew
}
