// Package opt builds and repairs solutions with the insertion calculator.
package opt

import (
	"errors"
	"fmt"
	"math"

	"vrpengine/internal/cost"
	"vrpengine/internal/model"
	"vrpengine/internal/route"
)

var (
	ErrNoVehicles   = errors.New("problem has no vehicles")
	ErrDuplicateJob = errors.New("duplicate job id")
)

// Problem is the static input of the engine. Transport and Activity default
// to Euclidean distances at unit speed and waiting-time costs.
type Problem struct {
	Jobs      []*model.Job
	Vehicles  []*model.Vehicle
	Transport cost.TransportCosts
	Activity  cost.ActivityCosts
}

func (p *Problem) validate() error {
	if len(p.Vehicles) == 0 {
		return ErrNoVehicles
	}
	seen := make(map[string]bool, len(p.Jobs))
	for _, j := range p.Jobs {
		if j == nil {
			return fmt.Errorf("%w: nil job", model.ErrInvalidJob)
		}
		if seen[j.ID()] {
			return fmt.Errorf("%w: %s", ErrDuplicateJob, j.ID())
		}
		seen[j.ID()] = true
	}
	if p.Transport == nil {
		p.Transport = cost.NewEuclidean(1)
	}
	if p.Activity == nil {
		p.Activity = cost.WaitingTimeCosts{}
	}
	return nil
}

type Solution struct {
	Routes     []*route.Route
	Unassigned []*model.Job
}

// NumAssigned counts the jobs on all routes.
func (s *Solution) NumAssigned() int {
	n := 0
	for _, r := range s.Routes {
		n += len(r.Jobs())
	}
	return n
}

// RouteCost is the fixed cost of the vehicle plus travel and activity costs
// along r when driven as early as possible. Empty routes cost nothing.
func RouteCost(r *route.Route, tc cost.TransportCosts, ac cost.ActivityCosts) float64 {
	if r.IsEmpty() {
		return 0
	}
	v, d := r.Vehicle(), r.Driver()
	total := v.Type().FixedCost()
	prev, dep := r.Start(), r.DepartureTime()
	for _, a := range r.Activities() {
		arr := dep + tc.TransportTime(prev.Location(), a.Location(), dep, d, v)
		total += tc.TransportCost(prev.Location(), a.Location(), dep, d, v) + ac.ActivityCost(a, arr, d, v)
		dep = math.Max(arr, a.TheoreticalEarliest) + ac.ActivityDuration(a, arr, d, v)
		prev = a
	}
	if v.ReturnToDepot() {
		total += tc.TransportCost(prev.Location(), r.End().Location(), dep, d, v)
	}
	return total
}
