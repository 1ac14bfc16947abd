// Package report schedules solutions and writes them as JSON.
package report

import (
	"encoding/json"
	"io"
	"math"

	"vrpengine/internal/cost"
	"vrpengine/internal/opt"
	"vrpengine/internal/route"
)

type StopOut struct {
	JobID     string  `json:"jobId"`
	Kind      string  `json:"kind"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Arrival   float64 `json:"arrival"`
	Departure float64 `json:"departure"`
}

type RouteOut struct {
	ID        string    `json:"id"`
	VehicleID string    `json:"vehicleId"`
	Departure float64   `json:"departure"`
	Cost      float64   `json:"cost"`
	Stops     []StopOut `json:"stops"`
}

type SolutionOut struct {
	Cost       float64    `json:"cost"`
	Routes     []RouteOut `json:"routes"`
	Unassigned []string   `json:"unassigned"`
}

// Report schedules every route as early as possible.
func Report(sol *opt.Solution, tc cost.TransportCosts, ac cost.ActivityCosts) SolutionOut {
	out := SolutionOut{Routes: []RouteOut{}, Unassigned: []string{}}
	for _, r := range sol.Routes {
		ro := reportRoute(r, tc, ac)
		out.Cost += ro.Cost
		out.Routes = append(out.Routes, ro)
	}
	for _, j := range sol.Unassigned {
		out.Unassigned = append(out.Unassigned, j.ID())
	}
	return out
}

func reportRoute(r *route.Route, tc cost.TransportCosts, ac cost.ActivityCosts) RouteOut {
	v, d := r.Vehicle(), r.Driver()
	ro := RouteOut{
		ID:        r.ID(),
		VehicleID: v.ID(),
		Departure: r.DepartureTime(),
		Cost:      opt.RouteCost(r, tc, ac),
		Stops:     make([]StopOut, 0, r.Len()),
	}
	prev, dep := r.Start(), r.DepartureTime()
	for _, a := range r.Activities() {
		arr := dep + tc.TransportTime(prev.Location(), a.Location(), dep, d, v)
		dep = math.Max(arr, a.TheoreticalEarliest) + ac.ActivityDuration(a, arr, d, v)
		c := a.Location().Coord
		ro.Stops = append(ro.Stops, StopOut{JobID: a.Job().ID(), Kind: a.Kind().String(), X: c.X, Y: c.Y, Arrival: arr, Departure: dep})
		prev = a
	}
	return ro
}

func Encode(w io.Writer, s SolutionOut) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
