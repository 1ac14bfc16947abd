// Package insertion finds the cheapest feasible way to insert a job into a route.
package insertion

import (
	"fmt"
	"math"

	"vrpengine/internal/model"
	"vrpengine/internal/route"
)

// Event is a route mutation to replay when an insertion is accepted.
type Event interface {
	apply(r *route.Route) error
}

// InsertActivity inserts Activity at Index.
type InsertActivity struct {
	Activity *route.Activity
	Index    int
}

func (e InsertActivity) apply(r *route.Route) error { return r.Insert(e.Index, e.Activity) }

// SwitchVehicle moves the route onto another vehicle.
type SwitchVehicle struct {
	Vehicle       *model.Vehicle
	Driver        *model.Driver
	DepartureTime float64
}

func (e SwitchVehicle) apply(r *route.Route) error {
	r.SetVehicleAndDepartureTime(e.Vehicle, e.DepartureTime)
	r.SetDriver(e.Driver)
	return nil
}

// Data is the immutable result of an insertion query.
type Data struct {
	cost           float64
	vehicle        *model.Vehicle
	driver         *model.Driver
	departure      float64
	additionalTime float64
	events         []Event
}

var noInsertion = &Data{cost: math.MaxFloat64}

// NoInsertion returns the shared result meaning no feasible insertion exists.
func NoInsertion() *Data { return noInsertion }

func (d *Data) Cost() float64           { return d.cost }
func (d *Data) Vehicle() *model.Vehicle { return d.vehicle }
func (d *Data) Driver() *model.Driver   { return d.driver }
func (d *Data) DepartureTime() float64  { return d.departure }
func (d *Data) AdditionalTime() float64 { return d.additionalTime }
func (d *Data) Feasible() bool          { return d != noInsertion }

// Events returns the mutations in replay order.
func (d *Data) Events() []Event {
	out := make([]Event, len(d.events))
	copy(out, d.events)
	return out
}

// InsertEvents returns only the InsertActivity events in replay order.
func (d *Data) InsertEvents() []InsertActivity {
	var out []InsertActivity
	for _, e := range d.events {
		if ia, ok := e.(InsertActivity); ok {
			out = append(out, ia)
		}
	}
	return out
}

// withCost copies d with a different cost.
func (d *Data) withCost(c float64) *Data {
	cp := *d
	cp.cost = c
	return &cp
}

func (d *Data) String() string {
	if !d.Feasible() {
		return "insertion{none}"
	}
	return fmt.Sprintf("insertion{cost=%g vehicle=%s events=%d}", d.cost, d.vehicle, len(d.events))
}

// Apply replays the events of d against r.
func Apply(r *route.Route, d *Data) error {
	if !d.Feasible() {
		return fmt.Errorf("apply to %s: no insertion", r.ID())
	}
	for _, e := range d.events {
		if err := e.apply(r); err != nil {
			return fmt.Errorf("apply to %s: %w", r.ID(), err)
		}
	}
	return nil
}
