package route

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"vrpengine/internal/model"
)

// Route is the ordered sequence of activities served by one vehicle and driver.
// Start and end are kept apart from the job activities.
type Route struct {
	id         string
	vehicle    *model.Vehicle
	driver     *model.Driver
	departure  float64
	start      *Activity
	end        *Activity
	activities []*Activity
}

// New returns an empty route for v departing as early as v allows.
func New(v *model.Vehicle, d *model.Driver) *Route {
	if d == nil {
		d = model.NoDriver
	}
	r := &Route{id: uuid.NewString(), driver: d}
	r.SetVehicleAndDepartureTime(v, v.EarliestStart())
	return r
}

// SetVehicleAndDepartureTime reassigns the vehicle; departure is clamped to
// the vehicle's operating window.
func (r *Route) SetVehicleAndDepartureTime(v *model.Vehicle, departure float64) {
	r.vehicle = v
	r.departure = math.Min(math.Max(departure, v.EarliestStart()), v.LatestArrival())
	if r.start == nil {
		r.start = NewStart(v.StartLocation(), v.EarliestStart(), v.LatestArrival())
	} else {
		r.start.location = v.StartLocation()
		r.start.TheoreticalEarliest = v.EarliestStart()
		r.start.TheoreticalLatest = v.LatestArrival()
	}
	r.start.EndTime = r.departure
	if r.end == nil {
		r.end = NewEnd(v.EndLocation(), 0, v.LatestArrival())
	} else {
		r.end.location = v.EndLocation()
		r.end.TheoreticalLatest = v.LatestArrival()
	}
}

func (r *Route) SetDriver(d *model.Driver) { r.driver = d }

func (r *Route) ID() string              { return r.id }
func (r *Route) Vehicle() *model.Vehicle { return r.vehicle }
func (r *Route) Driver() *model.Driver   { return r.driver }
func (r *Route) DepartureTime() float64  { return r.departure }
func (r *Route) Start() *Activity        { return r.start }
func (r *Route) End() *Activity          { return r.end }
func (r *Route) Len() int                { return len(r.activities) }
func (r *Route) IsEmpty() bool           { return len(r.activities) == 0 }

// At returns the i-th job activity.
func (r *Route) At(i int) *Activity { return r.activities[i] }

// Activities returns the job activities in route order, boundaries excluded.
// The returned slice must not be modified.
func (r *Route) Activities() []*Activity { return r.activities }

// Insert places a at position i, shifting later activities up.
func (r *Route) Insert(i int, a *Activity) error {
	if a == nil || a.IsBoundary() {
		return fmt.Errorf("route %s: cannot insert %v", r.id, a)
	}
	if i < 0 || i > len(r.activities) {
		return fmt.Errorf("route %s: insert index %d out of range [0,%d]", r.id, i, len(r.activities))
	}
	r.activities = append(r.activities, nil)
	copy(r.activities[i+1:], r.activities[i:])
	r.activities[i] = a
	return nil
}

// RemoveJob deletes every activity of j and reports whether any was present.
func (r *Route) RemoveJob(j *model.Job) bool {
	kept := r.activities[:0]
	removed := false
	for _, a := range r.activities {
		if a.job != nil && a.job.ID() == j.ID() {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	for i := len(kept); i < len(r.activities); i++ {
		r.activities[i] = nil
	}
	r.activities = kept
	return removed
}

// Jobs lists the distinct jobs on the route in order of first appearance.
func (r *Route) Jobs() []*model.Job {
	seen := map[string]bool{}
	var out []*model.Job
	for _, a := range r.activities {
		if a.job == nil || seen[a.job.ID()] {
			continue
		}
		seen[a.job.ID()] = true
		out = append(out, a.job)
	}
	return out
}

func (r *Route) ContainsJob(j *model.Job) bool {
	for _, a := range r.activities {
		if a.job != nil && a.job.ID() == j.ID() {
			return true
		}
	}
	return false
}

// Previous returns the activity before position i, the start for i == 0.
func (r *Route) Previous(i int) *Activity {
	if i == 0 {
		return r.start
	}
	return r.activities[i-1]
}

// Next returns the activity at position i, the end when i == Len().
func (r *Route) Next(i int) *Activity {
	if i >= len(r.activities) {
		return r.end
	}
	return r.activities[i]
}

func (r *Route) String() string {
	return fmt.Sprintf("route %s vehicle=%s acts=%d", r.id, r.vehicle, len(r.activities))
}
