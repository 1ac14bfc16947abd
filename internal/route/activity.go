package route

import (
	"fmt"

	"vrpengine/internal/model"
)

// Activity is one stop of a route. The template fields are fixed at creation;
// the timing fields are rewritten by state updaters and schedulers.
type Activity struct {
	kind     model.ActivityKind
	job      *model.Job
	location model.Location
	duration float64
	change   model.Size
	windows  model.TimeWindows

	ArrTime             float64
	EndTime             float64
	TheoreticalEarliest float64
	TheoreticalLatest   float64
}

// NewActivities creates one fresh activity per activity of j, in job order.
func NewActivities(j *model.Job) []*Activity {
	tmpls := j.Activities()
	out := make([]*Activity, len(tmpls))
	for i, s := range tmpls {
		out[i] = &Activity{
			kind:                s.Kind,
			job:                 j,
			location:            s.Location,
			duration:            s.Duration,
			change:              s.LoadChange,
			windows:             s.TimeWindows,
			TheoreticalEarliest: s.TimeWindows.Earliest(),
			TheoreticalLatest:   s.TimeWindows.Latest(),
		}
	}
	return out
}

// NewStart creates the start pseudo-activity of a route.
func NewStart(loc model.Location, earliest, latest float64) *Activity {
	return &Activity{
		kind:                model.StartActivity,
		location:            loc,
		windows:             model.AnyTime(),
		TheoreticalEarliest: earliest,
		TheoreticalLatest:   latest,
		EndTime:             earliest,
	}
}

// NewEnd creates the end pseudo-activity of a route.
func NewEnd(loc model.Location, earliest, latest float64) *Activity {
	return &Activity{
		kind:                model.EndActivity,
		location:            loc,
		windows:             model.AnyTime(),
		TheoreticalEarliest: earliest,
		TheoreticalLatest:   latest,
	}
}

// Clone returns an independent copy carrying the current timing state.
func (a *Activity) Clone() *Activity {
	c := *a
	return &c
}

// WithTimeWindow returns a copy of a restricted to the single window w.
func (a *Activity) WithTimeWindow(w model.TimeWindow) *Activity {
	c := a.Clone()
	c.TheoreticalEarliest = w.Start
	c.TheoreticalLatest = w.End
	return c
}

func (a *Activity) Kind() model.ActivityKind       { return a.kind }
func (a *Activity) Job() *model.Job                { return a.job }
func (a *Activity) Location() model.Location       { return a.location }
func (a *Activity) Duration() float64              { return a.duration }
func (a *Activity) LoadChange() model.Size         { return a.change }
func (a *Activity) TimeWindows() model.TimeWindows { return a.windows }

func (a *Activity) IsBoundary() bool {
	return a.kind == model.StartActivity || a.kind == model.EndActivity
}

func (a *Activity) IsStart() bool { return a.kind == model.StartActivity }
func (a *Activity) IsEnd() bool   { return a.kind == model.EndActivity }

// JobKind reports the kind of the owning job; ok is false for route boundaries.
func (a *Activity) JobKind() (model.JobKind, bool) {
	if a.job == nil {
		return 0, false
	}
	return a.job.Kind(), true
}

// IsShipment reports whether the activity belongs to a multi-stop job.
func (a *Activity) IsShipment() bool { return a.job != nil && a.job.IsShipment() }

// IsPickup reports a pickup of a shipment or a stand-alone pickup job.
func (a *Activity) IsPickup() bool { return a.kind == model.PickupActivity }

// IsDelivery reports a delivery of a shipment or a stand-alone delivery job.
func (a *Activity) IsDelivery() bool { return a.kind == model.DeliveryActivity }

func (a *Activity) IsService() bool  { return a.kind == model.ServiceActivity }
func (a *Activity) IsExchange() bool { return a.kind == model.ExchangeActivity }

// IsServiceDelivery is a delivery of a single-stop delivery job.
func (a *Activity) IsServiceDelivery() bool { return a.IsDelivery() && !a.IsShipment() }

// IsServicePickup is a pickup or service of a single-stop job.
func (a *Activity) IsServicePickup() bool {
	return (a.IsPickup() || a.IsService()) && !a.IsShipment()
}

func (a *Activity) IsShipmentPickup() bool   { return a.IsPickup() && a.IsShipment() }
func (a *Activity) IsShipmentDelivery() bool { return (a.IsDelivery() || a.IsExchange()) && a.IsShipment() }

func (a *Activity) String() string {
	if a.job == nil {
		return fmt.Sprintf("%s@%s", a.kind, a.location)
	}
	return fmt.Sprintf("%s(%s)@%s", a.kind, a.job.ID(), a.location)
}
