package state

import (
	"vrpengine/internal/metrics"
	"vrpengine/internal/model"
	"vrpengine/internal/route"
)

// UpdateLoads maintains the load after every activity and the route's load at
// beginning and end. It must be registered both as a listener and as a
// forward visitor: the visitor reads the route states the listener writes.
type UpdateLoads struct {
	store   *Store
	current model.Size
}

func NewUpdateLoads(s *Store) *UpdateLoads { return &UpdateLoads{store: s} }

func (u *UpdateLoads) Begin(r *route.Route) {
	u.current = SizeOrZero(u.store, r, LoadAtBeginning)
}

func (u *UpdateLoads) Visit(a *route.Activity) {
	u.current = u.current.Add(a.LoadChange())
	PutActivity(u.store, a, Load, u.current)
}

func (u *UpdateLoads) Finish() { u.current = model.Size{} }

func (u *UpdateLoads) Handle(e Event) {
	switch e.Kind {
	case InsertionStarts:
		for _, r := range e.Routes {
			u.rescan(r)
		}
	case JobInserted:
		u.jobInserted(e.Job, e.Route)
	case RouteChanged:
		u.rescan(e.Route)
	}
}

// rescan recomputes the route-level loads from the jobs currently on r.
func (u *UpdateLoads) rescan(r *route.Route) {
	start, end := RouteLoads(r)
	PutRoute(u.store, r, LoadAtBeginning, start)
	PutRoute(u.store, r, LoadAtEnd, end)
	metrics.StateRescans.Inc()
}

func (u *UpdateLoads) jobInserted(j *model.Job, r *route.Route) {
	switch j.Kind() {
	case model.DeliveryJob:
		PutRoute(u.store, r, LoadAtBeginning, SizeOrZero(u.store, r, LoadAtBeginning).Add(j.Size()))
	case model.PickupJob, model.ServiceJob:
		PutRoute(u.store, r, LoadAtEnd, SizeOrZero(u.store, r, LoadAtEnd).Add(j.Size()))
	}
}

// RouteLoads sums delivery sizes into the load at beginning and pickup and
// service sizes into the load at end.
func RouteLoads(r *route.Route) (atBeginning, atEnd model.Size) {
	for _, j := range r.Jobs() {
		switch j.Kind() {
		case model.DeliveryJob:
			atBeginning = atBeginning.Add(j.Size())
		case model.PickupJob, model.ServiceJob:
			atEnd = atEnd.Add(j.Size())
		}
	}
	return atBeginning, atEnd
}

// UpdateMaxLoad writes the maximum load seen so far at each activity and the
// route-wide maximum once the walk is done. Register it after UpdateLoads.
type UpdateMaxLoad struct {
	store *Store
	r     *route.Route
	max   model.Size
}

func NewUpdateMaxLoad(s *Store) *UpdateMaxLoad { return &UpdateMaxLoad{store: s} }

func (u *UpdateMaxLoad) Begin(r *route.Route) {
	u.r = r
	u.max = SizeOrZero(u.store, r, LoadAtBeginning)
}

func (u *UpdateMaxLoad) Visit(a *route.Activity) {
	load, _ := GetActivity(u.store, a, Load)
	u.max = u.max.Max(load)
	PutActivity(u.store, a, PastMaxLoad, u.max)
}

func (u *UpdateMaxLoad) Finish() {
	PutRoute(u.store, u.r, MaxLoad, u.max)
	u.r, u.max = nil, model.Size{}
}

// UpdateFutureMaxLoad walks backwards and writes the maximum load still ahead
// of each activity.
type UpdateFutureMaxLoad struct {
	store *Store
	max   model.Size
}

func NewUpdateFutureMaxLoad(s *Store) *UpdateFutureMaxLoad { return &UpdateFutureMaxLoad{store: s} }

func (u *UpdateFutureMaxLoad) Begin(r *route.Route) {
	u.max = SizeOrZero(u.store, r, LoadAtEnd)
}

func (u *UpdateFutureMaxLoad) Visit(a *route.Activity) {
	load, _ := GetActivity(u.store, a, Load)
	u.max = u.max.Max(load)
	PutActivity(u.store, a, FutureMaxLoad, u.max)
}

func (u *UpdateFutureMaxLoad) Finish() { u.max = model.Size{} }
