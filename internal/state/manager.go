package state

import (
	"fmt"

	"vrpengine/internal/cost"
	"vrpengine/internal/model"
	"vrpengine/internal/route"
)

type EventKind int

const (
	// InsertionStarts opens a construction or repair phase over all routes.
	InsertionStarts EventKind = iota
	// JobInserted follows every applied insertion.
	JobInserted
	// RouteChanged follows any other mutation such as a ruin or a swap.
	RouteChanged
)

func (k EventKind) String() string {
	switch k {
	case InsertionStarts:
		return "insertion_starts"
	case JobInserted:
		return "job_inserted"
	case RouteChanged:
		return "route_changed"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a lifecycle notification. Routes and Unassigned are set for
// InsertionStarts; Job, Route and the additional amounts for JobInserted;
// Route for RouteChanged.
type Event struct {
	Kind           EventKind
	Routes         []*route.Route
	Unassigned     []*model.Job
	Job            *model.Job
	Route          *route.Route
	AdditionalCost float64
	AdditionalTime float64
}

type Listener interface {
	Handle(e Event)
}

type ListenerFunc func(Event)

func (f ListenerFunc) Handle(e Event) { f(e) }

// ActivityVisitor walks the activities of one route.
type ActivityVisitor interface {
	Begin(r *route.Route)
	Visit(a *route.Activity)
	Finish()
}

// Manager owns the store and dispatches lifecycle events: first to listeners
// in registration order, then it re-walks the affected routes with the forward
// visitors and afterwards the reverse visitors.
//
// Informing is the single-writer phase. No insertion evaluation may run
// concurrently with it.
type Manager struct {
	store     *Store
	listeners []Listener
	forward   []ActivityVisitor
	reverse   []ActivityVisitor
}

func NewManager(s *Store) *Manager {
	if s == nil {
		s = NewStore()
	}
	return &Manager{store: s}
}

func (m *Manager) Store() *Store { return m.store }

func (m *Manager) AddListener(l Listener) { m.listeners = append(m.listeners, l) }

// AddVisitor registers v to walk routes from start to end.
func (m *Manager) AddVisitor(v ActivityVisitor) { m.forward = append(m.forward, v) }

// AddReverseVisitor registers v to walk routes from end to start.
func (m *Manager) AddReverseVisitor(v ActivityVisitor) { m.reverse = append(m.reverse, v) }

// UpdateLoadStates registers the load, past/future max load and route max load updaters.
func (m *Manager) UpdateLoadStates() {
	loads := NewUpdateLoads(m.store)
	m.AddListener(loads)
	m.AddVisitor(loads)
	m.AddVisitor(NewUpdateMaxLoad(m.store))
	m.AddReverseVisitor(NewUpdateFutureMaxLoad(m.store))
}

// UpdateTimeWindowStates registers activity timing and practical time window updaters.
func (m *Manager) UpdateTimeWindowStates(tc cost.TransportCosts, ac cost.ActivityCosts) {
	m.AddVisitor(NewUpdateActivityTimes(tc, ac))
	m.AddReverseVisitor(NewUpdatePracticalTimeWindows(m.store, tc, ac))
}

func (m *Manager) InformInsertionStarts(routes []*route.Route, unassigned []*model.Job) {
	m.dispatch(Event{Kind: InsertionStarts, Routes: routes, Unassigned: unassigned})
	for _, r := range routes {
		m.Visit(r)
	}
}

func (m *Manager) InformJobInserted(j *model.Job, r *route.Route, additionalCost, additionalTime float64) {
	m.dispatch(Event{Kind: JobInserted, Job: j, Route: r, AdditionalCost: additionalCost, AdditionalTime: additionalTime})
	m.Visit(r)
}

func (m *Manager) InformRouteChanged(r *route.Route) {
	m.dispatch(Event{Kind: RouteChanged, Route: r})
	m.Visit(r)
}

func (m *Manager) dispatch(e Event) {
	for _, l := range m.listeners {
		l.Handle(e)
	}
}

// Visit re-walks r with all registered visitors.
func (m *Manager) Visit(r *route.Route) {
	if len(m.forward) > 0 {
		for _, v := range m.forward {
			v.Begin(r)
		}
		for _, a := range r.Activities() {
			for _, v := range m.forward {
				v.Visit(a)
			}
		}
		for _, v := range m.forward {
			v.Finish()
		}
	}
	if len(m.reverse) > 0 {
		for _, v := range m.reverse {
			v.Begin(r)
		}
		acts := r.Activities()
		for i := len(acts) - 1; i >= 0; i-- {
			for _, v := range m.reverse {
				v.Visit(acts[i])
			}
		}
		for _, v := range m.reverse {
			v.Finish()
		}
	}
}
