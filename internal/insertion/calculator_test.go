package insertion

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vrpengine/internal/constraint"
	"vrpengine/internal/cost"
	"vrpengine/internal/model"
	"vrpengine/internal/route"
	"vrpengine/internal/state"
)

type env struct {
	tc   cost.TransportCosts
	ac   cost.ActivityCosts
	sm   *state.Manager
	cm   *constraint.Manager
	calc *Calculator
}

func newEnv() *env {
	e := &env{tc: cost.NewManhattan(1), ac: cost.WaitingTimeCosts{}}
	e.sm = state.NewManager(nil)
	e.cm = constraint.NewManager()
	e.calc = NewCalculator(e.tc, e.ac, e.cm, e.sm.Store())
	return e
}

func (e *env) withLoads() *env {
	e.sm.UpdateLoadStates()
	e.cm.AddLoadConstraints(e.sm.Store())
	return e
}

func (e *env) withTimeWindows() *env {
	e.sm.UpdateTimeWindowStates(e.tc, e.ac)
	e.cm.AddTimeWindowConstraint(e.sm.Store(), e.tc, e.ac)
	return e
}

func vehicle(t *testing.T, id string, capacity model.Size, opts ...model.VehicleOption) *model.Vehicle {
	t.Helper()
	typ, err := model.NewVehicleType("t-"+id, capacity)
	require.NoError(t, err)
	v, err := model.NewVehicle(id, typ, model.LocationAt(0, 0), opts...)
	require.NoError(t, err)
	return v
}

func shipment(t *testing.T, id string, px, py, dx, dy float64) *model.Job {
	t.Helper()
	j, err := model.NewShipment(id,
		model.Stop{Location: model.LocationAt(px, py)},
		model.Stop{Location: model.LocationAt(dx, dy)},
		model.WithSize(model.NewSize(1)))
	require.NoError(t, err)
	return j
}

// buildRoute inserts acts in the given order.
func buildRoute(t *testing.T, v *model.Vehicle, acts ...*route.Activity) *route.Route {
	t.Helper()
	r := route.New(v, model.NoDriver)
	for i, a := range acts {
		require.NoError(t, r.Insert(i, a))
	}
	return r
}

func indices(d *Data) []int {
	var out []int
	for _, e := range d.InsertEvents() {
		out = append(out, e.Index)
	}
	return out
}

func TestShipment_IntoEmptyRoute(t *testing.T) {
	e := newEnv()
	v := vehicle(t, "v", model.NewSize(2))
	r := route.New(v, model.NoDriver)
	j := shipment(t, "s1", 0, 10, 10, 0)

	d := e.calc.InsertionData(r, j, v, 0, model.NoDriver, math.MaxFloat64)
	require.True(t, d.Feasible())
	assert.Equal(t, 40.0, d.Cost())
	assert.Equal(t, []int{0, 0}, indices(d))
	assert.Same(t, v, d.Vehicle())
	assert.Len(t, d.Events(), 2, "same vehicle needs no switch")

	require.NoError(t, Apply(r, d))
	require.Equal(t, 2, r.Len())
	assert.True(t, r.At(0).IsPickup())
	assert.True(t, r.At(1).IsDelivery())
}

func TestShipment_OnPathCostsNothing(t *testing.T) {
	e := newEnv()
	v := vehicle(t, "v", model.NewSize(2))
	s1 := shipment(t, "s1", 0, 10, 10, 0)
	a1 := route.NewActivities(s1)
	r := buildRoute(t, v, a1[0], a1[1])
	e.sm.InformInsertionStarts([]*route.Route{r}, nil)

	s2 := shipment(t, "s2", 10, 10, 0, 0)
	d := e.calc.InsertionData(r, s2, v, 0, model.NoDriver, math.MaxFloat64)
	require.True(t, d.Feasible())
	assert.Equal(t, 0.0, d.Cost())
	assert.Equal(t, []int{2, 1}, indices(d), "delivery event first, both indexed against the unmodified route")

	require.NoError(t, Apply(r, d))
	var got []string
	for _, a := range r.Activities() {
		got = append(got, fmt.Sprintf("%s:%s", a.Job().ID(), a.Kind()))
	}
	assert.Equal(t, []string{"s1:pickup", "s2:pickup", "s1:delivery", "s2:delivery"}, got)
}

func fourStopRoute(t *testing.T, v *model.Vehicle, d1x, d1y float64) *route.Route {
	t.Helper()
	s1 := shipment(t, "s1", 0, 10, d1x, d1y)
	s2 := shipment(t, "s2", 10, 10, 0, 0)
	a1, a2 := route.NewActivities(s1), route.NewActivities(s2)
	return buildRoute(t, v, a1[0], a2[0], a1[1], a2[1])
}

func TestShipment_ThirdIntoFourStopRoute(t *testing.T) {
	e := newEnv()
	v := vehicle(t, "v", model.NewSize(2))
	r := fourStopRoute(t, v, 10, 0)
	e.sm.InformInsertionStarts([]*route.Route{r}, nil)

	d := e.calc.InsertionData(r, shipment(t, "s3", 0, 0, 9, 10), v, 0, model.NoDriver, math.MaxFloat64)
	require.True(t, d.Feasible())
	assert.Equal(t, 0.0, d.Cost())
	assert.Equal(t, []int{1, 0}, indices(d))

	d = e.calc.InsertionData(r, shipment(t, "s3", 0, 0, 9, 9), v, 0, model.NoDriver, math.MaxFloat64)
	require.True(t, d.Feasible())
	assert.Equal(t, 2.0, d.Cost())
	assert.Equal(t, []int{1, 0}, indices(d))
}

func TestShipment_CapacityAndPickupsFirstLeaveNoPosition(t *testing.T) {
	e := newEnv().withLoads()
	e.cm.AddActivityConstraint(constraint.ShipmentPickupsFirst{}, constraint.High)
	v := vehicle(t, "v", model.NewSize(2))
	r := fourStopRoute(t, v, 10, 0)
	e.sm.InformInsertionStarts([]*route.Route{r}, nil)

	d := e.calc.InsertionData(r, shipment(t, "s3", 0, 0, 9, 9), v, 0, model.NoDriver, math.MaxFloat64)
	assert.False(t, d.Feasible())
	assert.Same(t, NoInsertion(), d)
}

func TestPickupJob_GoesWhereCapacityAllows(t *testing.T) {
	e := newEnv().withLoads()
	v := vehicle(t, "v", model.NewSize(2))
	r := fourStopRoute(t, v, 0, 0)
	e.sm.InformInsertionStarts([]*route.Route{r}, nil)

	p, err := model.NewPickup("p", model.Stop{Location: model.LocationAt(5, 5)}, model.WithSize(model.NewSize(1)))
	require.NoError(t, err)
	d := e.calc.InsertionData(r, p, v, 0, model.NoDriver, math.MaxFloat64)
	require.True(t, d.Feasible())
	assert.Equal(t, []int{3}, indices(d))
	assert.Equal(t, 20.0, d.Cost())
}

func TestTimeWindow_VehicleClosesBeforeWindowOpens(t *testing.T) {
	e := newEnv().withTimeWindows()
	v := vehicle(t, "v", model.Size{}, model.WithLatestArrival(40))
	del, err := model.NewDelivery("del", model.Stop{
		Location:    model.LocationAt(10, 10),
		TimeWindows: []model.TimeWindow{{Start: 30, End: 40}},
	})
	require.NoError(t, err)
	pick, err := model.NewPickup("pick", model.Stop{
		Location:    model.LocationAt(0, 10),
		TimeWindows: []model.TimeWindow{{Start: 60, End: 80}},
	})
	require.NoError(t, err)
	r := buildRoute(t, v, route.NewActivities(del)...)
	e.sm.InformInsertionStarts([]*route.Route{r}, nil)

	d := e.calc.InsertionData(r, pick, v, 0, model.NoDriver, math.MaxFloat64)
	assert.Same(t, NoInsertion(), d)
}

func TestTimeWindow_PicksTheReachableWindow(t *testing.T) {
	e := newEnv().withTimeWindows()
	v := vehicle(t, "v", model.Size{}, model.WithLatestArrival(200))
	r := route.New(v, model.NoDriver)
	e.sm.InformInsertionStarts([]*route.Route{r}, nil)

	s, err := model.NewService("s", model.Stop{
		Location:    model.LocationAt(10, 0),
		TimeWindows: []model.TimeWindow{{Start: 0, End: 5}, {Start: 50, End: 60}},
	})
	require.NoError(t, err)
	d := e.calc.InsertionData(r, s, v, 0, model.NoDriver, math.MaxFloat64)
	require.True(t, d.Feasible())
	assert.Equal(t, 20.0, d.Cost())
	placed := d.InsertEvents()[0].Activity
	assert.Equal(t, 50.0, placed.TheoreticalEarliest)
	assert.Equal(t, 60.0, placed.TheoreticalLatest)
	assert.Equal(t, 60.0, d.AdditionalTime(), "travel plus waiting for the window")
}

func TestBestKnownCutoff(t *testing.T) {
	e := newEnv()
	v := vehicle(t, "v", model.NewSize(2))
	r := route.New(v, model.NoDriver)
	j := shipment(t, "s1", 0, 10, 10, 0)

	assert.Same(t, NoInsertion(), e.calc.InsertionData(r, j, v, 0, model.NoDriver, 30))
	assert.True(t, e.calc.InsertionData(r, j, v, 0, model.NoDriver, 41).Feasible())
}

func TestRouteConstraintRejectsUpFront(t *testing.T) {
	e := newEnv()
	e.cm.AddSkillsConstraint()
	v := vehicle(t, "v", model.NewSize(2))
	r := route.New(v, model.NoDriver)
	j, err := model.NewService("s", model.Stop{Location: model.LocationAt(1, 1)}, model.WithSkills("crane"))
	require.NoError(t, err)
	assert.Same(t, NoInsertion(), e.calc.InsertionData(r, j, v, 0, model.NoDriver, math.MaxFloat64))
}

func TestReturnShipment_KeepsActivityOrder(t *testing.T) {
	e := newEnv()
	v := vehicle(t, "v", model.NewSize(5))
	r := route.New(v, model.NoDriver)
	j, err := model.NewReturnShipment("r1",
		model.Stop{Location: model.LocationAt(0, 10)},
		model.Stop{Location: model.LocationAt(10, 10)},
		model.WithSize(model.NewSize(2)), model.WithBackhaulSize(model.NewSize(1)))
	require.NoError(t, err)

	d := e.calc.InsertionData(r, j, v, 0, model.NoDriver, math.MaxFloat64)
	require.True(t, d.Feasible())
	assert.Equal(t, 40.0, d.Cost())
	assert.Equal(t, []int{0, 0, 0}, indices(d))

	require.NoError(t, Apply(r, d))
	assert.True(t, r.At(0).IsPickup())
	assert.True(t, r.At(1).IsExchange())
	assert.True(t, r.At(2).IsDelivery())
}

func TestSwitchVehicle(t *testing.T) {
	e := newEnv()
	v1 := vehicle(t, "v1", model.NewSize(2))
	v2 := vehicle(t, "v2", model.NewSize(4), model.WithEarliestStart(3))
	r := route.New(v1, model.NoDriver)

	d := e.calc.InsertionData(r, shipment(t, "s1", 0, 10, 10, 0), v2, 0, model.NoDriver, math.MaxFloat64)
	require.True(t, d.Feasible())
	evs := d.Events()
	require.Len(t, evs, 3)
	sw, ok := evs[2].(SwitchVehicle)
	require.True(t, ok)
	assert.Same(t, v2, sw.Vehicle)
	assert.Equal(t, 3.0, sw.DepartureTime, "departure clamped to the vehicle's earliest start")

	require.NoError(t, Apply(r, d))
	assert.Same(t, v2, r.Vehicle())
	assert.Equal(t, 3.0, r.DepartureTime())
}

func TestNoInsertionIsSingleton(t *testing.T) {
	a, b := NoInsertion(), NoInsertion()
	assert.Same(t, a, b)
	assert.Equal(t, math.MaxFloat64, a.Cost())
	assert.False(t, a.Feasible())
	assert.Empty(t, a.Events())
	assert.Error(t, Apply(route.New(vehicle(t, "v", model.NewSize(1)), nil), a))
}

func routeCost(r *route.Route, tc cost.TransportCosts) float64 {
	var total float64
	prev := r.Start()
	for _, a := range r.Activities() {
		total += tc.TransportCost(prev.Location(), a.Location(), 0, r.Driver(), r.Vehicle())
		prev = a
	}
	return total + tc.TransportCost(prev.Location(), r.End().Location(), 0, r.Driver(), r.Vehicle())
}

// Without constraints the cheapest insertion must match an exhaustive search
// over every pickup/delivery position pair.
func TestShipment_MatchesExhaustiveSearch(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	e := newEnv()
	v := vehicle(t, "v", model.NewSize(100))
	coord := func() float64 { return float64(rng.Intn(20)) }

	for round := 0; round < 30; round++ {
		var acts []*route.Activity
		for k := 0; k < rng.Intn(4); k++ {
			a := route.NewActivities(shipment(t, fmt.Sprintf("e%d", k), coord(), coord(), coord(), coord()))
			acts = append(acts, a...)
		}
		r := buildRoute(t, v, acts...)
		base := routeCost(r, e.tc)
		j := shipment(t, "new", coord(), coord(), coord(), coord())

		want := math.MaxFloat64
		for i := 0; i <= r.Len(); i++ {
			for k := i; k <= r.Len(); k++ {
				trial := buildRoute(t, v, acts...)
				na := route.NewActivities(j)
				require.NoError(t, trial.Insert(k, na[1]))
				require.NoError(t, trial.Insert(i, na[0]))
				want = math.Min(want, routeCost(trial, e.tc)-base)
			}
		}

		d := e.calc.InsertionData(r, j, v, 0, model.NoDriver, math.MaxFloat64)
		require.True(t, d.Feasible())
		assert.InDelta(t, want, d.Cost(), 1e-9, "round %d", round)

		require.NoError(t, Apply(r, d))
		assert.InDelta(t, base+d.Cost(), routeCost(r, e.tc), 1e-9, "round %d", round)
	}
}

func serviceAt(t *testing.T, id string, x, y float64, windows ...model.TimeWindow) *model.Job {
	t.Helper()
	j, err := model.NewService(id, model.Stop{Location: model.LocationAt(x, y), TimeWindows: windows})
	require.NoError(t, err)
	return j
}

func TestSwitchVehicle_ChecksTheNewShiftEnd(t *testing.T) {
	e := newEnv().withTimeWindows()
	v1 := vehicle(t, "v1", model.Size{}, model.WithLatestArrival(200))
	r := buildRoute(t, v1, route.NewActivities(serviceAt(t, "x", 100, 0))...)
	e.sm.InformInsertionStarts([]*route.Route{r}, nil)

	short := vehicle(t, "short", model.Size{}, model.WithLatestArrival(150))
	d := e.calc.InsertionData(r, serviceAt(t, "on-path", 1, 0), short, 0, model.NoDriver, math.MaxFloat64)
	assert.Same(t, NoInsertion(), d, "the existing stop alone keeps the vehicle out until 200")
	assert.True(t, e.calc.InsertionData(r, serviceAt(t, "on-path", 1, 0), v1, 0, model.NoDriver, math.MaxFloat64).Feasible())

	// a detour the current vehicle cannot afford, but a longer shift can
	detour := serviceAt(t, "detour", 100, 50)
	assert.Same(t, NoInsertion(), e.calc.InsertionData(r, detour, v1, 0, model.NoDriver, math.MaxFloat64))
	long := vehicle(t, "long", model.Size{}, model.WithLatestArrival(1000))
	d = e.calc.InsertionData(r, detour, long, 0, model.NoDriver, math.MaxFloat64)
	require.True(t, d.Feasible())
	assert.Equal(t, 100.0, d.Cost())
	assert.Equal(t, []int{0}, indices(d), "the stored latest starts of the shorter shift do not apply")

	require.NoError(t, Apply(r, d))
	e.sm.InformRouteChanged(r)
	assert.Same(t, long, r.Vehicle())
	assert.LessOrEqual(t, r.End().ArrTime, long.LatestArrival())
}

// Serving a shipment right before a stop the vehicle waits at cuts the waiting
// cost, so the delivery's marginal is negative and the pickup's partial cost
// alone is above the cutoff.
func TestShipment_NegativeMarginalBelowCutoff(t *testing.T) {
	e := newEnv()
	typ, err := model.NewVehicleType("waits", model.NewSize(1),
		model.WithCostPerWaitingTime(10), model.WithCostPerServiceTime(11))
	require.NoError(t, err)
	v, err := model.NewVehicle("v", typ, model.LocationAt(0, 0))
	require.NoError(t, err)

	x1 := serviceAt(t, "x1", 10, 0)
	x2 := serviceAt(t, "x2", 20, 0, model.TimeWindow{Start: 1000, End: 2000})
	r := buildRoute(t, v, append(route.NewActivities(x1), route.NewActivities(x2)...)...)
	e.sm.InformInsertionStarts([]*route.Route{r}, nil)

	j, err := model.NewShipment("s",
		model.Stop{Location: model.LocationAt(10, 0), Duration: 50},
		model.Stop{Location: model.LocationAt(10, 5)},
		model.WithSize(model.NewSize(1)))
	require.NoError(t, err)

	for _, bestKnown := range []float64{math.MaxFloat64, 0} {
		d := e.calc.InsertionData(r, j, v, 0, model.NoDriver, bestKnown)
		require.True(t, d.Feasible(), "best known %g", bestKnown)
		// pickup +50, delivery -90
		assert.Equal(t, -40.0, d.Cost())
		assert.Equal(t, []int{1, 1}, indices(d))
	}
	assert.Same(t, NoInsertion(), e.calc.InsertionData(r, j, v, 0, model.NoDriver, -40))
}

// feasibleFor simulates acts on v from its earliest start.
func feasibleFor(tc cost.TransportCosts, ac cost.ActivityCosts, v *model.Vehicle, acts []*route.Activity) bool {
	t := v.EarliestStart()
	prev := v.StartLocation()
	var load model.Size
	delivered := false
	for _, a := range acts {
		arr := t + tc.TransportTime(prev, a.Location(), t, model.NoDriver, v)
		if arr > a.TheoreticalLatest {
			return false
		}
		t = math.Max(arr, a.TheoreticalEarliest) + ac.ActivityDuration(a, arr, model.NoDriver, v)
		load = load.Add(a.LoadChange())
		if !load.IsLessOrEqual(v.Capacity()) {
			return false
		}
		if a.IsShipmentPickup() && delivered {
			return false
		}
		if a.IsShipmentDelivery() {
			delivered = true
		}
		prev = a.Location()
	}
	return t+tc.TransportTime(prev, v.EndLocation(), t, model.NoDriver, v) <= v.LatestArrival()
}

// chainCost sums the marginal costs of a pickup at i and a delivery at j.
func chainCost(c *Calculator, r *route.Route, v *model.Vehicle, p, d *route.Activity, i, j int) float64 {
	end := route.NewEnd(v.EndLocation(), 0, v.LatestArrival())
	at := func(k int) *route.Activity {
		if k == r.Len() {
			return end
		}
		return r.At(k)
	}
	prev := route.NewStart(v.StartLocation(), v.EarliestStart(), v.LatestArrival())
	dep := v.EarliestStart()
	advance := func(a *route.Activity) {
		arr := dep + c.tc.TransportTime(prev.Location(), a.Location(), dep, model.NoDriver, v)
		dep = math.Max(arr, a.TheoreticalEarliest) + c.ac.ActivityDuration(a, arr, model.NoDriver, v)
		prev = a
	}
	for k := 0; k < i; k++ {
		advance(r.At(k))
	}
	total, _, endP := c.marginal(prev, p, at(i), dep, v, model.NoDriver)
	prev, dep = p, endP
	for k := i; k < j; k++ {
		advance(r.At(k))
	}
	mc, _, _ := c.marginal(prev, d, at(j), dep, v, model.NoDriver)
	return total + mc
}

func withShipment(acts []*route.Activity, p, d *route.Activity, i, j int) []*route.Activity {
	out := make([]*route.Activity, 0, len(acts)+2)
	for k := 0; k <= len(acts); k++ {
		if k == i {
			out = append(out, p)
		}
		if k == j {
			out = append(out, d)
		}
		if k < len(acts) {
			out = append(out, acts[k])
		}
	}
	return out
}

// scheduledRoute builds n shipments, pickups first, with windows drawn around
// the times the route reaches each stop so the route itself is on time. It
// returns the activities in route order and the arrival back at the depot.
func scheduledRoute(t *testing.T, rng *rand.Rand, n int) ([]*route.Activity, float64) {
	t.Helper()
	type stop struct {
		loc model.Location
		dur float64
		tw  model.TimeWindow
	}
	pick, drop := make([]stop, n), make([]stop, n)
	for k := 0; k < n; k++ {
		pick[k] = stop{loc: model.LocationAt(float64(rng.Intn(20)), float64(rng.Intn(20))), dur: float64(rng.Intn(6))}
		drop[k] = stop{loc: model.LocationAt(float64(rng.Intn(20)), float64(rng.Intn(20))), dur: float64(rng.Intn(6))}
	}
	var order []*stop
	for _, k := range rng.Perm(n) {
		order = append(order, &pick[k])
	}
	for _, k := range rng.Perm(n) {
		order = append(order, &drop[k])
	}

	tc := cost.NewManhattan(1)
	now, prev := 0.0, model.LocationAt(0, 0)
	for _, s := range order {
		arr := now + tc.TransportTime(prev, s.loc, now, nil, nil)
		start := math.Max(0, arr+float64(rng.Intn(41)-20))
		s.tw = model.TimeWindow{Start: start, End: start + float64(20+rng.Intn(60))}
		now = math.Max(arr, start) + s.dur
		prev = s.loc
	}
	back := now + tc.TransportTime(prev, model.LocationAt(0, 0), now, nil, nil)

	byStop := map[*stop]*route.Activity{}
	for k := 0; k < n; k++ {
		j, err := model.NewShipment(fmt.Sprintf("e%d", k),
			model.Stop{Location: pick[k].loc, Duration: pick[k].dur, TimeWindows: []model.TimeWindow{pick[k].tw}},
			model.Stop{Location: drop[k].loc, Duration: drop[k].dur, TimeWindows: []model.TimeWindow{drop[k].tw}},
			model.WithSize(model.NewSize(1)))
		require.NoError(t, err)
		acts := route.NewActivities(j)
		byStop[&pick[k]], byStop[&drop[k]] = acts[0], acts[1]
	}
	out := make([]*route.Activity, len(order))
	for i, s := range order {
		out[i] = byStop[s]
	}
	return out, back
}

// With capacity, time windows, pickups-first, waiting costs and a candidate
// vehicle other than the route's, the calculator must agree with a search over
// every position pair that simulates each resulting route.
func TestShipment_ConstrainedMatchesExhaustiveSearch(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	e := newEnv().withLoads().withTimeWindows()
	e.cm.AddActivityConstraint(constraint.ShipmentPickupsFirst{}, constraint.High)

	uType, err := model.NewVehicleType("u", model.NewSize(3), model.WithCostPerWaitingTime(2), model.WithCostPerServiceTime(1))
	require.NoError(t, err)
	window := func() []model.TimeWindow {
		if rng.Intn(2) == 0 {
			return nil
		}
		start := float64(rng.Intn(200))
		return []model.TimeWindow{{Start: start, End: start + float64(30+rng.Intn(150))}}
	}

	feasibleRounds := 0
	for round := 0; round < 150; round++ {
		acts, back := scheduledRoute(t, rng, rng.Intn(4))
		u, err := model.NewVehicle("u", uType, model.LocationAt(0, 0), model.WithLatestArrival(1000))
		require.NoError(t, err)
		r := buildRoute(t, u, acts...)
		e.sm.InformInsertionStarts([]*route.Route{r}, nil)

		v := u
		if rng.Intn(3) > 0 {
			vType, err := model.NewVehicleType("v", model.NewSize(1+rng.Intn(3)), model.WithCostPerWaitingTime(3), model.WithCostPerServiceTime(1))
			require.NoError(t, err)
			v, err = model.NewVehicle("v", vType, model.LocationAt(0, 0), model.WithLatestArrival(back+float64(rng.Intn(60))))
			require.NoError(t, err)
		}

		j, err := model.NewShipment("new",
			model.Stop{Location: model.LocationAt(float64(rng.Intn(20)), float64(rng.Intn(20))), Duration: float64(rng.Intn(6)), TimeWindows: window()},
			model.Stop{Location: model.LocationAt(float64(rng.Intn(20)), float64(rng.Intn(20))), Duration: float64(rng.Intn(6)), TimeWindows: window()},
			model.WithSize(model.NewSize(1)))
		require.NoError(t, err)
		na := route.NewActivities(j)

		want := math.MaxFloat64
		for i := 0; i <= r.Len(); i++ {
			for k := i; k <= r.Len(); k++ {
				if feasibleFor(e.tc, e.ac, v, withShipment(acts, na[0], na[1], i, k)) {
					want = math.Min(want, chainCost(e.calc, r, v, na[0], na[1], i, k))
				}
			}
		}

		d := e.calc.InsertionData(r, j, v, 0, model.NoDriver, math.MaxFloat64)
		if want == math.MaxFloat64 {
			assert.Same(t, NoInsertion(), d, "round %d", round)
			continue
		}
		feasibleRounds++
		require.True(t, d.Feasible(), "round %d: want %g", round, want)
		assert.InDelta(t, want, d.Cost(), 1e-9, "round %d", round)
		ev := d.InsertEvents()
		require.Len(t, ev, 2)
		assert.True(t, feasibleFor(e.tc, e.ac, v, withShipment(acts, na[0], na[1], ev[1].Index, ev[0].Index)), "round %d", round)
	}
	assert.Positive(t, feasibleRounds)
}
