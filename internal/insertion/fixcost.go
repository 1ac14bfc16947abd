package insertion

import (
	"math"
	"sync/atomic"

	"vrpengine/internal/metrics"
	"vrpengine/internal/model"
	"vrpengine/internal/route"
	"vrpengine/internal/state"
)

const (
	DefaultFixCostWeight = 0.5
	DefaultMinRatio      = 0.5
)

// FixCostCalculator adds the change in vehicle fixed costs to another
// calculator's result. Early in construction the fixed cost is charged in
// proportion to the capacity used; as the solution completes it moves to the
// full fixed cost of the vehicle.
type FixCostCalculator struct {
	base   JobInsertionCalculator
	store  *state.Store
	weight float64
	ratio  atomic.Uint64
}

func NewFixCostCalculator(base JobInsertionCalculator, s *state.Store, weight float64) *FixCostCalculator {
	if weight <= 0 {
		weight = DefaultFixCostWeight
	}
	c := &FixCostCalculator{base: base, store: s, weight: weight}
	c.SetCompletenessRatio(DefaultMinRatio)
	return c
}

// SetCompletenessRatio is called between evaluation rounds.
func (c *FixCostCalculator) SetCompletenessRatio(r float64) {
	c.ratio.Store(math.Float64bits(r))
	metrics.FixCostRatio.Set(r)
}

func (c *FixCostCalculator) CompletenessRatio() float64 {
	return math.Float64frombits(c.ratio.Load())
}

func (c *FixCostCalculator) InsertionData(r *route.Route, j *model.Job, v *model.Vehicle, departure float64, d *model.Driver, bestKnown float64) *Data {
	fix := c.contribution(r, j, v)
	if fix > bestKnown {
		return NoInsertion()
	}
	data := c.base.InsertionData(r, j, v, departure, d, bestKnown-fix)
	if !data.Feasible() {
		return data
	}
	return data.withCost(data.Cost() + fix)
}

// contribution blends the relative and absolute fixed cost deltas. The
// relative part charges fixed cost by the share of capacity the route's peak
// load plus the job would occupy.
func (c *FixCostCalculator) contribution(r *route.Route, j *model.Job, v *model.Vehicle) float64 {
	maxLoad := state.SizeOrZero(c.store, r, state.MaxLoad)
	load := maxLoad.Add(j.Size())
	var currentAbs, currentRel float64
	if !r.IsEmpty() {
		cur := r.Vehicle().Type()
		currentAbs = cur.FixedCost()
		currentRel = cur.FixedCost() * maxLoad.Ratio(cur.Capacity())
	}
	abs := v.Type().FixedCost() - currentAbs
	rel := v.Type().FixedCost()*load.Ratio(v.Capacity()) - currentRel
	ratio := c.CompletenessRatio()
	return c.weight * ((1-ratio)*rel + ratio*abs)
}

// FixCostRamp moves the fixed cost calculator's completeness ratio as jobs
// get inserted. It listens for InsertionStarts and JobInserted.
type FixCostRamp struct {
	calc      *FixCostCalculator
	total     int
	minRatio  float64
	remaining int
}

func NewFixCostRamp(calc *FixCostCalculator, totalJobs int, minRatio float64) *FixCostRamp {
	if minRatio <= 0 {
		minRatio = DefaultMinRatio
	}
	return &FixCostRamp{calc: calc, total: totalJobs, minRatio: minRatio}
}

func (f *FixCostRamp) Handle(e state.Event) {
	switch e.Kind {
	case state.InsertionStarts:
		f.remaining = len(e.Unassigned)
	case state.JobInserted:
		f.remaining--
	default:
		return
	}
	f.calc.SetCompletenessRatio(f.ratio())
}

func (f *FixCostRamp) ratio() float64 {
	if f.total <= 0 {
		return 1
	}
	return math.Max(f.minRatio, 1-float64(f.remaining)/float64(f.total))
}
