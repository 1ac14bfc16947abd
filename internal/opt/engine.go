package opt

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"vrpengine/internal/config"
	"vrpengine/internal/constraint"
	"vrpengine/internal/insertion"
	"vrpengine/internal/metrics"
	"vrpengine/internal/model"
	"vrpengine/internal/route"
	"vrpengine/internal/state"
)

// Engine owns the state and constraint managers of one problem. It is not
// safe for concurrent use; it parallelizes evaluation internally.
type Engine struct {
	p        Problem
	cfg      config.Config
	sm       *state.Manager
	cm       *constraint.Manager
	calc     insertion.JobInsertionCalculator
	fix      *insertion.FixCostCalculator
	rng      *rand.Rand
	progress rate.Sometimes
}

func NewEngine(p Problem, cfg config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	sm := state.NewManager(nil)
	cm := constraint.NewManager()
	if cfg.Constraints.Load {
		sm.UpdateLoadStates()
		cm.AddLoadConstraints(sm.Store())
	}
	if cfg.Constraints.TimeWindows {
		sm.UpdateTimeWindowStates(p.Transport, p.Activity)
		cm.AddTimeWindowConstraint(sm.Store(), p.Transport, p.Activity)
	}
	if cfg.Constraints.Skills {
		cm.AddSkillsConstraint()
	}
	if cfg.Constraints.PickupsFirst {
		cm.AddActivityConstraint(constraint.ShipmentPickupsFirst{}, constraint.High)
	}
	if cfg.Constraints.DeliveriesFirst {
		cm.AddActivityConstraint(constraint.ServiceDeliveriesFirst{}, constraint.High)
	}

	e := &Engine{
		p:        p,
		cfg:      cfg,
		sm:       sm,
		cm:       cm,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		progress: rate.Sometimes{First: 1, Interval: 2 * time.Second},
	}
	e.calc = insertion.NewCalculator(p.Transport, p.Activity, cm, sm.Store())
	if cfg.FixCost.Enabled {
		e.fix = insertion.NewFixCostCalculator(e.calc, sm.Store(), cfg.FixCost.Weight)
		sm.AddListener(insertion.NewFixCostRamp(e.fix, len(p.Jobs), cfg.FixCost.MinRatio))
		e.calc = e.fix
	}
	return e, nil
}

// StateManager exposes the manager so callers can register more listeners.
func (e *Engine) StateManager() *state.Manager { return e.sm }

// Constraints exposes the manager so callers can register more constraints.
func (e *Engine) Constraints() *constraint.Manager { return e.cm }

// Construct inserts every job of the problem into an empty solution.
func (e *Engine) Construct(ctx context.Context) (*Solution, error) {
	sol := &Solution{}
	if err := e.Recreate(ctx, sol, e.p.Jobs); err != nil {
		return sol, err
	}
	log.Printf("construct done routes=%d assigned=%d unassigned=%d cost=%.2f", len(sol.Routes), sol.NumAssigned(), len(sol.Unassigned), e.Cost(sol))
	return sol, nil
}

// Cost sums RouteCost over the routes of sol.
func (e *Engine) Cost(sol *Solution) float64 {
	var total float64
	for _, r := range sol.Routes {
		total += RouteCost(r, e.p.Transport, e.p.Activity)
	}
	return total
}

type candidate struct {
	data  *insertion.Data
	route *route.Route
	fresh bool
}

// Recreate inserts sol.Unassigned and jobs into sol. Each round prices every
// pending job in parallel, then applies the cheapest insertion. Jobs that fit
// nowhere end up in sol.Unassigned.
func (e *Engine) Recreate(ctx context.Context, sol *Solution, jobs []*model.Job) error {
	pending := make([]*model.Job, 0, len(sol.Unassigned)+len(jobs))
	pending = append(pending, sol.Unassigned...)
	pending = append(pending, jobs...)
	sol.Unassigned = nil
	e.sm.InformInsertionStarts(sol.Routes, pending)

	inserted := 0
	for len(pending) > 0 {
		start := time.Now()
		cands, err := e.evaluate(ctx, sol, pending)
		metrics.InsertionDuration.WithLabelValues("recreate").Observe(time.Since(start).Seconds())
		if err != nil {
			sol.Unassigned = pending
			return err
		}
		pick := -1
		for i, c := range cands {
			if c.data.Feasible() && (pick < 0 || c.data.Cost() < cands[pick].data.Cost()) {
				pick = i
			}
		}
		if pick < 0 {
			break
		}
		c, j := cands[pick], pending[pick]
		if err := insertion.Apply(c.route, c.data); err != nil {
			sol.Unassigned = pending
			return fmt.Errorf("insert %s: %w", j.ID(), err)
		}
		if c.fresh {
			sol.Routes = append(sol.Routes, c.route)
		}
		e.sm.InformJobInserted(j, c.route, c.data.Cost(), c.data.AdditionalTime())
		metrics.JobsInserted.WithLabelValues(j.Kind().String()).Inc()
		pending = append(pending[:pick], pending[pick+1:]...)
		inserted++
		e.progress.Do(func() {
			log.Printf("recreate inserted=%d pending=%d routes=%d", inserted, len(pending), len(sol.Routes))
		})
	}
	sol.Unassigned = pending
	metrics.UnassignedJobs.Set(float64(len(pending)))
	return nil
}

// evaluate finds the best insertion of every job. Routes and states are only
// read here.
func (e *Engine) evaluate(ctx context.Context, sol *Solution, jobs []*model.Job) ([]candidate, error) {
	avail := e.available(sol)
	out := make([]candidate, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = e.best(sol.Routes, avail, j)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) best(routes []*route.Route, avail []*model.Vehicle, j *model.Job) candidate {
	best := candidate{data: insertion.NoInsertion()}
	for _, r := range routes {
		for _, v := range e.vehiclesFor(r, avail) {
			d := e.calc.InsertionData(r, j, v, r.DepartureTime(), r.Driver(), best.data.Cost())
			if d.Cost() < best.data.Cost() {
				best = candidate{data: d, route: r}
			}
		}
	}
	for _, v := range avail {
		r := route.New(v, nil)
		d := e.calc.InsertionData(r, j, v, v.EarliestStart(), nil, best.data.Cost())
		if d.Cost() < best.data.Cost() {
			best = candidate{data: d, route: r, fresh: true}
		}
	}
	return best
}

// available lists the vehicles that may open a new route or replace the
// vehicle of an existing one. With an infinite fleet every vehicle is a
// template that can be used any number of times.
func (e *Engine) available(sol *Solution) []*model.Vehicle {
	if e.cfg.FleetSize == config.InfiniteFleet {
		return e.p.Vehicles
	}
	var out []*model.Vehicle
	for _, v := range e.p.Vehicles {
		used := false
		for _, r := range sol.Routes {
			if r.Vehicle().Same(v) {
				used = true
				break
			}
		}
		if !used {
			out = append(out, v)
		}
	}
	return out
}

func (e *Engine) vehiclesFor(r *route.Route, avail []*model.Vehicle) []*model.Vehicle {
	out := []*model.Vehicle{r.Vehicle()}
	for _, v := range avail {
		if !v.Same(r.Vehicle()) {
			out = append(out, v)
		}
	}
	return out
}
