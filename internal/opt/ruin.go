package opt

import (
	"sort"
	"time"

	"vrpengine/internal/metrics"
	"vrpengine/internal/model"
	"vrpengine/internal/route"
)

func assignedJobs(sol *Solution) []*model.Job {
	var out []*model.Job
	for _, r := range sol.Routes {
		out = append(out, r.Jobs()...)
	}
	return out
}

// RuinRandom removes up to k assigned jobs picked uniformly at random and
// returns them. They are not added to sol.Unassigned.
func (e *Engine) RuinRandom(sol *Solution, k int) []*model.Job {
	all := assignedJobs(sol)
	var removed []*model.Job
	for i := 0; i < k && len(all) > 0; i++ {
		n := e.rng.Intn(len(all))
		removed = append(removed, all[n])
		all = append(all[:n], all[n+1:]...)
	}
	e.remove(sol, removed)
	return removed
}

// RuinRadial removes a random seed job and the k-1 assigned jobs closest to
// it, measured between their first activities.
func (e *Engine) RuinRadial(sol *Solution, k int) []*model.Job {
	all := assignedJobs(sol)
	if len(all) == 0 || k <= 0 {
		return nil
	}
	seed := all[e.rng.Intn(len(all))]
	from := seed.Activity(0).Location
	type near struct {
		job  *model.Job
		dist float64
	}
	others := make([]near, 0, len(all)-1)
	for _, j := range all {
		if j == seed {
			continue
		}
		others = append(others, near{job: j, dist: e.p.Transport.Distance(from, j.Activity(0).Location, 0, nil)})
	}
	sort.SliceStable(others, func(a, b int) bool { return others[a].dist < others[b].dist })
	removed := []*model.Job{seed}
	for i := 0; i < len(others) && len(removed) < k; i++ {
		removed = append(removed, others[i].job)
	}
	e.remove(sol, removed)
	return removed
}

// remove takes jobs off their routes, drops routes left empty and refreshes
// the states of the others.
func (e *Engine) remove(sol *Solution, jobs []*model.Job) {
	if len(jobs) == 0 {
		return
	}
	start := time.Now()
	store := e.sm.Store()
	changed := map[*route.Route]bool{}
	for _, j := range jobs {
		for _, r := range sol.Routes {
			var acts []*route.Activity
			for _, a := range r.Activities() {
				if a.Job() == j {
					acts = append(acts, a)
				}
			}
			if r.RemoveJob(j) {
				store.RemoveActivities(acts...)
				changed[r] = true
				break
			}
		}
	}
	kept := sol.Routes[:0]
	for _, r := range sol.Routes {
		switch {
		case r.IsEmpty():
			store.RemoveRoute(r)
		case changed[r]:
			e.sm.InformRouteChanged(r)
			kept = append(kept, r)
		default:
			kept = append(kept, r)
		}
	}
	for i := len(kept); i < len(sol.Routes); i++ {
		sol.Routes[i] = nil
	}
	sol.Routes = kept
	metrics.InsertionDuration.WithLabelValues("ruin").Observe(time.Since(start).Seconds())
}
