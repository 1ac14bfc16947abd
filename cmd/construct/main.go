package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vrpengine/internal/buildinfo"
	"vrpengine/internal/config"
	"vrpengine/internal/cost"
	"vrpengine/internal/metrics"
	"vrpengine/internal/model"
	"vrpengine/internal/opt"
	"vrpengine/internal/report"
)

func main() {
	var (
		cfgPath     = flag.String("config", "", "engine config (YAML)")
		outPath     = flag.String("out", "", "write the solution as JSON to this file")
		numJobs     = flag.Int("jobs", 50, "number of random shipments")
		numVehicles = flag.Int("vehicles", 5, "number of vehicles")
		capacity    = flag.Int("capacity", 6, "vehicle capacity")
		fixedCost   = flag.Float64("fixed-cost", 100, "vehicle fixed cost")
		metricsAddr = flag.String("metrics-addr", "", "serve Prometheus metrics on this address and wait for a signal")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.Printf("construct %s workers=%d fleet=%s", buildinfo.String(), cfg.Workers, cfg.FleetSize)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.RegisterDefault()
	var srv *http.Server
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Printf("metrics listening on %s", *metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("metrics server error: %v", err)
			}
		}()
	}

	p, err := randomInstance(cfg.Seed, *numJobs, *numVehicles, *capacity, *fixedCost)
	if err != nil {
		log.Fatalf("random instance: %v", err)
	}
	e, err := opt.NewEngine(p, cfg)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	start := time.Now()
	sol, err := e.Construct(ctx)
	if err != nil {
		log.Fatalf("construct: %v", err)
	}
	for _, r := range sol.Routes {
		log.Printf("route vehicle=%s jobs=%d cost=%.2f", r.Vehicle(), len(r.Jobs()), opt.RouteCost(r, p.Transport, p.Activity))
	}
	for _, j := range sol.Unassigned {
		log.Printf("unassigned job=%s", j)
	}
	log.Printf("done routes=%d unassigned=%d cost=%.2f elapsed=%v", len(sol.Routes), len(sol.Unassigned), e.Cost(sol), time.Since(start))
	if *outPath != "" {
		if err := writeSolution(*outPath, report.Report(sol, p.Transport, p.Activity)); err != nil {
			log.Fatalf("write solution: %v", err)
		}
	}

	if srv != nil {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}
}

func writeSolution(path string, rep report.SolutionOut) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Encode(f, rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// randomInstance builds a pickup and delivery problem on a 100x100 grid with
// every vehicle based at the center.
func randomInstance(seed int64, jobs, vehicles, capacity int, fixed float64) (opt.Problem, error) {
	rng := rand.New(rand.NewSource(seed))
	at := func() model.Location { return model.LocationAt(float64(rng.Intn(101)), float64(rng.Intn(101))) }

	p := opt.Problem{Transport: cost.NewEuclidean(1), Activity: cost.WaitingTimeCosts{}}
	typ, err := model.NewVehicleType("van", model.NewSize(capacity), model.WithFixedCost(fixed))
	if err != nil {
		return p, err
	}
	for i := 0; i < vehicles; i++ {
		v, err := model.NewVehicle(fmt.Sprintf("van-%d", i), typ, model.LocationAt(50, 50))
		if err != nil {
			return p, err
		}
		p.Vehicles = append(p.Vehicles, v)
	}
	for i := 0; i < jobs; i++ {
		open := float64(rng.Intn(400))
		j, err := model.NewShipment(fmt.Sprintf("s-%d", i),
			model.Stop{Location: at(), Duration: 5},
			model.Stop{Location: at(), Duration: 5, TimeWindows: []model.TimeWindow{{Start: open, End: open + 200}}},
			model.WithSize(model.NewSize(1+rng.Intn(2))))
		if err != nil {
			return p, err
		}
		p.Jobs = append(p.Jobs, j)
	}
	return p, nil
}
