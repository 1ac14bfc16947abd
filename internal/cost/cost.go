// Package cost holds the travel and activity cost providers consumed by the
// insertion engine.
package cost

import (
	"math"

	"vrpengine/internal/model"
	"vrpengine/internal/route"
)

// TransportCosts prices travel between two locations for a given vehicle and driver.
type TransportCosts interface {
	TransportCost(from, to model.Location, departure float64, d *model.Driver, v *model.Vehicle) float64
	TransportTime(from, to model.Location, departure float64, d *model.Driver, v *model.Vehicle) float64
	Distance(from, to model.Location, departure float64, v *model.Vehicle) float64
}

// ActivityCosts prices the time spent at an activity.
type ActivityCosts interface {
	ActivityCost(a *route.Activity, arrival float64, d *model.Driver, v *model.Vehicle) float64
	ActivityDuration(a *route.Activity, arrival float64, d *model.Driver, v *model.Vehicle) float64
}

type metric func(a, b model.Coordinate) float64

// travel turns a distance metric into a TransportCosts with a constant speed.
type travel struct {
	dist  metric
	speed float64
}

func (t travel) Distance(from, to model.Location, _ float64, _ *model.Vehicle) float64 {
	if !from.HasCoord || !to.HasCoord {
		return 0
	}
	return t.dist(from.Coord, to.Coord)
}

func (t travel) TransportTime(from, to model.Location, dep float64, _ *model.Driver, v *model.Vehicle) float64 {
	return t.Distance(from, to, dep, v) / t.speed
}

func (t travel) TransportCost(from, to model.Location, dep float64, d *model.Driver, v *model.Vehicle) float64 {
	dist := t.Distance(from, to, dep, v)
	if v == nil {
		return dist
	}
	return dist*v.Type().CostPerDistance() + (dist/t.speed)*v.Type().CostPerTime()
}

// Manhattan measures |dx|+|dy| between coordinates. Speed is distance per time unit.
type Manhattan struct{ travel }

func NewManhattan(speed float64) Manhattan {
	if speed <= 0 {
		speed = 1
	}
	return Manhattan{travel{dist: manhattan, speed: speed}}
}

func manhattan(a, b model.Coordinate) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

// Euclidean measures straight-line distance between planar coordinates.
type Euclidean struct{ travel }

func NewEuclidean(speed float64) Euclidean {
	if speed <= 0 {
		speed = 1
	}
	return Euclidean{travel{dist: euclidean, speed: speed}}
}

func euclidean(a, b model.Coordinate) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// GreatCircle reads coordinates as X=longitude, Y=latitude in degrees and
// returns meters. Speed is in meters per second.
type GreatCircle struct{ travel }

func NewGreatCircle(speedMps float64) GreatCircle {
	if speedMps <= 0 {
		speedMps = 13.9 // ~50 km/h
	}
	return GreatCircle{travel{dist: func(a, b model.Coordinate) float64 {
		return haversine(a.Y, a.X, b.Y, b.X)
	}, speed: speedMps}}
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371000.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

// WaitingTimeCosts charges waiting before the window opens and service time,
// both at the vehicle type's rates.
type WaitingTimeCosts struct{}

func (WaitingTimeCosts) ActivityCost(a *route.Activity, arrival float64, _ *model.Driver, v *model.Vehicle) float64 {
	if v == nil {
		return 0
	}
	wait := math.Max(0, a.TheoreticalEarliest-arrival)
	return wait*v.Type().CostPerWaitingTime() + a.Duration()*v.Type().CostPerServiceTime()
}

func (WaitingTimeCosts) ActivityDuration(a *route.Activity, _ float64, _ *model.Driver, _ *model.Vehicle) float64 {
	return a.Duration()
}
