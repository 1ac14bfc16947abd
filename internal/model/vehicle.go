package model

import (
	"fmt"
	"math"
)

// VehicleType carries capacity and cost parameters shared by vehicles.
type VehicleType struct {
	id                 string
	capacity           Size
	fixedCost          float64
	costPerDistance    float64
	costPerTime        float64
	costPerWaitingTime float64
	costPerServiceTime float64
}

type TypeOption func(*VehicleType)

func WithFixedCost(c float64) TypeOption       { return func(t *VehicleType) { t.fixedCost = c } }
func WithCostPerDistance(c float64) TypeOption { return func(t *VehicleType) { t.costPerDistance = c } }
func WithCostPerTime(c float64) TypeOption     { return func(t *VehicleType) { t.costPerTime = c } }
func WithCostPerWaitingTime(c float64) TypeOption {
	return func(t *VehicleType) { t.costPerWaitingTime = c }
}
func WithCostPerServiceTime(c float64) TypeOption {
	return func(t *VehicleType) { t.costPerServiceTime = c }
}

func NewVehicleType(id string, capacity Size, opts ...TypeOption) (*VehicleType, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: vehicle type needs an id", ErrInvalidVehicle)
	}
	if capacity.IsNegative() {
		return nil, fmt.Errorf("%w: type %s: %s", ErrInvalidCapacity, id, capacity)
	}
	t := &VehicleType{id: id, capacity: capacity, costPerDistance: 1}
	for _, o := range opts {
		o(t)
	}
	if t.fixedCost < 0 || t.costPerDistance < 0 || t.costPerTime < 0 || t.costPerWaitingTime < 0 || t.costPerServiceTime < 0 {
		return nil, fmt.Errorf("%w: type %s: negative cost parameter", ErrInvalidVehicle, id)
	}
	return t, nil
}

func (t *VehicleType) ID() string                  { return t.id }
func (t *VehicleType) Capacity() Size              { return t.capacity }
func (t *VehicleType) FixedCost() float64          { return t.fixedCost }
func (t *VehicleType) CostPerDistance() float64    { return t.costPerDistance }
func (t *VehicleType) CostPerTime() float64        { return t.costPerTime }
func (t *VehicleType) CostPerWaitingTime() float64 { return t.costPerWaitingTime }
func (t *VehicleType) CostPerServiceTime() float64 { return t.costPerServiceTime }

// Vehicle is an instance of a type with its own depot and working hours.
type Vehicle struct {
	id            string
	typ           *VehicleType
	start         Location
	end           Location
	earliestStart float64
	latestArrival float64
	returnToDepot bool
	skills        Skills
	hasEnd        bool
}

type VehicleOption func(*Vehicle)

func WithEndLocation(l Location) VehicleOption {
	return func(v *Vehicle) { v.end, v.hasEnd = l, true }
}
func WithEarliestStart(t float64) VehicleOption { return func(v *Vehicle) { v.earliestStart = t } }
func WithLatestArrival(t float64) VehicleOption { return func(v *Vehicle) { v.latestArrival = t } }

// WithReturnToDepot false makes routes end at their last activity.
func WithReturnToDepot(b bool) VehicleOption { return func(v *Vehicle) { v.returnToDepot = b } }
func WithVehicleSkills(names ...string) VehicleOption {
	return func(v *Vehicle) { v.skills = NewSkills(names...) }
}

func NewVehicle(id string, typ *VehicleType, start Location, opts ...VehicleOption) (*Vehicle, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidVehicle)
	}
	if typ == nil {
		return nil, fmt.Errorf("%w: %s: missing type", ErrInvalidVehicle, id)
	}
	if err := start.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: start: %w", ErrInvalidVehicle, id, err)
	}
	v := &Vehicle{
		id:            id,
		typ:           typ,
		start:         start,
		end:           start,
		latestArrival: math.MaxFloat64,
		returnToDepot: true,
	}
	for _, o := range opts {
		o(v)
	}
	if v.hasEnd {
		if !v.returnToDepot {
			return nil, fmt.Errorf("%w: %s: end location set on a vehicle that does not return", ErrInvalidVehicle, id)
		}
		if err := v.end.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: end: %w", ErrInvalidVehicle, id, err)
		}
	}
	if v.earliestStart < 0 || v.latestArrival < v.earliestStart {
		return nil, fmt.Errorf("%w: %s: operating window [%g,%g]", ErrInvalidVehicle, id, v.earliestStart, v.latestArrival)
	}
	return v, nil
}

func (v *Vehicle) ID() string              { return v.id }
func (v *Vehicle) Type() *VehicleType      { return v.typ }
func (v *Vehicle) StartLocation() Location { return v.start }
func (v *Vehicle) EndLocation() Location   { return v.end }
func (v *Vehicle) EarliestStart() float64  { return v.earliestStart }
func (v *Vehicle) LatestArrival() float64  { return v.latestArrival }
func (v *Vehicle) ReturnToDepot() bool     { return v.returnToDepot }
func (v *Vehicle) Skills() Skills          { return v.skills }
func (v *Vehicle) Capacity() Size          { return v.typ.capacity }

// Same reports whether v and o are the same vehicle by id.
func (v *Vehicle) Same(o *Vehicle) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.id == o.id
}

func (v *Vehicle) String() string { return v.id }

// Driver operates a vehicle. NoDriver is used when drivers are not modeled.
type Driver struct {
	ID string
}

var NoDriver = &Driver{ID: "noDriver"}
