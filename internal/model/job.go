package model

import (
	"fmt"
	"strings"
)

// JobKind is the closed set of job variants.
type JobKind int

const (
	ServiceJob JobKind = iota
	PickupJob
	DeliveryJob
	ShipmentJob
	ReturnShipmentJob
)

func (k JobKind) String() string {
	switch k {
	case ServiceJob:
		return "service"
	case PickupJob:
		return "pickup"
	case DeliveryJob:
		return "delivery"
	case ShipmentJob:
		return "shipment"
	case ReturnShipmentJob:
		return "returnShipment"
	}
	return fmt.Sprintf("JobKind(%d)", int(k))
}

// ActivityKind is the closed set of activity variants, route boundaries included.
type ActivityKind int

const (
	StartActivity ActivityKind = iota
	EndActivity
	ServiceActivity
	PickupActivity
	DeliveryActivity
	ExchangeActivity
)

func (k ActivityKind) String() string {
	switch k {
	case StartActivity:
		return "start"
	case EndActivity:
		return "end"
	case ServiceActivity:
		return "service"
	case PickupActivity:
		return "pickup"
	case DeliveryActivity:
		return "delivery"
	case ExchangeActivity:
		return "exchange"
	}
	return fmt.Sprintf("ActivityKind(%d)", int(k))
}

// Stop describes where and when one activity of a job happens.
type Stop struct {
	Location    Location
	Duration    float64
	TimeWindows []TimeWindow
}

// ActivityTemplate is the immutable template a route activity is created from.
type ActivityTemplate struct {
	Kind        ActivityKind
	Location    Location
	Duration    float64
	LoadChange  Size
	TimeWindows TimeWindows
}

const (
	HighPriority    = 1
	DefaultPriority = 2
	LowPriority     = 3
)

// Job is a unit of demand. Jobs are immutable and compared by id.
type Job struct {
	id         string
	name       string
	kind       JobKind
	size       Size
	backhaul   Size
	skills     Skills
	priority   int
	activities []ActivityTemplate
}

type jobConfig struct {
	name         string
	size         Size
	backhaulSize Size
	backhaulStop *Stop
	skills       Skills
	priority     int
}

type JobOption func(*jobConfig)

func WithSize(s Size) JobOption { return func(c *jobConfig) { c.size = s } }

// WithSizeDimension sets a single dimension of the job size.
func WithSizeDimension(i, v int) JobOption {
	return func(c *jobConfig) { c.size = c.size.WithDimension(i, v) }
}

func WithSkills(names ...string) JobOption {
	return func(c *jobConfig) { c.skills = NewSkills(names...) }
}

func WithPriority(p int) JobOption { return func(c *jobConfig) { c.priority = p } }

func WithName(n string) JobOption { return func(c *jobConfig) { c.name = n } }

// WithBackhaulSize sets the load picked up at the exchange of a return shipment.
func WithBackhaulSize(s Size) JobOption { return func(c *jobConfig) { c.backhaulSize = s } }

// WithBackhaul sets where a return shipment's backhaul is dropped. Defaults to the pickup stop.
func WithBackhaul(s Stop) JobOption { return func(c *jobConfig) { c.backhaulStop = &s } }

func NewService(id string, stop Stop, opts ...JobOption) (*Job, error) {
	return newSingleStop(id, ServiceJob, ServiceActivity, stop, opts)
}

func NewPickup(id string, stop Stop, opts ...JobOption) (*Job, error) {
	return newSingleStop(id, PickupJob, PickupActivity, stop, opts)
}

func NewDelivery(id string, stop Stop, opts ...JobOption) (*Job, error) {
	return newSingleStop(id, DeliveryJob, DeliveryActivity, stop, opts)
}

func newSingleStop(id string, kind JobKind, act ActivityKind, stop Stop, opts []JobOption) (*Job, error) {
	j, cfg, err := newJob(id, kind, opts)
	if err != nil {
		return nil, err
	}
	change := cfg.size
	if kind == DeliveryJob {
		change = cfg.size.Negate()
	}
	tmpl, err := buildTemplate(id, act, stop, change)
	if err != nil {
		return nil, err
	}
	j.activities = []ActivityTemplate{tmpl}
	return j, nil
}

// NewShipment builds a job picked up at pickup and dropped at delivery.
func NewShipment(id string, pickup, delivery Stop, opts ...JobOption) (*Job, error) {
	j, cfg, err := newJob(id, ShipmentJob, opts)
	if err != nil {
		return nil, err
	}
	p, err := buildTemplate(id, PickupActivity, pickup, cfg.size)
	if err != nil {
		return nil, err
	}
	d, err := buildTemplate(id, DeliveryActivity, delivery, cfg.size.Negate())
	if err != nil {
		return nil, err
	}
	j.activities = []ActivityTemplate{p, d}
	return j, nil
}

// NewReturnShipment builds a shipment whose vehicle collects a backhaul load
// at the delivery stop and brings it back.
func NewReturnShipment(id string, pickup, delivery Stop, opts ...JobOption) (*Job, error) {
	j, cfg, err := newJob(id, ReturnShipmentJob, opts)
	if err != nil {
		return nil, err
	}
	if cfg.backhaulSize.IsNegative() {
		return nil, fmt.Errorf("%w: %s: negative backhaul size %s", ErrInvalidJob, id, cfg.backhaulSize)
	}
	back := Stop{Location: pickup.Location, Duration: pickup.Duration}
	if cfg.backhaulStop != nil {
		back = *cfg.backhaulStop
	}
	p, err := buildTemplate(id, PickupActivity, pickup, cfg.size)
	if err != nil {
		return nil, err
	}
	x, err := buildTemplate(id, ExchangeActivity, delivery, cfg.backhaulSize.Subtract(cfg.size))
	if err != nil {
		return nil, err
	}
	b, err := buildTemplate(id, DeliveryActivity, back, cfg.backhaulSize.Negate())
	if err != nil {
		return nil, err
	}
	j.backhaul = cfg.backhaulSize
	j.activities = []ActivityTemplate{p, x, b}
	return j, nil
}

func newJob(id string, kind JobKind, opts []JobOption) (*Job, jobConfig, error) {
	cfg := jobConfig{priority: DefaultPriority}
	for _, o := range opts {
		o(&cfg)
	}
	if strings.TrimSpace(id) == "" {
		return nil, cfg, fmt.Errorf("%w: missing id", ErrInvalidJob)
	}
	if cfg.priority < HighPriority || cfg.priority > LowPriority {
		return nil, cfg, fmt.Errorf("%w: %s: priority %d outside [%d,%d]", ErrInvalidJob, id, cfg.priority, HighPriority, LowPriority)
	}
	if cfg.size.IsNegative() {
		return nil, cfg, fmt.Errorf("%w: %s: negative size %s", ErrInvalidJob, id, cfg.size)
	}
	return &Job{
		id:       id,
		name:     cfg.name,
		kind:     kind,
		size:     cfg.size,
		skills:   cfg.skills,
		priority: cfg.priority,
	}, cfg, nil
}

func buildTemplate(id string, kind ActivityKind, stop Stop, change Size) (ActivityTemplate, error) {
	if err := stop.Location.Validate(); err != nil {
		return ActivityTemplate{}, fmt.Errorf("%w: %s: %s location: %w", ErrInvalidJob, id, kind, err)
	}
	if stop.Duration < 0 {
		return ActivityTemplate{}, fmt.Errorf("%w: %s: negative %s duration %g", ErrInvalidJob, id, kind, stop.Duration)
	}
	tws, err := NewTimeWindows(stop.TimeWindows...)
	if err != nil {
		return ActivityTemplate{}, fmt.Errorf("%s: %s: %w", id, kind, err)
	}
	return ActivityTemplate{
		Kind:        kind,
		Location:    stop.Location,
		Duration:    stop.Duration,
		LoadChange:  change,
		TimeWindows: orAnyTime(tws),
	}, nil
}

func (j *Job) ID() string         { return j.id }
func (j *Job) Name() string       { return j.name }
func (j *Job) Kind() JobKind      { return j.kind }
func (j *Job) Size() Size         { return j.size }
func (j *Job) BackhaulSize() Size { return j.backhaul }
func (j *Job) Skills() Skills     { return j.skills }
func (j *Job) Priority() int      { return j.priority }
func (j *Job) NumActivities() int { return len(j.activities) }

func (j *Job) Activity(i int) ActivityTemplate { return j.activities[i] }

// Activities returns the ordered activity templates.
func (j *Job) Activities() []ActivityTemplate {
	out := make([]ActivityTemplate, len(j.activities))
	copy(out, j.activities)
	return out
}

// IsShipment reports whether the job spans more than one stop.
func (j *Job) IsShipment() bool {
	return j.kind == ShipmentJob || j.kind == ReturnShipmentJob
}

// SizeAtStart is the load the job adds to the vehicle when it leaves the depot.
func (j *Job) SizeAtStart() Size {
	if j.kind == DeliveryJob {
		return j.size
	}
	return Size{}
}

// SizeAtEnd is the load the job adds to the vehicle on its way back.
func (j *Job) SizeAtEnd() Size {
	if j.kind == PickupJob || j.kind == ServiceJob {
		return j.size
	}
	return Size{}
}

func (j *Job) String() string { return j.kind.String() + ":" + j.id }
