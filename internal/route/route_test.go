package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vrpengine/internal/model"
)

func testVehicle(t *testing.T, opts ...model.VehicleOption) *model.Vehicle {
	t.Helper()
	typ, err := model.NewVehicleType("t", model.NewSize(2))
	require.NoError(t, err)
	v, err := model.NewVehicle("v1", typ, model.LocationAt(0, 0), opts...)
	require.NoError(t, err)
	return v
}

func shipment(t *testing.T, id string) *model.Job {
	t.Helper()
	j, err := model.NewShipment(id,
		model.Stop{Location: model.LocationAt(0, 10)},
		model.Stop{Location: model.LocationAt(10, 0)},
		model.WithSize(model.NewSize(1)))
	require.NoError(t, err)
	return j
}

func TestRoute_DepartureIsClamped(t *testing.T) {
	v := testVehicle(t, model.WithEarliestStart(10), model.WithLatestArrival(50))
	r := New(v, nil)
	assert.Equal(t, 10.0, r.DepartureTime())
	assert.Equal(t, model.NoDriver, r.Driver())

	r.SetVehicleAndDepartureTime(v, 5)
	assert.Equal(t, 10.0, r.DepartureTime())
	r.SetVehicleAndDepartureTime(v, 80)
	assert.Equal(t, 50.0, r.DepartureTime())
	r.SetVehicleAndDepartureTime(v, 20)
	assert.Equal(t, 20.0, r.DepartureTime())
	assert.Equal(t, 20.0, r.Start().EndTime)
	assert.Equal(t, 50.0, r.End().TheoreticalLatest)
	assert.NotEmpty(t, r.ID())
}

func TestRoute_InsertAndRemoveJob(t *testing.T) {
	r := New(testVehicle(t), model.NoDriver)
	s1, s2 := shipment(t, "s1"), shipment(t, "s2")
	a1, a2 := NewActivities(s1), NewActivities(s2)

	require.NoError(t, r.Insert(0, a1[0]))
	require.NoError(t, r.Insert(1, a1[1]))
	require.NoError(t, r.Insert(1, a2[1]))
	require.NoError(t, r.Insert(1, a2[0]))
	assert.Equal(t, []*Activity{a1[0], a2[0], a2[1], a1[1]}, r.Activities())
	assert.Equal(t, []*model.Job{s1, s2}, r.Jobs())

	assert.Error(t, r.Insert(9, a1[0]))
	assert.Error(t, r.Insert(0, r.End()))

	assert.True(t, r.RemoveJob(s2))
	assert.False(t, r.RemoveJob(s2))
	assert.Equal(t, []*Activity{a1[0], a1[1]}, r.Activities())
	assert.True(t, r.ContainsJob(s1))
	assert.False(t, r.ContainsJob(s2))
	assert.Same(t, r.Start(), r.Previous(0))
	assert.Same(t, r.End(), r.Next(2))
}

func TestActivity_CloneIsIndependent(t *testing.T) {
	acts := NewActivities(shipment(t, "s1"))
	a := acts[0]
	a.ArrTime = 3
	c := a.Clone()
	c.ArrTime = 9
	c.TheoreticalLatest = 1

	assert.Equal(t, 3.0, a.ArrTime)
	assert.NotEqual(t, a.TheoreticalLatest, c.TheoreticalLatest)
	assert.Same(t, a.Job(), c.Job())
	assert.Equal(t, a.Kind(), c.Kind())
}

func TestActivity_CapabilityQueries(t *testing.T) {
	ship := NewActivities(shipment(t, "s1"))
	assert.True(t, ship[0].IsShipmentPickup())
	assert.True(t, ship[1].IsShipmentDelivery())
	assert.False(t, ship[1].IsServiceDelivery())

	d, err := model.NewDelivery("d", model.Stop{Location: model.LocationAt(1, 1)})
	require.NoError(t, err)
	del := NewActivities(d)[0]
	assert.True(t, del.IsServiceDelivery())
	assert.False(t, del.IsShipment())
	kind, ok := del.JobKind()
	assert.True(t, ok)
	assert.Equal(t, model.DeliveryJob, kind)

	s, err := model.NewService("s", model.Stop{Location: model.LocationAt(1, 1)})
	require.NoError(t, err)
	assert.True(t, NewActivities(s)[0].IsServicePickup())

	_, ok = NewStart(model.LocationAt(0, 0), 0, 10).JobKind()
	assert.False(t, ok)
}
