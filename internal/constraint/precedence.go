package constraint

import "vrpengine/internal/route"

// ServiceDeliveriesFirst keeps single-stop deliveries ahead of everything else.
type ServiceDeliveriesFirst struct{}

func (ServiceDeliveriesFirst) Fulfilled(_ *InsertionContext, prev, newAct, next *route.Activity, _ float64) Status {
	if newAct.IsShipment() {
		if next.IsServiceDelivery() {
			return NotFulfilled
		}
		return Fulfilled
	}
	switch {
	case newAct.IsPickup() || newAct.IsService():
		if next.IsServiceDelivery() {
			return NotFulfilled
		}
	case newAct.IsDelivery():
		if prev.IsPickup() || prev.IsService() || prev.IsShipmentDelivery() {
			return NotFulfilledBreak
		}
	}
	return Fulfilled
}

// ShipmentPickupsFirst keeps every shipment pickup ahead of every shipment delivery.
type ShipmentPickupsFirst struct{}

func (ShipmentPickupsFirst) Fulfilled(_ *InsertionContext, prev, newAct, next *route.Activity, _ float64) Status {
	if newAct.IsShipmentDelivery() && next.IsShipmentPickup() {
		return NotFulfilled
	}
	if newAct.IsShipmentPickup() && prev.IsShipmentDelivery() {
		return NotFulfilledBreak
	}
	return Fulfilled
}
