package service

import "context"

// DriverAssigner resolves the driver for a vehicle at booking time. The
// allocation engine treats assignment as a capability so a real roster
// or availability engine can replace the stand-in without touching the
// lifecycle contract.
type DriverAssigner interface {
	AssignDriver(ctx context.Context, vehicleID int) (int, error)
}

// vehicleDriverAssigner mirrors the fleet's current operating policy:
// every vehicle has a fixed driver sharing its identifier.
type vehicleDriverAssigner struct{}

func NewVehicleDriverAssigner() DriverAssigner {
	return vehicleDriverAssigner{}
}

func (vehicleDriverAssigner) AssignDriver(_ context.Context, vehicleID int) (int, error) {
	return vehicleID, nil
}
