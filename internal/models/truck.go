package models

import "fmt"

// Truck is a vehicle with a cargo capacity and an axle count.
type Truck struct {
	BaseVehicle
	CargoCapacity float64 // in tons, zero allowed
	AxleCount     int
}

// NewTruck validates and creates a truck. The axle count must be positive;
// the cargo capacity may be zero.
func NewTruck(id, brand, model string, year int, color string, cargoCapacity float64, axleCount int, status string) (*Truck, error) {
	base, err := NewVehicle(id, brand, model, year, color, status)
	if err != nil {
		return nil, err
	}
	if cargoCapacity < 0 {
		return nil, &ValidationError{Field: "cargo_capacity", Reason: "must be zero or positive"}
	}
	if axleCount <= 0 {
		return nil, &ValidationError{Field: "axle_count", Reason: "must be positive"}
	}
	return &Truck{BaseVehicle: *base, CargoCapacity: cargoCapacity, AxleCount: axleCount}, nil
}

// Describe extends the base detail line with cargo capacity and axle count.
func (t *Truck) Describe() string {
	return fmt.Sprintf("%s, Cargo: %.1f t, Axles: %d", t.BaseVehicle.Describe(), t.CargoCapacity, t.AxleCount)
}

// Stored extends the base storable form with cargo capacity and axle count.
func (t *Truck) Stored() StoredVehicle {
	stored := t.BaseVehicle.Stored()
	stored.VariantTag = TagTruck
	stored.CargoCapacity = &t.CargoCapacity
	stored.AxleCount = &t.AxleCount
	return stored
}

func truckFromStored(stored StoredVehicle) Vehicle {
	if stored.VariantTag != TagTruck || stored.CargoCapacity == nil || stored.AxleCount == nil {
		logVariantMismatch(stored)
		return nil
	}
	truck, err := NewTruck(stored.ID, stored.Brand, stored.Model, stored.Year, stored.Color,
		*stored.CargoCapacity, *stored.AxleCount, stored.Status)
	if err != nil {
		logReconstructError(stored, err)
		return nil
	}
	truck.restoreHistory(stored.MaintenanceHistory)
	return truck
}
