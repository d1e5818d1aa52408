package models

import "fmt"

// Car is a vehicle with a door count.
type Car struct {
	BaseVehicle
	DoorCount int
}

// NewCar validates and creates a car. The door count must be positive.
func NewCar(id, brand, model string, year int, color string, doorCount int, status string) (*Car, error) {
	base, err := NewVehicle(id, brand, model, year, color, status)
	if err != nil {
		return nil, err
	}
	if doorCount <= 0 {
		return nil, &ValidationError{Field: "door_count", Reason: "must be positive"}
	}
	return &Car{BaseVehicle: *base, DoorCount: doorCount}, nil
}

// Describe extends the base detail line with the door count.
func (c *Car) Describe() string {
	return fmt.Sprintf("%s, Doors: %d", c.BaseVehicle.Describe(), c.DoorCount)
}

// Stored extends the base storable form with the door count.
func (c *Car) Stored() StoredVehicle {
	stored := c.BaseVehicle.Stored()
	stored.VariantTag = TagCar
	stored.DoorCount = &c.DoorCount
	return stored
}

func carFromStored(stored StoredVehicle) Vehicle {
	if stored.VariantTag != TagCar || stored.DoorCount == nil {
		logVariantMismatch(stored)
		return nil
	}
	car, err := NewCar(stored.ID, stored.Brand, stored.Model, stored.Year, stored.Color, *stored.DoorCount, stored.Status)
	if err != nil {
		logReconstructError(stored, err)
		return nil
	}
	car.restoreHistory(stored.MaintenanceHistory)
	return car
}

// SportsCar is a car with a top speed.
type SportsCar struct {
	Car
	TopSpeed float64 // in km/h
}

// NewSportsCar validates and creates a sports car. The top speed must be
// positive.
func NewSportsCar(id, brand, model string, year int, color string, doorCount int, topSpeed float64, status string) (*SportsCar, error) {
	car, err := NewCar(id, brand, model, year, color, doorCount, status)
	if err != nil {
		return nil, err
	}
	if topSpeed <= 0 {
		return nil, &ValidationError{Field: "top_speed", Reason: "must be positive"}
	}
	return &SportsCar{Car: *car, TopSpeed: topSpeed}, nil
}

// Describe extends the car detail line with the top speed.
func (s *SportsCar) Describe() string {
	return fmt.Sprintf("%s, Top Speed: %.0f km/h", s.Car.Describe(), s.TopSpeed)
}

// Stored extends the car storable form with the top speed.
func (s *SportsCar) Stored() StoredVehicle {
	stored := s.Car.Stored()
	stored.VariantTag = TagSportsCar
	stored.TopSpeed = &s.TopSpeed
	return stored
}

func sportsCarFromStored(stored StoredVehicle) Vehicle {
	if stored.VariantTag != TagSportsCar || stored.DoorCount == nil || stored.TopSpeed == nil {
		logVariantMismatch(stored)
		return nil
	}
	sc, err := NewSportsCar(stored.ID, stored.Brand, stored.Model, stored.Year, stored.Color,
		*stored.DoorCount, *stored.TopSpeed, stored.Status)
	if err != nil {
		logReconstructError(stored, err)
		return nil
	}
	sc.restoreHistory(stored.MaintenanceHistory)
	return sc
}
