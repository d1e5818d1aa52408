package models

import (
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Variant tags discriminate the stored form of each vehicle specialization.
// The set is closed: an unrecognized tag makes reconstruction skip the entry.
const (
	TagVehicle   = "Vehicle"
	TagCar       = "Car"
	TagSportsCar = "SportsCar"
	TagTruck     = "Truck"
)

// DefaultStatus is assigned when a vehicle is created without an explicit
// status.
const DefaultStatus = "Available"

// Vehicle is implemented by every variant in the garage (base vehicle, Car,
// SportsCar, Truck). Variants embed BaseVehicle and extend Describe and
// Stored with their own fields.
type Vehicle interface {
	// Base exposes the shared fields and the maintenance history.
	Base() *BaseVehicle
	// Describe returns the human-readable detail line for the vehicle.
	Describe() string
	// Stored converts the vehicle to its storable form, tagged with the
	// variant so the correct type can be rebuilt later.
	Stored() StoredVehicle
}

// StoredVehicle is the storable form shared by every variant. Fields that
// only some variants carry are pointers and omitted when absent.
type StoredVehicle struct {
	VariantTag         string              `json:"variant_tag"`
	ID                 string              `json:"id"`
	Brand              string              `json:"brand"`
	Model              string              `json:"model"`
	Year               int                 `json:"year"`
	Color              string              `json:"color"`
	Status             string              `json:"status"`
	MaintenanceHistory []StoredMaintenance `json:"maintenance_history"`
	DoorCount          *int                `json:"door_count,omitempty"`
	TopSpeed           *float64            `json:"top_speed,omitempty"`
	CargoCapacity      *float64            `json:"cargo_capacity,omitempty"`
	AxleCount          *int                `json:"axle_count,omitempty"`
}

// BaseVehicle holds the attributes every variant shares along with the
// vehicle's maintenance history. The history is the vehicle's exclusive
// property and is kept sorted by date, most recent first, after every
// mutation.
type BaseVehicle struct {
	ID      string
	Brand   string
	Model   string
	Year    int
	Color   string
	Status  string
	History []*Maintenance
}

// NewVehicle validates and creates a base vehicle. The id (typically the
// plate) is immutable after creation. An empty status defaults to
// DefaultStatus.
func NewVehicle(id, brand, model string, year int, color, status string) (*BaseVehicle, error) {
	switch {
	case strings.TrimSpace(id) == "":
		return nil, &ValidationError{Field: "id", Reason: "is required"}
	case strings.TrimSpace(brand) == "":
		return nil, &ValidationError{Field: "brand", Reason: "is required"}
	case strings.TrimSpace(model) == "":
		return nil, &ValidationError{Field: "model", Reason: "is required"}
	case year <= 0:
		return nil, &ValidationError{Field: "year", Reason: "is required"}
	case strings.TrimSpace(color) == "":
		return nil, &ValidationError{Field: "color", Reason: "is required"}
	}
	if status == "" {
		status = DefaultStatus
	}

	return &BaseVehicle{
		ID:     id,
		Brand:  brand,
		Model:  model,
		Year:   year,
		Color:  color,
		Status: status,
	}, nil
}

// Base returns the shared portion of the vehicle. It is promoted to every
// variant through embedding.
func (v *BaseVehicle) Base() *BaseVehicle { return v }

// AddMaintenance appends a record to the history and restores descending
// date order. Nil or invalid records are rejected.
func (v *BaseVehicle) AddMaintenance(m *Maintenance) error {
	if m == nil || m.Date.IsZero() || strings.TrimSpace(m.ServiceType) == "" || m.Cost < 0 {
		return &ValidationError{Field: "maintenance", Reason: "a valid maintenance record is required"}
	}
	v.History = append(v.History, m)
	v.sortHistory()
	return nil
}

// RemoveMaintenance deletes the record with the given id and reports whether
// it existed.
func (v *BaseVehicle) RemoveMaintenance(recordID string) bool {
	for i, m := range v.History {
		if m.ID == recordID {
			v.History = append(v.History[:i], v.History[i+1:]...)
			return true
		}
	}
	return false
}

// PastRecords returns the records dated at or before the start of today.
// Together with FutureRecords it partitions the history with no overlap.
func (v *BaseVehicle) PastRecords() []*Maintenance {
	cutoff := StartOfToday()
	var out []*Maintenance
	for _, m := range v.History {
		if !m.Date.After(cutoff) {
			out = append(out, m)
		}
	}
	return out
}

// FutureRecords returns the records dated strictly after the start of today.
func (v *BaseVehicle) FutureRecords() []*Maintenance {
	cutoff := StartOfToday()
	var out []*Maintenance
	for _, m := range v.History {
		if m.Date.After(cutoff) {
			out = append(out, m)
		}
	}
	return out
}

// Describe returns the base detail line. Variants extend this output with
// their own fields.
func (v *BaseVehicle) Describe() string {
	return fmt.Sprintf("ID: %s, Brand: %s, Model: %s, Year: %d, Color: %s, Status: %s",
		v.ID, v.Brand, v.Model, v.Year, v.Color, v.Status)
}

// Stored converts the base vehicle to its storable form.
func (v *BaseVehicle) Stored() StoredVehicle {
	return StoredVehicle{
		VariantTag:         TagVehicle,
		ID:                 v.ID,
		Brand:              v.Brand,
		Model:              v.Model,
		Year:               v.Year,
		Color:              v.Color,
		Status:             v.Status,
		MaintenanceHistory: v.storedHistory(),
	}
}

func (v *BaseVehicle) storedHistory() []StoredMaintenance {
	stored := make([]StoredMaintenance, 0, len(v.History))
	for _, m := range v.History {
		stored = append(stored, m.Stored())
	}
	return stored
}

// restoreHistory rebuilds the maintenance history from stored records,
// dropping any that fail reconstruction, then restores descending order.
func (v *BaseVehicle) restoreHistory(stored []StoredMaintenance) {
	v.History = nil
	for _, sm := range stored {
		if m := MaintenanceFromStored(sm); m != nil {
			v.History = append(v.History, m)
		}
	}
	v.sortHistory()
}

func (v *BaseVehicle) sortHistory() {
	sort.SliceStable(v.History, func(i, j int) bool {
		return v.History[i].Date.After(v.History[j].Date)
	})
}

// VehicleFromStored rebuilds a vehicle of the variant named by the stored
// tag. It fails soft: unknown tags and entries that fail validation yield
// nil and a log line so a single bad entry never blocks loading the rest of
// the fleet.
func VehicleFromStored(stored StoredVehicle) Vehicle {
	switch stored.VariantTag {
	case TagVehicle:
		return baseFromStored(stored)
	case TagCar:
		return carFromStored(stored)
	case TagSportsCar:
		return sportsCarFromStored(stored)
	case TagTruck:
		return truckFromStored(stored)
	default:
		log.WithFields(log.Fields{"variant_tag": stored.VariantTag, "id": stored.ID}).
			Warn("Unknown vehicle variant in stored data, skipping entry")
		return nil
	}
}

func baseFromStored(stored StoredVehicle) Vehicle {
	if stored.VariantTag != TagVehicle {
		logVariantMismatch(stored)
		return nil
	}
	v, err := NewVehicle(stored.ID, stored.Brand, stored.Model, stored.Year, stored.Color, stored.Status)
	if err != nil {
		logReconstructError(stored, err)
		return nil
	}
	v.restoreHistory(stored.MaintenanceHistory)
	return v
}

func logReconstructError(stored StoredVehicle, err error) {
	log.WithError(err).WithFields(log.Fields{"variant_tag": stored.VariantTag, "id": stored.ID}).
		Warn("Discarding stored vehicle that failed reconstruction")
}

func logVariantMismatch(stored StoredVehicle) {
	log.WithFields(log.Fields{"variant_tag": stored.VariantTag, "id": stored.ID}).
		Warn("Stored vehicle is missing variant fields or carries the wrong tag, skipping entry")
}
