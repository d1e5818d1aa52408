// Package garage implements the fleet aggregate: the single owner of the
// vehicle collection and the sole writer to persistent storage. All
// operations are synchronous; the garage assumes single-writer usage of its
// storage key.
package garage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vgarage/smart-garage/internal/models"
	"github.com/vgarage/smart-garage/internal/storage"
)

const (
	// DefaultCapacity is the fleet size limit used when none is configured.
	DefaultCapacity = 10
	// DefaultStorageKey is the single key the whole snapshot lives under.
	DefaultStorageKey = "smart-garage-fleet"
	// DefaultLeadDays is the look-ahead window for upcoming maintenance.
	DefaultLeadDays = 7
)

var (
	ErrGarageFull       = errors.New("garage is at maximum capacity")
	ErrDuplicateVehicle = errors.New("a vehicle with this id already exists")
	ErrVehicleNotFound  = errors.New("vehicle not found")
	ErrRecordNotFound   = errors.New("maintenance record not found")

	// ErrCorruptData marks a stored payload that could not be parsed at
	// all. Loading purges the key and starts with an empty fleet.
	ErrCorruptData = errors.New("stored garage data is corrupt")
)

// Garage owns the vehicle collection. Every successful mutation rewrites the
// full snapshot to storage; a failed write is logged and the in-memory
// collection stays valid.
type Garage struct {
	vehicles    []models.Vehicle
	maxCapacity int
	store       storage.Store
	key         string
}

// New creates a garage persisting through store. A non-positive capacity
// falls back to DefaultCapacity.
func New(store storage.Store, maxCapacity int) *Garage {
	if maxCapacity <= 0 {
		maxCapacity = DefaultCapacity
	}
	return &Garage{
		maxCapacity: maxCapacity,
		store:       store,
		key:         DefaultStorageKey,
	}
}

// Capacity returns the fixed maximum number of vehicles.
func (g *Garage) Capacity() int { return g.maxCapacity }

// AddVehicle adds a vehicle to the garage and persists the snapshot. It
// fails without mutating the collection when the vehicle is nil, the garage
// is full or the id is already taken.
func (g *Garage) AddVehicle(ctx context.Context, v models.Vehicle) error {
	if v == nil {
		return &models.ValidationError{Field: "vehicle", Reason: "a valid vehicle is required"}
	}
	if len(g.vehicles) >= g.maxCapacity {
		return ErrGarageFull
	}
	if g.FindVehicle(v.Base().ID) != nil {
		return ErrDuplicateVehicle
	}
	g.vehicles = append(g.vehicles, v)
	g.persistAfterMutation(ctx)
	return nil
}

// RemoveVehicle removes the vehicle with the given id, cascading its
// maintenance history, and persists the snapshot.
func (g *Garage) RemoveVehicle(ctx context.Context, id string) error {
	for i, v := range g.vehicles {
		if v.Base().ID == id {
			g.vehicles = append(g.vehicles[:i], g.vehicles[i+1:]...)
			g.persistAfterMutation(ctx)
			return nil
		}
	}
	return ErrVehicleNotFound
}

// FindVehicle returns the vehicle with the given id, or nil.
func (g *Garage) FindVehicle(id string) models.Vehicle {
	for _, v := range g.vehicles {
		if v.Base().ID == id {
			return v
		}
	}
	return nil
}

// ListVehicles returns the current collection. The slice is a copy; the
// vehicles themselves are shared.
func (g *Garage) ListVehicles() []models.Vehicle {
	out := make([]models.Vehicle, len(g.vehicles))
	copy(out, g.vehicles)
	return out
}

// AddMaintenanceToVehicle records a maintenance entry on the vehicle with
// the given id and persists the snapshot.
func (g *Garage) AddMaintenanceToVehicle(ctx context.Context, vehicleID string, m *models.Maintenance) error {
	v := g.FindVehicle(vehicleID)
	if v == nil {
		return ErrVehicleNotFound
	}
	if err := v.Base().AddMaintenance(m); err != nil {
		return err
	}
	g.persistAfterMutation(ctx)
	return nil
}

// RemoveMaintenanceFromVehicle deletes a maintenance entry from the vehicle
// with the given id and persists the snapshot.
func (g *Garage) RemoveMaintenanceFromVehicle(ctx context.Context, vehicleID, recordID string) error {
	v := g.FindVehicle(vehicleID)
	if v == nil {
		return ErrVehicleNotFound
	}
	if !v.Base().RemoveMaintenance(recordID) {
		return ErrRecordNotFound
	}
	g.persistAfterMutation(ctx)
	return nil
}

// Upcoming pairs a scheduled maintenance record with the vehicle it belongs
// to, ready for display.
type Upcoming struct {
	VehicleID   string `json:"vehicle_id"`
	VehicleInfo string `json:"vehicle_info"`
	Detail      string `json:"detail"`
}

// UpcomingMaintenance returns every record across the fleet scheduled after
// the start of today and no later than leadDays from now. A non-positive
// leadDays falls back to DefaultLeadDays.
func (g *Garage) UpcomingMaintenance(leadDays int) []Upcoming {
	if leadDays <= 0 {
		leadDays = DefaultLeadDays
	}
	start := models.StartOfToday()
	limit := time.Now().AddDate(0, 0, leadDays)

	var due []Upcoming
	for _, v := range g.vehicles {
		base := v.Base()
		for _, m := range base.History {
			if m.Date.After(start) && !m.Date.After(limit) {
				due = append(due, Upcoming{
					VehicleID:   base.ID,
					VehicleInfo: fmt.Sprintf("%s %s (ID: %s)", base.Brand, base.Model, base.ID),
					Detail:      m.Format(),
				})
			}
		}
	}
	return due
}

// Persist serializes the whole fleet into one JSON array and overwrites the
// single storage entry. A failed write leaves the in-memory collection
// untouched.
func (g *Garage) Persist(ctx context.Context) error {
	stored := make([]models.StoredVehicle, 0, len(g.vehicles))
	for _, v := range g.vehicles {
		stored = append(stored, v.Stored())
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode garage snapshot: %w", err)
	}
	if err := g.store.Set(ctx, g.key, string(payload)); err != nil {
		return fmt.Errorf("write garage snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot and rebuilds the fleet. An absent key means
// an empty garage, not an error. Entries with an unrecognized variant tag or
// that fail reconstruction are skipped. A payload that does not parse as the
// expected container resets the fleet, purges the key and returns
// ErrCorruptData.
func (g *Garage) Load(ctx context.Context) error {
	raw, err := g.store.Get(ctx, g.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		g.vehicles = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("read garage snapshot: %w", err)
	}

	var stored []models.StoredVehicle
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.WithError(err).Error("Stored garage data is corrupt, resetting fleet and purging the entry")
		g.vehicles = nil
		if rmErr := g.store.Remove(ctx, g.key); rmErr != nil {
			log.WithError(rmErr).Warn("Failed to purge corrupt garage data")
		}
		return ErrCorruptData
	}

	vehicles := make([]models.Vehicle, 0, len(stored))
	for _, sv := range stored {
		if v := models.VehicleFromStored(sv); v != nil {
			vehicles = append(vehicles, v)
		}
	}
	g.vehicles = vehicles
	return nil
}

// persistAfterMutation writes the snapshot after a successful mutation. The
// mutation stands even when the write fails; the failure is only reported.
func (g *Garage) persistAfterMutation(ctx context.Context) {
	if err := g.Persist(ctx); err != nil {
		log.WithError(err).Error("Failed to persist garage snapshot, in-memory fleet remains valid")
	}
}
