package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/vgarage/smart-garage/internal/garage"
	"github.com/vgarage/smart-garage/internal/models"
)

// GarageHandler exposes the garage's plain-data operations over HTTP. It is
// the surface a UI layer consumes; no rendering happens here.
type GarageHandler struct {
	garage *garage.Garage
}

// NewGarageHandler creates a new garage handler
func NewGarageHandler(g *garage.Garage) *GarageHandler {
	return &GarageHandler{garage: g}
}

type createVehicleRequest struct {
	VariantTag    string   `json:"variant_tag"`
	ID            string   `json:"id"`
	Brand         string   `json:"brand"`
	Model         string   `json:"model"`
	Year          int      `json:"year"`
	Color         string   `json:"color"`
	Status        string   `json:"status"`
	DoorCount     *int     `json:"door_count"`
	TopSpeed      *float64 `json:"top_speed"`
	CargoCapacity *float64 `json:"cargo_capacity"`
	AxleCount     *int     `json:"axle_count"`
}

type createMaintenanceRequest struct {
	Date        string  `json:"date"`
	ServiceType string  `json:"service_type"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description"`
}

// vehicleResponse is the stored form plus the human-readable detail line.
type vehicleResponse struct {
	models.StoredVehicle
	Detail string `json:"detail"`
}

type maintenanceResponse struct {
	models.StoredMaintenance
	Detail string `json:"detail"`
}

// CreateVehicle handles POST /api/vehicles
func (h *GarageHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req createVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	v, err := buildVehicle(req)
	if err != nil {
		writeGarageError(w, err)
		return
	}
	if err := h.garage.AddVehicle(r.Context(), v); err != nil {
		writeGarageError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, vehicleResponse{StoredVehicle: v.Stored(), Detail: v.Describe()})
}

// ListVehicles handles GET /api/vehicles
func (h *GarageHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles := h.garage.ListVehicles()
	out := make([]vehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, vehicleResponse{StoredVehicle: v.Stored(), Detail: v.Describe()})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetVehicle handles GET /api/vehicles/{id}
func (h *GarageHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	v := h.garage.FindVehicle(r.PathValue("id"))
	if v == nil {
		writeGarageError(w, garage.ErrVehicleNotFound)
		return
	}
	writeJSON(w, http.StatusOK, vehicleResponse{StoredVehicle: v.Stored(), Detail: v.Describe()})
}

// DeleteVehicle handles DELETE /api/vehicles/{id}
func (h *GarageHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := h.garage.RemoveVehicle(r.Context(), r.PathValue("id")); err != nil {
		writeGarageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddMaintenance handles POST /api/vehicles/{id}/maintenance
func (h *GarageHandler) AddMaintenance(w http.ResponseWriter, r *http.Request) {
	var req createMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		http.Error(w, "Date must be an RFC 3339 timestamp", http.StatusBadRequest)
		return
	}
	m, err := models.NewMaintenance(date, req.ServiceType, req.Cost, req.Description)
	if err != nil {
		writeGarageError(w, err)
		return
	}
	if err := h.garage.AddMaintenanceToVehicle(r.Context(), r.PathValue("id"), m); err != nil {
		writeGarageError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, maintenanceResponse{StoredMaintenance: m.Stored(), Detail: m.Format()})
}

// RemoveMaintenance handles DELETE /api/vehicles/{id}/maintenance/{recordID}
func (h *GarageHandler) RemoveMaintenance(w http.ResponseWriter, r *http.Request) {
	err := h.garage.RemoveMaintenanceFromVehicle(r.Context(), r.PathValue("id"), r.PathValue("recordID"))
	if err != nil {
		writeGarageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PastMaintenance handles GET /api/vehicles/{id}/maintenance/past
func (h *GarageHandler) PastMaintenance(w http.ResponseWriter, r *http.Request) {
	v := h.garage.FindVehicle(r.PathValue("id"))
	if v == nil {
		writeGarageError(w, garage.ErrVehicleNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toMaintenanceResponses(v.Base().PastRecords()))
}

// FutureMaintenance handles GET /api/vehicles/{id}/maintenance/future
func (h *GarageHandler) FutureMaintenance(w http.ResponseWriter, r *http.Request) {
	v := h.garage.FindVehicle(r.PathValue("id"))
	if v == nil {
		writeGarageError(w, garage.ErrVehicleNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toMaintenanceResponses(v.Base().FutureRecords()))
}

// UpcomingMaintenance handles GET /api/maintenance/upcoming?lead_days=7
func (h *GarageHandler) UpcomingMaintenance(w http.ResponseWriter, r *http.Request) {
	leadDays := garage.DefaultLeadDays
	if v := r.URL.Query().Get("lead_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "lead_days must be a positive integer", http.StatusBadRequest)
			return
		}
		leadDays = n
	}

	due := h.garage.UpcomingMaintenance(leadDays)
	if due == nil {
		due = []garage.Upcoming{}
	}
	writeJSON(w, http.StatusOK, due)
}

// buildVehicle constructs the variant named by the request tag, failing
// loudly on missing or invalid fields.
func buildVehicle(req createVehicleRequest) (models.Vehicle, error) {
	switch req.VariantTag {
	case models.TagVehicle:
		return models.NewVehicle(req.ID, req.Brand, req.Model, req.Year, req.Color, req.Status)
	case models.TagCar:
		if req.DoorCount == nil {
			return nil, &models.ValidationError{Field: "door_count", Reason: "is required for a car"}
		}
		return models.NewCar(req.ID, req.Brand, req.Model, req.Year, req.Color, *req.DoorCount, req.Status)
	case models.TagSportsCar:
		if req.DoorCount == nil {
			return nil, &models.ValidationError{Field: "door_count", Reason: "is required for a sports car"}
		}
		if req.TopSpeed == nil {
			return nil, &models.ValidationError{Field: "top_speed", Reason: "is required for a sports car"}
		}
		return models.NewSportsCar(req.ID, req.Brand, req.Model, req.Year, req.Color,
			*req.DoorCount, *req.TopSpeed, req.Status)
	case models.TagTruck:
		if req.CargoCapacity == nil {
			return nil, &models.ValidationError{Field: "cargo_capacity", Reason: "is required for a truck"}
		}
		if req.AxleCount == nil {
			return nil, &models.ValidationError{Field: "axle_count", Reason: "is required for a truck"}
		}
		return models.NewTruck(req.ID, req.Brand, req.Model, req.Year, req.Color,
			*req.CargoCapacity, *req.AxleCount, req.Status)
	default:
		return nil, &models.ValidationError{Field: "variant_tag", Reason: "must be one of Vehicle, Car, SportsCar, Truck"}
	}
}

func toMaintenanceResponses(records []*models.Maintenance) []maintenanceResponse {
	out := make([]maintenanceResponse, 0, len(records))
	for _, m := range records {
		out = append(out, maintenanceResponse{StoredMaintenance: m.Stored(), Detail: m.Format()})
	}
	return out
}

// writeGarageError maps domain errors onto HTTP statuses with the error's
// short human-readable message as the body.
func writeGarageError(w http.ResponseWriter, err error) {
	var vErr *models.ValidationError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &vErr):
		status = http.StatusBadRequest
	case errors.Is(err, garage.ErrVehicleNotFound), errors.Is(err, garage.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, garage.ErrGarageFull), errors.Is(err, garage.ErrDuplicateVehicle):
		status = http.StatusConflict
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
