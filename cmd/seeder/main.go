package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Vehicle mirrors the API's create-vehicle request body.
type Vehicle struct {
	VariantTag    string   `json:"variant_tag"`
	ID            string   `json:"id"`
	Brand         string   `json:"brand"`
	Model         string   `json:"model"`
	Year          int      `json:"year"`
	Color         string   `json:"color"`
	DoorCount     *int     `json:"door_count,omitempty"`
	TopSpeed      *float64 `json:"top_speed,omitempty"`
	CargoCapacity *float64 `json:"cargo_capacity,omitempty"`
	AxleCount     *int     `json:"axle_count,omitempty"`
}

// Maintenance mirrors the API's add-maintenance request body.
type Maintenance struct {
	Date        string  `json:"date"`
	ServiceType string  `json:"service_type"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description"`
}

var brands = map[string][]string{
	"Car":       {"Toyota", "Honda", "Volkswagen", "Fiat", "Chevrolet"},
	"SportsCar": {"Porsche", "Ferrari", "BMW", "Audi"},
	"Truck":     {"Volvo", "Scania", "Mercedes-Benz", "Iveco"},
}

var carModels = map[string][]string{
	"Car":       {"Corolla", "Civic", "Golf", "Argo", "Onix"},
	"SportsCar": {"911", "F8", "M4", "R8"},
	"Truck":     {"FH 540", "R 450", "Actros", "S-Way"},
}

var colors = []string{"Blue", "Red", "Black", "White", "Silver"}

var serviceTypes = []string{"Oil change", "Tire rotation", "Brake service", "Inspection", "Battery service"}

var authToken string

func authorizedPost(url string, body *bytes.Buffer) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

// login fetches a token using the admin credentials so the seeded requests
// pass the API's auth middleware.
func login(apiURL string) (string, error) {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin-change-me"
	}

	data, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(apiURL+"/auth/login", "application/json", bytes.NewBuffer(data))
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	return result.Token, nil
}

func randomVehicle(i int) Vehicle {
	variant := []string{"Car", "SportsCar", "Truck"}[rand.Intn(3)]
	v := Vehicle{
		VariantTag: variant,
		ID:         fmt.Sprintf("SEED%04d", i+1),
		Brand:      brands[variant][rand.Intn(len(brands[variant]))],
		Model:      carModels[variant][rand.Intn(len(carModels[variant]))],
		Year:       2018 + rand.Intn(8),
		Color:      colors[rand.Intn(len(colors))],
	}
	switch variant {
	case "Car":
		doors := 2 + 2*rand.Intn(2)
		v.DoorCount = &doors
	case "SportsCar":
		doors := 2
		speed := 250.0 + float64(rand.Intn(100))
		v.DoorCount = &doors
		v.TopSpeed = &speed
	case "Truck":
		cargo := float64(5 + rand.Intn(25))
		axles := 2 + rand.Intn(4)
		v.CargoCapacity = &cargo
		v.AxleCount = &axles
	}
	return v
}

func createVehicle(apiURL string, v Vehicle) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal vehicle: %w", err)
	}
	resp, err := authorizedPost(apiURL+"/vehicles", bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("vehicle creation failed with status: %d", resp.StatusCode)
	}

	log.WithFields(log.Fields{
		"vehicle_id": v.ID,
		"variant":    v.VariantTag,
		"brand":      v.Brand,
		"model":      v.Model,
	}).Info("Created vehicle")
	return nil
}

// randomMaintenance produces a mix of past services and upcoming
// appointments so the fleet view has something in every tab.
func randomMaintenance() Maintenance {
	daysOffset := rand.Intn(30) - 20 // mostly past, some upcoming
	date := time.Now().AddDate(0, 0, daysOffset)
	return Maintenance{
		Date:        date.Format(time.RFC3339),
		ServiceType: serviceTypes[rand.Intn(len(serviceTypes))],
		Cost:        50 + float64(rand.Intn(900)),
		Description: "",
	}
}

func addMaintenance(apiURL, vehicleID string, m Maintenance) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal maintenance: %w", err)
	}
	resp, err := authorizedPost(fmt.Sprintf("%s/vehicles/%s/maintenance", apiURL, vehicleID), bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to add maintenance: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("maintenance creation failed with status: %d", resp.StatusCode)
	}
	return nil
}

func main() {
	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	fleetSize := 5
	if val := os.Getenv("SEED_FLEET_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			fleetSize = n
		}
	}

	authToken = os.Getenv("SEED_AUTH_TOKEN")
	if authToken == "" {
		token, err := login(apiURL)
		if err != nil {
			log.WithError(err).Fatal("Could not log in. Set SEED_AUTH_TOKEN or admin credentials.")
		}
		authToken = token
	}

	log.WithFields(log.Fields{"fleet_size": fleetSize, "api_url": apiURL}).Info("Seeding demo garage")

	created := 0
	for i := 0; i < fleetSize; i++ {
		v := randomVehicle(i)
		if err := createVehicle(apiURL, v); err != nil {
			log.WithError(err).Error("Failed to create vehicle")
			continue
		}
		created++

		for j := 0; j < 1+rand.Intn(3); j++ {
			if err := addMaintenance(apiURL, v.ID, randomMaintenance()); err != nil {
				log.WithError(err).WithField("vehicle_id", v.ID).Error("Failed to add maintenance")
			}
		}
	}

	log.WithField("created_vehicles", created).Info("Seeding completed")
	if created == 0 {
		os.Exit(1)
	}
}
