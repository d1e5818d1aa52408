package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vgarage/smart-garage/internal/auth"
	"github.com/vgarage/smart-garage/internal/db"
	"github.com/vgarage/smart-garage/internal/garage"
	"github.com/vgarage/smart-garage/internal/handlers"
	"github.com/vgarage/smart-garage/internal/middleware"
	"github.com/vgarage/smart-garage/internal/models"
	"github.com/vgarage/smart-garage/internal/storage"
)

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// buildStores picks the persistence backends: MongoDB when MONGO_URI is set,
// otherwise a local JSON file for the fleet and in-memory users.
func buildStores() (storage.Store, db.UserCollection, error) {
	if os.Getenv("MONGO_URI") != "" {
		client, err := db.ConnectMongo()
		if err != nil {
			return nil, nil, err
		}
		dbName := os.Getenv("MONGO_DB")
		if dbName == "" {
			dbName = "garage"
		}
		database := client.Database(dbName)
		log.Info("Connected to MongoDB")
		return &storage.MongoStore{Collection: database.Collection("kv")},
			&db.MongoUserCollection{Collection: database.Collection("users")}, nil
	}

	path := os.Getenv("GARAGE_DATA_FILE")
	if path == "" {
		path = "garage-data.json"
	}
	log.WithField("path", path).Info("Using local file storage")
	return storage.NewFileStore(path), db.NewMemoryUserCollection(), nil
}

// seedAdminUser creates the initial admin account when it does not exist
// yet, so a fresh deployment can log in.
func seedAdminUser(ctx context.Context, authService *auth.Service, users db.UserCollection) {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin-change-me"
	}

	if _, err := users.FindUserByUsername(ctx, username); err == nil {
		return
	} else if !errors.Is(err, db.ErrUserNotFound) {
		log.WithError(err).Warn("Could not check for admin user")
		return
	}

	hash, err := authService.HashPassword(password)
	if err != nil {
		log.WithError(err).Error("Failed to hash admin password")
		return
	}
	user := models.User{
		Username:     username,
		Email:        "admin@garage.local",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := users.InsertUser(ctx, user); err != nil {
		log.WithError(err).Error("Failed to seed admin user")
		return
	}
	log.WithField("username", username).Info("Seeded admin user")
}

func main() {
	_ = godotenv.Load()

	store, users, err := buildStores()
	if err != nil {
		log.WithError(err).Fatal("Failed to set up storage")
	}

	capacity := garage.DefaultCapacity
	if v := os.Getenv("GARAGE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			capacity = n
		}
	}
	g := garage.New(store, capacity)

	ctx := context.Background()
	if err := g.Load(ctx); err != nil {
		if errors.Is(err, garage.ErrCorruptData) {
			log.Warn("Stored fleet data was corrupt and has been purged, starting with an empty garage")
		} else {
			log.WithError(err).Warn("Could not load stored fleet, starting with an empty garage")
		}
	}
	log.WithFields(log.Fields{"vehicles": len(g.ListVehicles()), "capacity": capacity}).Info("Garage loaded")

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to set up auth service")
	}
	seedAdminUser(ctx, authService, users)

	authHandler := handlers.NewAuthHandler(authService, users)
	garageHandler := handlers.NewGarageHandler(g)
	authMw := middleware.NewAuthMiddleware(authService)
	rateMw := middleware.NewRateLimitMiddleware()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)

	protect := func(action string, h http.HandlerFunc) http.Handler {
		return authMw.RequirePermission(action)(h)
	}
	mux.Handle("POST /api/vehicles", protect("manage_vehicles", garageHandler.CreateVehicle))
	mux.Handle("GET /api/vehicles", protect("view_fleet", garageHandler.ListVehicles))
	mux.Handle("GET /api/vehicles/{id}", protect("view_fleet", garageHandler.GetVehicle))
	mux.Handle("DELETE /api/vehicles/{id}", protect("manage_vehicles", garageHandler.DeleteVehicle))
	mux.Handle("POST /api/vehicles/{id}/maintenance", protect("manage_maintenance", garageHandler.AddMaintenance))
	mux.Handle("DELETE /api/vehicles/{id}/maintenance/{recordID}", protect("manage_maintenance", garageHandler.RemoveMaintenance))
	mux.Handle("GET /api/vehicles/{id}/maintenance/past", protect("view_fleet", garageHandler.PastMaintenance))
	mux.Handle("GET /api/vehicles/{id}/maintenance/future", protect("view_fleet", garageHandler.FutureMaintenance))
	mux.Handle("GET /api/maintenance/upcoming", protect("view_fleet", garageHandler.UpcomingMaintenance))

	handler := rateMw.RateLimit(100, 60)(authMw.Authenticate(mux))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
