package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"task-tracker/backend/tasks-service/handlers"
	"task-tracker/backend/tasks-service/logging"
	"task-tracker/backend/tasks-service/middleware"
	"task-tracker/backend/tasks-service/repositories"
	"task-tracker/backend/tasks-service/services"
	http_client "task-tracker/backend/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Tasks Service...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	usersServiceURL := os.Getenv("USERS_SERVICE_URL")
	if usersServiceURL == "" {
		usersServiceURL = "http://users-service:8001"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	taskRepo := repositories.NewTaskRepo(client.Database(mongoDBName).Collection("tasks"))

	usersBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "UsersServiceCB",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	teamClient := services.NewTeamClient(usersServiceURL, http_client.NewHTTPClient(), usersBreaker)
	taskService := services.NewTaskService(taskRepo, teamClient)
	dashboardService := services.NewDashboardService(taskRepo)

	taskHandler := handlers.NewTaskHandler(taskService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	r := mux.NewRouter()
	api := r.PathPrefix("/api/tasks").Subrouter()
	api.Use(middleware.JWTAuthMiddleware)

	api.HandleFunc("/dashboard-data", dashboardHandler.GetTeamDashboard).Methods(http.MethodGet)
	api.HandleFunc("/user-dashboard-data", dashboardHandler.GetUserDashboard).Methods(http.MethodGet)
	api.HandleFunc("", taskHandler.GetTasks).Methods(http.MethodGet)
	api.HandleFunc("", taskHandler.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/{id}", taskHandler.GetTaskByID).Methods(http.MethodGet)
	api.HandleFunc("/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	api.HandleFunc("/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/{id}/status", taskHandler.UpdateTaskStatus).Methods(http.MethodPut)
	api.HandleFunc("/{id}/todo", taskHandler.UpdateTaskChecklist).Methods(http.MethodPut)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
