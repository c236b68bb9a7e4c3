package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"task-tracker/backend/users-service/handlers"
	"task-tracker/backend/users-service/logging"
	"task-tracker/backend/users-service/middleware"
	"task-tracker/backend/users-service/repositories"
	"task-tracker/backend/users-service/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
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

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Users Service...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")

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

	db := client.Database(mongoDBName)
	userRepo := repositories.NewUserRepo(db.Collection("users"))
	companyRepo := repositories.NewCompanyRepo(db.Collection("companies"))

	invitePolicy := services.SecretInvitePolicy{Secret: os.Getenv("ADMIN_INVITE_TOKEN")}
	userService := services.NewUserService(userRepo, companyRepo, invitePolicy)

	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	companyHandler := handlers.NewCompanyHandler(userService)

	r := mux.NewRouter()

	r.HandleFunc("/api/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods(http.MethodPost)
	r.Handle("/api/auth/profile", middleware.JWTAuthMiddleware(http.HandlerFunc(authHandler.GetProfile))).Methods(http.MethodGet)
	r.Handle("/api/auth/profile", middleware.JWTAuthMiddleware(http.HandlerFunc(authHandler.UpdateProfile))).Methods(http.MethodPut)

	r.HandleFunc("/api/companies/register", companyHandler.RegisterCompany).Methods(http.MethodPost)

	r.Handle("/api/users/team-members/{leadId}", middleware.JWTAuthMiddleware(http.HandlerFunc(userHandler.GetTeamMembers))).Methods(http.MethodGet)

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
