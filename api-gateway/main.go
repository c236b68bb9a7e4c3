package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
)

func main() {
	usersService := envOr("USERS_SERVICE_URL", "http://users-service:8001")
	tasksService := envOr("TASKS_SERVICE_URL", "http://tasks-service:8002")

	mux := http.NewServeMux()

	// Javne rute: registracija kompanije i naloga, prijava.
	mux.Handle("/api/companies/register", reverseProxyURL(usersService))
	mux.Handle("/api/auth/register", reverseProxyURL(usersService))
	mux.Handle("/api/auth/login", reverseProxyURL(usersService))

	// Rute za Users Service (profil i članovi tima zahtevaju token)
	mux.Handle("/api/auth/profile", authMiddleware(reverseProxyURL(usersService), []string{"admin", "member"}))
	mux.Handle("/api/users/", authMiddleware(reverseProxyURL(usersService), []string{"admin", "member"}))

	// Rute za Tasks Service; servis sam sprovodi admin pravila po operaciji
	mux.Handle("/api/tasks", authMiddleware(reverseProxyURL(tasksService), []string{"admin", "member"}))
	mux.Handle("/api/tasks/", authMiddleware(reverseProxyURL(tasksService), []string{"admin", "member"}))

	http.ListenAndServe(":8000", enableCORS(mux))
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Reverse Proxy funkcija
func reverseProxyURL(target string) http.Handler {
	url, _ := url.Parse(target)
	proxy := httputil.NewSingleHostReverseProxy(url)

	proxy.Director = func(req *http.Request) {
		req.Header.Set("Authorization", req.Header.Get("Authorization"))
		req.URL.Scheme = url.Scheme
		req.URL.Host = url.Host
	}

	return proxy
}

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
