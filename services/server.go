package services

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	ws "github.com/krshsl/admitwise/backend/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// RouteRegistrar is implemented by every endpoint group mounted under /api/v1
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// Server holds all server dependencies
type Server struct {
	config      *Config
	db          *gorm.DB
	authService *AuthService
	wsHub       *ws.Hub
	endpoints   []RouteRegistrar
	upgrader    websocket.Upgrader
}

// NewServer creates a new server instance; db may be nil when running without a database
func NewServer(config *Config, db *gorm.DB, authService *AuthService, hub *ws.Hub, endpoints ...RouteRegistrar) *Server {
	return &Server{
		config:      config,
		db:          db,
		authService: authService,
		wsHub:       hub,
		endpoints:   endpoints,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return CheckOrigin(r, config.WebSocket.AllowedOrigins)
			},
		},
	}
}

// SetupRoutes configures all HTTP routes
func (s *Server) SetupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.apiV1Handler)

		r.Group(func(r chi.Router) {
			r.Use(s.authService.Middleware)
			r.Get("/ws", s.websocketHandlerFunc)
			for _, e := range s.endpoints {
				e.RegisterRoutes(r)
			}
		})
	})

	return r
}

// Start starts the HTTP server and blocks until SIGINT or SIGTERM
func (s *Server) Start() {
	port := s.config.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

// CheckOrigin validates the origin of WebSocket connections to prevent CSRF attacks
func CheckOrigin(r *http.Request, allowedOriginsStr string) bool {
	origin := r.Header.Get("Origin")

	// If no allowed origins are configured, deny all requests
	if allowedOriginsStr == "" {
		slog.Warn("WebSocket connection rejected: no allowed origins configured", "origin", origin)
		return false
	}

	for _, allowed := range strings.Split(allowedOriginsStr, ",") {
		if strings.TrimSpace(allowed) == origin {
			return true
		}
	}

	slog.Warn("WebSocket connection rejected: origin not allowed", "origin", origin, "allowed_origins", allowedOriginsStr)
	return false
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "not configured"

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if err := sqlDB.PingContext(r.Context()); err != nil {
				dbStatus = "down"
				status = "degraded"
			} else {
				dbStatus = "up"
			}
		} else {
			dbStatus = "down"
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   status,
		"database": dbStatus,
	})
}

func (s *Server) apiV1Handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "API v1",
		"version": "1.0.0",
	})
}

func (s *Server) websocketHandlerFunc(w http.ResponseWriter, r *http.Request) {
	studentID, ok := StudentIDFromContext(r.Context())
	if !ok {
		writeError(w, ErrNotAuthenticated)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	slog.Info("WebSocket connection established", "student_id", studentID)

	client := s.wsHub.RegisterClient(conn, studentID)
	go client.WritePump()
	go client.ReadPump()
}
