package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/summitrentals/voice-service/internal/config"
	"github.com/summitrentals/voice-service/internal/handler"
	"github.com/summitrentals/voice-service/pkg/logger"
	"go.uber.org/zap"
)

// Server wraps the rental voice service HTTP server.
type Server struct {
	config         *config.ServiceConfig
	router         *mux.Router
	handlerManager *handler.HandlerManager
}

// NewServer creates a new rental voice service server.
func NewServer(cfg *config.ServiceConfig) (*Server, error) {
	if _, err := logger.Init(cfg.LogEnv); err != nil {
		logger.Base().Error("failed to initialize zap logger, falling back to std log")
	}

	router := mux.NewRouter()

	handlerManager, err := handler.NewHandlerManager(cfg)
	if err != nil {
		return nil, err
	}
	handlerManager.SetupAllRoutes(router)

	return &Server{
		config:         cfg,
		router:         router,
		handlerManager: handlerManager,
	}, nil
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.config.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Base().Info("starting server", zap.String("addr", addr))
	return server.ListenAndServe()
}

func main() {
	// Load .env for local development; never overrides real environment.
	if err := godotenv.Load(); err != nil {
		log.Printf("info: .env file not found or skipped (expected in production): %v", err)
	}

	cfg := config.LoadConfigFromEnv()

	server, err := NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	logger.Base().Info("server initialized",
		zap.String("port", cfg.Port),
		zap.String("log_env", cfg.LogEnv))
	defer logger.Sync()

	if err := server.Start(); err != nil {
		logger.Base().Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
