package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	adaptervoice "github.com/summitrentals/voice-service/internal/adapters/voice"
	"github.com/summitrentals/voice-service/internal/cache"
	"github.com/summitrentals/voice-service/internal/config"
	"github.com/summitrentals/voice-service/internal/hours"
	"github.com/summitrentals/voice-service/internal/prompts"
	"github.com/summitrentals/voice-service/internal/repository"
	"github.com/summitrentals/voice-service/internal/session"
	"github.com/summitrentals/voice-service/internal/tools"
	"github.com/summitrentals/voice-service/pkg/logger"
	"github.com/summitrentals/voice-service/pkg/redis"
	"github.com/summitrentals/voice-service/pkg/sms"
	"go.uber.org/zap"
)

// HandlerManager wires the services and owns all HTTP handlers.
type HandlerManager struct {
	config         *config.ServiceConfig
	repoManager    repository.RepositoryManager
	controller     *session.Controller
	webhookHandler *WebhookHandler
}

// NewHandlerManager creates and initializes all handlers and services.
func NewHandlerManager(cfg *config.ServiceConfig) (*HandlerManager, error) {
	repoManager, err := repository.NewRepositoryManager()
	if err != nil {
		logger.Base().Error("failed to connect to database", zap.Error(err))
		return nil, err
	}

	// Redis is an optimization; the service runs without it.
	var redisSvc redis.RedisServiceInterface
	if cfg.RedisEnabled {
		svc, err := redis.NewRedisService(&redis.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Base().Warn("redis unavailable, running without client cache", zap.Error(err))
		} else {
			redisSvc = svc
		}
	}
	clients := cache.NewCachedClientRepository(repoManager.Clients(), redisSvc)

	calendar, err := hours.Default()
	if err != nil {
		return nil, err
	}

	assembler := prompts.NewAssembler(repoManager.Contacts(), calendar)
	smsSvc := sms.NewService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	controlClient := adaptervoice.NewControlClient()

	// The tool table is built once here and injected; tests swap in fakes.
	registry := tools.NewStandardRegistry(
		repoManager.Equipment(),
		repoManager.Contacts(),
		repoManager.Callbacks(),
		clients,
		controlClient,
		smsSvc,
	)
	dispatcher := tools.NewDispatcher(registry)

	controller := session.NewController(
		clients,
		repoManager.Calls(),
		repoManager.Contacts(),
		assembler,
		dispatcher,
	)

	return &HandlerManager{
		config:         cfg,
		repoManager:    repoManager,
		controller:     controller,
		webhookHandler: NewWebhookHandler(controller),
	}, nil
}

// SetupAllRoutes registers every route on the router.
func (m *HandlerManager) SetupAllRoutes(router *mux.Router) {
	router.Use(loggingMiddleware)

	router.HandleFunc("/health", m.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/voice/webhook", m.webhookHandler.HandleWebhook).Methods(http.MethodPost)
	api.HandleFunc("/voice/tools", m.webhookHandler.HandleToolCalls).Methods(http.MethodPost)
}

// handleHealth reports service and database health.
func (m *HandlerManager) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := m.repoManager.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Close releases held resources.
func (m *HandlerManager) Close() error {
	return m.repoManager.Close()
}
