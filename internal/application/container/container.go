// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"
	"os"

	"github.com/LeadPulse/leadpulse-go/internal/application/services"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/email"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/inference"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/locking"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/persistence/analytics"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/persistence/database"
	leadrepo "github.com/LeadPulse/leadpulse-go/internal/infrastructure/persistence/lead"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/retention"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/security"
	"github.com/LeadPulse/leadpulse-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Infrastructure
	Logger          *logging.ChanneledLogger
	DB              *database.DB
	SessionLocks    *locking.SessionLock
	InferenceClient *inference.Client
	EmailService    email.Service
	RetentionWorker *retention.Worker

	// Application services (stateless singletons)
	SessionService   *services.SessionService
	ChatService      *services.ChatService
	LeadService      *services.LeadService
	AnalyticsService *services.AnalyticsService
	AuthService      *services.AuthService
}

// NewContainer creates and wires all singleton services.
func NewContainer(logger *logging.ChanneledLogger) (*Container, error) {
	db, err := database.NewConnectionWithLogger(config.DatabaseDriver, config.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.NewTableCreator().CreateSchema(db.DB); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	// Repositories
	leads := leadrepo.NewSQLLeadRepository(db, logger)
	messages := leadrepo.NewSQLMessageRepository(db, logger)
	sessions := leadrepo.NewSQLSessionRepository(db, logger)
	events := analytics.NewSQLEventRepository(db, logger)

	// Inference client. The API key is mandatory: without it neither the
	// assistant reply nor the periodic signal inference can run.
	apiKey := os.Getenv("OPENAI_API_KEY")
	inferenceClient, err := inference.NewClient(inference.ConfigFromEnv(apiKey), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create inference client: %w", err)
	}

	// Email alerts are optional; skip silently when unconfigured.
	var emailService email.Service
	if os.Getenv("RESEND_API_KEY") != "" {
		emailService, err = email.NewService()
		if err != nil {
			logger.Startup().Warn("Email service disabled", "error", err.Error())
			emailService = nil
		}
	}

	// Admin tokens need a signing secret. Without one configured, a
	// generated ephemeral secret keeps the admin API usable, at the cost
	// of invalidating tokens on restart.
	if config.JWTSecret == "" {
		secret, err := security.GenerateSecureKey(64)
		if err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		config.JWTSecret = secret
		logger.Startup().Warn("JWT_SECRET not set, using an ephemeral secret; admin tokens will not survive a restart")
	}

	locks := locking.NewSessionLock()

	sessionService := services.NewSessionService(sessions, messages, leads, events, logger)
	leadService := services.NewLeadService(leads, events, locks, emailService, logger)
	chatService := services.NewChatService(sessionService, leadService, messages, events, inferenceClient, logger)
	analyticsService := services.NewAnalyticsService(events, logger)
	authService := services.NewAuthService(logger)

	return &Container{
		Logger:          logger,
		DB:              db,
		SessionLocks:    locks,
		InferenceClient: inferenceClient,
		EmailService:    emailService,
		RetentionWorker: retention.NewWorker(sessions, logger),

		SessionService:   sessionService,
		ChatService:      chatService,
		LeadService:      leadService,
		AnalyticsService: analyticsService,
		AuthService:      authService,
	}, nil
}

// Close releases the container's infrastructure resources.
func (c *Container) Close() error {
	if err := c.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return c.Logger.Close()
}
