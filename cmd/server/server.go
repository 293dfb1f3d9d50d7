package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bazarbekovic131/wahr-chatbot/internal/config"
	"github.com/bazarbekovic131/wahr-chatbot/internal/db"
	"github.com/bazarbekovic131/wahr-chatbot/internal/handlers"
	"github.com/bazarbekovic131/wahr-chatbot/internal/mailer"
	"github.com/bazarbekovic131/wahr-chatbot/internal/services"
	"github.com/bazarbekovic131/wahr-chatbot/internal/whatsapp"
	"github.com/bazarbekovic131/wahr-chatbot/pkg/logger"
	"github.com/bazarbekovic131/wahr-chatbot/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBody bounds webhook request bodies; inbound documents arrive as
// media ids, not bytes, so deliveries are small
const maxWebhookBody = 1 << 20

// Server bundles the HTTP server, the background digest job and the database
type Server struct {
	httpSrv  *http.Server
	digest   *mailer.DigestJob
	database *db.Database
}

// SetupServer wires repositories, services, handlers and routes
func SetupServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}

	if cfg.Server.Port <= 0 {
		return nil, errors.New("invalid server port")
	}

	// Initialize database
	database, err := db.NewDatabase(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Seed vacancy catalog if enabled
	if cfg.Seed.Enable {
		if err := database.SeedDatabase(); err != nil {
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}

	// Initialize repositories
	contactRepo := db.NewContactRepository(database.GetDB())
	surveyRepo := db.NewSurveyRepository(database.GetDB())
	vacancyRepo := db.NewVacancyRepository(database.GetDB())
	resumeRepo := db.NewResumeRepository(database.GetDB())

	// Initialize WhatsApp client and services
	waClient := whatsapp.NewClient(
		cfg.WhatsApp.AccessToken,
		cfg.WhatsApp.PhoneNumberID,
		cfg.WhatsApp.GraphVersion,
	)
	surveyService := services.NewSurveyService(contactRepo, surveyRepo, resumeRepo, waClient, waClient)
	dispatchService := services.NewDispatchService(contactRepo, vacancyRepo, surveyService, waClient)
	campaignService := services.NewCampaignService(contactRepo, waClient)

	// Initialize router
	router := gin.Default()

	setupRoutes(router, cfg, dispatchService, campaignService, contactRepo, surveyRepo, vacancyRepo)

	// Create server with security timeouts
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	server := &Server{httpSrv: srv, database: database}

	// The digest job needs a configured mailbox; without one the résumés
	// stay queued in the store
	if cfg.Email.Host != "" && cfg.Email.HRAddress != "" {
		emailSender := mailer.NewSMTPSender(cfg.Email.Host, cfg.Email.Port, cfg.Email.User, cfg.Email.Password)
		server.digest = mailer.NewDigestJob(surveyRepo, resumeRepo, emailSender, cfg.Email.HRAddress, cfg.Email.DigestInterval)
	} else {
		logger.Warn("Email not configured, resume digest job disabled")
	}

	return server, nil
}

// setupRoutes configures all the HTTP routes
func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	dispatchService *services.DispatchService,
	campaignService *services.CampaignService,
	contactRepo db.ContactRepository,
	surveyRepo db.SurveyRepository,
	vacancyRepo db.VacancyRepository,
) {
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestSizeLimitMiddleware(maxWebhookBody))
	router.Use(middleware.AuditLogMiddleware())

	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(cfg.WhatsApp.VerifyToken, dispatchService)
	adminHandler := handlers.NewAdminHandler(vacancyRepo, contactRepo, surveyRepo, campaignService)

	// Basic health check endpoint (public)
	router.GET("/health", handleHealthCheck)

	// WhatsApp webhook endpoints (public; GET is the platform handshake)
	router.GET("/webhook", webhookHandler.Verify)
	router.POST("/webhook", webhookHandler.Receive)

	// Operator endpoints
	router.GET("/vacancies", adminHandler.ListVacancies)
	router.GET("/users", adminHandler.ListUsers)
	router.GET("/surveys", adminHandler.ListSurveys)
	router.POST("/send_messages", middleware.TokenAuthMiddleware(cfg.WhatsApp.VerifyToken), adminHandler.SendCampaign)
}

// handleHealthCheck handles the health check endpoint
func handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"time":    time.Now().UTC(),
		"version": version,
		"service": "wahr-chatbot",
	})
}

// Start runs the server and the digest job until SIGINT/SIGTERM, then shuts
// down gracefully
func (s *Server) Start() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return s.StartWithContext(ctx)
}

// StartWithContext runs the server with a context for shutdown control
func (s *Server) StartWithContext(ctx context.Context) error {
	if s.digest != nil {
		go s.digest.Run(ctx)
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("addr", s.httpSrv.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	logger.Info("Shutting down server...")

	// Create a timeout context for shutdown
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := s.httpSrv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := s.database.Close(); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}

	return nil
}

// Close releases the server's resources without serving; used on setup errors
func (s *Server) Close() error {
	if s.database != nil {
		return s.database.Close()
	}
	return nil
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.httpSrv.Addr
}

// Handler exposes the HTTP handler for tests
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}
