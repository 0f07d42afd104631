package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/wellness-api/internal/config"
	"github.com/jwalitptl/wellness-api/internal/email"
	authHandler "github.com/jwalitptl/wellness-api/internal/handler/auth"
	bookingHandler "github.com/jwalitptl/wellness-api/internal/handler/booking"
	healthHandler "github.com/jwalitptl/wellness-api/internal/handler/health"
	messageHandler "github.com/jwalitptl/wellness-api/internal/handler/message"
	practitionerHandler "github.com/jwalitptl/wellness-api/internal/handler/practitioner"
	ratingHandler "github.com/jwalitptl/wellness-api/internal/handler/rating"
	therapyHandler "github.com/jwalitptl/wellness-api/internal/handler/therapy"
	"github.com/jwalitptl/wellness-api/internal/middleware"
	"github.com/jwalitptl/wellness-api/internal/repository/postgres"
	"github.com/jwalitptl/wellness-api/internal/router"
	authService "github.com/jwalitptl/wellness-api/internal/service/auth"
	availabilityService "github.com/jwalitptl/wellness-api/internal/service/availability"
	bookingService "github.com/jwalitptl/wellness-api/internal/service/booking"
	conversationService "github.com/jwalitptl/wellness-api/internal/service/conversation"
	eventService "github.com/jwalitptl/wellness-api/internal/service/event"
	practitionerService "github.com/jwalitptl/wellness-api/internal/service/practitioner"
	ratingService "github.com/jwalitptl/wellness-api/internal/service/rating"
	therapyService "github.com/jwalitptl/wellness-api/internal/service/therapy"
	"github.com/jwalitptl/wellness-api/pkg/auth"
	"github.com/jwalitptl/wellness-api/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	if err := middleware.RegisterCustomValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// repositories
	patientRepo := postgres.NewPatientRepository(db)
	practitionerRepo := postgres.NewPractitionerRepository(db)
	therapyRepo := postgres.NewTherapyRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	eventSvc := eventService.NewService(outboxRepo)
	authSvc := authService.NewService(patientRepo, practitionerRepo, jwtSvc)
	therapySvc := therapyService.NewService(therapyRepo)
	practitionerSvc := practitionerService.NewService(practitionerRepo, therapyRepo, ratingRepo)
	availabilitySvc := availabilityService.NewService(therapyRepo, bookingRepo, availabilityService.Policy{
		HorizonDays:   cfg.Booking.HorizonDays,
		ClosedWeekday: time.Weekday(cfg.Booking.ClosedWeekday),
	})

	var mailer email.Sender
	if cfg.SMTP.Enabled {
		mailer = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}
	bookingSvc := bookingService.NewService(bookingRepo, therapyRepo, patientRepo, practitionerRepo, eventSvc, mailer, appLogger)
	conversationSvc := conversationService.NewService(messageRepo, bookingRepo, patientRepo, practitionerRepo)
	ratingSvc := ratingService.NewService(ratingRepo, therapyRepo)

	// handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	authH := authHandler.NewHandler(authSvc)
	practitionerH := practitionerHandler.NewHandler(practitionerSvc)
	therapyH := therapyHandler.NewHandler(therapySvc)
	bookingH := bookingHandler.NewHandler(bookingSvc, availabilitySvc)
	messageH := messageHandler.NewHandler(conversationSvc)
	ratingH := ratingHandler.NewHandler(ratingSvc)
	healthH := healthHandler.NewHandler(db)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}

	routerConfig := router.Config{
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSConfig:     corsConfig,
		MetricsPrefix:  "wellness_api",
	}
	if cfg.RateLimit.Enabled {
		routerConfig.RateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		routerConfig.RateBurst = cfg.RateLimit.Burst
	}

	r := router.NewRouter(authMiddleware, authH, practitionerH, therapyH, bookingH, messageH, ratingH, healthH, routerConfig)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
