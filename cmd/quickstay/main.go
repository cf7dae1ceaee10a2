package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bookingsapp "quickstay/internal/app/bookings"
	hotelsapp "quickstay/internal/app/hotels"
	"quickstay/internal/app/policies"
	reviewsapp "quickstay/internal/app/reviews"
	roomsapp "quickstay/internal/app/rooms"
	usersapp "quickstay/internal/app/users"
	domainbooking "quickstay/internal/domain/booking"
	domainhotel "quickstay/internal/domain/hotel"
	domainreview "quickstay/internal/domain/review"
	domainroom "quickstay/internal/domain/room"
	domainuser "quickstay/internal/domain/user"
	"quickstay/internal/infra/broker/kafka"
	"quickstay/internal/infra/config"
	mongodb "quickstay/internal/infra/db/mongo"
	"quickstay/internal/infra/email"
	ginserver "quickstay/internal/infra/http/gin"
	"quickstay/internal/infra/identity"
	"quickstay/internal/infra/obs"
	"quickstay/internal/infra/payments"
	"quickstay/internal/infra/storage/memory"
	"quickstay/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration load failed", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	stores, closeStores, err := buildStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}
	defer closeStores()

	events, closeEvents := buildEvents(cfg, logger)
	defer closeEvents()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: stores.ready,
	}, buildHandlers(cfg, logger, stores, events))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type stores struct {
	users    domainuser.Repository
	hotels   domainhotel.Repository
	rooms    domainroom.Repository
	bookings domainbooking.Repository
	reviews  domainreview.Repository
	uploads  policies.UploaderPort
	ready    func() error
}

// buildStores wires MongoDB-backed repositories, or the in-memory set
// when MONGO_URI is unset (local development).
func buildStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (stores, func(), error) {
	noop := func() {}

	if cfg.MongoURI == "" {
		logger.Warn("MONGO_URI unset, using in-memory storage")
		return stores{
			users:    memory.NewUserRepository(),
			hotels:   memory.NewHotelRepository(),
			rooms:    memory.NewRoomRepository(),
			bookings: memory.NewBookingRepository(),
			reviews:  memory.NewReviewRepository(),
			uploads:  memory.NewUploader(),
			ready:    func() error { return nil },
		}, noop, nil
	}

	client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return stores{}, noop, err
	}
	indexCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := client.EnsureIndexes(indexCtx); err != nil {
		return stores{}, noop, err
	}

	var uploads policies.UploaderPort = memory.NewUploader()
	if cfg.S3Endpoint != "" {
		s3Uploader, err := s3.NewUploader(s3.Config{
			Endpoint:       cfg.S3Endpoint,
			PublicEndpoint: cfg.S3PublicEndpoint,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			Bucket:         cfg.S3Bucket,
			UseSSL:         cfg.S3UseSSL,
		}, logger)
		if err != nil {
			return stores{}, noop, err
		}
		uploads = s3Uploader
	}

	closeFn := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.DB.Client().Disconnect(closeCtx); err != nil {
			logger.Error("mongo disconnect failed", "error", err)
		}
	}

	return stores{
		users:    mongodb.NewUserRepository(client.DB),
		hotels:   mongodb.NewHotelRepository(client.DB),
		rooms:    mongodb.NewRoomRepository(client.DB),
		bookings: mongodb.NewBookingRepository(client.DB),
		reviews:  mongodb.NewReviewRepository(client.DB),
		uploads:  uploads,
		ready: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		},
	}, closeFn, nil
}

func buildEvents(cfg config.Config, logger *slog.Logger) (policies.EventsPort, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return nil, func() {}
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, nil)
	if err != nil {
		logger.Warn("kafka unavailable, events disabled", "error", err)
		return nil, func() {}
	}
	return producer, func() {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close failed", "error", err)
		}
	}
}

func buildHandlers(cfg config.Config, logger *slog.Logger, st stores, events policies.EventsPort) ginserver.Handlers {
	userService := &usersapp.Service{Users: st.users, Logger: logger}
	hotelService := &hotelsapp.Service{Hotels: st.hotels, Users: st.users, Logger: logger}
	roomService := &roomsapp.Service{Rooms: st.rooms, Hotels: st.hotels, Uploads: st.uploads, Logger: logger}

	var mailer policies.MailerPort
	if cfg.SMTPHost != "" {
		mailer = email.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	}
	var paymentsPort policies.PaymentsPort
	if cfg.CheckoutURL != "" {
		paymentsPort = &payments.CheckoutClient{
			Client:   &http.Client{Timeout: 10 * time.Second},
			Endpoint: cfg.CheckoutURL,
			APIKey:   cfg.CheckoutAPIKey,
			Logger:   logger,
		}
	}

	bookingService := &bookingsapp.Service{
		Bookings: st.bookings,
		Rooms:    st.rooms,
		Hotels:   st.hotels,
		Users:    st.users,
		Payments: paymentsPort,
		Mailer:   mailer,
		Events:   events,
		Currency: cfg.Currency,
		Logger:   logger,
	}
	reviewService := &reviewsapp.Service{
		Bookings: st.bookings,
		Hotels:   st.hotels,
		Reviews:  st.reviews,
		Users:    st.users,
		Events:   events,
		Logger:   logger,
	}

	auth := ginserver.AuthMiddleware{
		Verifier: identity.NewTokenVerifier(cfg.SessionJWTSecret),
		Users:    userService,
		Logger:   logger,
	}

	handlers := ginserver.Handlers{
		User:           ginserver.UserHandler{Users: userService, Logger: logger},
		Hotel:          ginserver.HotelHandler{Hotels: hotelService, Logger: logger},
		Room:           ginserver.RoomHandler{Rooms: roomService, Logger: logger},
		Booking:        ginserver.BookingHandler{Bookings: bookingService, Logger: logger},
		Review:         ginserver.ReviewHandler{Reviews: reviewService, Logger: logger},
		AuthMiddleware: auth.Handle,
	}

	if cfg.WebhookSecret != "" {
		verifier, err := identity.NewWebhookVerifier(cfg.WebhookSecret)
		if err != nil {
			logger.Error("webhook secret malformed, webhook disabled", "error", err)
		} else {
			handlers.Webhook = ginserver.WebhookHandler{Verifier: verifier, Users: userService, Logger: logger}
		}
	} else {
		logger.Warn("WEBHOOK_SECRET unset, webhook endpoint disabled")
	}

	return handlers
}
