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

	authsvc "thriftee/internal/app/services/auth"
	catalogsvc "thriftee/internal/app/services/catalog"
	chatsvc "thriftee/internal/app/services/chat"
	domainauth "thriftee/internal/domain/auth"
	domainchat "thriftee/internal/domain/chat"
	domainitems "thriftee/internal/domain/items"
	domainrequests "thriftee/internal/domain/requests"
	domainuser "thriftee/internal/domain/user"
	"thriftee/internal/infra/broker/kafka"
	redisstore "thriftee/internal/infra/cache/redis"
	"thriftee/internal/infra/config"
	mongostore "thriftee/internal/infra/db/mongo"
	ginserver "thriftee/internal/infra/http/gin"
	"thriftee/internal/infra/mailer"
	"thriftee/internal/infra/obs"
	"thriftee/internal/infra/realtime"
	"thriftee/internal/infra/security"
	"thriftee/internal/infra/storage/memory"
	"thriftee/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, cleanup := buildApplication(ctx, cfg, logger)
	defer cleanup()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if app.consumer != nil {
		topics := []string{kafka.Topics{Prefix: cfg.KafkaTopicPrefix}.ChatMessage()}
		go func() {
			if err := app.consumer.Run(ctx, topics); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("chat relay stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	consumer *kafka.Consumer
	ready    func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, func()) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var (
		itemRepo    domainitems.Repository
		requestRepo domainrequests.Repository
		roomRepo    domainchat.RoomRepository
		messageRepo domainchat.MessageRepository
		userRepo    domainuser.Repository
		ready       = func() error { return nil }
	)

	if cfg.MongoURI != "" {
		client, err := mongostore.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Error("mongo connect failed, using in-memory storage", "error", err)
		} else {
			cleanups = append(cleanups, func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = client.Close(closeCtx)
			})

			items := mongostore.NewItemRepository(client.DB)
			requests := mongostore.NewRequestRepository(client.DB)
			rooms := mongostore.NewChatRoomRepository(client.DB)
			messages := mongostore.NewChatMessageRepository(client.DB)
			users := mongostore.NewUserRepository(client.DB)
			if err := rooms.EnsureIndexes(ctx); err != nil {
				logger.Warn("chat index setup failed", "error", err)
			}
			if err := users.EnsureIndexes(ctx); err != nil {
				logger.Warn("user index setup failed", "error", err)
			}

			itemRepo, requestRepo, roomRepo, messageRepo, userRepo = items, requests, rooms, messages, users
			ready = func() error {
				pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return client.Ping(pingCtx)
			}
			logger.Info("mongo storage attached", "db", cfg.MongoDB)
		}
	}
	if itemRepo == nil {
		itemRepo = memory.NewItemRepository()
		requestRepo = memory.NewRequestRepository()
		roomRepo = memory.NewChatRoomRepository()
		messageRepo = memory.NewChatMessageRepository()
		userRepo = memory.NewUserRepository()
		logger.Info("using in-memory storage")
	}

	var (
		sessionStore domainauth.SessionStore
		otpStore     domainauth.OTPStore
	)
	if cfg.RedisAddr != "" {
		client := redisstore.NewClient(cfg.RedisAddr)
		cleanups = append(cleanups, func() { _ = client.Close() })
		sessionStore = redisstore.NewSessionStore(client)
		otpStore = redisstore.NewOTPStore(client)
		logger.Info("redis session store attached", "addr", cfg.RedisAddr)
	} else {
		sessionStore = memory.NewSessionStore()
		otpStore = memory.NewOTPStore()
		logger.Info("using in-memory session store")
	}

	hub := realtime.NewHub(logger)

	var (
		catalogEvents catalogsvc.Events
		chatEvents    chatsvc.Events = hub
		consumer      *kafka.Consumer
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Error("kafka producer unavailable, events stay in-process", "error", err)
		} else {
			cleanups = append(cleanups, func() { _ = producer.Close() })
			publisher := &kafka.EventPublisher{
				Producer: producer,
				Topics:   kafka.Topics{Prefix: cfg.KafkaTopicPrefix},
				Logger:   logger,
			}
			catalogEvents = publisher
			chatEvents = publisher

			relay, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, nil, kafka.ChatFanout{
				Broadcast: hub.Broadcast,
				Logger:    logger,
			})
			if err != nil {
				logger.Error("kafka consumer unavailable, websocket feed degraded", "error", err)
				chatEvents = hub
			} else {
				cleanups = append(cleanups, func() { _ = relay.Close() })
				consumer = relay
			}
			logger.Info("kafka broker attached", "brokers", cfg.KafkaBrokers)
		}
	}

	var uploader s3.Uploader = s3.NoopUploader{}
	if cfg.S3Endpoint != "" {
		client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			logger.Error("s3 uploader unavailable", "error", err)
		} else {
			uploader = client
			logger.Info("s3 storage attached", "bucket", cfg.S3Bucket)
		}
	}

	var mail mailer.Mailer = mailer.LogMailer{Logger: logger}
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
		logger.Info("smtp mailer attached", "host", cfg.SMTPHost)
	}

	authService := &authsvc.Service{
		Users:      userRepo,
		Sessions:   sessionStore,
		OTPs:       otpStore,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		Mail:       mail,
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}
	catalogService := &catalogsvc.Service{
		Items:    itemRepo,
		Requests: requestRepo,
		Events:   catalogEvents,
		Images:   uploader,
		Logger:   logger,
	}
	chatService := &chatsvc.Service{
		Rooms:    roomRepo,
		Messages: messageRepo,
		Events:   chatEvents,
		Logger:   logger,
	}

	handlers := ginserver.Handlers{
		Auth:    ginserver.AuthHandler{Service: authService, Logger: logger},
		Item:    ginserver.ItemHandler{Catalog: catalogService, Chat: chatService, Logger: logger},
		Request: ginserver.RequestHandler{Catalog: catalogService, Chat: chatService, Logger: logger},
		Chat:    ginserver.NewChatHandler(chatService, hub, logger),
		Me:      ginserver.MeHandler{Auth: authService, Catalog: catalogService, Avatars: uploader, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{
			Service: authService,
			Logger:  logger,
		}.Handle,
	}

	return application{handlers: handlers, consumer: consumer, ready: ready}, cleanup
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
