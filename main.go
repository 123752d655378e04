package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pocket-chat/internal/auth"
	"pocket-chat/internal/chat"
	"pocket-chat/internal/config"
	"pocket-chat/internal/events"
	"pocket-chat/internal/handlers"
	"pocket-chat/internal/kvstore"
	"pocket-chat/internal/middleware"
	"pocket-chat/internal/observability"
	"pocket-chat/internal/storage"
	"pocket-chat/internal/telemetry"
	"pocket-chat/internal/ws"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownTracing, err := telemetry.Setup(ctx, "pocket-chat", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	storageSvc := storage.NewService(store)
	if err := storageSvc.Initialize(ctx); err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	publisher := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()

	hub := ws.NewHub()

	chatSvc := chat.NewService(storageSvc, hub, publisher, chat.Options{
		AutoReply:      cfg.AutoReply,
		AutoReplyDelay: cfg.AutoReplyDelay,
	})
	authSvc := auth.NewService(storageSvc, publisher)

	authHandler := handlers.NewAuthHandler(authSvc)
	usersHandler := handlers.NewUsersHandler(storageSvc)
	chatHandler := handlers.NewChatHandler(chatSvc, storageSvc)
	chatWS := ws.NewChatSocketHandler(hub, storageSvc)
	syncWS := ws.NewSyncSocketHandler(storageSvc, cfg.UsersPollInterval, cfg.ChatsPollInterval, cfg.MessagesPollInterval)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/signup", authHandler.SignUp)
	router.POST("/auth/signin", authHandler.SignIn)
	router.POST("/auth/signout", authHandler.SignOut)

	session := middleware.SessionMiddleware(storageSvc)

	router.GET("/users", session, usersHandler.ListUsers)
	router.GET("/chats", session, chatHandler.ListChats)
	router.POST("/chats/start", session, chatHandler.StartChat)
	router.GET("/chats/:chat_id/messages", session, chatHandler.GetChatMessages)
	router.POST("/chats/:chat_id/messages", session, chatHandler.PostChatMessage)

	router.GET("/ws/chats/:chat_id", chatWS.Handle)
	router.GET("/ws/sync", syncWS.Handle)

	handlers.RegisterDebugRoutes(router, storageSvc, cfg.Debug)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func openStore(cfg config.Config) (kvstore.Store, func(), error) {
	noop := func() {}
	switch cfg.StoreBackend {
	case "ekv":
		store, err := kvstore.NewEKV(cfg.StoreDir, cfg.StorePassword)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case "postgres":
		store, err := kvstore.NewPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Printf("closing store: %v", err)
			}
		}, nil
	default:
		return kvstore.NewMemory(), noop, nil
	}
}
