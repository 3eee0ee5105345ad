package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"secretshare-service/internal/config"
	"secretshare-service/internal/db"
	grpcsvc "secretshare-service/internal/grpc"
	"secretshare-service/internal/handlers"
	"secretshare-service/internal/logger"
	"secretshare-service/internal/metrics"
	"secretshare-service/internal/middleware"
	"secretshare-service/internal/observability"
	"secretshare-service/internal/rabbitmq"
	"secretshare-service/internal/repositories"
	"secretshare-service/internal/services"
	"secretshare-service/internal/telemetry"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	publisher := rabbitmq.NewNoopPublisher(zlog)
	if cfg.AMQP.URL == "" {
		zlog.Warn("AMQP_URL not set; event publishing disabled")
	} else {
		pub, err := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			zlog.Warn("failed to initialize RabbitMQ publisher; event publishing disabled", zap.Error(err))
		} else {
			publisher = pub
		}
	}
	defer publisher.Close()

	observability.InitMetrics(prometheus.DefaultRegisterer)
	metrics.RegisterFriendMetrics()

	events := telemetry.NewEventEmitter(publisher, telemetry.Config{
		Environment: cfg.Environment,
		ServiceName: cfg.ServiceName,
	}, zlog)

	friendRepo := repositories.NewFriendRepository(database)
	profileRepo := repositories.NewProfileRepository(database)

	friendService := services.NewFriendshipService(friendRepo, profileRepo, events, zlog)
	messageService := services.NewMessageService(friendService, profileRepo, events, zlog)
	profileService := services.NewProfileService(profileRepo, events, zlog)

	grpcServer := grpcsvc.NewServer(grpcsvc.NewFriendshipGRPCServer(messageService, friendService), zlog)
	if err := grpcsvc.StartGRPCServer(ctx, ":"+cfg.GRPC.Port, grpcServer, zlog); err != nil {
		zlog.Fatal("failed to start gRPC server", zap.Error(err))
	}

	if cfg.Environment != "local" && cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := newRouter(cfg, zlog,
		handlers.NewHealthHandler(database),
		handlers.NewUserHandler(profileService, friendService, messageService),
		handlers.NewFriendHandler(friendService, messageService),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("HTTP server shutdown error", zap.Error(err))
	}
}

func newRouter(cfg *config.Config, zlog *zap.Logger, health *handlers.HealthHandler, users *handlers.UserHandler, friends *handlers.FriendHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(zlog), middleware.Metrics())

	r.GET("/healthz", health.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("", middleware.JWTAuth(cfg.JWT.Secret))
	auth.GET("/users/me", users.GetMe)
	auth.DELETE("/users/me", users.DeleteMe)
	auth.PUT("/users/me/message", users.SetMessage)
	auth.GET("/users", users.ListUsers)

	auth.POST("/friends/requests", friends.SendRequest)
	auth.GET("/friends/requests/incoming", friends.ListIncoming)
	auth.GET("/friends/requests/outgoing", friends.ListOutgoing)
	auth.POST("/friends/requests/:id/accept", friends.AcceptRequest)
	auth.GET("/friends", friends.ListFriends)
	auth.GET("/friends/:id/message", friends.GetFriendMessage)

	return r
}
