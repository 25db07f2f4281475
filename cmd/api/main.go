package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Fundingift/internal/config"
	"Fundingift/internal/middleware"
	"Fundingift/internal/pkg"
	"Fundingift/internal/repository/mysql"
	"Fundingift/internal/repository/redis"
	"Fundingift/internal/router"
	"Fundingift/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := pkg.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	pkg.SetAccessSecret(cfg.JWT.AccessSecret)

	if err := mysql.InitDB(mysql.Options{
		Driver:  cfg.Database.Driver,
		DSN:     cfg.Database.DSN,
		MaxOpen: cfg.Database.MaxOpen,
		MaxIdle: cfg.Database.MaxIdle,
		MaxLife: cfg.Database.MaxLife,
	}); err != nil {
		logger.Fatal("db init failed", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := mysql.AutoMigrate(mysql.DB); err != nil {
			logger.Fatal("db migrate failed", zap.Error(err))
		}
	}
	logger.Info("DB initialized", zap.String("driver", cfg.Database.Driver))

	// redis 可选：不配置时好友边不走缓存，也不校验登录会话
	var sessions middleware.SessionStore
	if cfg.Redis.Addr != "" {
		if err := redis.Init(context.Background(), redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		}); err != nil {
			logger.Fatal("redis init failed", zap.Error(err))
		}
		defer redis.Close()
		sessions = redis.NewSessionRepository(redis.Client)
		logger.Info("redis initialized", zap.String("addr", cfg.Redis.Addr))
	}
	edgeCache := redis.NewFriendCacheRepository(redis.Client, cfg.Redis.EdgeTTL)

	sender, closeSender := buildSender(cfg, logger)
	defer closeSender()

	loc := cfg.App.Location()
	friends := service.NewFriendService(mysql.DB, edgeCache, logger.Named("friend"))
	fanout := service.NewNotificationFanout(mysql.DB, friends, logger.Named("notify"))
	fundings := service.NewFundingService(mysql.DB, friends, fanout, service.NewLifecycle(time.Now, loc), logger.Named("funding"))
	feed := service.NewFeedService(mysql.DB, friends, logger.Named("feed"))
	relayer := service.NewOutboxRelayer(mysql.DB, sender, cfg.Notify.BatchSize, cfg.Notify.Interval, logger.Named("outbox"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go relayer.Run(ctx)

	gin.SetMode(cfg.Server.Mode)
	r := router.InitRouter(router.Deps{
		Friends:   friends,
		Fundings:  fundings,
		Feed:      feed,
		Sessions:  sessions,
		Log:       logger,
		RateLimit: rate.Limit(cfg.Server.RateLimitRPS),
		RateBurst: cfg.Server.RateLimitBurst,
	})

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownWait)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", zap.Error(err))
	}
	logger.Info("bye")
}

// buildSender 按 notify.transport 选择通知通道
func buildSender(cfg *config.Config, logger *zap.Logger) (service.Sender, func()) {
	switch cfg.Notify.Transport {
	case "kafka":
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			BatchTimeout: cfg.Kafka.BatchTimeout,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		})
		if err != nil {
			logger.Fatal("kafka producer init failed", zap.Error(err))
		}
		return service.KafkaSender(producer), func() { _ = producer.Close() }
	case "email":
		return service.EmailSender(mysql.DB, pkg.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
		}), func() {}
	default:
		return service.LogSender(logger.Named("outbox")), func() {}
	}
}
