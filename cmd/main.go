package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"

	httpctx "github.com/dtroode/boogle-server/internal/api/http/context"
	"github.com/dtroode/boogle-server/internal/api/http/handler"
	"github.com/dtroode/boogle-server/internal/api/http/middleware"
	"github.com/dtroode/boogle-server/internal/api/http/router"
	httpServer "github.com/dtroode/boogle-server/internal/api/http/server"
	"github.com/dtroode/boogle-server/internal/config"
	"github.com/dtroode/boogle-server/internal/logger"
	"github.com/dtroode/boogle-server/internal/metrics"
	"github.com/dtroode/boogle-server/internal/model"
	"github.com/dtroode/boogle-server/internal/password"
	"github.com/dtroode/boogle-server/internal/ratelimit"
	"github.com/dtroode/boogle-server/internal/repository/postgres"
	"github.com/dtroode/boogle-server/internal/server"
	"github.com/dtroode/boogle-server/internal/service"
	storage "github.com/dtroode/boogle-server/internal/storage/minio"
	"github.com/dtroode/boogle-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.Production())

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	userRepo := postgres.NewUserRepository(db)
	contactRepo := postgres.NewContactRepository(db)
	tokens := token.NewJWT([]byte(cfg.JWT.Secret), cfg.JWT.TTL)
	hasher := password.NewBcrypt(cfg.BcryptCost)

	authService := service.NewAuth(userRepo, hasher, tokens, storageClient, logger)
	authenticator := service.NewAuthenticator(userRepo, tokens, logger)
	contactService := service.NewContact(contactRepo, logger)

	ctxMgr := httpctx.NewManager()
	responder := handler.NewResponder(logger, !cfg.Production())
	validator := handler.NewValidator()
	cookie := handler.CookieConfig{Name: cfg.JWT.CookieName, Secure: cfg.Production()}

	var rateLimit *middleware.RateLimit
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.New(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window, "boogle:ratelimit")
		rateLimit = middleware.NewRateLimit(limiter, responder, m, cfg.HTTP.TrustProxy, logger)
	}

	r := router.New(
		router.Handlers{
			Auth:      handler.NewAuth(authService, ctxMgr, responder, validator, m, cookie, logger),
			User:      handler.NewUser(authService, responder, validator, logger),
			Contact:   handler.NewContact(contactService, ctxMgr, responder, validator, cfg.HTTP.TrustProxy, logger),
			Dashboard: handler.NewDashboard(ctxMgr, responder),
			Health: handler.NewHealth(responder, map[string]handler.Pinger{
				"postgres": db,
				"redis":    redisPinger{client: redisClient},
			}),
			Metrics: m.Handler(),
		},
		router.Middleware{
			Authenticate: middleware.NewAuthenticate(authenticator, ctxMgr, responder, m, cfg.JWT.CookieName, logger),
			Authorize:    middleware.NewAuthorize(ctxMgr, responder, m),
			Logging:      middleware.NewLogging(logger, m),
			RateLimit:    rateLimit,
		},
		responder,
		logger,
	)

	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout)
	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "env", cfg.Env)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// redisPinger adapts *redis.Client to handler.Pinger.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
