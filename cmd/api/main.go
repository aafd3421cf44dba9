package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joonseokim/peerlink-backend/api/controllers"
	"github.com/joonseokim/peerlink-backend/api/routes"
	"github.com/joonseokim/peerlink-backend/internal/auth"
	"github.com/joonseokim/peerlink-backend/internal/media"
	"github.com/joonseokim/peerlink-backend/internal/relationships"
	"github.com/joonseokim/peerlink-backend/internal/users"
	"github.com/joonseokim/peerlink-backend/pkg/config"
	"github.com/joonseokim/peerlink-backend/pkg/db"
	"github.com/joonseokim/peerlink-backend/pkg/logger"
	"github.com/joonseokim/peerlink-backend/pkg/metrics"
	"github.com/joonseokim/peerlink-backend/pkg/migrate"
	"github.com/joonseokim/peerlink-backend/pkg/redis"
	"github.com/joonseokim/peerlink-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	healthChecks := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	var mediaService *media.Service
	if cfg.GCS.BucketName != "" {
		gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gcs", err)
			os.Exit(1)
		}
		healthChecks["gcs"] = gcsClient

		mediaService, err = media.NewService(gcsClient, cfg.Media)
		if err != nil {
			logg.Error(context.Background(), "failed to create media service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "gcs bucket not configured, image uploads disabled")
	}

	registry := prometheus.NewRegistry()

	usersRepo := users.NewRepository(dbClient.DB())

	userFactory, err := users.NewFactory(users.FactoryParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user factory", err)
		os.Exit(1)
	}

	userService, err := users.NewService(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  usersRepo,
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	graphService, err := relationships.NewService(relationships.ServiceParams{
		TxRunner: dbClient,
		Repo:     relationships.NewRepository(dbClient.DB()),
		Metrics:  metrics.NewRelationshipMetrics(registry),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create relationship service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			Redis:        redisClient,
			HealthChecks: healthChecks,
			Registry:     registry,
			UserFactory:  userFactory,
			UserService:  userService,
			AuthService:  authService,
			MediaService: mediaService,
			Graph:        graphService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
