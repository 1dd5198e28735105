package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "myflix/docs"
	"myflix/internal/config"
	"myflix/internal/handlers"
	"myflix/internal/logger"
	"myflix/internal/repository"
	"myflix/internal/repository/db"
	"myflix/internal/repository/mongodb"
	"myflix/internal/server"
	"myflix/internal/service"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title                       myFlix API
// @version                     1.0
// @description                 Movie catalog with user accounts, favorites and JWT authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load config.yml, .env and MYFLIX_* variables
	cfg, err := config.Load("configs", ".")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	// open the store
	repos, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.Fatalw("failed to open store", "driver", cfg.DB.Driver, "err", err)
	}
	defer closeStore()

	// wire dependencies
	services := service.NewService(repos, service.Options{
		Hasher:          service.NewBcryptHasher(cfg.Auth.BcryptCost),
		Token:           service.TokenConfig{Secret: []byte(cfg.Auth.JWTSecret), TTL: cfg.Auth.TokenTTL},
		StoreTimeout:    cfg.DB.Timeout,
		UniqueFavorites: cfg.Favorites.Unique,
	})
	seedMovies(services, cfg.DB.SeedFile, log)

	limiter := handlers.NewLoginLimiter(handlers.LoginLimiterConfig{
		MaxAttempts: cfg.Auth.LoginMaxAttempts,
		Window:      cfg.Auth.LoginWindow,
		Lockout:     cfg.Auth.LoginLockout,
	})
	defer limiter.Stop()

	apiHandler := handlers.NewHandler(services, log,
		handlers.WithLoginLimiter(limiter),
		handlers.WithOwnershipCheck(cfg.Auth.EnforceOwnership),
	)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg, server.WithCORS(apiHandler.InitRoutes(), cfg.CORS.AllowedOrigins), log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

// openStore connects the configured backend and returns a func releasing it.
func openStore(cfg *config.Config, log *logger.Logger) (*repository.Repository, func(), error) {
	switch cfg.DB.Driver {
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		client, database, err := mongodb.Connect(ctx, cfg.DB.MongoURI, cfg.DB.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("connected to mongodb", "database", cfg.DB.MongoDatabase)

		return mongodb.NewRepository(database), func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				log.Errorw("failed to disconnect mongodb", "err", err)
			}
		}, nil
	default:
		path := cfg.DB.Path
		if path == "" {
			log.Infow("db.path not set in config; using default file", "default", "myflix.db")
			path = "myflix.db"
		}
		conn, err := db.InitDB(path)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("opened sqlite", "path", path)

		return repository.NewRepository(conn), func() {
			if err := conn.Close(); err != nil {
				log.Errorw("failed to close sqlite", "err", err)
			}
		}, nil
	}
}

// seedMovies fills an empty catalog from the configured JSON file.
func seedMovies(services *service.Service, path string, log *logger.Logger) {
	if path == "" {
		return
	}
	movies, err := service.LoadSeedFile(path)
	if err != nil {
		log.Warnw("skipping movie seed", "file", path, "err", err)
		return
	}
	n, err := services.Movies.Seed(context.Background(), movies)
	if err != nil {
		log.Errorw("movie seed failed", "file", path, "err", err)
		return
	}
	if n > 0 {
		log.Infow("seeded movies", "count", n, "file", path)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, cfg *config.Config, handler http.Handler, log *logger.Logger) {
	go func() {
		port := cfg.Port
		if port == "" {
			port = "8080"
		}
		log.Infow("listening", "port", port)
		if err := srv.Run(port, handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
