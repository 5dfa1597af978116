package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contactbook/internal/handlers"
	"contactbook/internal/logger"
	"contactbook/internal/repository"
	"contactbook/internal/server"
	"contactbook/internal/service"

	"github.com/spf13/viper"
)

const (
	defaultPort       = "8080"
	defaultDBPath     = "app.db"
	defaultUploadsDir = "uploads/contacts"
	shutdownTimeout   = 10 * time.Second
)

func main() {
	// load config.yml first so the log level is configurable
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(viper.GetString("log.level"))

	// the token secret is mandatory; refuse to start without it
	auth, err := authConfig()
	if err != nil {
		log.Fatalw("invalid auth config", "err", err)
	}

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	uploadsDir, err := ensureUploadsDir()
	if err != nil {
		log.Fatalw("failed to prepare uploads dir", "err", err)
	}

	// wire dependencies
	repos := repository.NewRepository(db)
	services := service.NewService(repos, auth)
	apiHandler := handlers.NewHandler(services, log, uploadsDir)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	// allow the secret to come from the environment instead of the file
	if err := viper.BindEnv("jwt.secret", "JWT_SECRET"); err != nil {
		return err
	}
	return viper.ReadInConfig()
}

// authConfig resolves token-signing settings; the secret must be present.
func authConfig() (service.AuthConfig, error) {
	secret := viper.GetString("jwt.secret")
	if secret == "" {
		return service.AuthConfig{}, errors.New("jwt.secret is not set (config key jwt.secret or env JWT_SECRET)")
	}
	return service.AuthConfig{
		SigningKey: secret,
		TokenTTL:   viper.GetDuration("jwt.ttl"),
	}, nil
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", defaultDBPath)
		dbPath = defaultDBPath
	}
	return repository.InitDB(dbPath)
}

// ensureUploadsDir resolves and creates the directory for contact photos.
func ensureUploadsDir() (string, error) {
	dir := viper.GetString("uploads.dir")
	if dir == "" {
		dir = defaultUploadsDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = defaultPort
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
