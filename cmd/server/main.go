package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/kitshop-gateway/auth"
	"github.com/jrsteele09/kitshop-gateway/internal/config"
	"github.com/jrsteele09/kitshop-gateway/internal/database"
	"github.com/jrsteele09/kitshop-gateway/internal/logging"
	"github.com/jrsteele09/kitshop-gateway/kitshop"
	"github.com/jrsteele09/kitshop-gateway/server"
	"github.com/jrsteele09/kitshop-gateway/token"
	"github.com/jrsteele09/kitshop-gateway/users"
	userpostgres "github.com/jrsteele09/kitshop-gateway/users/postgres"
	fakeuserrepo "github.com/jrsteele09/kitshop-gateway/users/repofake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

func main() {
	c := config.New()
	logging.Setup(c)

	// Missing secrets or vendor credentials must stop the process, not disable auth.
	if err := config.Validate(c); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	for {
		if err := run(c); err != nil {
			log.Error().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run(c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	displayAppname(c.GetAppName())

	secrets := token.NewSecretStore(c.GetSessionSecretEnvVar())
	if _, err := secrets.Secret(); err != nil {
		log.Fatal().Err(err).Msg("session secret unavailable")
	}
	tokens := token.NewManager(token.NewHMACSigner(secrets))

	ctx := context.Background()
	userRepo, closeDB, err := openUserRepo(ctx, c)
	if err != nil {
		return err
	}
	defer closeDB()

	authService, err := auth.NewService(userRepo, tokens)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	gateway, err := kitshop.NewGatewayFromConfig(c, kitshop.WithMetrics(kitshop.NewMetrics(registry)))
	if err != nil {
		log.Fatal().Err(err).Msg("vendor credentials unavailable")
	}

	handler, err := server.New(c, authService, gateway, server.WithRegistry(registry))
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(srv) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	returnError = shutdown(srv)
	return returnError
}

// openUserRepo uses postgres when a database is configured and an in-memory repo otherwise
func openUserRepo(ctx context.Context, c config.DatabaseConfig) (users.UserRepo, func(), error) {
	databaseURL := c.GetDatabaseURL()
	if databaseURL == "" {
		log.Warn().Msg("no database configured, users are kept in memory")
		return fakeuserrepo.NewFakeUserRepo(), func() {}, nil
	}

	db, err := database.Open(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	store := userpostgres.NewUserStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, func() { closeQuietly(db) }, nil
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		log.Err(err).Msg("closing database")
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
