package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/crudkit/internal/server"
	"github.com/iota-uz/crudkit/modules"
	"github.com/iota-uz/crudkit/pkg/application"
	"github.com/iota-uz/crudkit/pkg/audit"
	"github.com/iota-uz/crudkit/pkg/configuration"
	"github.com/iota-uz/crudkit/pkg/eventbus"
	"github.com/iota-uz/crudkit/pkg/migrations"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	pool, seed := openStore(conf, logger)
	if pool != nil {
		defer pool.Close()
	}

	bus := eventbus.New(logger)
	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: bus,
		Logger:   logger,
	})
	if err := modules.Load(app, conf.Store, seed); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}
	audit.Subscribe(bus, logger)

	if pool != nil && conf.MigrationsEnabled {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := migrations.UpPool(ctx, pool, logger, app.Schemas()...)
		cancel()
		if err != nil {
			log.Fatalf("failed to apply migrations: %v", err)
		}
	}

	srv := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	})
	logger.WithFields(logrus.Fields{
		"address": conf.SocketAddress,
		"store":   conf.Store,
	}).Info("listening")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Start(ctx, conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// openStore connects to Postgres, or builds the demo seed for the memory
// store. Exactly one of the results is non-zero.
func openStore(conf *configuration.Configuration, logger *logrus.Logger) (*pgxpool.Pool, modules.Seed) {
	if conf.Store == configuration.StoreMemory {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		seed, err := modules.DemoSeed(password)
		if err != nil {
			panic(err)
		}
		logger.Warn("using the in-memory store; data is lost on exit")
		return nil, seed
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	if err := pool.Ping(ctx); err != nil {
		panic(err)
	}
	return pool, modules.Seed{}
}
