// Command cavabunga serves the iCalendar object service over HTTP.
//
// The storage backend is selected with -storage. The postgres backend reads
// its connection details from the environment: DB_HOST, DB_PORT, DB_USER,
// DB_PASSWORD, DB_NAME, DB_SSLMODE.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/cavabunga/cavabunga/manager"
	"github.com/cavabunga/cavabunga/server"
	"github.com/cavabunga/cavabunga/storage"
	"github.com/cavabunga/cavabunga/storage/memory"
	"github.com/cavabunga/cavabunga/storage/postgres"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	backend := flag.String("storage", "memory", "storage backend: memory or postgres")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var (
		participants storage.ParticipantStore
		components   storage.ComponentStore
		properties   storage.PropertyStore
		parameters   storage.ParameterStore
	)

	switch *backend {
	case "memory":
		st := memory.New()
		participants, components, properties, parameters = st, st, st, st
	case "postgres":
		db, err := postgres.Open(postgresConnStr())
		if err != nil {
			logger.Error("connecting to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.InitSchema(context.Background(), db); err != nil {
			logger.Error("initializing schema", "error", err)
			os.Exit(1)
		}
		st := postgres.New(db)
		participants, components, properties, parameters = st, st, st, st
	default:
		logger.Error("unknown storage backend", "storage", *backend)
		os.Exit(1)
	}

	m := manager.New(participants, components, properties, parameters, logger)
	srv := server.New(m, logger)

	logger.Info("listening", "addr", *addr, "storage", *backend)
	if err := http.ListenAndServe(*addr, srv); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func postgresConnStr() string {
	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5432")
	user := envOr("DB_USER", "cavabunga")
	password := os.Getenv("DB_PASSWORD")
	name := envOr("DB_NAME", "cavabunga")
	sslMode := envOr("DB_SSLMODE", "disable")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, name, sslMode)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
