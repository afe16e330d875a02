package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"salesenq/internal/columns"
	"salesenq/internal/config"
	"salesenq/internal/importer"
	"salesenq/internal/listener"
	"salesenq/internal/logging"
	"salesenq/internal/people"
	"salesenq/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	aliases, err := columns.Load(cfg.ColumnAliasesFile)
	must(err)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	persons := people.NewResolver(db, people.Options{
		EmailDomain:     cfg.PersonEmailDomain,
		DefaultPassword: cfg.PersonDefaultPassword,
	}, logging.Component(logger, "people"))
	engine := importer.New(columns.NewResolver(aliases, logging.Component(logger, "columns")), persons, db, logging.Component(logger, "importer"))
	imports := importer.NewService(engine, persons, db, logging.Component(logger, "importer"))

	svc := listener.NewService(db, cfg, imports, logging.Component(logger, "listener"))
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
