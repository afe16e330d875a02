package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"salesenq/internal/columns"
	"salesenq/internal/config"
	"salesenq/internal/importer"
	"salesenq/internal/logging"
	"salesenq/internal/people"
	"salesenq/internal/storage"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "salesenq",
		Short:         "Import sales enquiry trackers from spreadsheets and mail",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newImportCmd(), newEnquiryShowCmd(), newRunsListCmd(), newRunsExportCmd(), newMailFetchCmd(), newMailImportCmd(), newMailListenCmd())
	return cmd
}

// app is the wiring shared by every command.
type app struct {
	cfg      config.Config
	logger   *logrus.Logger
	db       *storage.DB
	importer *importer.Service
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	aliases, err := columns.Load(cfg.ColumnAliasesFile)
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	persons := people.NewResolver(db, people.Options{
		EmailDomain:     cfg.PersonEmailDomain,
		DefaultPassword: cfg.PersonDefaultPassword,
	}, logging.Component(logger, "people"))
	engine := importer.New(
		columns.NewResolver(aliases, logging.Component(logger, "columns")),
		persons,
		db,
		logging.Component(logger, "importer"),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		importer: importer.NewService(engine, persons, db, logging.Component(logger, "importer")),
	}, nil
}

func (a *app) Close() error { return a.db.Close() }
