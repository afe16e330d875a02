// Package listener polls a mailbox for tracker mails and imports the
// spreadsheet attached to each one.
package listener

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"salesenq/internal"
	"salesenq/internal/config"
	"salesenq/internal/connectors"
	gmailconnector "salesenq/internal/connectors/gmail"
	imapconnector "salesenq/internal/connectors/imap"
	"salesenq/internal/importer"
	"salesenq/internal/logging"
	"salesenq/internal/sheet"
)

type Store interface {
	connectors.EmailStore
	ListEmailsByStatus(ctx context.Context, status string, limit int) ([]internal.EmailRow, error)
	UpdateEmailStatus(ctx context.Context, emailID int, status string, runID *string) error
}

type Importer interface {
	Import(ctx context.Context, src importer.Source, userName string) (importer.Outcome, error)
}

// ConnectorFactory builds the mailbox client for provider.
type ConnectorFactory func(ctx context.Context, provider string) (connectors.MailConnector, error)

type Service struct {
	db      Store
	cfg     config.Config
	imports Importer
	connect ConnectorFactory
	log     *logrus.Entry
}

type CycleResult struct {
	Fetched  int
	Stored   int
	Imported int
	Skipped  int
	Failed   int
}

func NewService(db Store, cfg config.Config, imports Importer, log *logrus.Entry) *Service {
	return &Service{
		db:      db,
		cfg:     cfg,
		imports: imports,
		connect: ProviderConnector(cfg),
		log:     logging.OrDiscard(log),
	}
}

// WithConnector replaces the mailbox client factory.
func (s *Service) WithConnector(f ConnectorFactory) *Service {
	s.connect = f
	return s
}

// ProviderConnector returns the factory for the gmail and imap providers.
func ProviderConnector(cfg config.Config) ConnectorFactory {
	return func(ctx context.Context, provider string) (connectors.MailConnector, error) {
		switch provider {
		case "gmail":
			return gmailconnector.NewConnector(ctx, cfg)
		case "imap":
			return imapconnector.NewConnector(cfg)
		default:
			return nil, errors.Errorf("unsupported listener provider: %s", provider)
		}
	}
}

// Run polls until ctx is done. A failed cycle is logged and retried on the
// next tick.
func (s *Service) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.MailListenerIntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	for {
		res, err := s.RunCycle(ctx)
		if err != nil && ctx.Err() == nil {
			s.log.WithError(err).Error("listener cycle failed")
		} else if err == nil {
			s.log.WithFields(logrus.Fields{
				"fetched":  res.Fetched,
				"stored":   res.Stored,
				"imported": res.Imported,
				"skipped":  res.Skipped,
				"failed":   res.Failed,
			}).Info("listener cycle done")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// RunCycle fetches new mail into the inbox and imports what is pending.
func (s *Service) RunCycle(ctx context.Context) (CycleResult, error) {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.MailListenerProvider))
	conn, err := s.connect(ctx, provider)
	if err != nil {
		return CycleResult{}, err
	}

	fetched, err := connectors.NewFetchService(s.db, s.cfg.RawMailDir, conn, s.log).
		FetchAndStore(ctx, s.cfg.MailListenerLabel, s.cfg.MailListenerFetchMax)
	res := CycleResult{Fetched: fetched.Fetched, Stored: fetched.Stored}
	if err != nil {
		return res, err
	}

	imported, err := s.ImportPending(ctx, s.cfg.MailListenerProcessBatch)
	res.Imported, res.Skipped, res.Failed = imported.Imported, imported.Skipped, imported.Failed
	return res, err
}

// importMail imports a scratch copy of the stored message staged under the
// upload dir; the raw message itself is kept.
func (s *Service) importMail(ctx context.Context, email internal.EmailRow) (importer.Outcome, error) {
	src, err := importer.Stage(s.cfg.UploadDir, importer.LocalFile(email.RawRef), s.log)
	if err != nil {
		return importer.Outcome{}, err
	}
	return s.imports.Import(ctx, src, s.cfg.ImportUserName)
}

// ImportPending imports up to batch fetched emails. A mail without a
// spreadsheet, or with an empty one, is marked skipped; any other import
// error marks it failed and the batch goes on.
func (s *Service) ImportPending(ctx context.Context, batch int) (CycleResult, error) {
	var res CycleResult
	pending, err := s.db.ListEmailsByStatus(ctx, internal.EmailFetched, batch)
	if err != nil {
		return res, errors.Wrap(err, "list pending emails")
	}

	for _, email := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		log := s.log.WithFields(logrus.Fields{"email": email.ID, "subject": email.Subject})

		outcome, importErr := s.importMail(ctx, email)
		var runID *string
		if outcome.RunID != "" {
			runID = &outcome.RunID
		}

		status := internal.EmailImported
		switch {
		case importErr == nil:
			res.Imported++
			log.WithFields(logrus.Fields{"run": outcome.RunID, "successful": outcome.Successful, "failed": outcome.Failed}).Info("imported email")
		case runID != nil:
			// The run started and was cut short; its rows are already stored.
			res.Imported++
		case errors.Is(importErr, sheet.ErrNoAttachment), errors.Is(importErr, importer.ErrEmptySheet):
			status = internal.EmailSkipped
			res.Skipped++
			log.WithError(importErr).Info("skipped email")
		default:
			status = internal.EmailFailed
			res.Failed++
			log.WithError(importErr).Warn("email import failed")
		}

		if err := s.db.UpdateEmailStatus(context.WithoutCancel(ctx), email.ID, status, runID); err != nil {
			return res, errors.Wrapf(err, "update email %d", email.ID)
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
	}
	return res, nil
}
