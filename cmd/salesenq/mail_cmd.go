package main

import (
	"strings"

	"github.com/spf13/cobra"

	"salesenq/internal/connectors"
	"salesenq/internal/listener"
	"salesenq/internal/logging"
)

func newMailFetchCmd() *cobra.Command {
	var (
		provider string
		label    string
		max      int
	)

	cmd := &cobra.Command{
		Use:   "mail:fetch",
		Short: "Fetch tracker mails into the local inbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if provider == "" {
				provider = a.cfg.MailListenerProvider
			}
			if label == "" {
				label = a.cfg.MailListenerLabel
			}
			conn, err := listener.ProviderConnector(a.cfg)(cmd.Context(), strings.ToLower(strings.TrimSpace(provider)))
			if err != nil {
				return err
			}
			res, err := connectors.NewFetchService(a.db, a.cfg.RawMailDir, conn, logging.Component(a.logger, "mail")).
				FetchAndStore(cmd.Context(), label, max)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "gmail|imap (default MAIL_LISTENER_PROVIDER)")
	cmd.Flags().StringVar(&label, "label", "", "Mailbox or label (default MAIL_LISTENER_LABEL)")
	cmd.Flags().IntVar(&max, "max", 50, "Max messages")
	return cmd
}

func newMailImportCmd() *cobra.Command {
	var batch int

	cmd := &cobra.Command{
		Use:   "mail:import",
		Short: "Import the spreadsheets attached to fetched mails",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			svc := listener.NewService(a.db, a.cfg, a.importer, logging.Component(a.logger, "listener"))
			res, err := svc.ImportPending(cmd.Context(), batch)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().IntVar(&batch, "batch", 20, "Batch size")
	return cmd
}

func newMailListenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mail:listen",
		Short: "Poll the mailbox and import new trackers until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return listener.NewService(a.db, a.cfg, a.importer, logging.Component(a.logger, "listener")).Run(cmd.Context())
		},
	}
}
