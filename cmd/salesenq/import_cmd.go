package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"salesenq/internal/importer"
	"salesenq/internal/logging"
)

func newImportCmd() *cobra.Command {
	var (
		file    string
		user    string
		consume bool
		report  string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import one tracker file and print the outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			src := importer.LocalFile(file)
			if consume {
				src = importer.UploadedFile(file)
			}

			a, err := openApp()
			if err != nil {
				src.Release(nil)
				return err
			}
			defer a.Close()
			log := logging.Component(a.logger, "importer")

			if consume {
				if src, err = importer.Stage(a.cfg.UploadDir, src, log); err != nil {
					return err
				}
			}
			if strings.TrimSpace(user) == "" {
				user = a.cfg.ImportUserName
			}

			outcome, err := a.importer.Import(cmd.Context(), src, user)
			return writeOutcome(cmd.OutOrStdout(), outcome, outputPath(a.cfg.OutputDir, report), err)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Tracker file: xlsx, xls, html, csv or eml (required)")
	cmd.Flags().StringVar(&user, "user", "", "Importing user name (default IMPORT_USER_NAME)")
	cmd.Flags().BoolVar(&consume, "consume", false, "Move the file to UPLOAD_DIR and delete it once the import is over")
	cmd.Flags().StringVar(&report, "report", "", "Also write the outcome as an xlsx report (relative to OUTPUT_DIR)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newEnquiryShowCmd() *cobra.Command {
	var number string

	cmd := &cobra.Command{
		Use:   "enquiry:show",
		Short: "Print one stored enquiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			e, err := a.db.GetEnquiryByNumber(cmd.Context(), number)
			if err != nil {
				return err
			}
			if e == nil {
				return errors.Errorf("no enquiry %s", number)
			}
			return writeJSON(cmd.OutOrStdout(), e)
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "Enquiry number (required)")
	_ = cmd.MarkFlagRequired("number")
	return cmd
}
