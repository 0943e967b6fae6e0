package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmonterocr/archivador/internal/classify"
	"github.com/jmonterocr/archivador/internal/cli"
	"github.com/jmonterocr/archivador/internal/common"
	"github.com/jmonterocr/archivador/internal/model"
)

func classifyCmd() *cobra.Command {
	var (
		selFlags selectionFlags
		clave    string
		year     int
		month    int
		retries  int
	)

	cmd := &cobra.Command{
		Use:   "classify <source.pdf>",
		Short: "File a document into the accounting hierarchy",
		Long: `Move a document to its destination folder with the copy-verify-delete
protocol and record the decision in the ledger. The original file survives
any failure; only a verified copy ever replaces it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sourcePath := args[0]

			sel, err := selFlags.selection()
			if err != nil {
				return err
			}

			svc, cleanup, err := initService()
			if err != nil {
				return err
			}
			defer cleanup()

			client, err := requireClient()
			if err != nil {
				return err
			}

			resolvedClave := clave
			if resolvedClave == "" {
				resolvedClave = model.ExtractClave(filepath.Base(sourcePath))
			}
			if !model.IsValidClave(resolvedClave) {
				return fmt.Errorf("clave not found in filename; pass --clave")
			}

			y, m, err := periodFor(resolvedClave, year, month)
			if err != nil {
				return err
			}

			// Show the prior decision before a re-classification.
			if prev, found, err := svc.Previous(ctx, resolvedClave); err == nil && found {
				fmt.Println(cli.WarningStyle.Render(fmt.Sprintf(
					"Previously classified as %s by %s on %s",
					describeRecord(prev), prev.ClasificadoPor,
					prev.FechaClasificacion.Format("2006-01-02"))))
			}

			req := classify.Request{
				SourcePath: sourcePath,
				Clave:      resolvedClave,
				Selection:  sel,
				Client:     client,
				Actor:      viper.GetString("actor"),
				Year:       y,
				Month:      m,
			}

			var rec *model.ClassificationRecord
			operation := func() error {
				var opErr error
				rec, opErr = svc.Classify(ctx, req)
				return opErr
			}

			var runErr error
			if retries > 0 {
				runErr = common.WithRetry(ctx, operation, common.RetryOptions{MaxAttempts: retries + 1})
			} else {
				runErr = operation()
			}

			switch {
			case runErr == nil:
				fmt.Println(cli.SuccessStyle.Render("Classified"))
				fmt.Println(cli.PathStyle.Render(rec.RutaDestino))
			case common.IsLedgerWarning(runErr):
				fmt.Println(cli.SuccessStyle.Render("File moved to"))
				fmt.Println(cli.PathStyle.Render(rec.RutaDestino))
				fmt.Println(cli.WarningStyle.Render(runErr.Error()))
			default:
				return runErr
			}
			return nil
		},
	}

	selFlags.register(cmd)
	cmd.Flags().StringVar(&clave, "clave", "", "50-digit clave (derived from the filename when omitted)")
	cmd.Flags().IntVar(&year, "year", 0, "fiscal year (derived from the clave when omitted)")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (derived from the clave when omitted)")
	cmd.Flags().IntVar(&retries, "retries", 0, "retry transient drive errors this many times")

	return cmd
}

func describeRecord(rec *model.ClassificationRecord) string {
	out := rec.Categoria
	if rec.Subtipo != "" {
		out += "/" + rec.Subtipo
	}
	if rec.NombreCuenta != "" {
		out += "/" + rec.NombreCuenta
	}
	if rec.Proveedor != "" {
		out += "/" + rec.Proveedor
	}
	return out
}
