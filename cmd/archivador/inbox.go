package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmonterocr/archivador/internal/classify"
	"github.com/jmonterocr/archivador/internal/cli"
	"github.com/jmonterocr/archivador/internal/common"
	"github.com/jmonterocr/archivador/internal/model"
)

// inboxStats summarizes one batch run.
type inboxStats struct {
	processed  int
	classified int
	skipped    int
	failed     int
	samples    []string
}

func inboxCmd() *cobra.Command {
	var (
		selFlags selectionFlags
		year     int
		month    int
	)

	cmd := &cobra.Command{
		Use:   "inbox <directory>",
		Short: "File every PDF in a directory under one selection",
		Long: `Walk a directory and classify every PDF whose filename carries a clave.
All documents go under the same category selection; the fiscal period is
derived per document from its clave unless --year/--month force one. Files
without a clave are skipped and reported.

Each document is filed independently: a failure rolls back only that
document and the batch continues.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

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
			actor := viper.GetString("actor")

			var pdfs []string
			walkErr := filepath.WalkDir(args[0], func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
					pdfs = append(pdfs, path)
				}
				return nil
			})
			if walkErr != nil {
				return fmt.Errorf("failed to scan inbox: %w", walkErr)
			}
			if len(pdfs) == 0 {
				fmt.Println(cli.InfoStyle.Render("No PDFs found."))
				return nil
			}

			bar := progressbar.NewOptions(len(pdfs),
				progressbar.OptionSetDescription("Filing documents"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			var stats inboxStats
			for _, pdf := range pdfs {
				if ctx.Err() != nil {
					break
				}
				stats.processed++
				_ = bar.Add(1)

				clave := model.ExtractClave(filepath.Base(pdf))
				if clave == "" {
					stats.skipped++
					stats.sample("no clave: " + filepath.Base(pdf))
					continue
				}

				y, m, err := periodFor(clave, year, month)
				if err != nil {
					stats.skipped++
					stats.sample(fmt.Sprintf("%s: %v", filepath.Base(pdf), err))
					continue
				}

				_, err = svc.Classify(ctx, classify.Request{
					SourcePath: pdf,
					Clave:      clave,
					Selection:  sel,
					Client:     client,
					Actor:      actor,
					Year:       y,
					Month:      m,
				})
				switch {
				case err == nil, common.IsLedgerWarning(err):
					stats.classified++
					if err != nil {
						stats.sample(fmt.Sprintf("%s: %v", filepath.Base(pdf), err))
					}
				default:
					stats.failed++
					stats.sample(fmt.Sprintf("%s: %v", filepath.Base(pdf), err))
				}
			}
			_ = bar.Finish()

			fmt.Println(cli.TitleStyle.Render("Inbox run complete"))
			fmt.Printf("  processed:  %d\n", stats.processed)
			fmt.Printf("  classified: %d\n", stats.classified)
			fmt.Printf("  skipped:    %d\n", stats.skipped)
			fmt.Printf("  failed:     %d\n", stats.failed)
			for _, s := range stats.samples {
				fmt.Println(cli.SubtleStyle.Render("  " + s))
			}

			if stats.failed > 0 {
				return fmt.Errorf("%d documents failed; originals are untouched and safe to retry", stats.failed)
			}
			return nil
		},
	}

	selFlags.register(cmd)
	cmd.Flags().IntVar(&year, "year", 0, "force fiscal year for the whole batch")
	cmd.Flags().IntVar(&month, "month", 0, "force month 1-12 for the whole batch")

	return cmd
}

// sample keeps the first few problem descriptions for the summary.
func (s *inboxStats) sample(msg string) {
	if len(s.samples) < 10 {
		s.samples = append(s.samples, msg)
	}
}
