package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmonterocr/archivador/internal/cli"
	"github.com/jmonterocr/archivador/internal/model"
)

func previewCmd() *cobra.Command {
	var (
		selFlags selectionFlags
		clave    string
		year     int
		month    int
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the destination folder a selection resolves to",
		Long: `Resolve and print the destination path for a category selection without
touching any file. Useful to confirm where a document will land before
classifying it.`,
		RunE: func(_ *cobra.Command, _ []string) error {
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

			y, m := year, month
			if model.IsValidClave(clave) {
				y, m, err = periodFor(clave, year, month)
				if err != nil {
					return err
				}
			}

			path, err := svc.PreviewPath(sel, y, m, client)
			if err != nil {
				return err
			}

			fmt.Println(cli.PathStyle.Render(path))
			return nil
		},
	}

	selFlags.register(cmd)
	cmd.Flags().StringVar(&clave, "clave", "", "50-digit clave to derive the period from")
	cmd.Flags().IntVar(&year, "year", 0, "fiscal year")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12")

	return cmd
}
