package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmonterocr/archivador/internal/cli"
	"github.com/jmonterocr/archivador/internal/model"
)

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Query the classification ledger",
	}

	cmd.AddCommand(ledgerShowCmd())

	return cmd
}

func ledgerShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <clave>",
		Short: "Show the classification record for a clave",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clave := args[0]
			if !model.IsValidClave(clave) {
				return fmt.Errorf("clave must be 50 digits starting with 506")
			}

			root, err := requireRoot()
			if err != nil {
				return err
			}
			led, err := openLedger(root)
			if err != nil {
				return err
			}
			defer func() { _ = led.Close() }()

			rec, found, err := led.Get(cmd.Context(), clave)
			if err != nil {
				return err
			}
			if !found {
				fmt.Println(cli.SubtleStyle.Render("Never classified."))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render("Classification record"))
			fmt.Printf("  clave:       %s\n", rec.Clave)
			fmt.Printf("  estado:      %s\n", rec.Estado)
			fmt.Printf("  destino:     %s\n", describeRecord(rec))
			fmt.Printf("  ruta:        %s\n", rec.RutaDestino)
			fmt.Printf("  sha256:      %s\n", rec.SHA256)
			fmt.Printf("  fecha:       %s\n", rec.FechaClasificacion.Format("2006-01-02 15:04:05"))
			fmt.Printf("  clasificado: %s\n", rec.ClasificadoPor)
			return nil
		},
	}
}
