package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmonterocr/archivador/internal/catalog"
	"github.com/jmonterocr/archivador/internal/cli"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and extend the client's accounting catalog",
	}

	cmd.AddCommand(catalogListCmd())
	cmd.AddCommand(catalogSubtypesCmd())
	cmd.AddCommand(catalogAccountsCmd())
	cmd.AddCommand(catalogAddAccountCmd())

	return cmd
}

func clientCatalog() (*catalog.Store, error) {
	root, err := requireRoot()
	if err != nil {
		return nil, err
	}
	client, err := requireClient()
	if err != nil {
		return nil, err
	}
	return openCatalog(root, client)
}

func catalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the top-level categories",
		RunE: func(_ *cobra.Command, _ []string) error {
			cat, err := clientCatalog()
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Catalog for %s", cat.Client())))
			for _, name := range cat.Categories() {
				fmt.Println("  " + name)
			}
			return nil
		},
	}
}

func catalogSubtypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subtypes <category>",
		Short: "List the subtypes under a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cat, err := clientCatalog()
			if err != nil {
				return err
			}

			subtypes, err := cat.Subtypes(args[0])
			if err != nil {
				return err
			}
			for _, name := range subtypes {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func catalogAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts <category> <subtype>",
		Short: "List the accounts under a subtype",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			cat, err := clientCatalog()
			if err != nil {
				return err
			}

			accounts, err := cat.Accounts(args[0], args[1])
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				fmt.Println(cli.SubtleStyle.Render("(no accounts)"))
				return nil
			}
			for _, name := range accounts {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func catalogAddAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-account <category> <subtype> <name>",
		Short: "Add a new account and persist the client catalog",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			cat, err := clientCatalog()
			if err != nil {
				return err
			}

			if err := cat.AddAccount(args[0], args[1], args[2]); err != nil {
				return err
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Added account %q under %s/%s", args[2], args[0], args[1])))
			return nil
		},
	}
}
