package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmonterocr/archivador/internal/catalog"
	"github.com/jmonterocr/archivador/internal/classify"
	"github.com/jmonterocr/archivador/internal/config"
	"github.com/jmonterocr/archivador/internal/ledger"
	"github.com/jmonterocr/archivador/internal/model"
)

// requireRoot returns the configured network root or an error telling the
// operator how to set it.
func requireRoot() (string, error) {
	root := config.ExpandPath(viper.GetString("network_root"))
	if root == "" {
		return "", fmt.Errorf("network root not configured; set network_root in config or pass --root")
	}
	return root, nil
}

func requireClient() (string, error) {
	client := strings.TrimSpace(viper.GetString("client"))
	if client == "" {
		return "", fmt.Errorf("client not configured; set client in config or pass --client")
	}
	return client, nil
}

// openCatalog builds the merged catalog for a client: firm-wide defaults
// (built-in unless catalog.defaults points at a CODE|NAME|PARENT_CODE file)
// plus the client's persisted additions.
func openCatalog(root, client string) (*catalog.Store, error) {
	defaults := catalog.DefaultNodes()
	if src := config.ExpandPath(viper.GetString("catalog.defaults")); src != "" {
		nodes, err := catalog.ParseSource(src)
		if err != nil {
			return nil, err
		}
		defaults = nodes
	}

	overridesDir := config.ExpandPath(viper.GetString("catalog.overrides_dir"))
	if overridesDir == "" {
		overridesDir = filepath.Join(root, "CONFIG", "catalogos")
	}
	overridesPath := filepath.Join(overridesDir, config.ClientSlug(client)+".json")

	return catalog.NewStore(client, defaults, overridesPath)
}

// openLedger opens the classification ledger. Failure here is fatal for any
// classify action.
func openLedger(root string) (*ledger.Ledger, error) {
	dbPath := config.ExpandPath(viper.GetString("ledger.path"))
	if dbPath == "" {
		dbPath = filepath.Join(root, "DATA", "clasificacion.sqlite")
	}
	return ledger.Open(dbPath)
}

// initService wires catalog, ledger, and mover into the classify service.
// The returned cleanup closes the ledger.
func initService() (*classify.Service, func(), error) {
	root, err := requireRoot()
	if err != nil {
		return nil, nil, err
	}
	client, err := requireClient()
	if err != nil {
		return nil, nil, err
	}

	cat, err := openCatalog(root, client)
	if err != nil {
		return nil, nil, err
	}
	led, err := openLedger(root)
	if err != nil {
		return nil, nil, err
	}

	svc := classify.NewService(root, cat, led)
	return svc, func() { _ = led.Close() }, nil
}

// selectionFlags holds the category flags shared by classify, preview, and
// inbox.
type selectionFlags struct {
	category string
	subtype  string
	account  string
	provider string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "category: COMPRAS, GASTOS, or OGND")
	cmd.Flags().StringVar(&f.subtype, "subtype", "", "subtype (GASTOS and OGND)")
	cmd.Flags().StringVar(&f.account, "account", "", "account (GASTOS only)")
	cmd.Flags().StringVar(&f.provider, "provider", "", "provider (COMPRAS and GASTOS)")
	_ = cmd.MarkFlagRequired("category")
}

// selection builds the closed selection variant from the flags. Field
// requirements per variant are enforced by the constructors.
func (f *selectionFlags) selection() (model.CategorySelection, error) {
	switch strings.ToUpper(strings.TrimSpace(f.category)) {
	case model.CategoryCompras:
		return model.NewCompras(f.provider)
	case model.CategoryGastos:
		return model.NewGastos(strings.ToUpper(f.subtype), f.account, f.provider)
	case model.CategoryOgnd:
		return model.NewOgnd(strings.ToUpper(f.subtype))
	default:
		return nil, fmt.Errorf("unknown category %q: expected COMPRAS, GASTOS, or OGND", f.category)
	}
}

// periodFor fills year/month from the clave when the flags left them at 0.
func periodFor(clave string, year, month int) (int, int, error) {
	if year == 0 {
		year = model.ClaveYear(clave)
	}
	if month == 0 {
		month = model.ClaveMonth(clave)
	}
	if year == 0 || month == 0 {
		return 0, 0, fmt.Errorf("fiscal period unknown: pass --year and --month or use a file with a valid clave")
	}
	return year, month, nil
}
