package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmonterocr/archivador/internal/common"
)

// ledgerColumns is the full set of columns the application expects, in
// schema order. Migration is strictly additive: missing columns are added
// with a null default, and nothing is ever dropped, renamed, or rewritten.
var ledgerColumns = []string{
	"clave_numerica",
	"estado",
	"categoria",
	"subtipo",
	"nombre_cuenta",
	"proveedor",
	"ruta_origen",
	"ruta_destino",
	"sha256",
	"fecha_clasificacion",
	"clasificado_por",
}

// migrate creates the clasificaciones table if absent and additively adds
// any column a legacy database is missing. Any failure here is fatal for the
// ledger: it wraps ErrSchemaMigration and Open fails.
func (l *Ledger) migrate(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS clasificaciones (
			clave_numerica      TEXT PRIMARY KEY,
			estado              TEXT,
			categoria           TEXT,
			subtipo             TEXT,
			nombre_cuenta       TEXT,
			proveedor           TEXT,
			ruta_origen         TEXT,
			ruta_destino        TEXT,
			sha256              TEXT,
			fecha_clasificacion TEXT,
			clasificado_por     TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: failed to create table: %v", common.ErrSchemaMigration, err)
	}

	existing, err := l.tableColumns(ctx, "clasificaciones")
	if err != nil {
		return fmt.Errorf("%w: failed to inspect schema: %v", common.ErrSchemaMigration, err)
	}

	for _, col := range ledgerColumns {
		if _, ok := existing[col]; ok {
			continue
		}
		query := fmt.Sprintf("ALTER TABLE clasificaciones ADD COLUMN %s TEXT", col)
		if _, err := l.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("%w: failed to add column %s: %v", common.ErrSchemaMigration, col, err)
		}
		slog.Info("Applied ledger migration", "column", col)
	}
	return nil
}

// tableColumns returns the column names of a table as reported by SQLite.
func (l *Ledger) tableColumns(ctx context.Context, table string) (map[string]struct{}, error) {
	rows, err := l.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols := make(map[string]struct{})
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[name] = struct{}{}
	}
	return cols, rows.Err()
}
