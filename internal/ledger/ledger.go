// Package ledger provides the durable record store of classification
// decisions, one row per invoice clave, backed by an embedded SQLite
// database.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmonterocr/archivador/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Ledger is the classification record store. The embedded database does not
// tolerate concurrent writers, so every write passes through one critical
// section; reads may interleave with each other but never with a write.
type Ledger struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// Open opens (creating if necessary) the ledger at dbPath and brings its
// schema up to date. A schema that cannot be migrated is fatal: the ledger
// does not open and classification must not proceed.
func Open(dbPath string) (*Ledger, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping ledger: %w", err)
	}

	l := &Ledger{db: db, dbPath: dbPath}
	if err := l.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Upsert writes a classification record, overwriting any prior row for the
// same clave. Re-classification is last write wins; callers that need the
// previous decision must Get it before moving the file.
func (l *Ledger) Upsert(ctx context.Context, rec *model.ClassificationRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(rec); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO clasificaciones (
			clave_numerica, estado, categoria, subtipo, nombre_cuenta,
			proveedor, ruta_origen, ruta_destino, sha256,
			fecha_clasificacion, clasificado_por
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(clave_numerica) DO UPDATE SET
			estado = excluded.estado,
			categoria = excluded.categoria,
			subtipo = excluded.subtipo,
			nombre_cuenta = excluded.nombre_cuenta,
			proveedor = excluded.proveedor,
			ruta_origen = excluded.ruta_origen,
			ruta_destino = excluded.ruta_destino,
			sha256 = excluded.sha256,
			fecha_clasificacion = excluded.fecha_clasificacion,
			clasificado_por = excluded.clasificado_por
	`,
		rec.Clave,
		rec.Estado,
		rec.Categoria,
		rec.Subtipo,
		rec.NombreCuenta,
		rec.Proveedor,
		rec.RutaOrigen,
		rec.RutaDestino,
		rec.SHA256,
		formatTime(rec.FechaClasificacion),
		rec.ClasificadoPor,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert classification: %w", err)
	}
	return nil
}

// Get returns the record for a clave, or found=false when the document has
// never been classified.
func (l *Ledger) Get(ctx context.Context, clave string) (*model.ClassificationRecord, bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, false, err
	}
	if err := validateString(clave, "clave"); err != nil {
		return nil, false, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	// Every column except the key is nullable: rows written before a column
	// was added carry NULL in it, and those rows must stay readable.
	var rec model.ClassificationRecord
	var estado, categoria, subtipo, cuenta, proveedor sql.NullString
	var origen, destino, sha, fecha, por sql.NullString
	err := l.db.QueryRowContext(ctx, `
		SELECT clave_numerica, estado, categoria, subtipo, nombre_cuenta,
		       proveedor, ruta_origen, ruta_destino, sha256,
		       fecha_clasificacion, clasificado_por
		FROM clasificaciones
		WHERE clave_numerica = ?
	`, clave).Scan(
		&rec.Clave,
		&estado,
		&categoria,
		&subtipo,
		&cuenta,
		&proveedor,
		&origen,
		&destino,
		&sha,
		&fecha,
		&por,
	)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query classification: %w", err)
	}

	rec.Estado = estado.String
	rec.Categoria = categoria.String
	rec.Subtipo = subtipo.String
	rec.NombreCuenta = cuenta.String
	rec.Proveedor = proveedor.String
	rec.RutaOrigen = origen.String
	rec.RutaDestino = destino.String
	rec.SHA256 = sha.String
	rec.ClasificadoPor = por.String

	if fecha.Valid && fecha.String != "" {
		if t, perr := time.Parse(time.RFC3339, fecha.String); perr == nil {
			rec.FechaClasificacion = t
		}
	}
	return &rec, true, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
