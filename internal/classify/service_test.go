package classify

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmonterocr/archivador/internal/catalog"
	"github.com/jmonterocr/archivador/internal/common"
	"github.com/jmonterocr/archivador/internal/ledger"
	"github.com/jmonterocr/archivador/internal/model"
)

func testClave(dd, mm, yy string) string {
	return "506" + dd + mm + yy + strings.Repeat("7", 41)
}

// newTestService builds a service over a fresh catalog, ledger, and network
// root, all under t.TempDir.
func newTestService(t *testing.T) (*Service, *ledger.Ledger, string) {
	t.Helper()
	dir := t.TempDir()
	root := filepath.Join(dir, "red")

	cat, err := catalog.NewStore("PANADERIA LUNA", catalog.DefaultNodes(), filepath.Join(dir, "panaderia-luna.json"))
	require.NoError(t, err)

	led, err := ledger.Open(filepath.Join(dir, "clasificacion.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = led.Close() })

	return NewService(root, cat, led), led, root
}

func writePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 contenido"), 0o644))
	return path
}

func TestClassifyEndToEnd(t *testing.T) {
	svc, led, root := newTestService(t)
	ctx := context.Background()

	clave := testClave("04", "02", "26")
	inbox := t.TempDir()
	source := writePDF(t, inbox, "factura_"+clave+".pdf")

	sel, err := model.NewGastos(model.GastosGenerales, "ELECTRICIDAD", "CNFL")
	require.NoError(t, err)

	rec, err := svc.Classify(ctx, Request{
		SourcePath: source,
		Selection:  sel,
		Client:     "PANADERIA LUNA",
		Actor:      "contadora1",
		Year:       2026,
		Month:      2,
	})
	require.NoError(t, err)

	wantDest := filepath.Join(root, "PF-2026", "Contabilidades", "02-FEBRERO",
		"PANADERIA LUNA", "GASTOS", "GASTOS GENERALES", "ELECTRICIDAD", "CNFL",
		"factura_"+clave+".pdf")
	assert.Equal(t, wantDest, rec.RutaDestino)
	assert.Equal(t, clave, rec.Clave)
	assert.Equal(t, model.EstadoClasificado, rec.Estado)
	assert.Equal(t, "GASTOS", rec.Categoria)
	assert.Equal(t, "contadora1", rec.ClasificadoPor)

	// File moved, not copied.
	_, statErr := os.Stat(source)
	assert.True(t, os.IsNotExist(statErr), "source should be gone")
	_, statErr = os.Stat(wantDest)
	assert.NoError(t, statErr)

	// Decision is durable.
	stored, found, err := led.Get(ctx, clave)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, wantDest, stored.RutaDestino)
	assert.Equal(t, rec.SHA256, stored.SHA256)
}

func TestClassifyClaveFromRequestOverridesFilename(t *testing.T) {
	svc, led, _ := newTestService(t)
	ctx := context.Background()

	source := writePDF(t, t.TempDir(), "escaneo.pdf") // no clave in the name
	clave := testClave("15", "07", "25")

	sel, err := model.NewOgnd(model.OgndSubtypeDnr)
	require.NoError(t, err)

	rec, err := svc.Classify(ctx, Request{
		SourcePath: source,
		Clave:      clave,
		Selection:  sel,
		Client:     "PANADERIA LUNA",
		Actor:      "contadora1",
		Year:       2025,
		Month:      7,
	})
	require.NoError(t, err)
	assert.Equal(t, clave, rec.Clave)

	_, found, err := led.Get(ctx, clave)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestClassifyRejectsMissingClave(t *testing.T) {
	svc, _, _ := newTestService(t)

	source := writePDF(t, t.TempDir(), "escaneo.pdf")
	sel, err := model.NewCompras("ACME")
	require.NoError(t, err)

	_, err = svc.Classify(context.Background(), Request{
		SourcePath: source,
		Selection:  sel,
		Client:     "PANADERIA LUNA",
		Year:       2026,
		Month:      2,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "506")

	// Validation failures never touch the source.
	_, statErr := os.Stat(source)
	assert.NoError(t, statErr)
}

func TestClassifyRejectsUnknownAccount(t *testing.T) {
	svc, _, root := newTestService(t)

	clave := testClave("04", "02", "26")
	source := writePDF(t, t.TempDir(), "factura_"+clave+".pdf")

	sel, err := model.NewGastos(model.GastosGenerales, "CRIPTOMONEDAS", "X")
	require.NoError(t, err)

	_, err = svc.Classify(context.Background(), Request{
		SourcePath: source,
		Selection:  sel,
		Client:     "PANADERIA LUNA",
		Year:       2026,
		Month:      2,
	})
	assert.ErrorIs(t, err, common.ErrUnknownAccount)

	// Nothing moved, nothing created under the root.
	_, statErr := os.Stat(source)
	assert.NoError(t, statErr)
	_, statErr = os.Stat(root)
	assert.True(t, os.IsNotExist(statErr), "root should not exist after rejected request")
}

func TestClassifyLedgerFailureIsWarning(t *testing.T) {
	svc, led, _ := newTestService(t)

	clave := testClave("04", "02", "26")
	source := writePDF(t, t.TempDir(), "factura_"+clave+".pdf")

	sel, err := model.NewCompras("DISTRIBUIDORA ABC SA")
	require.NoError(t, err)

	// Close the ledger so the post-move upsert fails.
	require.NoError(t, led.Close())

	rec, err := svc.Classify(context.Background(), Request{
		SourcePath: source,
		Selection:  sel,
		Client:     "PANADERIA LUNA",
		Actor:      "contadora1",
		Year:       2026,
		Month:      2,
	})
	require.Error(t, err)
	assert.True(t, common.IsLedgerWarning(err), "expected a ledger warning, got %v", err)

	// The move itself committed: the record points at the filed document.
	require.NotNil(t, rec)
	_, statErr := os.Stat(rec.RutaDestino)
	assert.NoError(t, statErr)
	_, statErr = os.Stat(source)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPreviewPathDoesNotTouchFilesystem(t *testing.T) {
	svc, _, root := newTestService(t)

	sel, err := model.NewCompras("ACME")
	require.NoError(t, err)

	dir, err := svc.PreviewPath(sel, 2026, 2, "PANADERIA LUNA")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "PF-2026", "Contabilidades", "02-FEBRERO",
		"PANADERIA LUNA", "COMPRAS", "ACME"), dir)

	_, statErr := os.Stat(root)
	assert.True(t, os.IsNotExist(statErr), "preview must not create directories")
}

func TestPreviousReflectsReclassification(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	clave := testClave("04", "02", "26")
	inbox := t.TempDir()

	sel1, err := model.NewCompras("PROVEEDOR VIEJO")
	require.NoError(t, err)
	source := writePDF(t, inbox, "factura_"+clave+".pdf")
	_, err = svc.Classify(ctx, Request{
		SourcePath: source, Selection: sel1,
		Client: "PANADERIA LUNA", Actor: "contadora1", Year: 2026, Month: 2,
	})
	require.NoError(t, err)

	prev, found, err := svc.Previous(ctx, clave)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "PROVEEDOR VIEJO", prev.Proveedor)

	// Same document arrives again under a corrected selection.
	sel2, err := model.NewGastos(model.GastosEspecificos, "ALQUILER", "INMOBILIARIA SA")
	require.NoError(t, err)
	source = writePDF(t, inbox, "factura_"+clave+".pdf")
	_, err = svc.Classify(ctx, Request{
		SourcePath: source, Selection: sel2,
		Client: "PANADERIA LUNA", Actor: "contadora2", Year: 2026, Month: 2,
	})
	require.NoError(t, err)

	prev, found, err = svc.Previous(ctx, clave)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "GASTOS", prev.Categoria)
	assert.Equal(t, "contadora2", prev.ClasificadoPor)
}
