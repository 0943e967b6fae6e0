package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmonterocr/archivador/internal/common"
	"github.com/jmonterocr/archivador/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cliente.json")
	s, err := NewStore("CLIENTE", DefaultNodes(), path)
	if err != nil {
		t.Fatalf("Failed to build store: %v", err)
	}
	return s
}

func TestDefaultCategories(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, []string{"COMPRAS", "GASTOS", "OGND"}, s.Categories())

	subtypes, err := s.Subtypes("GASTOS")
	require.NoError(t, err)
	assert.Equal(t, []string{"GASTOS GENERALES", "GASTOS ESPECIFICOS"}, subtypes)

	subtypes, err = s.Subtypes("OGND")
	require.NoError(t, err)
	assert.Equal(t, []string{"OGND", "DNR", "ORS", "CNR"}, subtypes)
}

func TestOgndHasNoAccountsLayer(t *testing.T) {
	s := newTestStore(t)

	accounts, err := s.Accounts("OGND", "DNR")
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestUnknownPaths(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Subtypes("VENTAS")
	assert.ErrorIs(t, err, common.ErrUnknownCategory)

	_, err = s.Accounts("GASTOS", "GASTOS IMAGINARIOS")
	assert.ErrorIs(t, err, common.ErrUnknownSubtype)
}

func TestUnknownCategorySuggestsClosestName(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Subtypes("GASTO")
	require.ErrorIs(t, err, common.ErrUnknownCategory)
	assert.Contains(t, err.Error(), `did you mean "GASTOS"`)
}

func TestAddAccountRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cliente.json")
	s, err := NewStore("CLIENTE", DefaultNodes(), path)
	require.NoError(t, err)

	require.NoError(t, s.AddAccount("GASTOS", "GASTOS GENERALES", "AGUA"))

	// Reload from the persisted state; the new account must survive and
	// appear exactly once.
	reloaded, err := NewStore("CLIENTE", DefaultNodes(), path)
	require.NoError(t, err)

	accounts, err := reloaded.Accounts("GASTOS", "GASTOS GENERALES")
	require.NoError(t, err)

	count := 0
	for _, a := range accounts {
		if a == "AGUA" {
			count++
		}
	}
	assert.Equal(t, 1, count, "accounts: %v", accounts)
}

func TestAddAccountDuplicateCaseInsensitive(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddAccount("GASTOS", "GASTOS GENERALES", "AGUA"))

	err := s.AddAccount("GASTOS", "GASTOS GENERALES", "agua")
	assert.ErrorIs(t, err, common.ErrDuplicateCatalogEntry)

	// The default ELECTRICIDAD account is a duplicate too.
	err = s.AddAccount("GASTOS", "GASTOS GENERALES", "Electricidad")
	assert.ErrorIs(t, err, common.ErrDuplicateCatalogEntry)
}

func TestAddAccountUnknownParent(t *testing.T) {
	s := newTestStore(t)

	err := s.AddAccount("VENTAS", "X", "Y")
	assert.ErrorIs(t, err, common.ErrUnknownCategory)

	err = s.AddAccount("GASTOS", "GASTOS IMAGINARIOS", "Y")
	assert.ErrorIs(t, err, common.ErrUnknownSubtype)
}

func TestAddAccountPersistsAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cliente.json")
	s, err := NewStore("CLIENTE", DefaultNodes(), path)
	require.NoError(t, err)

	require.NoError(t, s.AddAccount("GASTOS", "GASTOS ESPECIFICOS", "SEGURIDAD"))

	// No temp file may remain next to the catalog.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestValidateSelection(t *testing.T) {
	s := newTestStore(t)

	compras, err := model.NewCompras("ACME")
	require.NoError(t, err)
	assert.NoError(t, s.ValidateSelection(compras))

	gastos, err := model.NewGastos(model.GastosGenerales, "ELECTRICIDAD", "CNFL")
	require.NoError(t, err)
	assert.NoError(t, s.ValidateSelection(gastos))

	unknownAccount, err := model.NewGastos(model.GastosGenerales, "CRIPTOMONEDAS", "X")
	require.NoError(t, err)
	assert.ErrorIs(t, s.ValidateSelection(unknownAccount), common.ErrUnknownAccount)

	ognd, err := model.NewOgnd(model.OgndSubtypeCnr)
	require.NoError(t, err)
	assert.NoError(t, s.ValidateSelection(ognd))
}

func TestBuildTreeDefersOutOfOrderNodes(t *testing.T) {
	// Children listed before their parents must still resolve.
	nodes := []model.CatalogNode{
		{Code: "211", Name: "ELECTRICIDAD", ParentCode: "210"},
		{Code: "210", Name: "GASTOS GENERALES", ParentCode: "200"},
		{Code: "200", Name: "GASTOS"},
	}
	path := filepath.Join(t.TempDir(), "c.json")
	s, err := NewStore("C", nodes, path)
	require.NoError(t, err)

	accounts, err := s.Accounts("GASTOS", "GASTOS GENERALES")
	require.NoError(t, err)
	assert.Equal(t, []string{"ELECTRICIDAD"}, accounts)
}

func TestBuildTreeOrphanIsFatal(t *testing.T) {
	nodes := []model.CatalogNode{
		{Code: "200", Name: "GASTOS"},
		{Code: "999", Name: "HUERFANO", ParentCode: "404"},
	}
	_, err := NewStore("C", nodes, filepath.Join(t.TempDir(), "c.json"))
	require.ErrorIs(t, err, common.ErrOrphanCatalogNode)
	assert.Contains(t, err.Error(), "999")
}

func TestOgndSourceNameMapsToFolderName(t *testing.T) {
	nodes := []model.CatalogNode{
		{Code: "300", Name: "GASTOS NO DEDUCIBLES"},
		{Code: "310", Name: "DNR", ParentCode: "300"},
	}
	s, err := NewStore("C", nodes, filepath.Join(t.TempDir(), "c.json"))
	require.NoError(t, err)

	assert.Equal(t, []string{"OGND"}, s.Categories())
}

func TestParseSource(t *testing.T) {
	src := filepath.Join(t.TempDir(), "catalogo.txt")
	content := `# firm-wide defaults
100|COMPRAS|
200|GASTOS|
210|GASTOS GENERALES|200

211|ELECTRICIDAD|210
`
	require.NoError(t, os.WriteFile(src, []byte(content), 0o644))

	nodes, err := ParseSource(src)
	require.NoError(t, err)
	require.Len(t, nodes, 4)
	assert.Equal(t, model.CatalogNode{Code: "100", Name: "COMPRAS"}, nodes[0])
	assert.Equal(t, model.CatalogNode{Code: "211", Name: "ELECTRICIDAD", ParentCode: "210"}, nodes[3])
}

func TestParseSourceRejectsMalformedLine(t *testing.T) {
	src := filepath.Join(t.TempDir(), "catalogo.txt")
	require.NoError(t, os.WriteFile(src, []byte("100|COMPRAS\n"), 0o644))

	_, err := ParseSource(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}
