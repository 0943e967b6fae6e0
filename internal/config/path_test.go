package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "facturas"), ExpandPath("~/facturas"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/mnt/z", ExpandPath("/mnt/z"))

	t.Setenv("ARCHIVADOR_TEST_ROOT", "/mnt/red")
	assert.Equal(t, "/mnt/red/PF-2026", ExpandPath("$ARCHIVADOR_TEST_ROOT/PF-2026"))
}

func TestClientSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PANADERIA LUNA", "panaderia-luna"},
		{"  Ferretería El Clavo S.A.  ", "ferreter-a-el-clavo-s-a"},
		{"CLIENTE-123", "cliente-123"},
		{"***", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClientSlug(tt.in), "input %q", tt.in)
	}
}
