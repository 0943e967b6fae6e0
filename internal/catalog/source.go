// Package catalog manages the per-client accounting taxonomy: firm-wide
// defaults overlaid with client-specific additions, validated reads for the
// path resolver, and atomic persistence of mutations.
package catalog

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jmonterocr/archivador/internal/common"
	"github.com/jmonterocr/archivador/internal/model"
)

// The firm-wide defaults file carries one node per line: CODE|NAME|PARENT_CODE.
// Root categories have an empty parent code.

// ogndSourceName is how the non-deductible root is labeled in the defaults
// source; on disk the folder is always OGND.
const ogndSourceName = "GASTOS NO DEDUCIBLES"

// ParseSource reads CODE|NAME|PARENT_CODE triples. Blank lines and lines
// starting with '#' are skipped.
func ParseSource(path string) ([]model.CatalogNode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog source: %w", err)
	}
	defer func() { _ = f.Close() }()

	var nodes []model.CatalogNode
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			return nil, fmt.Errorf("catalog source line %d: expected CODE|NAME|PARENT_CODE, got %q", lineNo, line)
		}
		node := model.CatalogNode{
			Code:       strings.TrimSpace(parts[0]),
			Name:       strings.TrimSpace(parts[1]),
			ParentCode: strings.TrimSpace(parts[2]),
		}
		if node.Code == "" || node.Name == "" {
			return nil, fmt.Errorf("catalog source line %d: empty code or name", lineNo)
		}
		nodes = append(nodes, node)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog source: %w", err)
	}
	return nodes, nil
}

// DefaultNodes is the built-in firm-wide taxonomy, used when no defaults file
// is configured. Folder names follow the directory contract; the
// non-deductible root is stored under its folder name OGND.
func DefaultNodes() []model.CatalogNode {
	return []model.CatalogNode{
		{Code: "100", Name: model.CategoryCompras},
		{Code: "110", Name: "COMPRAS DE CONTADO", ParentCode: "100"},
		{Code: "120", Name: "COMPRAS DE CREDITO", ParentCode: "100"},

		{Code: "200", Name: model.CategoryGastos},
		{Code: "210", Name: model.GastosGenerales, ParentCode: "200"},
		{Code: "211", Name: "ELECTRICIDAD", ParentCode: "210"},
		{Code: "212", Name: "PAPELERIA Y UTILES DE OFICINA", ParentCode: "210"},
		{Code: "220", Name: model.GastosEspecificos, ParentCode: "200"},
		{Code: "221", Name: "ALQUILER", ParentCode: "220"},
		{Code: "222", Name: "HONORARIOS PROFESIONALES", ParentCode: "220"},

		{Code: "300", Name: ogndSourceName},
		{Code: "310", Name: model.OgndSubtypeOgnd, ParentCode: "300"},
		{Code: "320", Name: model.OgndSubtypeDnr, ParentCode: "300"},
		{Code: "330", Name: model.OgndSubtypeOrs, ParentCode: "300"},
		{Code: "340", Name: model.OgndSubtypeCnr, ParentCode: "300"},
	}
}

// folderName maps a source category name to its on-disk folder name.
func folderName(name string) string {
	if strings.EqualFold(name, ogndSourceName) {
		return model.CategoryOgnd
	}
	return name
}

// buildTree inserts nodes parents-first. The source order is not trusted:
// unresolved nodes are deferred and retried until a pass makes no progress;
// anything still unresolved then is an orphan and the load fails.
func buildTree(nodes []model.CatalogNode) (*tree, error) {
	t := newTree()
	byCode := make(map[string]*node, len(nodes))

	pending := make([]model.CatalogNode, len(nodes))
	copy(pending, nodes)

	for len(pending) > 0 {
		progressed := false
		remaining := pending[:0]
		for _, cn := range pending {
			var inserted *node
			switch {
			case cn.IsRoot():
				inserted = t.root.ensureChild(folderName(cn.Name))
			default:
				parent, ok := byCode[cn.ParentCode]
				if !ok {
					remaining = append(remaining, cn)
					continue
				}
				inserted = parent.ensureChild(cn.Name)
			}
			byCode[cn.Code] = inserted
			progressed = true
		}
		if !progressed {
			codes := make([]string, 0, len(remaining))
			for _, cn := range remaining {
				codes = append(codes, cn.Code)
			}
			return nil, fmt.Errorf("%w: unresolved codes %s",
				common.ErrOrphanCatalogNode, strings.Join(codes, ", "))
		}
		pending = remaining
	}
	return t, nil
}
