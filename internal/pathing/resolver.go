// Package pathing builds destination paths for classified documents. It is
// pure: no I/O, no clock, no global state. The directory contract is
// bit-exact because downstream tooling and manual audits rely on it:
//
//	{root}/PF-{year}/Contabilidades/{MM-MES}/{client}/{category segments...}/{file}
package pathing

import (
	"fmt"
	"path/filepath"

	"github.com/jmonterocr/archivador/internal/common"
	"github.com/jmonterocr/archivador/internal/model"
)

// ContabilidadesFolder is the fixed accounting folder under each fiscal year.
const ContabilidadesFolder = "Contabilidades"

// monthNames maps month numbers to the folder names used on the drive.
var monthNames = [13]string{
	"",
	"ENERO", "FEBRERO", "MARZO", "ABRIL", "MAYO", "JUNIO",
	"JULIO", "AGOSTO", "SEPTIEMBRE", "OCTUBRE", "NOVIEMBRE", "DICIEMBRE",
}

// MonthFolder renders month m as its folder name, e.g. "02-FEBRERO".
func MonthFolder(m int) (string, error) {
	if m < 1 || m > 12 {
		return "", fmt.Errorf("%w: month %d out of range", common.ErrInvalidPeriod, m)
	}
	return fmt.Sprintf("%02d-%s", m, monthNames[m]), nil
}

// Resolve maps a fiscal period, client, and category selection to the ordered
// destination segments relative to the network root. Every segment is
// sanitized independently; a segment that sanitizes to nothing fails with
// ErrInvalidSegment.
func Resolve(year, month int, client string, sel model.CategorySelection) ([]string, error) {
	if sel == nil {
		return nil, fmt.Errorf("%w: no selection", common.ErrInvalidSelection)
	}
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	if year < 2000 || year > 2099 {
		return nil, fmt.Errorf("%w: year %d out of range", common.ErrInvalidPeriod, year)
	}
	monthSeg, err := MonthFolder(month)
	if err != nil {
		return nil, err
	}

	raw := make([]string, 0, 8)
	raw = append(raw, fmt.Sprintf("PF-%d", year), ContabilidadesFolder, monthSeg, client)
	raw = append(raw, sel.Segments()...)

	segments := make([]string, 0, len(raw))
	for _, seg := range raw {
		clean, err := SanitizeSegment(seg)
		if err != nil {
			return nil, fmt.Errorf("segment %q: %w", seg, err)
		}
		segments = append(segments, clean)
	}
	return segments, nil
}

// ResolveDir is Resolve joined onto the network root.
func ResolveDir(root string, year, month int, client string, sel model.CategorySelection) (string, error) {
	segments, err := Resolve(year, month, client, sel)
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{root}, segments...)...), nil
}
