// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"

	"github.com/jmonterocr/archivador/internal/common"
)

// Top-level category folder names. These are fixed by the directory contract;
// downstream tooling and manual audits rely on them bit-exactly.
const (
	CategoryCompras = "COMPRAS"
	CategoryGastos  = "GASTOS"
	CategoryOgnd    = "OGND"
)

// Gastos subtypes.
const (
	GastosGenerales   = "GASTOS GENERALES"
	GastosEspecificos = "GASTOS ESPECIFICOS"
)

// Ognd subtypes. Non-deductible documents are filed at low granularity, with
// no provider segment.
const (
	OgndSubtypeOgnd = "OGND"
	OgndSubtypeDnr  = "DNR"
	OgndSubtypeOrs  = "ORS"
	OgndSubtypeCnr  = "CNR"
)

// CategorySelection is the accountant's choice of where a document belongs in
// the taxonomy. It is a closed variant: exactly Compras, Gastos, or Ognd.
type CategorySelection interface {
	// Category returns the top-level folder name for the selection.
	Category() string
	// Segments returns the category-specific path segments, in fixed order
	// and unsanitized.
	Segments() []string
	// Validate checks that every field required by the variant is present.
	Validate() error

	sealed()
}

// Compras files a purchase invoice under COMPRAS/{provider}.
type Compras struct {
	Provider string
}

// NewCompras builds a Compras selection, enforcing required fields.
func NewCompras(provider string) (Compras, error) {
	s := Compras{Provider: provider}
	if err := s.Validate(); err != nil {
		return Compras{}, err
	}
	return s, nil
}

// Category implements CategorySelection.
func (s Compras) Category() string { return CategoryCompras }

// Segments implements CategorySelection.
func (s Compras) Segments() []string { return []string{CategoryCompras, s.Provider} }

// Validate implements CategorySelection.
func (s Compras) Validate() error {
	if s.Provider == "" {
		return fmt.Errorf("%w: COMPRAS requires provider", common.ErrInvalidSelection)
	}
	return nil
}

func (s Compras) sealed() {}

// Gastos files an expense under GASTOS/{subtype}/{account}/{provider}.
type Gastos struct {
	Subtype  string
	Account  string
	Provider string
}

// NewGastos builds a Gastos selection, enforcing required fields.
func NewGastos(subtype, account, provider string) (Gastos, error) {
	s := Gastos{Subtype: subtype, Account: account, Provider: provider}
	if err := s.Validate(); err != nil {
		return Gastos{}, err
	}
	return s, nil
}

// Category implements CategorySelection.
func (s Gastos) Category() string { return CategoryGastos }

// Segments implements CategorySelection.
func (s Gastos) Segments() []string {
	return []string{CategoryGastos, s.Subtype, s.Account, s.Provider}
}

// Validate implements CategorySelection.
func (s Gastos) Validate() error {
	switch {
	case s.Subtype == "":
		return fmt.Errorf("%w: GASTOS requires subtype", common.ErrInvalidSelection)
	case s.Subtype != GastosGenerales && s.Subtype != GastosEspecificos:
		return fmt.Errorf("%w: GASTOS subtype must be %q or %q, got %q",
			common.ErrInvalidSelection, GastosGenerales, GastosEspecificos, s.Subtype)
	case s.Account == "":
		return fmt.Errorf("%w: GASTOS requires account", common.ErrInvalidSelection)
	case s.Provider == "":
		return fmt.Errorf("%w: GASTOS requires provider", common.ErrInvalidSelection)
	}
	return nil
}

func (s Gastos) sealed() {}

// Ognd files a non-deductible document under OGND/{subtype}.
type Ognd struct {
	Subtype string
}

// NewOgnd builds an Ognd selection, enforcing required fields.
func NewOgnd(subtype string) (Ognd, error) {
	s := Ognd{Subtype: subtype}
	if err := s.Validate(); err != nil {
		return Ognd{}, err
	}
	return s, nil
}

// Category implements CategorySelection.
func (s Ognd) Category() string { return CategoryOgnd }

// Segments implements CategorySelection.
func (s Ognd) Segments() []string { return []string{CategoryOgnd, s.Subtype} }

// Validate implements CategorySelection.
func (s Ognd) Validate() error {
	switch s.Subtype {
	case OgndSubtypeOgnd, OgndSubtypeDnr, OgndSubtypeOrs, OgndSubtypeCnr:
		return nil
	case "":
		return fmt.Errorf("%w: OGND requires subtype", common.ErrInvalidSelection)
	default:
		return fmt.Errorf("%w: unknown OGND subtype %q", common.ErrInvalidSelection, s.Subtype)
	}
}

func (s Ognd) sealed() {}

// Provider returns the provider segment of a selection, or "" for variants
// without one.
func Provider(sel CategorySelection) string {
	switch s := sel.(type) {
	case Compras:
		return s.Provider
	case Gastos:
		return s.Provider
	default:
		return ""
	}
}

// Subtype returns the subtype segment of a selection, or "" for COMPRAS.
func Subtype(sel CategorySelection) string {
	switch s := sel.(type) {
	case Gastos:
		return s.Subtype
	case Ognd:
		return s.Subtype
	default:
		return ""
	}
}

// Account returns the account segment of a selection, or "" for variants
// without an accounts layer.
func Account(sel CategorySelection) string {
	if s, ok := sel.(Gastos); ok {
		return s.Account
	}
	return ""
}
