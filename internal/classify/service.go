// Package classify orchestrates one user-facing filing action: resolve the
// destination against the catalog, move the document safely, record the
// decision in the ledger.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jmonterocr/archivador/internal/catalog"
	"github.com/jmonterocr/archivador/internal/common"
	"github.com/jmonterocr/archivador/internal/ledger"
	"github.com/jmonterocr/archivador/internal/model"
	"github.com/jmonterocr/archivador/internal/mover"
	"github.com/jmonterocr/archivador/internal/pathing"
)

// Service wires the path resolver, catalog, mover, and ledger into the
// synchronous classify operation. It is safe for concurrent use; the caller
// decides what worker context to invoke it from.
type Service struct {
	catalog *catalog.Store
	ledger  *ledger.Ledger
	root    string
}

// Request carries everything one classify action needs. Clave may be left
// empty when the source filename carries it.
type Request struct {
	SourcePath string
	Clave      string
	Selection  model.CategorySelection
	Client     string
	Actor      string
	Year       int
	Month      int
}

// NewService builds a classify service rooted at the network drive.
func NewService(networkRoot string, cat *catalog.Store, led *ledger.Ledger) *Service {
	return &Service{root: networkRoot, catalog: cat, ledger: led}
}

// PreviewPath resolves the destination directory for a selection without
// touching the filesystem, for display before the operator commits.
func (s *Service) PreviewPath(sel model.CategorySelection, year, month int, client string) (string, error) {
	if err := s.catalog.ValidateSelection(sel); err != nil {
		return "", err
	}
	return pathing.ResolveDir(s.root, year, month, client, sel)
}

// Previous returns the existing ledger record for a clave, if any, so the
// caller can show the prior decision before a re-classification.
func (s *Service) Previous(ctx context.Context, clave string) (*model.ClassificationRecord, bool, error) {
	return s.ledger.Get(ctx, clave)
}

// Classify validates the selection, moves the document with the
// copy-verify-delete protocol, and records the outcome.
//
// If the move fails, no ledger write happens and the typed error is returned
// unchanged. If the move succeeds but the ledger write fails, the returned
// record is valid and the error is a LedgerWarning: the file is already
// correctly placed and only the bookkeeping needs a retry.
func (s *Service) Classify(ctx context.Context, req Request) (*model.ClassificationRecord, error) {
	clave := req.Clave
	if clave == "" {
		clave = model.ExtractClave(filepath.Base(req.SourcePath))
	}
	if !model.IsValidClave(clave) {
		return nil, fmt.Errorf("clave must be %d digits starting with 506, got %q",
			model.ClaveLength, clave)
	}

	if err := s.catalog.ValidateSelection(req.Selection); err != nil {
		return nil, err
	}

	destDir, err := pathing.ResolveDir(s.root, req.Year, req.Month, req.Client, req.Selection)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(req.SourcePath)
	finalPath, sha, err := mover.Move(req.SourcePath, destDir, filename)
	if err != nil {
		return nil, err
	}

	rec := &model.ClassificationRecord{
		Clave:              clave,
		Estado:             model.EstadoClasificado,
		Categoria:          req.Selection.Category(),
		Subtipo:            model.Subtype(req.Selection),
		NombreCuenta:       model.Account(req.Selection),
		Proveedor:          model.Provider(req.Selection),
		RutaOrigen:         req.SourcePath,
		RutaDestino:        finalPath,
		SHA256:             sha,
		FechaClasificacion: time.Now(),
		ClasificadoPor:     req.Actor,
	}

	if err := s.ledger.Upsert(ctx, rec); err != nil {
		// The file is already in place; surface this as a warning, never as
		// a move failure.
		common.LogError(err, "ledger write failed after successful move", common.Fields{
			"clave":       clave,
			"destination": finalPath,
		})
		return rec, common.NewLedgerWarning(err)
	}

	slog.Info("document classified",
		"clave", clave,
		"client", req.Client,
		"category", rec.Categoria,
		"destination", finalPath,
		"actor", req.Actor)
	return rec, nil
}
