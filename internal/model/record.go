package model

import "time"

// Estado values for a classification record.
const (
	// EstadoClasificado marks a document that was moved to its destination.
	EstadoClasificado = "clasificado"
	// EstadoPendientePDF marks an invoice known only by its XML; the PDF has
	// not arrived yet. The core never writes it, but legacy ledgers contain it.
	EstadoPendientePDF = "pendiente_pdf"
)

// ClassificationRecord is one row of the ledger: the durable record of a
// filing decision, keyed by the invoice clave.
type ClassificationRecord struct {
	FechaClasificacion time.Time
	Clave              string
	Estado             string
	Categoria          string
	Subtipo            string
	NombreCuenta       string
	Proveedor          string
	RutaOrigen         string
	RutaDestino        string
	SHA256             string
	ClasificadoPor     string
}
