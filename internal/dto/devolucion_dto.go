package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LineaDevueltaRequest names a product coming back from the original invoice.
// It is valued at the invoice's unit price, never the current catalog price.
type LineaDevueltaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

// LineaCambioRequest names a product handed out in exchange, valued at the
// current catalog price.
type LineaCambioRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type RegistrarDevolucionRequest struct {
	FacturaID string  `json:"factura_id" validate:"required,uuid"`
	CajaID    *string `json:"caja_id"    validate:"omitempty,uuid"`
	Devueltos []LineaDevueltaRequest `json:"productos_devueltos" validate:"dive"`
	Cambios   []LineaCambioRequest   `json:"productos_cambio"    validate:"dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineaSnapshotResponse struct {
	ProductoID     string          `json:"producto_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

type DevolucionResponse struct {
	ID                 string                  `json:"id"`
	FacturaID          string                  `json:"factura_id"`
	SesionCajaID       *string                 `json:"sesion_caja_id"`
	ProductosDevueltos []LineaSnapshotResponse `json:"productos_devueltos"`
	ProductosCambio    []LineaSnapshotResponse `json:"productos_cambio"`
	TotalDevuelto      decimal.Decimal         `json:"total_devuelto"`
	TotalCambio        decimal.Decimal         `json:"total_cambio"`
	// Diferencia = total_cambio - total_devuelto. Positive: the customer owes
	// additional cash; negative: a refund is due.
	Diferencia decimal.Decimal `json:"diferencia"`
	CreatedAt  string          `json:"created_at"`
}

type DevolucionListResponse struct {
	Data  []DevolucionResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
