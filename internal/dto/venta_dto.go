package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
	// PrecioUnitario overrides the catalog price when present (>= 0);
	// nil means "use the current catalog price".
	PrecioUnitario *decimal.Decimal `json:"precio_unitario"`
}

type RegistrarVentaRequest struct {
	// CajaID names the issuing register; the cash effect is posted only when
	// that register has an open session.
	CajaID       *string            `json:"caja_id"        validate:"omitempty,uuid"`
	MetodoPagoID string             `json:"metodo_pago_id" validate:"required,uuid"`
	ClienteID    *string            `json:"cliente_id"     validate:"omitempty,uuid"`
	Items        []ItemVentaRequest `json:"items"          validate:"required,min=1,dive"`
	// ClienteEmail: optional — when present, the recibo worker mails the PDF receipt.
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

// ─── Filter / List ───────────────────────────────────────────────────────────

type FacturaFilter struct {
	Fecha string `form:"fecha"` // YYYY-MM-DD; empty = all
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleFacturaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type FacturaResponse struct {
	ID           string                   `json:"id"`
	Numero       int                      `json:"numero"`
	ClienteID    *string                  `json:"cliente_id"`
	MetodoPagoID string                   `json:"metodo_pago_id"`
	SesionCajaID *string                  `json:"sesion_caja_id"`
	Detalles     []DetalleFacturaResponse `json:"detalles"`
	Subtotal     decimal.Decimal          `json:"subtotal"`
	Impuesto     decimal.Decimal          `json:"impuesto"`
	Total        decimal.Decimal          `json:"total"`
	CreatedAt    string                   `json:"created_at"`
}

type FacturaListResponse struct {
	Data  []FacturaResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
