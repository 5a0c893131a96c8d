package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemCompraRequest struct {
	ProductoID    string          `json:"producto_id"    validate:"required,uuid"`
	Cantidad      int             `json:"cantidad"       validate:"required,min=1"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"min=0"`
}

type RegistrarCompraRequest struct {
	ProveedorID *string `json:"proveedor_id" validate:"omitempty,uuid"`
	// CajaID marks the purchase as paid from the drawer of that register;
	// the outflow is posted only when an open session exists for it.
	CajaID *string             `json:"caja_id" validate:"omitempty,uuid"`
	Items  []ItemCompraRequest `json:"items"   validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleCompraResponse struct {
	ProductoID    string          `json:"producto_id"`
	Producto      string          `json:"producto"`
	Cantidad      int             `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type CompraResponse struct {
	ID           string                  `json:"id"`
	Numero       int                     `json:"numero"`
	ProveedorID  *string                 `json:"proveedor_id"`
	SesionCajaID *string                 `json:"sesion_caja_id"`
	Detalles     []DetalleCompraResponse `json:"detalles"`
	Total        decimal.Decimal         `json:"total"`
	CreatedAt    string                  `json:"created_at"`
}

type CompraListResponse struct {
	Data  []CompraResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
