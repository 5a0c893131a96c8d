package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo       string          `json:"codigo"        validate:"required,min=3"`
	Nombre       string          `json:"nombre"        validate:"required,min=2"`
	Descripcion  *string         `json:"descripcion"`
	CategoriaID  *string         `json:"categoria_id"  validate:"omitempty,uuid"`
	SucursalID   string          `json:"sucursal_id"   validate:"required,uuid"`
	PrecioCosto  decimal.Decimal `json:"precio_costo"  validate:"min=0"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"  validate:"min=0"`
	StockInicial int             `json:"stock_inicial" validate:"min=0"`
	StockMinimo  int             `json:"stock_minimo"  validate:"min=0"`
}

type ActualizarProductoRequest struct {
	Nombre      string           `json:"nombre"       validate:"omitempty,min=2"`
	Descripcion *string          `json:"descripcion"`
	CategoriaID *string          `json:"categoria_id" validate:"omitempty,uuid"`
	PrecioCosto *decimal.Decimal `json:"precio_costo"`
	PrecioVenta *decimal.Decimal `json:"precio_venta"`
	StockMinimo *int             `json:"stock_minimo" validate:"omitempty,min=0"`
}

type ProductoFilter struct {
	Codigo      string `form:"codigo"`
	Nombre      string `form:"nombre"`
	CategoriaID string `form:"categoria_id"`
	SucursalID  string `form:"sucursal_id"`
	// Activo: "false" = inactivos, "all" = todos, anything else = activos
	Activo string `form:"activo"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          string          `json:"id"`
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion"`
	CategoriaID *string         `json:"categoria_id"`
	SucursalID  string          `json:"sucursal_id"`
	PrecioCosto decimal.Decimal `json:"precio_costo"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	StockActual int             `json:"stock_actual"`
	StockMinimo int             `json:"stock_minimo"`
	Activo      bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// PrecioResponse is the public price-check payload, cached in redis.
type PrecioResponse struct {
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
}
