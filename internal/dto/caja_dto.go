package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	CajaID       string          `json:"caja_id"       validate:"required,uuid"`
	MontoInicial decimal.Decimal `json:"monto_inicial" validate:"min=0"`
}

type MovimientoManualRequest struct {
	SesionCajaID string          `json:"sesion_caja_id" validate:"required,uuid"`
	Tipo         string          `json:"tipo"           validate:"required,oneof=ingreso_manual egreso_manual"`
	Monto        decimal.Decimal `json:"monto"          validate:"required,gt=0"`
	Descripcion  string          `json:"descripcion"    validate:"required,min=3"`
}

type CerrarCajaRequest struct {
	SesionCajaID   string          `json:"sesion_caja_id"  validate:"required,uuid"`
	MontoDeclarado decimal.Decimal `json:"monto_declarado" validate:"min=0"`
	Observaciones  *string         `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoCajaResponse struct {
	ID          string          `json:"id"`
	Tipo        string          `json:"tipo"`
	Monto       decimal.Decimal `json:"monto"`
	Descripcion string          `json:"descripcion"`
	CreatedAt   string          `json:"created_at"`
}

type CierreCajaResponse struct {
	SesionCajaID   string          `json:"sesion_caja_id"`
	MontoEsperado  decimal.Decimal `json:"monto_esperado"`
	MontoDeclarado decimal.Decimal `json:"monto_declarado"`
	// Diferencia = monto_declarado - monto_esperado; recorded, never blocking.
	Diferencia    decimal.Decimal `json:"diferencia"`
	Clasificacion string          `json:"clasificacion"` // normal | advertencia | critico
	Estado        string          `json:"estado"`
}

type SesionCajaResponse struct {
	SesionCajaID   string                   `json:"sesion_caja_id"`
	CajaID         string                   `json:"caja_id"`
	MontoInicial   decimal.Decimal          `json:"monto_inicial"`
	MontoEsperado  decimal.Decimal          `json:"monto_esperado"`
	MontoDeclarado *decimal.Decimal         `json:"monto_declarado"`
	Diferencia     *decimal.Decimal         `json:"diferencia"`
	Clasificacion  *string                  `json:"clasificacion"`
	Estado         string                   `json:"estado"`
	Observaciones  *string                  `json:"observaciones"`
	Movimientos    []MovimientoCajaResponse `json:"movimientos,omitempty"`
	OpenedAt       string                   `json:"opened_at"`
	ClosedAt       *string                  `json:"closed_at"`
}

type SesionListResponse struct {
	Data  []SesionCajaResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
