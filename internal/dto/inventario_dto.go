package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AjusteStockRequest is a manual signed stock correction. Delta may be
// negative but never below current stock.
type AjusteStockRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Delta      int    `json:"delta"       validate:"required"`
	Motivo     string `json:"motivo"      validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AlertaStockResponse struct {
	ProductoID  string `json:"producto_id"`
	Codigo      string `json:"codigo"`
	Nombre      string `json:"nombre"`
	StockActual int    `json:"stock_actual"`
	StockMinimo int    `json:"stock_minimo"`
}

type MovimientoStockResponse struct {
	ID            string  `json:"id"`
	ProductoID    string  `json:"producto_id"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Motivo        string  `json:"motivo"`
	ReferenciaID  *string `json:"referencia_id"`
	CreatedAt     string  `json:"created_at"`
}
