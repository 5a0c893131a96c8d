package model

import (
	"time"

	"github.com/google/uuid"
)

// MovimientoStock registra cada cambio de stock en un producto. Append-only:
// entries are never updated or deleted, so stock at any point in time can be
// reconstructed from the ledger.
type MovimientoStock struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo       string    `gorm:"not null"` // "venta" | "compra" | "devolucion" | "cambio" | "ajuste_manual"
	Cantidad   int       `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int    `gorm:"not null"`
	StockNuevo    int    `gorm:"not null"`
	Motivo        string
	// ReferenciaID points to the factura, compra or devolución that caused the change
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (MovimientoStock) TableName() string { return "movimientos_stock" }
