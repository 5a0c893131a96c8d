package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Factura is a sales invoice. Created atomically with its detalles and the
// matching stock decrements; immutable once created except through a linked
// Devolucion. Invariants: Subtotal = Σ detalle.Subtotal, Total = Subtotal + Impuesto.
type Factura struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero       int        `gorm:"uniqueIndex;not null"`
	ClienteID    *uuid.UUID `gorm:"type:uuid;index"`
	MetodoPagoID uuid.UUID  `gorm:"type:uuid;not null"`
	UsuarioID    uuid.UUID  `gorm:"type:uuid;not null"`
	// SesionCajaID is set when a cash session was open for the issuing register.
	SesionCajaID *uuid.UUID      `gorm:"type:uuid;index"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Impuesto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time

	Detalles   []DetalleFactura `gorm:"foreignKey:FacturaID;constraint:OnDelete:CASCADE"`
	Cliente    *Cliente         `gorm:"foreignKey:ClienteID"`
	MetodoPago *MetodoPago      `gorm:"foreignKey:MetodoPagoID"`
	Usuario    *Usuario         `gorm:"foreignKey:UsuarioID"`
}

// DetalleFactura is one invoice line. PrecioUnitario is the price at time of
// sale — returns are valued against it, never against the current catalog.
type DetalleFactura struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleFactura) TableName() string { return "detalles_factura" }
