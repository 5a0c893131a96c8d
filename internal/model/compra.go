package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compra is a purchase order received into inventory. Created atomically with
// its detalles and the matching stock increments. Total = Σ detalle.Subtotal.
type Compra struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero      int        `gorm:"uniqueIndex;not null"`
	ProveedorID *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID   uuid.UUID  `gorm:"type:uuid;not null"`
	// SesionCajaID is set when the purchase was paid from an open cash drawer.
	SesionCajaID *uuid.UUID      `gorm:"type:uuid;index"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time

	Detalles  []DetalleCompra `gorm:"foreignKey:CompraID;constraint:OnDelete:CASCADE"`
	Proveedor *Proveedor      `gorm:"foreignKey:ProveedorID"`
	Usuario   *Usuario        `gorm:"foreignKey:UsuarioID"`
}

// DetalleCompra is one purchase line at unit cost.
type DetalleCompra struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad      int             `gorm:"not null"`
	CostoUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleCompra) TableName() string { return "detalles_compra" }
