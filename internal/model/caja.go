package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Caja is a physical or logical cash register assigned to a branch.
type Caja struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre     string    `gorm:"not null"`
	SucursalID uuid.UUID `gorm:"type:uuid;not null;index"`
	// UsuarioID is the user the register is assigned to; nil = unassigned
	UsuarioID *uuid.UUID `gorm:"type:uuid"`
	Activo    bool       `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Sucursal *Sucursal `gorm:"foreignKey:SucursalID"`
}

// SesionCaja is one open/closed drawer period of a register.
// Estado: "abierta" | "cerrada". At most one open session per caja.
// On close: MontoEsperado = MontoInicial + SUM(movimientos);
// Diferencia = MontoDeclarado - MontoEsperado — a reporting signal, it never
// blocks closing.
type SesionCaja struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajaID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	UsuarioID      uuid.UUID        `gorm:"type:uuid;not null"`
	MontoInicial   decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	MontoEsperado  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MontoDeclarado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Diferencia     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado         string           `gorm:"type:varchar(20);not null;default:'abierta'"`
	// ClasificacionDesvio: "normal" | "advertencia" | "critico"
	ClasificacionDesvio *string `gorm:"type:varchar(20)"`
	Observaciones       *string
	OpenedAt            time.Time
	ClosedAt            *time.Time

	Caja        *Caja            `gorm:"foreignKey:CajaID"`
	Movimientos []MovimientoCaja `gorm:"foreignKey:SesionCajaID"`
}

func (SesionCaja) TableName() string { return "sesiones_caja" }

// MovimientoCaja is an immutable event in the cash ledger of a session.
// Tipo: "venta" | "compra" | "devolucion" | "ingreso_manual" | "egreso_manual"
// Monto is signed: inflows positive, outflows negative. Movements are NEVER
// modified or deleted, so the expected balance is a pure function of the
// opening amount and this history.
type MovimientoCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo         string          `gorm:"type:varchar(20);not null"`
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion  string          `gorm:"not null"`
	// ReferenciaID links to the originating Factura, Compra or Devolucion
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }
