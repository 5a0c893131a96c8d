package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineaSnapshot freezes a product, quantity and unit price at the moment a
// devolución is registered. Later catalog changes never alter these figures.
type LineaSnapshot struct {
	ProductoID     uuid.UUID       `json:"producto_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

// LineasSnapshot is stored as a JSONB column so the audit trail stays
// structured while the record itself remains a single immutable row.
type LineasSnapshot []LineaSnapshot

func (l LineasSnapshot) Value() (driver.Value, error) {
	if l == nil {
		l = LineasSnapshot{}
	}
	return json.Marshal(l)
}

func (l *LineasSnapshot) Scan(value interface{}) error {
	if value == nil {
		*l = LineasSnapshot{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("lineas_snapshot: tipo de columna inesperado")
	}
	return json.Unmarshal(data, l)
}

// Devolucion is a return, optionally paired with an exchange, against a prior
// Factura. Immutable once created. Diferencia = TotalCambio - TotalDevuelto:
// positive means the customer owes cash, negative means a refund is due.
type Devolucion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID uuid.UUID `gorm:"type:uuid;not null;index"`
	UsuarioID uuid.UUID `gorm:"type:uuid;not null"`
	// SesionCajaID is set when the cash effect was posted to an open session.
	SesionCajaID       *uuid.UUID      `gorm:"type:uuid;index"`
	ProductosDevueltos LineasSnapshot  `gorm:"type:jsonb;not null"`
	ProductosCambio    LineasSnapshot  `gorm:"type:jsonb;not null"`
	TotalDevuelto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalCambio        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Diferencia         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt          time.Time

	Factura *Factura `gorm:"foreignKey:FacturaID"`
	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}

func (Devolucion) TableName() string { return "devoluciones" }
