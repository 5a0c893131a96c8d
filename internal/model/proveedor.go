package model

import (
	"time"

	"github.com/google/uuid"
)

// Proveedor is a supplier referenced by purchases.
type Proveedor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RazonSocial string    `gorm:"not null"`
	CUIT        *string   `gorm:"type:varchar(20);uniqueIndex;column:cuit"`
	Telefono    *string
	Email       *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Proveedor) TableName() string { return "proveedores" }
