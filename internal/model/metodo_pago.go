package model

import (
	"time"

	"github.com/google/uuid"
)

// MetodoPago is a payment method: "efectivo" | "debito" | "credito" | "transferencia".
type MetodoPago struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MetodoPago) TableName() string { return "metodos_pago" }
