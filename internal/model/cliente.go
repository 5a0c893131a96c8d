package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is an optional customer reference on invoices.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Documento *string   `gorm:"uniqueIndex"`
	Email     *string
	Telefono  *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
