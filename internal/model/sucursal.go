package model

import (
	"time"

	"github.com/google/uuid"
)

// Sucursal is a store branch. Inventory and cash registers are branch-scoped.
type Sucursal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Direccion *string
	Telefono  *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Sucursal) TableName() string { return "sucursales" }
