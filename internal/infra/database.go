package infra

import (
	"fmt"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/config"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDB opens the postgres pool, runs the schema migration and installs
// the sequences and partial indexes gorm cannot express via tags.
func ConnectDB(cfg *config.Config) (*gorm.DB, error) {
	nivel := logger.Warn
	if !cfg.IsProduction() {
		nivel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(nivel),
	})
	if err != nil {
		return nil, fmt.Errorf("conexión a postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return nil, fmt.Errorf("extensión pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Sucursal{},
		&model.Categoria{},
		&model.Cliente{},
		&model.MetodoPago{},
		&model.Proveedor{},
		&model.Usuario{},
		&model.Producto{},
		&model.MovimientoStock{},
		&model.Caja{},
		&model.SesionCaja{},
		&model.MovimientoCaja{},
		&model.Factura{},
		&model.DetalleFactura{},
		&model.Compra{},
		&model.DetalleCompra{},
		&model.Devolucion{},
	); err != nil {
		return nil, fmt.Errorf("migración del esquema: %w", err)
	}

	// Correlative numbering for facturas y compras.
	for _, seq := range []string{"factura_numero_seq", "compra_numero_seq"} {
		if err := db.Exec("CREATE SEQUENCE IF NOT EXISTS " + seq + " START 1").Error; err != nil {
			return nil, fmt.Errorf("secuencia %s: %w", seq, err)
		}
	}

	// At most one open session per register, enforced at the storage level.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_sesion_caja_abierta
		ON sesiones_caja (caja_id) WHERE estado = 'abierta'`).Error; err != nil {
		return nil, fmt.Errorf("índice de sesión abierta: %w", err)
	}

	log.Info().Msg("base de datos conectada y migrada")
	return db, nil
}
