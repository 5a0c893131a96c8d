package repository

import (
	"context"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CajaRepository is the data access contract for registers, sessions and the
// immutable cash-movement ledger. Movements have no Update/Delete on purpose.
type CajaRepository interface {
	CreateCaja(ctx context.Context, c *model.Caja) error
	FindCajaByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	// FindCajaByIDTx locks the register row; concurrent session opens against
	// the same caja serialize on it.
	FindCajaByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Caja, error)
	ListCajas(ctx context.Context) ([]model.Caja, error)

	CreateSesion(ctx context.Context, s *model.SesionCaja) error
	CreateSesionTx(tx *gorm.DB, s *model.SesionCaja) error
	// FindSesionAbiertaPorCaja returns gorm.ErrRecordNotFound when the register
	// has no open session.
	FindSesionAbiertaPorCaja(ctx context.Context, cajaID uuid.UUID) (*model.SesionCaja, error)
	// FindSesionAbiertaPorCajaTx is the in-transaction variant. It takes a row
	// lock so concurrent opens, closes and postings against the same register
	// serialize until the caller commits.
	FindSesionAbiertaPorCajaTx(tx *gorm.DB, cajaID uuid.UUID) (*model.SesionCaja, error)
	FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)
	FindSesionByIDTx(tx *gorm.DB, id uuid.UUID) (*model.SesionCaja, error)
	UpdateSesion(ctx context.Context, s *model.SesionCaja) error
	UpdateSesionTx(tx *gorm.DB, s *model.SesionCaja) error
	ListSesiones(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error)

	CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error
	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error
	ListMovimientos(ctx context.Context, sesionCajaID uuid.UUID) ([]model.MovimientoCaja, error)
	// SumMovimientos aggregates the signed deltas posted to a session.
	SumMovimientos(ctx context.Context, sesionCajaID uuid.UUID) (decimal.Decimal, error)
	SumMovimientosTx(tx *gorm.DB, sesionCajaID uuid.UUID) (decimal.Decimal, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) CreateCaja(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cajaRepo) FindCajaByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cajaRepo) FindCajaByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cajaRepo) ListCajas(ctx context.Context) ([]model.Caja, error) {
	var cajas []model.Caja
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&cajas).Error
	return cajas, err
}

func (r *cajaRepo) CreateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cajaRepo) CreateSesionTx(tx *gorm.DB, s *model.SesionCaja) error {
	return tx.Create(s).Error
}

func (r *cajaRepo) FindSesionAbiertaPorCaja(ctx context.Context, cajaID uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Where("caja_id = ? AND estado = 'abierta'", cajaID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) FindSesionAbiertaPorCajaTx(tx *gorm.DB, cajaID uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("caja_id = ? AND estado = 'abierta'", cajaID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) FindSesionByIDTx(tx *gorm.DB, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) UpdateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *cajaRepo) UpdateSesionTx(tx *gorm.DB, s *model.SesionCaja) error {
	return tx.Save(s).Error
}

func (r *cajaRepo) ListSesiones(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error) {
	var sesiones []model.SesionCaja
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SesionCaja{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("opened_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&sesiones).Error
	return sesiones, total, err
}

func (r *cajaRepo) CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cajaRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error {
	return tx.Create(m).Error
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, sesionCajaID uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).
		Where("sesion_caja_id = ?", sesionCajaID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *cajaRepo) SumMovimientos(ctx context.Context, sesionCajaID uuid.UUID) (decimal.Decimal, error) {
	var suma decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&model.MovimientoCaja{}).
		Select("SUM(monto)").
		Where("sesion_caja_id = ?", sesionCajaID).
		Scan(&suma).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !suma.Valid {
		return decimal.Zero, nil
	}
	return suma.Decimal, nil
}

func (r *cajaRepo) SumMovimientosTx(tx *gorm.DB, sesionCajaID uuid.UUID) (decimal.Decimal, error) {
	var suma decimal.NullDecimal
	err := tx.Model(&model.MovimientoCaja{}).
		Select("SUM(monto)").
		Where("sesion_caja_id = ?", sesionCajaID).
		Scan(&suma).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !suma.Valid {
		return decimal.Zero, nil
	}
	return suma.Decimal, nil
}

func (r *cajaRepo) DB() *gorm.DB { return r.db }
