package repository

import (
	"context"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DevolucionRepository persists immutable return records. ListByFacturaTx
// feeds the cumulative over-return check and must run inside the transaction
// that holds the factura row lock.
type DevolucionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, d *model.Devolucion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Devolucion, error)
	ListByFacturaTx(tx *gorm.DB, facturaID uuid.UUID) ([]model.Devolucion, error)
	List(ctx context.Context, page, limit int) ([]model.Devolucion, int64, error)
	DB() *gorm.DB
}

type devolucionRepo struct{ db *gorm.DB }

func NewDevolucionRepository(db *gorm.DB) DevolucionRepository { return &devolucionRepo{db: db} }

func (r *devolucionRepo) Create(ctx context.Context, tx *gorm.DB, d *model.Devolucion) error {
	return tx.WithContext(ctx).Create(d).Error
}

func (r *devolucionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Devolucion, error) {
	var d model.Devolucion
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *devolucionRepo) ListByFacturaTx(tx *gorm.DB, facturaID uuid.UUID) ([]model.Devolucion, error) {
	var devs []model.Devolucion
	err := tx.
		Where("factura_id = ?", facturaID).
		Order("created_at ASC").
		Find(&devs).Error
	return devs, err
}

func (r *devolucionRepo) List(ctx context.Context, page, limit int) ([]model.Devolucion, int64, error) {
	var devs []model.Devolucion
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Devolucion{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&devs).Error
	return devs, total, err
}

func (r *devolucionRepo) DB() *gorm.DB { return r.db }
