package repository

import (
	"context"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompraRepository persists purchases with their detalles. Immutable once
// created, like facturas.
type CompraRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)
	List(ctx context.Context, page, limit int) ([]model.Compra, int64, error)
	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Compra) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Preload("Detalles.Producto").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *compraRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	var numero int
	err := tx.WithContext(ctx).Raw("SELECT nextval('compra_numero_seq')").Scan(&numero).Error
	return numero, err
}

func (r *compraRepo) List(ctx context.Context, page, limit int) ([]model.Compra, int64, error) {
	var compras []model.Compra
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Compra{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Detalles").
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&compras).Error
	return compras, total, err
}

func (r *compraRepo) DB() *gorm.DB { return r.db }
