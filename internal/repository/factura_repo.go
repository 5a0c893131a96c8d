package repository

import (
	"context"
	"time"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/dto"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FacturaRepository persists invoices with their detalles. Facturas are
// immutable once created — no Update method exists.
type FacturaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, f *model.Factura) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	// FindByIDTx locks the invoice row so concurrent returns against the same
	// factura serialize their over-return checks.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error)
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)
	List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error)
	DB() *gorm.DB
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) Create(ctx context.Context, tx *gorm.DB, f *model.Factura) error {
	return tx.WithContext(ctx).Create(f).Error
}

func (r *facturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Preload("Detalles.Producto").
		First(&f, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *facturaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&f, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Preload("Producto").Where("factura_id = ?", id).Find(&f.Detalles).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *facturaRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	var numero int
	err := tx.WithContext(ctx).Raw("SELECT nextval('factura_numero_seq')").Scan(&numero).Error
	return numero, err
}

func (r *facturaRepo) List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	var facturas []model.Factura
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Factura{})
	if filter.Fecha != "" {
		if day, err := time.Parse("2006-01-02", filter.Fecha); err == nil {
			q = q.Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1))
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Detalles").Preload("Detalles.Producto").
		Order("created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&facturas).Error
	return facturas, total, err
}

func (r *facturaRepo) DB() *gorm.DB { return r.db }
