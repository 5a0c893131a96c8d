package service

import (
	"context"
	"errors"
	"sort"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/domain"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/dto"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/model"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LineaReserva is one product/quantity pair an operation intends to deduct.
type LineaReserva struct {
	ProductoID uuid.UUID
	Cantidad   int
}

// AjusteStock is one signed stock change plus the ledger metadata to record it.
type AjusteStock struct {
	ProductoID   uuid.UUID
	Delta        int
	Tipo         string
	Motivo       string
	ReferenciaID *uuid.UUID
}

// InventarioService guards the two invariants of the stock ledger: stock never
// goes below zero, and every change leaves an append-only MovimientoStock row.
// The Tx methods run inside the caller's transaction so a sale, purchase or
// return commits its stock effect atomically with its own record.
type InventarioService interface {
	// ReservarParaOperacion locks each product row and verifies the requested
	// quantities fit the available stock. Quantities for a product repeated
	// across lineas are aggregated before checking. Returns the locked products
	// keyed by ID so callers can reuse names and prices without re-reading.
	ReservarParaOperacion(tx *gorm.DB, lineas []LineaReserva) (map[uuid.UUID]*model.Producto, error)

	// VerificarProductos locks each product row and confirms it exists and is
	// active. Used by inflow operations that have no stock requirement.
	VerificarProductos(tx *gorm.DB, ids []uuid.UUID) error

	// AjustarStockTx applies each delta with a guarded update and records the
	// matching ledger entry. A guard failure on a decrement surfaces as
	// domain.ConcurrencyConflictError; nothing is partially applied because the
	// caller's transaction rolls back.
	AjustarStockTx(tx *gorm.DB, ajustes []AjusteStock) error

	AjustarStockManual(ctx context.Context, usuarioID uuid.UUID, req dto.AjusteStockRequest) (*dto.MovimientoStockResponse, error)
	ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
	ListarMovimientos(ctx context.Context, productoID uuid.UUID, limit int) ([]dto.MovimientoStockResponse, error)
}

type inventarioService struct {
	productos   repository.ProductoRepository
	movimientos repository.MovimientoStockRepository
}

var _ InventarioService = (*inventarioService)(nil)

func NewInventarioService(productos repository.ProductoRepository, movimientos repository.MovimientoStockRepository) InventarioService {
	return &inventarioService{productos: productos, movimientos: movimientos}
}

func (s *inventarioService) ReservarParaOperacion(tx *gorm.DB, lineas []LineaReserva) (map[uuid.UUID]*model.Producto, error) {
	cantidades := make(map[uuid.UUID]int, len(lineas))
	orden := make([]uuid.UUID, 0, len(lineas))
	for _, l := range lineas {
		if l.Cantidad <= 0 {
			return nil, domain.Validacionf("cantidad inválida %d para producto %s", l.Cantidad, l.ProductoID)
		}
		if _, visto := cantidades[l.ProductoID]; !visto {
			orden = append(orden, l.ProductoID)
		}
		cantidades[l.ProductoID] += l.Cantidad
	}

	// Lock rows in a stable order so two operations over the same products
	// cannot deadlock each other.
	claves := append([]uuid.UUID(nil), orden...)
	sort.Slice(claves, func(i, j int) bool { return claves[i].String() < claves[j].String() })

	productos := make(map[uuid.UUID]*model.Producto, len(claves))
	for _, id := range claves {
		p, err := s.productos.FindByIDForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		productos[id] = p
	}

	// Problems are reported against the earliest offending request line, not
	// against the lock order.
	for _, id := range orden {
		p, ok := productos[id]
		if !ok {
			return nil, &domain.NotFoundError{Entidad: "producto", ID: id.String()}
		}
		if !p.Activo {
			return nil, domain.Validacionf("producto %s inactivo", p.Codigo)
		}
		if p.StockActual < cantidades[id] {
			return nil, &domain.InsufficientStockError{
				ProductoID: id,
				Nombre:     p.Nombre,
				Solicitado: cantidades[id],
				Disponible: p.StockActual,
			}
		}
	}
	return productos, nil
}

func (s *inventarioService) VerificarProductos(tx *gorm.DB, ids []uuid.UUID) error {
	vistos := make(map[uuid.UUID]struct{}, len(ids))
	orden := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := vistos[id]; ok {
			continue
		}
		vistos[id] = struct{}{}
		orden = append(orden, id)
	}

	// Same lock order as ReservarParaOperacion, so an inflow and an outflow
	// over the same products cannot deadlock each other.
	claves := append([]uuid.UUID(nil), orden...)
	sort.Slice(claves, func(i, j int) bool { return claves[i].String() < claves[j].String() })

	productos := make(map[uuid.UUID]*model.Producto, len(claves))
	for _, id := range claves {
		p, err := s.productos.FindByIDForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}
		productos[id] = p
	}

	for _, id := range orden {
		p, ok := productos[id]
		if !ok {
			return &domain.NotFoundError{Entidad: "producto", ID: id.String()}
		}
		if !p.Activo {
			return domain.Validacionf("producto %s inactivo", p.Codigo)
		}
	}
	return nil
}

func (s *inventarioService) AjustarStockTx(tx *gorm.DB, ajustes []AjusteStock) error {
	// Rows already locked by a reservation re-lock for free; rows that were
	// not (return inflows) still lock in the shared sorted order.
	orden := append([]AjusteStock(nil), ajustes...)
	sort.SliceStable(orden, func(i, j int) bool {
		return orden[i].ProductoID.String() < orden[j].ProductoID.String()
	})

	for _, a := range orden {
		if a.Delta == 0 {
			continue
		}
		p, err := s.productos.FindByIDForUpdate(tx, a.ProductoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &domain.NotFoundError{Entidad: "producto", ID: a.ProductoID.String()}
			}
			return err
		}

		rows, err := s.productos.UpdateStockTx(tx, a.ProductoID, a.Delta)
		if err != nil {
			return err
		}
		if rows == 0 {
			return &domain.ConcurrencyConflictError{
				Detail: "conflicto de stock en producto " + p.Codigo,
			}
		}

		mov := &model.MovimientoStock{
			ProductoID:    a.ProductoID,
			Tipo:          a.Tipo,
			Cantidad:      a.Delta,
			StockAnterior: p.StockActual,
			StockNuevo:    p.StockActual + a.Delta,
			Motivo:        a.Motivo,
			ReferenciaID:  a.ReferenciaID,
		}
		if err := s.movimientos.CreateTx(tx, mov); err != nil {
			return err
		}
	}
	return nil
}

func (s *inventarioService) AjustarStockManual(ctx context.Context, usuarioID uuid.UUID, req dto.AjusteStockRequest) (*dto.MovimientoStockResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, domain.Validacionf("producto_id inválido: %s", req.ProductoID)
	}
	if req.Delta == 0 {
		return nil, domain.Validacionf("delta no puede ser cero")
	}

	var creado *model.MovimientoStock
	err = runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		p, err := s.productos.FindByIDForUpdate(tx, productoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &domain.NotFoundError{Entidad: "producto", ID: req.ProductoID}
			}
			return err
		}
		if req.Delta < 0 && p.StockActual+req.Delta < 0 {
			return &domain.InsufficientStockError{
				ProductoID: productoID,
				Nombre:     p.Nombre,
				Solicitado: -req.Delta,
				Disponible: p.StockActual,
			}
		}

		rows, err := s.productos.UpdateStockTx(tx, productoID, req.Delta)
		if err != nil {
			return err
		}
		if rows == 0 {
			return &domain.ConcurrencyConflictError{Detail: "conflicto de stock en producto " + p.Codigo}
		}

		creado = &model.MovimientoStock{
			ProductoID:    productoID,
			Tipo:          "ajuste_manual",
			Cantidad:      req.Delta,
			StockAnterior: p.StockActual,
			StockNuevo:    p.StockActual + req.Delta,
			Motivo:        req.Motivo,
		}
		return s.movimientos.CreateTx(tx, creado)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("producto_id", req.ProductoID).
		Int("delta", req.Delta).
		Str("usuario_id", usuarioID.String()).
		Msg("ajuste manual de stock registrado")

	resp := toMovimientoStockResponse(creado)
	return &resp, nil
}

func (s *inventarioService) ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	productos, err := s.productos.ListBajoStock(ctx)
	if err != nil {
		return nil, err
	}
	alertas := make([]dto.AlertaStockResponse, 0, len(productos))
	for _, p := range productos {
		alertas = append(alertas, dto.AlertaStockResponse{
			ProductoID:  p.ID.String(),
			Codigo:      p.Codigo,
			Nombre:      p.Nombre,
			StockActual: p.StockActual,
			StockMinimo: p.StockMinimo,
		})
	}
	return alertas, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, productoID uuid.UUID, limit int) ([]dto.MovimientoStockResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	movs, err := s.movimientos.ListByProducto(ctx, productoID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimientoStockResponse, 0, len(movs))
	for i := range movs {
		out = append(out, toMovimientoStockResponse(&movs[i]))
	}
	return out, nil
}

func toMovimientoStockResponse(m *model.MovimientoStock) dto.MovimientoStockResponse {
	var ref *string
	if m.ReferenciaID != nil {
		v := m.ReferenciaID.String()
		ref = &v
	}
	return dto.MovimientoStockResponse{
		ID:            m.ID.String(),
		ProductoID:    m.ProductoID.String(),
		Tipo:          m.Tipo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Motivo:        m.Motivo,
		ReferenciaID:  ref,
		CreatedAt:     m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
