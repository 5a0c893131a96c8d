package service

import (
	"context"
	"errors"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/domain"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/dto"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/model"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompraService registers supplier purchases: stock increments plus the
// purchase record commit atomically. Purchases carry no tax; the drawer
// outflow is posted only when the named register has an open session.
type CompraService interface {
	RegistrarCompra(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error)
	ObtenerCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	ListarCompras(ctx context.Context, page, limit int) (*dto.CompraListResponse, error)
}

type compraService struct {
	compras     repository.CompraRepository
	proveedores repository.ProveedorRepository
	cajas       repository.CajaRepository
	inventario  InventarioService
}

var _ CompraService = (*compraService)(nil)

func NewCompraService(
	compras repository.CompraRepository,
	proveedores repository.ProveedorRepository,
	cajas repository.CajaRepository,
	inventario InventarioService,
) CompraService {
	return &compraService{compras: compras, proveedores: proveedores, cajas: cajas, inventario: inventario}
}

func (s *compraService) RegistrarCompra(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error) {
	var proveedorID *uuid.UUID
	if req.ProveedorID != nil {
		id, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, domain.Validacionf("proveedor_id inválido: %s", *req.ProveedorID)
		}
		if _, err := s.proveedores.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &domain.NotFoundError{Entidad: "proveedor", ID: *req.ProveedorID}
			}
			return nil, err
		}
		proveedorID = &id
	}

	var cajaID *uuid.UUID
	if req.CajaID != nil {
		id, err := uuid.Parse(*req.CajaID)
		if err != nil {
			return nil, domain.Validacionf("caja_id inválido: %s", *req.CajaID)
		}
		cajaID = &id
	}

	for _, item := range req.Items {
		if _, err := uuid.Parse(item.ProductoID); err != nil {
			return nil, domain.Validacionf("producto_id inválido: %s", item.ProductoID)
		}
		if item.Cantidad <= 0 {
			return nil, domain.Validacionf("cantidad inválida %d para producto %s", item.Cantidad, item.ProductoID)
		}
		if item.CostoUnitario.IsNegative() {
			return nil, domain.Validacionf("costo_unitario negativo para producto %s", item.ProductoID)
		}
	}

	var compra *model.Compra
	err := runTx(ctx, s.compras.DB(), func(tx *gorm.DB) error {
		var sesion *model.SesionCaja
		if cajaID != nil {
			abierta, err := s.cajas.FindSesionAbiertaPorCajaTx(tx, *cajaID)
			switch {
			case err == nil:
				sesion = abierta
			case errors.Is(err, gorm.ErrRecordNotFound):
				// no open session, purchase is still valid
			default:
				return err
			}
		}

		ids := make([]uuid.UUID, 0, len(req.Items))
		for _, item := range req.Items {
			productoID, _ := uuid.Parse(item.ProductoID)
			ids = append(ids, productoID)
		}
		if err := s.inventario.VerificarProductos(tx, ids); err != nil {
			return err
		}

		total := decimal.Zero
		detalles := make([]model.DetalleCompra, 0, len(req.Items))
		for _, item := range req.Items {
			productoID, _ := uuid.Parse(item.ProductoID)
			lineaSubtotal := item.CostoUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad))).Round(2)
			total = total.Add(lineaSubtotal)

			detalles = append(detalles, model.DetalleCompra{
				ProductoID:    productoID,
				Cantidad:      item.Cantidad,
				CostoUnitario: item.CostoUnitario,
				Subtotal:      lineaSubtotal,
			})
		}

		numero, err := s.compras.NextNumero(ctx, tx)
		if err != nil {
			return err
		}

		compra = &model.Compra{
			Numero:      numero,
			ProveedorID: proveedorID,
			UsuarioID:   usuarioID,
			Total:       total,
			Detalles:    detalles,
		}
		if sesion != nil {
			compra.SesionCajaID = &sesion.ID
		}
		if err := s.compras.Create(ctx, tx, compra); err != nil {
			return err
		}

		ajustes := make([]AjusteStock, 0, len(req.Items))
		for _, item := range req.Items {
			productoID, _ := uuid.Parse(item.ProductoID)
			ajustes = append(ajustes, AjusteStock{
				ProductoID:   productoID,
				Delta:        item.Cantidad,
				Tipo:         "compra",
				Motivo:       "compra",
				ReferenciaID: &compra.ID,
			})
		}
		if err := s.inventario.AjustarStockTx(tx, ajustes); err != nil {
			return err
		}

		if sesion != nil {
			mov := &model.MovimientoCaja{
				SesionCajaID: sesion.ID,
				Tipo:         "compra",
				Monto:        total.Neg(),
				Descripcion:  "compra " + compra.ID.String(),
				ReferenciaID: &compra.ID,
			}
			if err := s.cajas.CreateMovimientoTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("compra_id", compra.ID.String()).
		Int("numero", compra.Numero).
		Str("total", compra.Total.String()).
		Msg("compra registrada")

	resp := toCompraResponse(compra)
	return &resp, nil
}

func (s *compraService) ObtenerCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	c, err := s.compras.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entidad: "compra", ID: id.String()}
		}
		return nil, err
	}
	resp := toCompraResponse(c)
	return &resp, nil
}

func (s *compraService) ListarCompras(ctx context.Context, page, limit int) (*dto.CompraListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	compras, total, err := s.compras.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		data = append(data, toCompraResponse(&compras[i]))
	}
	return &dto.CompraListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func toCompraResponse(c *model.Compra) dto.CompraResponse {
	detalles := make([]dto.DetalleCompraResponse, 0, len(c.Detalles))
	for _, d := range c.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		detalles = append(detalles, dto.DetalleCompraResponse{
			ProductoID:    d.ProductoID.String(),
			Producto:      nombre,
			Cantidad:      d.Cantidad,
			CostoUnitario: d.CostoUnitario,
			Subtotal:      d.Subtotal,
		})
	}

	var proveedorID, sesionID *string
	if c.ProveedorID != nil {
		v := c.ProveedorID.String()
		proveedorID = &v
	}
	if c.SesionCajaID != nil {
		v := c.SesionCajaID.String()
		sesionID = &v
	}

	return dto.CompraResponse{
		ID:           c.ID.String(),
		Numero:       c.Numero,
		ProveedorID:  proveedorID,
		SesionCajaID: sesionID,
		Detalles:     detalles,
		Total:        c.Total,
		CreatedAt:    c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
