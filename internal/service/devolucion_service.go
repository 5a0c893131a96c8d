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

// DevolucionService registers returns and exchanges against a prior invoice.
// Returned lines are valued at the invoice's historic unit prices; exchange
// lines at the current catalog price. Over-return checks are cumulative across
// all prior devoluciones of the same factura.
type DevolucionService interface {
	RegistrarDevolucion(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarDevolucionRequest) (*dto.DevolucionResponse, error)
	ObtenerDevolucion(ctx context.Context, id uuid.UUID) (*dto.DevolucionResponse, error)
	ListarDevoluciones(ctx context.Context, page, limit int) (*dto.DevolucionListResponse, error)
}

type devolucionService struct {
	devoluciones repository.DevolucionRepository
	facturas     repository.FacturaRepository
	cajas        repository.CajaRepository
	inventario   InventarioService
}

var _ DevolucionService = (*devolucionService)(nil)

func NewDevolucionService(
	devoluciones repository.DevolucionRepository,
	facturas repository.FacturaRepository,
	cajas repository.CajaRepository,
	inventario InventarioService,
) DevolucionService {
	return &devolucionService{
		devoluciones: devoluciones,
		facturas:     facturas,
		cajas:        cajas,
		inventario:   inventario,
	}
}

func (s *devolucionService) RegistrarDevolucion(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarDevolucionRequest) (*dto.DevolucionResponse, error) {
	if len(req.Devueltos) == 0 && len(req.Cambios) == 0 {
		return nil, domain.Validacionf("la devolución no tiene líneas")
	}

	facturaID, err := uuid.Parse(req.FacturaID)
	if err != nil {
		return nil, &domain.InvalidReturnReferenceError{FacturaID: req.FacturaID}
	}

	var cajaID *uuid.UUID
	if req.CajaID != nil {
		id, err := uuid.Parse(*req.CajaID)
		if err != nil {
			return nil, domain.Validacionf("caja_id inválido: %s", *req.CajaID)
		}
		cajaID = &id
	}

	devueltos, err := agruparLineas(req.Devueltos, func(l dto.LineaDevueltaRequest) (string, int) { return l.ProductoID, l.Cantidad })
	if err != nil {
		return nil, err
	}
	cambios, err := agruparLineas(req.Cambios, func(l dto.LineaCambioRequest) (string, int) { return l.ProductoID, l.Cantidad })
	if err != nil {
		return nil, err
	}

	var devolucion *model.Devolucion
	err = runTx(ctx, s.devoluciones.DB(), func(tx *gorm.DB) error {
		factura, err := s.facturas.FindByIDTx(tx, facturaID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &domain.InvalidReturnReferenceError{FacturaID: req.FacturaID}
			}
			return err
		}

		vendidos := make(map[uuid.UUID]model.DetalleFactura, len(factura.Detalles))
		for _, d := range factura.Detalles {
			acumulado := d
			if previo, ok := vendidos[d.ProductoID]; ok {
				acumulado.Cantidad += previo.Cantidad
			}
			vendidos[d.ProductoID] = acumulado
		}

		// Prior returns consume the returnable balance per product; read inside
		// the transaction that holds the factura lock.
		previas, err := s.devoluciones.ListByFacturaTx(tx, facturaID)
		if err != nil {
			return err
		}
		yaDevuelto := make(map[uuid.UUID]int)
		for _, prev := range previas {
			for _, l := range prev.ProductosDevueltos {
				yaDevuelto[l.ProductoID] += l.Cantidad
			}
		}

		totalDevuelto := decimal.Zero
		snapshotDevueltos := make(model.LineasSnapshot, 0, len(devueltos))
		for _, l := range devueltos {
			detalle, vendido := vendidos[l.ProductoID]
			if !vendido {
				return domain.Validacionf("producto %s no figura en la factura %s", l.ProductoID, req.FacturaID)
			}
			restante := detalle.Cantidad - yaDevuelto[l.ProductoID]
			if l.Cantidad > restante {
				return &domain.OverReturnError{
					ProductoID: l.ProductoID,
					Solicitado: l.Cantidad,
					Restante:   restante,
				}
			}
			linea := detalle.PrecioUnitario.Mul(decimal.NewFromInt(int64(l.Cantidad))).Round(2)
			totalDevuelto = totalDevuelto.Add(linea)
			snapshotDevueltos = append(snapshotDevueltos, model.LineaSnapshot{
				ProductoID:     l.ProductoID,
				Cantidad:       l.Cantidad,
				PrecioUnitario: detalle.PrecioUnitario,
			})
		}

		// Exchange lines deduct stock like a sale, at today's catalog price.
		totalCambio := decimal.Zero
		snapshotCambios := make(model.LineasSnapshot, 0, len(cambios))
		if len(cambios) > 0 {
			productos, err := s.inventario.ReservarParaOperacion(tx, cambios)
			if err != nil {
				return err
			}
			for _, l := range cambios {
				p := productos[l.ProductoID]
				linea := p.PrecioVenta.Mul(decimal.NewFromInt(int64(l.Cantidad))).Round(2)
				totalCambio = totalCambio.Add(linea)
				snapshotCambios = append(snapshotCambios, model.LineaSnapshot{
					ProductoID:     l.ProductoID,
					Cantidad:       l.Cantidad,
					PrecioUnitario: p.PrecioVenta,
				})
			}
		}

		var sesion *model.SesionCaja
		if cajaID != nil {
			abierta, err := s.cajas.FindSesionAbiertaPorCajaTx(tx, *cajaID)
			switch {
			case err == nil:
				sesion = abierta
			case errors.Is(err, gorm.ErrRecordNotFound):
				// no open session, the return still proceeds
			default:
				return err
			}
		}

		devolucion = &model.Devolucion{
			FacturaID:          facturaID,
			UsuarioID:          usuarioID,
			ProductosDevueltos: snapshotDevueltos,
			ProductosCambio:    snapshotCambios,
			TotalDevuelto:      totalDevuelto,
			TotalCambio:        totalCambio,
			Diferencia:         totalCambio.Sub(totalDevuelto),
		}
		if sesion != nil {
			devolucion.SesionCajaID = &sesion.ID
		}
		if err := s.devoluciones.Create(ctx, tx, devolucion); err != nil {
			return err
		}

		ajustes := make([]AjusteStock, 0, len(devueltos)+len(cambios))
		for _, l := range devueltos {
			ajustes = append(ajustes, AjusteStock{
				ProductoID:   l.ProductoID,
				Delta:        l.Cantidad,
				Tipo:         "devolucion",
				Motivo:       "devolución factura " + req.FacturaID,
				ReferenciaID: &devolucion.ID,
			})
		}
		for _, l := range cambios {
			ajustes = append(ajustes, AjusteStock{
				ProductoID:   l.ProductoID,
				Delta:        -l.Cantidad,
				Tipo:         "cambio",
				Motivo:       "cambio factura " + req.FacturaID,
				ReferenciaID: &devolucion.ID,
			})
		}
		if err := s.inventario.AjustarStockTx(tx, ajustes); err != nil {
			return err
		}

		if sesion != nil && !devolucion.Diferencia.IsZero() {
			mov := &model.MovimientoCaja{
				SesionCajaID: sesion.ID,
				Tipo:         "devolucion",
				Monto:        devolucion.Diferencia,
				Descripcion:  "devolución " + devolucion.ID.String(),
				ReferenciaID: &devolucion.ID,
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
		Str("devolucion_id", devolucion.ID.String()).
		Str("factura_id", req.FacturaID).
		Str("diferencia", devolucion.Diferencia.String()).
		Msg("devolución registrada")

	resp := toDevolucionResponse(devolucion)
	return &resp, nil
}

func (s *devolucionService) ObtenerDevolucion(ctx context.Context, id uuid.UUID) (*dto.DevolucionResponse, error) {
	d, err := s.devoluciones.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entidad: "devolución", ID: id.String()}
		}
		return nil, err
	}
	resp := toDevolucionResponse(d)
	return &resp, nil
}

func (s *devolucionService) ListarDevoluciones(ctx context.Context, page, limit int) (*dto.DevolucionListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	devs, total, err := s.devoluciones.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.DevolucionResponse, 0, len(devs))
	for i := range devs {
		data = append(data, toDevolucionResponse(&devs[i]))
	}
	return &dto.DevolucionListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// agruparLineas validates and merges duplicate product lines into one
// LineaReserva per product, preserving first-appearance order.
func agruparLineas[T any](lineas []T, extraer func(T) (string, int)) ([]LineaReserva, error) {
	indice := make(map[uuid.UUID]int, len(lineas))
	out := make([]LineaReserva, 0, len(lineas))
	for _, l := range lineas {
		rawID, cantidad := extraer(l)
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, domain.Validacionf("producto_id inválido: %s", rawID)
		}
		if cantidad <= 0 {
			return nil, domain.Validacionf("cantidad inválida %d para producto %s", cantidad, rawID)
		}
		if i, ok := indice[id]; ok {
			out[i].Cantidad += cantidad
			continue
		}
		indice[id] = len(out)
		out = append(out, LineaReserva{ProductoID: id, Cantidad: cantidad})
	}
	return out, nil
}

func toDevolucionResponse(d *model.Devolucion) dto.DevolucionResponse {
	var sesionID *string
	if d.SesionCajaID != nil {
		v := d.SesionCajaID.String()
		sesionID = &v
	}
	return dto.DevolucionResponse{
		ID:                 d.ID.String(),
		FacturaID:          d.FacturaID.String(),
		SesionCajaID:       sesionID,
		ProductosDevueltos: toSnapshotResponses(d.ProductosDevueltos),
		ProductosCambio:    toSnapshotResponses(d.ProductosCambio),
		TotalDevuelto:      d.TotalDevuelto,
		TotalCambio:        d.TotalCambio,
		Diferencia:         d.Diferencia,
		CreatedAt:          d.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toSnapshotResponses(lineas model.LineasSnapshot) []dto.LineaSnapshotResponse {
	out := make([]dto.LineaSnapshotResponse, 0, len(lineas))
	for _, l := range lineas {
		out = append(out, dto.LineaSnapshotResponse{
			ProductoID:     l.ProductoID.String(),
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
		})
	}
	return out
}
