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

// maxStockRetries bounds the automatic retry on ConcurrencyConflictError.
const maxStockRetries = 3

// VentaService registers sales atomically: invoice, stock decrements, ledger
// entries and the cash movement commit together or not at all.
type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.FacturaResponse, error)
	ObtenerFactura(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error)
	ListarFacturas(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error)
}

type ventaService struct {
	facturas    repository.FacturaRepository
	metodosPago repository.MetodoPagoRepository
	clientes    repository.ClienteRepository
	cajas       repository.CajaRepository
	inventario  InventarioService
	dispatcher  JobDispatcher
	tasaIVA     decimal.Decimal
}

var _ VentaService = (*ventaService)(nil)

func NewVentaService(
	facturas repository.FacturaRepository,
	metodosPago repository.MetodoPagoRepository,
	clientes repository.ClienteRepository,
	cajas repository.CajaRepository,
	inventario InventarioService,
	dispatcher JobDispatcher,
	tasaIVA decimal.Decimal,
) VentaService {
	return &ventaService{
		facturas:    facturas,
		metodosPago: metodosPago,
		clientes:    clientes,
		cajas:       cajas,
		inventario:  inventario,
		dispatcher:  dispatcher,
		tasaIVA:     tasaIVA,
	}
}

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.FacturaResponse, error) {
	metodoPagoID, err := uuid.Parse(req.MetodoPagoID)
	if err != nil {
		return nil, domain.Validacionf("metodo_pago_id inválido: %s", req.MetodoPagoID)
	}
	if _, err := s.metodosPago.FindByID(ctx, metodoPagoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entidad: "método de pago", ID: req.MetodoPagoID}
		}
		return nil, err
	}

	var clienteID *uuid.UUID
	if req.ClienteID != nil {
		id, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, domain.Validacionf("cliente_id inválido: %s", *req.ClienteID)
		}
		if _, err := s.clientes.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &domain.NotFoundError{Entidad: "cliente", ID: *req.ClienteID}
			}
			return nil, err
		}
		clienteID = &id
	}

	var cajaID *uuid.UUID
	if req.CajaID != nil {
		id, err := uuid.Parse(*req.CajaID)
		if err != nil {
			return nil, domain.Validacionf("caja_id inválido: %s", *req.CajaID)
		}
		cajaID = &id
	}

	lineas := make([]LineaReserva, 0, len(req.Items))
	for _, item := range req.Items {
		productoID, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, domain.Validacionf("producto_id inválido: %s", item.ProductoID)
		}
		if item.Cantidad <= 0 {
			return nil, domain.Validacionf("cantidad inválida %d para producto %s", item.Cantidad, item.ProductoID)
		}
		if item.PrecioUnitario != nil && item.PrecioUnitario.IsNegative() {
			return nil, domain.Validacionf("precio_unitario negativo para producto %s", item.ProductoID)
		}
		lineas = append(lineas, LineaReserva{ProductoID: productoID, Cantidad: item.Cantidad})
	}

	var factura *model.Factura
	err = s.conReintentos(func() error {
		return runTx(ctx, s.facturas.DB(), func(tx *gorm.DB) error {
			f, err := s.registrarVentaTx(ctx, tx, usuarioID, clienteID, metodoPagoID, cajaID, req.Items, lineas)
			if err != nil {
				return err
			}
			factura = f
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("factura_id", factura.ID.String()).
		Int("numero", factura.Numero).
		Str("total", factura.Total.String()).
		Msg("venta registrada")

	if s.dispatcher != nil {
		if err := s.dispatcher.DispatchRecibo(ctx, factura.ID, req.ClienteEmail); err != nil {
			log.Error().Err(err).Str("factura_id", factura.ID.String()).Msg("no se pudo encolar el recibo")
		}
	}

	resp := toFacturaResponse(factura)
	return &resp, nil
}

func (s *ventaService) registrarVentaTx(
	ctx context.Context,
	tx *gorm.DB,
	usuarioID uuid.UUID,
	clienteID *uuid.UUID,
	metodoPagoID uuid.UUID,
	cajaID *uuid.UUID,
	items []dto.ItemVentaRequest,
	lineas []LineaReserva,
) (*model.Factura, error) {
	// The sale proceeds with or without an open session; the cash effect is
	// posted only when one exists for the register.
	var sesion *model.SesionCaja
	if cajaID != nil {
		abierta, err := s.cajas.FindSesionAbiertaPorCajaTx(tx, *cajaID)
		switch {
		case err == nil:
			sesion = abierta
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no open session, sale is still valid
		default:
			return nil, err
		}
	}

	productos, err := s.inventario.ReservarParaOperacion(tx, lineas)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	detalles := make([]model.DetalleFactura, 0, len(items))
	for _, item := range items {
		productoID, _ := uuid.Parse(item.ProductoID)
		p := productos[productoID]

		precio := p.PrecioVenta
		if item.PrecioUnitario != nil {
			precio = *item.PrecioUnitario
		}
		lineaSubtotal := precio.Mul(decimal.NewFromInt(int64(item.Cantidad))).Round(2)
		subtotal = subtotal.Add(lineaSubtotal)

		detalles = append(detalles, model.DetalleFactura{
			ProductoID:     productoID,
			Cantidad:       item.Cantidad,
			PrecioUnitario: precio,
			Subtotal:       lineaSubtotal,
		})
	}

	impuesto, total, err := CalcularImpuesto(subtotal, s.tasaIVA)
	if err != nil {
		return nil, err
	}

	numero, err := s.facturas.NextNumero(ctx, tx)
	if err != nil {
		return nil, err
	}

	factura := &model.Factura{
		Numero:       numero,
		ClienteID:    clienteID,
		MetodoPagoID: metodoPagoID,
		UsuarioID:    usuarioID,
		Subtotal:     subtotal,
		Impuesto:     impuesto,
		Total:        total,
		Detalles:     detalles,
	}
	if sesion != nil {
		factura.SesionCajaID = &sesion.ID
	}
	if err := s.facturas.Create(ctx, tx, factura); err != nil {
		return nil, err
	}

	ajustes := make([]AjusteStock, 0, len(lineas))
	for _, l := range lineas {
		ajustes = append(ajustes, AjusteStock{
			ProductoID:   l.ProductoID,
			Delta:        -l.Cantidad,
			Tipo:         "venta",
			Motivo:       "venta",
			ReferenciaID: &factura.ID,
		})
	}
	if err := s.inventario.AjustarStockTx(tx, ajustes); err != nil {
		return nil, err
	}

	if sesion != nil {
		mov := &model.MovimientoCaja{
			SesionCajaID: sesion.ID,
			Tipo:         "venta",
			Monto:        total,
			Descripcion:  "venta factura " + factura.ID.String(),
			ReferenciaID: &factura.ID,
		}
		if err := s.cajas.CreateMovimientoTx(tx, mov); err != nil {
			return nil, err
		}
	}

	return factura, nil
}

// conReintentos retries fn on ConcurrencyConflictError up to maxStockRetries
// times. Every other error surfaces immediately.
func (s *ventaService) conReintentos(fn func() error) error {
	var err error
	for intento := 1; intento <= maxStockRetries; intento++ {
		err = fn()
		var conflicto *domain.ConcurrencyConflictError
		if err == nil || !errors.As(err, &conflicto) {
			return err
		}
		log.Warn().Int("intento", intento).Msg("conflicto de stock, reintentando venta")
	}
	return err
}

func (s *ventaService) ObtenerFactura(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error) {
	f, err := s.facturas.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entidad: "factura", ID: id.String()}
		}
		return nil, err
	}
	resp := toFacturaResponse(f)
	return &resp, nil
}

func (s *ventaService) ListarFacturas(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	facturas, total, err := s.facturas.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.FacturaResponse, 0, len(facturas))
	for i := range facturas {
		data = append(data, toFacturaResponse(&facturas[i]))
	}
	return &dto.FacturaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func toFacturaResponse(f *model.Factura) dto.FacturaResponse {
	detalles := make([]dto.DetalleFacturaResponse, 0, len(f.Detalles))
	for _, d := range f.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		detalles = append(detalles, dto.DetalleFacturaResponse{
			ProductoID:     d.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}

	var clienteID, sesionID *string
	if f.ClienteID != nil {
		v := f.ClienteID.String()
		clienteID = &v
	}
	if f.SesionCajaID != nil {
		v := f.SesionCajaID.String()
		sesionID = &v
	}

	return dto.FacturaResponse{
		ID:           f.ID.String(),
		Numero:       f.Numero,
		ClienteID:    clienteID,
		MetodoPagoID: f.MetodoPagoID.String(),
		SesionCajaID: sesionID,
		Detalles:     detalles,
		Subtotal:     f.Subtotal,
		Impuesto:     f.Impuesto,
		Total:        f.Total,
		CreatedAt:    f.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
