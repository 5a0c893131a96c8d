package service

import (
	"context"
	"testing"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/domain"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/dto"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ventaFixture struct {
	svc        VentaService
	productos  *stubProductoRepo
	facturas   *stubFacturaRepo
	cajas      *stubCajaRepo
	metodos    *stubMetodoPagoRepo
	clientes   *stubClienteRepo
	dispatcher *stubDispatcher

	metodoPagoID uuid.UUID
}

func newVentaFixture(t *testing.T) *ventaFixture {
	t.Helper()
	f := &ventaFixture{
		productos:  newStubProductoRepo(),
		facturas:   newStubFacturaRepo(),
		cajas:      newStubCajaRepo(),
		metodos:    newStubMetodoPagoRepo(),
		clientes:   newStubClienteRepo(),
		dispatcher: &stubDispatcher{},
	}
	f.metodoPagoID = f.metodos.seed()
	inventario := NewInventarioService(f.productos, newStubMovimientoStockRepo())
	f.svc = NewVentaService(f.facturas, f.metodos, f.clientes, f.cajas, inventario, f.dispatcher, dec("0.12"))
	return f
}

func (f *ventaFixture) abrirSesion(t *testing.T, cajaID uuid.UUID) uuid.UUID {
	t.Helper()
	sesion := &model.SesionCaja{CajaID: cajaID, UsuarioID: uuid.New(), MontoInicial: dec("100.00"), Estado: "abierta"}
	require.NoError(t, f.cajas.CreateSesion(context.Background(), sesion))
	return sesion.ID
}

func TestRegistrarVentaConSesionAbierta(t *testing.T) {
	f := newVentaFixture(t)
	martillo := f.productos.seed(producto("MART-01", 10, 2, "15.00"))
	cinta := f.productos.seed(producto("CINT-01", 5, 1, "10.00"))
	cajaID := f.cajas.seedCaja()
	sesionID := f.abrirSesion(t, cajaID)

	caja := cajaID.String()
	resp, err := f.svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		CajaID:       &caja,
		MetodoPagoID: f.metodoPagoID.String(),
		Items: []dto.ItemVentaRequest{
			{ProductoID: martillo.String(), Cantidad: 2},
			{ProductoID: cinta.String(), Cantidad: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Numero)
	assert.True(t, dec("40.00").Equal(resp.Subtotal), "subtotal %s", resp.Subtotal)
	assert.True(t, dec("4.80").Equal(resp.Impuesto), "impuesto %s", resp.Impuesto)
	assert.True(t, dec("44.80").Equal(resp.Total), "total %s", resp.Total)
	require.NotNil(t, resp.SesionCajaID)
	assert.Equal(t, sesionID.String(), *resp.SesionCajaID)

	assert.Equal(t, 8, f.productos.stock(martillo))
	assert.Equal(t, 4, f.productos.stock(cinta))

	movs := f.cajas.movimientosDe(sesionID)
	require.Len(t, movs, 1)
	assert.Equal(t, "venta", movs[0].Tipo)
	assert.True(t, dec("44.80").Equal(movs[0].Monto))

	require.Len(t, f.dispatcher.recibos, 1)
}

func TestRegistrarVentaSinSesionAbierta(t *testing.T) {
	f := newVentaFixture(t)
	martillo := f.productos.seed(producto("MART-01", 10, 2, "15.00"))
	cajaID := f.cajas.seedCaja()

	caja := cajaID.String()
	resp, err := f.svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		CajaID:       &caja,
		MetodoPagoID: f.metodoPagoID.String(),
		Items:        []dto.ItemVentaRequest{{ProductoID: martillo.String(), Cantidad: 1}},
	})
	require.NoError(t, err)

	// The sale succeeds but no cash effect is posted anywhere.
	assert.Nil(t, resp.SesionCajaID)
	assert.Empty(t, f.cajas.movimientos)
	assert.Equal(t, 9, f.productos.stock(martillo))
}

func TestRegistrarVentaUltimaUnidad(t *testing.T) {
	f := newVentaFixture(t)
	martillo := f.productos.seed(producto("MART-01", 1, 0, "15.00"))

	// Selling exactly the remaining stock succeeds and leaves zero.
	resp, err := f.svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		MetodoPagoID: f.metodoPagoID.String(),
		Items:        []dto.ItemVentaRequest{{ProductoID: martillo.String(), Cantidad: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Numero)
	assert.Equal(t, 0, f.productos.stock(martillo))

	// The next unit is not there to sell.
	_, err = f.svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		MetodoPagoID: f.metodoPagoID.String(),
		Items:        []dto.ItemVentaRequest{{ProductoID: martillo.String(), Cantidad: 1}},
	})
	var sinStock *domain.InsufficientStockError
	require.ErrorAs(t, err, &sinStock)
	assert.Equal(t, 1, sinStock.Solicitado)
	assert.Equal(t, 0, sinStock.Disponible)
	assert.Equal(t, 0, f.productos.stock(martillo))
	require.Len(t, f.facturas.facturas, 1)
}

func TestRegistrarVentaStockInsuficienteEsAtomica(t *testing.T) {
	f := newVentaFixture(t)
	martillo := f.productos.seed(producto("MART-01", 10, 2, "15.00"))
	cinta := f.productos.seed(producto("CINT-01", 1, 1, "10.00"))

	_, err := f.svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		MetodoPagoID: f.metodoPagoID.String(),
		Items: []dto.ItemVentaRequest{
			{ProductoID: martillo.String(), Cantidad: 2},
			{ProductoID: cinta.String(), Cantidad: 3},
		},
	})
	var sinStock *domain.InsufficientStockError
	require.ErrorAs(t, err, &sinStock)
	assert.Equal(t, cinta, sinStock.ProductoID)

	// Nothing changed: no invoice, no stock movement.
	assert.Empty(t, f.facturas.facturas)
	assert.Equal(t, 10, f.productos.stock(martillo))
	assert.Equal(t, 1, f.productos.stock(cinta))
}

func TestRegistrarVentaPrecioOverride(t *testing.T) {
	f := newVentaFixture(t)
	martillo := f.productos.seed(producto("MART-01", 10, 2, "15.00"))

	oferta := dec("12.50")
	resp, err := f.svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		MetodoPagoID: f.metodoPagoID.String(),
		Items: []dto.ItemVentaRequest{
			{ProductoID: martillo.String(), Cantidad: 2, PrecioUnitario: &oferta},
		},
	})
	require.NoError(t, err)
	assert.True(t, dec("25.00").Equal(resp.Subtotal), "subtotal %s", resp.Subtotal)
	require.Len(t, resp.Detalles, 1)
	assert.True(t, oferta.Equal(resp.Detalles[0].PrecioUnitario))
}

func TestRegistrarVentaPrecioOverrideNegativo(t *testing.T) {
	f := newVentaFixture(t)
	martillo := f.productos.seed(producto("MART-01", 10, 2, "15.00"))

	negativo := dec("-1.00")
	_, err := f.svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		MetodoPagoID: f.metodoPagoID.String(),
		Items: []dto.ItemVentaRequest{
			{ProductoID: martillo.String(), Cantidad: 1, PrecioUnitario: &negativo},
		},
	})
	var validacion *domain.ValidationError
	require.ErrorAs(t, err, &validacion)
}

func TestRegistrarVentaMetodoPagoInexistente(t *testing.T) {
	f := newVentaFixture(t)
	martillo := f.productos.seed(producto("MART-01", 10, 2, "15.00"))

	_, err := f.svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		MetodoPagoID: uuid.NewString(),
		Items:        []dto.ItemVentaRequest{{ProductoID: martillo.String(), Cantidad: 1}},
	})
	var noEncontrado *domain.NotFoundError
	require.ErrorAs(t, err, &noEncontrado)
}

func TestRegistrarVentaNumeracionCorrelativa(t *testing.T) {
	f := newVentaFixture(t)
	martillo := f.productos.seed(producto("MART-01", 10, 2, "15.00"))

	for esperado := 1; esperado <= 3; esperado++ {
		resp, err := f.svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
			MetodoPagoID: f.metodoPagoID.String(),
			Items:        []dto.ItemVentaRequest{{ProductoID: martillo.String(), Cantidad: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, esperado, resp.Numero)
	}
}

func TestObtenerFacturaInexistente(t *testing.T) {
	f := newVentaFixture(t)
	_, err := f.svc.ObtenerFactura(context.Background(), uuid.New())
	var noEncontrado *domain.NotFoundError
	require.ErrorAs(t, err, &noEncontrado)
}
