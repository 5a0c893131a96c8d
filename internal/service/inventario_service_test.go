package service

import (
	"context"
	"testing"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/domain"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/dto"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func producto(codigo string, stock, minimo int, precio string) model.Producto {
	return model.Producto{
		Codigo:      codigo,
		Nombre:      "Producto " + codigo,
		SucursalID:  uuid.New(),
		PrecioCosto: decimal.Zero,
		PrecioVenta: dec(precio),
		StockActual: stock,
		StockMinimo: minimo,
	}
}

func TestReservarParaOperacionAgregaCantidades(t *testing.T) {
	productos := newStubProductoRepo()
	movs := newStubMovimientoStockRepo()
	svc := NewInventarioService(productos, movs)

	id := productos.seed(producto("MART-01", 10, 2, "15.00"))

	// 6 + 5 for the same product exceeds the 10 available even though each
	// line alone would fit.
	_, err := svc.ReservarParaOperacion(nil, []LineaReserva{
		{ProductoID: id, Cantidad: 6},
		{ProductoID: id, Cantidad: 5},
	})
	var sinStock *domain.InsufficientStockError
	require.ErrorAs(t, err, &sinStock)
	assert.Equal(t, 11, sinStock.Solicitado)
	assert.Equal(t, 10, sinStock.Disponible)
}

func TestReservarParaOperacionReportaPrimeraLineaInsuficiente(t *testing.T) {
	productos := newStubProductoRepo()
	svc := NewInventarioService(productos, newStubMovimientoStockRepo())

	// The first request line sorts after the second by UUID, so lock order and
	// request order disagree. The error must name the first request line.
	primero := producto("MART-01", 1, 0, "15.00")
	primero.ID = uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
	segundo := producto("CINT-01", 1, 0, "10.00")
	segundo.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	productos.seed(primero)
	productos.seed(segundo)

	_, err := svc.ReservarParaOperacion(nil, []LineaReserva{
		{ProductoID: primero.ID, Cantidad: 5},
		{ProductoID: segundo.ID, Cantidad: 5},
	})
	var sinStock *domain.InsufficientStockError
	require.ErrorAs(t, err, &sinStock)
	assert.Equal(t, primero.ID, sinStock.ProductoID)
}

func TestReservarParaOperacionProductoInexistente(t *testing.T) {
	svc := NewInventarioService(newStubProductoRepo(), newStubMovimientoStockRepo())

	_, err := svc.ReservarParaOperacion(nil, []LineaReserva{{ProductoID: uuid.New(), Cantidad: 1}})
	var noEncontrado *domain.NotFoundError
	require.ErrorAs(t, err, &noEncontrado)
}

func TestReservarParaOperacionCantidadInvalida(t *testing.T) {
	svc := NewInventarioService(newStubProductoRepo(), newStubMovimientoStockRepo())

	_, err := svc.ReservarParaOperacion(nil, []LineaReserva{{ProductoID: uuid.New(), Cantidad: 0}})
	var validacion *domain.ValidationError
	require.ErrorAs(t, err, &validacion)
}

func TestAjustarStockTxRegistraLedger(t *testing.T) {
	productos := newStubProductoRepo()
	movs := newStubMovimientoStockRepo()
	svc := NewInventarioService(productos, movs)

	id := productos.seed(producto("TORN-20", 50, 5, "1.00"))
	ref := uuid.New()

	err := svc.AjustarStockTx(nil, []AjusteStock{
		{ProductoID: id, Delta: -8, Tipo: "venta", Motivo: "venta", ReferenciaID: &ref},
	})
	require.NoError(t, err)
	assert.Equal(t, 42, productos.stock(id))

	historial, err := svc.ListarMovimientos(context.Background(), id, 10)
	require.NoError(t, err)
	require.Len(t, historial, 1)
	assert.Equal(t, "venta", historial[0].Tipo)
	assert.Equal(t, -8, historial[0].Cantidad)
	assert.Equal(t, 50, historial[0].StockAnterior)
	assert.Equal(t, 42, historial[0].StockNuevo)
}

func TestAjustarStockTxAplicaEnOrdenDeBloqueo(t *testing.T) {
	productos := newStubProductoRepo()
	movs := newStubMovimientoStockRepo()
	svc := NewInventarioService(productos, movs)

	mayor := producto("MART-01", 10, 0, "15.00")
	mayor.ID = uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
	menor := producto("CINT-01", 10, 0, "10.00")
	menor.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	productos.seed(mayor)
	productos.seed(menor)

	// Deltas arrive with the higher UUID first; rows must still be touched in
	// sorted order, the same order reservations lock in.
	err := svc.AjustarStockTx(nil, []AjusteStock{
		{ProductoID: mayor.ID, Delta: 1, Tipo: "devolucion", Motivo: "devolución"},
		{ProductoID: menor.ID, Delta: -1, Tipo: "cambio", Motivo: "cambio"},
	})
	require.NoError(t, err)
	assert.Equal(t, 11, productos.stock(mayor.ID))
	assert.Equal(t, 9, productos.stock(menor.ID))

	require.Len(t, movs.movs, 2)
	assert.Equal(t, menor.ID, movs.movs[0].ProductoID)
	assert.Equal(t, mayor.ID, movs.movs[1].ProductoID)
}

func TestAjustarStockManualNoBajaDeCero(t *testing.T) {
	productos := newStubProductoRepo()
	svc := NewInventarioService(productos, newStubMovimientoStockRepo())

	id := productos.seed(producto("CLAV-05", 3, 1, "0.50"))

	_, err := svc.AjustarStockManual(context.Background(), uuid.New(), dto.AjusteStockRequest{
		ProductoID: id.String(),
		Delta:      -4,
		Motivo:     "rotura en depósito",
	})
	var sinStock *domain.InsufficientStockError
	require.ErrorAs(t, err, &sinStock)
	assert.Equal(t, 3, productos.stock(id))
}

func TestAjustarStockManualPositivo(t *testing.T) {
	productos := newStubProductoRepo()
	svc := NewInventarioService(productos, newStubMovimientoStockRepo())

	id := productos.seed(producto("LIJA-80", 0, 2, "2.00"))

	mov, err := svc.AjustarStockManual(context.Background(), uuid.New(), dto.AjusteStockRequest{
		ProductoID: id.String(),
		Delta:      12,
		Motivo:     "recuento físico",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, productos.stock(id))
	assert.Equal(t, "ajuste_manual", mov.Tipo)
	assert.Equal(t, 0, mov.StockAnterior)
	assert.Equal(t, 12, mov.StockNuevo)
}

func TestObtenerAlertasBajoStock(t *testing.T) {
	productos := newStubProductoRepo()
	svc := NewInventarioService(productos, newStubMovimientoStockRepo())

	productos.seed(producto("OK-01", 100, 5, "1.00"))
	bajo := productos.seed(producto("BAJO-01", 2, 5, "1.00"))

	alertas, err := svc.ObtenerAlertas(context.Background())
	require.NoError(t, err)
	require.Len(t, alertas, 1)
	assert.Equal(t, bajo.String(), alertas[0].ProductoID)
	assert.Equal(t, 2, alertas[0].StockActual)
	assert.Equal(t, 5, alertas[0].StockMinimo)
}
