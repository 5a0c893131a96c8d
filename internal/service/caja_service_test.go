package service

import (
	"context"
	"testing"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/domain"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cajaFixture struct {
	svc        CajaService
	cajas      *stubCajaRepo
	dispatcher *stubDispatcher
}

func newCajaFixture(t *testing.T) *cajaFixture {
	t.Helper()
	f := &cajaFixture{
		cajas:      newStubCajaRepo(),
		dispatcher: &stubDispatcher{},
	}
	f.svc = NewCajaService(f.cajas, f.dispatcher)
	return f
}

func (f *cajaFixture) abrir(t *testing.T, cajaID uuid.UUID, montoInicial string) string {
	t.Helper()
	resp, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		CajaID:       cajaID.String(),
		MontoInicial: dec(montoInicial),
	})
	require.NoError(t, err)
	return resp.SesionCajaID
}

func (f *cajaFixture) mover(t *testing.T, sesionID, tipo, monto string) {
	t.Helper()
	_, err := f.svc.RegistrarMovimiento(context.Background(), dto.MovimientoManualRequest{
		SesionCajaID: sesionID,
		Tipo:         tipo,
		Monto:        dec(monto),
		Descripcion:  "movimiento de prueba",
	})
	require.NoError(t, err)
}

func TestAbrirCaja(t *testing.T) {
	f := newCajaFixture(t)
	cajaID := f.cajas.seedCaja()

	resp, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		CajaID:       cajaID.String(),
		MontoInicial: dec("150.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "abierta", resp.Estado)
	assert.True(t, dec("150.00").Equal(resp.MontoInicial))
	assert.Nil(t, resp.ClosedAt)
}

func TestAbrirCajaConSesionYaAbierta(t *testing.T) {
	f := newCajaFixture(t)
	cajaID := f.cajas.seedCaja()
	f.abrir(t, cajaID, "100.00")

	_, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		CajaID:       cajaID.String(),
		MontoInicial: dec("50.00"),
	})
	var yaAbierta *domain.SessionAlreadyOpenError
	require.ErrorAs(t, err, &yaAbierta)
	assert.Equal(t, cajaID, yaAbierta.CajaID)
}

func TestAbrirCajaInexistente(t *testing.T) {
	f := newCajaFixture(t)
	_, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		CajaID:       uuid.NewString(),
		MontoInicial: dec("100.00"),
	})
	var noEncontrada *domain.NotFoundError
	require.ErrorAs(t, err, &noEncontrada)
}

func TestAbrirCajaMontoInicialNegativo(t *testing.T) {
	f := newCajaFixture(t)
	cajaID := f.cajas.seedCaja()

	_, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		CajaID:       cajaID.String(),
		MontoInicial: dec("-10.00"),
	})
	var validacion *domain.ValidationError
	require.ErrorAs(t, err, &validacion)
}

func TestRegistrarMovimientoEgresoSeNiega(t *testing.T) {
	f := newCajaFixture(t)
	cajaID := f.cajas.seedCaja()
	sesionID := f.abrir(t, cajaID, "100.00")

	resp, err := f.svc.RegistrarMovimiento(context.Background(), dto.MovimientoManualRequest{
		SesionCajaID: sesionID,
		Tipo:         "egreso_manual",
		Monto:        dec("30.00"),
		Descripcion:  "pago a cadete",
	})
	require.NoError(t, err)
	// Outflows are stored signed.
	assert.True(t, dec("-30.00").Equal(resp.Monto), "monto %s", resp.Monto)
}

func TestRegistrarMovimientoEnSesionCerrada(t *testing.T) {
	f := newCajaFixture(t)
	cajaID := f.cajas.seedCaja()
	sesionID := f.abrir(t, cajaID, "100.00")

	_, err := f.svc.Cerrar(context.Background(), dto.CerrarCajaRequest{
		SesionCajaID:   sesionID,
		MontoDeclarado: dec("100.00"),
	})
	require.NoError(t, err)

	_, err = f.svc.RegistrarMovimiento(context.Background(), dto.MovimientoManualRequest{
		SesionCajaID: sesionID,
		Tipo:         "ingreso_manual",
		Monto:        dec("10.00"),
		Descripcion:  "fuera de horario",
	})
	var cerrada *domain.SessionClosedError
	require.ErrorAs(t, err, &cerrada)
}

func TestRegistrarMovimientoMontoNoPositivo(t *testing.T) {
	f := newCajaFixture(t)
	cajaID := f.cajas.seedCaja()
	sesionID := f.abrir(t, cajaID, "100.00")

	_, err := f.svc.RegistrarMovimiento(context.Background(), dto.MovimientoManualRequest{
		SesionCajaID: sesionID,
		Tipo:         "ingreso_manual",
		Monto:        dec("0"),
		Descripcion:  "sin monto",
	})
	var validacion *domain.ValidationError
	require.ErrorAs(t, err, &validacion)
}

func TestCerrarCajaCalculaEsperadoYDiferencia(t *testing.T) {
	f := newCajaFixture(t)
	cajaID := f.cajas.seedCaja()
	sesionID := f.abrir(t, cajaID, "100.00")
	f.mover(t, sesionID, "ingreso_manual", "50.00")
	f.mover(t, sesionID, "egreso_manual", "20.00")

	// esperado = 100 + 50 - 20 = 130; declarado 129.50 -> diferencia -0.50.
	resp, err := f.svc.Cerrar(context.Background(), dto.CerrarCajaRequest{
		SesionCajaID:   sesionID,
		MontoDeclarado: dec("129.50"),
	})
	require.NoError(t, err)
	assert.True(t, dec("130.00").Equal(resp.MontoEsperado), "esperado %s", resp.MontoEsperado)
	assert.True(t, dec("-0.50").Equal(resp.Diferencia), "diferencia %s", resp.Diferencia)
	assert.Equal(t, "normal", resp.Clasificacion)
	assert.Equal(t, "cerrada", resp.Estado)

	require.Len(t, f.dispatcher.cierres, 1)
	assert.Equal(t, sesionID, f.dispatcher.cierres[0].String())
}

func TestCerrarCajaClasificaDesvio(t *testing.T) {
	cases := []struct {
		nombre    string
		inicial   string
		declarado string
		esperada  string
	}{
		{"exacto", "100.00", "100.00", "normal"},
		{"dentro del uno por ciento", "100.00", "99.00", "normal"},
		{"dentro del cinco por ciento", "100.00", "96.00", "advertencia"},
		{"sobrante critico", "100.00", "110.00", "critico"},
		{"faltante critico", "100.00", "90.00", "critico"},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			f := newCajaFixture(t)
			cajaID := f.cajas.seedCaja()
			sesionID := f.abrir(t, cajaID, tc.inicial)

			resp, err := f.svc.Cerrar(context.Background(), dto.CerrarCajaRequest{
				SesionCajaID:   sesionID,
				MontoDeclarado: dec(tc.declarado),
			})
			require.NoError(t, err)
			assert.Equal(t, tc.esperada, resp.Clasificacion)
		})
	}
}

func TestCerrarCajaEsperadoCeroConDiferencia(t *testing.T) {
	f := newCajaFixture(t)
	cajaID := f.cajas.seedCaja()
	sesionID := f.abrir(t, cajaID, "0")

	resp, err := f.svc.Cerrar(context.Background(), dto.CerrarCajaRequest{
		SesionCajaID:   sesionID,
		MontoDeclarado: dec("5.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "critico", resp.Clasificacion)
}

func TestCerrarCajaNoBloqueaPorDesvioCritico(t *testing.T) {
	f := newCajaFixture(t)
	cajaID := f.cajas.seedCaja()
	sesionID := f.abrir(t, cajaID, "100.00")

	// A critical discrepancy still closes the session; it is only classified.
	resp, err := f.svc.Cerrar(context.Background(), dto.CerrarCajaRequest{
		SesionCajaID:   sesionID,
		MontoDeclarado: dec("10.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "critico", resp.Clasificacion)
	assert.Equal(t, "cerrada", resp.Estado)

	id := uuid.MustParse(sesionID)
	sesion, err := f.cajas.FindSesionByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "cerrada", sesion.Estado)
	require.NotNil(t, sesion.ClosedAt)
}

func TestCerrarCajaYaCerrada(t *testing.T) {
	f := newCajaFixture(t)
	cajaID := f.cajas.seedCaja()
	sesionID := f.abrir(t, cajaID, "100.00")

	_, err := f.svc.Cerrar(context.Background(), dto.CerrarCajaRequest{
		SesionCajaID:   sesionID,
		MontoDeclarado: dec("100.00"),
	})
	require.NoError(t, err)

	_, err = f.svc.Cerrar(context.Background(), dto.CerrarCajaRequest{
		SesionCajaID:   sesionID,
		MontoDeclarado: dec("100.00"),
	})
	var cerrada *domain.SessionClosedError
	require.ErrorAs(t, err, &cerrada)
}

func TestCerrarCajaSesionInexistente(t *testing.T) {
	f := newCajaFixture(t)
	_, err := f.svc.Cerrar(context.Background(), dto.CerrarCajaRequest{
		SesionCajaID:   uuid.NewString(),
		MontoDeclarado: dec("100.00"),
	})
	var noEncontrada *domain.NotFoundError
	require.ErrorAs(t, err, &noEncontrada)
}

func TestClasificarDesvioLimites(t *testing.T) {
	esperado := dec("200.00")
	// Exactly 1% stays normal, exactly 5% stays advertencia.
	assert.Equal(t, "normal", clasificarDesvio(dec("2.00"), esperado))
	assert.Equal(t, "advertencia", clasificarDesvio(dec("-10.00"), esperado))
	assert.Equal(t, "critico", clasificarDesvio(dec("10.01"), esperado))
	assert.Equal(t, "normal", clasificarDesvio(decimal.Zero, decimal.Zero))
}
