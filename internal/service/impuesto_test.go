package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalcularImpuesto(t *testing.T) {
	casos := []struct {
		nombre   string
		subtotal string
		tasa     string
		impuesto string
		total    string
	}{
		{"doce por ciento", "100.00", "0.12", "12.00", "112.00"},
		{"tasa cero", "250.50", "0", "0.00", "250.50"},
		{"subtotal cero", "0", "0.12", "0.00", "0.00"},
		{"redondeo hacia arriba en mitad", "10.375", "1", "10.38", "20.76"},
		{"centavos", "19.99", "0.12", "2.40", "22.39"},
		{"tasa alta", "80.00", "0.21", "16.80", "96.80"},
	}

	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			impuesto, total, err := CalcularImpuesto(dec(c.subtotal), dec(c.tasa))
			require.NoError(t, err)
			assert.True(t, dec(c.impuesto).Equal(impuesto), "impuesto esperado %s, obtenido %s", c.impuesto, impuesto)
			assert.True(t, dec(c.total).Equal(total), "total esperado %s, obtenido %s", c.total, total)
		})
	}
}

func TestCalcularImpuestoSubtotalNegativo(t *testing.T) {
	_, _, err := CalcularImpuesto(dec("-1"), dec("0.12"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "subtotal negativo")
}

func TestCalcularImpuestoTasaNegativa(t *testing.T) {
	_, _, err := CalcularImpuesto(dec("100"), dec("-0.12"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "tasa de impuesto negativa")
}

func TestCalcularImpuestoRedondeoMedioArriba(t *testing.T) {
	// 10.05 * 0.5 = 5.025 → 5.03 with half-up rounding
	impuesto, total, err := CalcularImpuesto(dec("10.05"), dec("0.5"))
	require.NoError(t, err)
	assert.True(t, dec("5.03").Equal(impuesto), "obtenido %s", impuesto)
	assert.True(t, dec("15.08").Equal(total), "obtenido %s", total)
}
