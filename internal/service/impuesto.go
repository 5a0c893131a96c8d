package service

import (
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/domain"

	"github.com/shopspring/decimal"
)

// CalcularImpuesto applies a flat tax rate to a non-negative subtotal and
// returns (impuesto, total). Both figures are rounded to 2 decimals, half up.
// The rate is a fraction (0.12 = 12%); zero is a valid rate and yields a zero
// impuesto with total == subtotal.
func CalcularImpuesto(subtotal, tasa decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if subtotal.IsNegative() {
		return decimal.Zero, decimal.Zero, domain.Validacionf("subtotal negativo: %s", subtotal)
	}
	if tasa.IsNegative() {
		return decimal.Zero, decimal.Zero, domain.Validacionf("tasa de impuesto negativa: %s", tasa)
	}

	impuesto := subtotal.Mul(tasa).Round(2)
	total := subtotal.Add(impuesto).Round(2)
	return impuesto, total, nil
}
