package fulfillment

import "github.com/shopspring/decimal"

// WeightedCost costo promedio ponderado al fusionar una entrada en una fila existente.
// NuevoCosto = ((CantActual * CostoActual) + (CantEntrada * CostoEntrada)) / (CantActual + CantEntrada)
func WeightedCost(currentQty int, currentCost decimal.Decimal, inQty int, inCost decimal.Decimal) decimal.Decimal {
	sum := currentQty + inQty
	if sum <= 0 {
		return decimal.Zero
	}
	num := decimal.NewFromInt(int64(currentQty)).Mul(currentCost).
		Add(decimal.NewFromInt(int64(inQty)).Mul(inCost))
	return num.Div(decimal.NewFromInt(int64(sum))).Round(4)
}
