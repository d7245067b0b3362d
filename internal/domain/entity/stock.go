package entity

import "math"

// MaxStock tope de cualquier saldo (depósito o local) y de la cantidad de una transferencia.
const MaxStock = math.MaxInt32

// AddStock suma qty al saldo. Devuelve false si el resultado supera MaxStock.
func AddStock(balance, qty int) (int, bool) {
	if qty > MaxStock-balance {
		return balance, false
	}
	return balance + qty, true
}
