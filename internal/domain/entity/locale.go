package entity

import "time"

// Locale representa un local (punto de venta) con inventario propio, distinto del depósito central.
// Inventory mapea productID -> stock; una entrada ausente equivale a cero.
type Locale struct {
	ID        string
	Name      string
	Exempt    bool // no descuenta ni restituye stock cuando actúa como origen
	Inventory map[string]int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stock devuelve la cantidad del producto en el local.
func (l *Locale) Stock(productID string) int {
	return l.Inventory[productID]
}

// HasEntry indica si el local tiene una entrada de inventario para el producto.
func (l *Locale) HasEntry(productID string) bool {
	_, ok := l.Inventory[productID]
	return ok
}

// SetStock crea o actualiza la entrada de inventario del producto.
func (l *Locale) SetStock(productID string, qty int) {
	if l.Inventory == nil {
		l.Inventory = make(map[string]int)
	}
	l.Inventory[productID] = qty
}

// Clone devuelve una copia profunda.
func (l *Locale) Clone() *Locale {
	if l == nil {
		return nil
	}
	cp := *l
	cp.Inventory = make(map[string]int, len(l.Inventory))
	for k, v := range l.Inventory {
		cp.Inventory[k] = v
	}
	return &cp
}
