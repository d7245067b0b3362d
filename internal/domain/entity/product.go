package entity

import (
	"strings"
	"time"
)

// Product representa un artículo del catálogo. MasterStock es la cantidad en el depósito central
// y solo la modifican las transferencias y sus reversiones.
type Product struct {
	ID             string
	SKU            string // único en el catálogo, en mayúsculas
	Name           string
	Category       string
	ExpirationDate *time.Time
	AdditionalSKUs []string // alias para escaneo
	MasterStock    int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Codes devuelve el SKU principal seguido de los adicionales.
func (p *Product) Codes() []string {
	codes := make([]string, 0, 1+len(p.AdditionalSKUs))
	codes = append(codes, p.SKU)
	return append(codes, p.AdditionalSKUs...)
}

// MatchesCode indica si code coincide (sin distinguir mayúsculas) con alguno de los códigos del producto.
func (p *Product) MatchesCode(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}
	for _, c := range p.Codes() {
		if strings.EqualFold(c, code) {
			return true
		}
	}
	return false
}

// Clone devuelve una copia profunda.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	if p.ExpirationDate != nil {
		d := *p.ExpirationDate
		cp.ExpirationDate = &d
	}
	cp.AdditionalSKUs = append([]string(nil), p.AdditionalSKUs...)
	return &cp
}
