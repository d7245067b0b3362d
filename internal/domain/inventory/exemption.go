package inventory

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
)

// DefaultExemptLocales locales que no llevan control de stock como origen en la instalación de referencia.
var DefaultExemptLocales = []string{"PRADERAS", "DIQUE", "SOHO", "MARKET"}

// ExemptionPolicy decide qué locales quedan fuera del descuento/restitución en origen.
// Un local es exento si tiene el flag Exempt o si su nombre coincide exactamente
// (sin distinguir mayúsculas) con uno de los nombres configurados.
type ExemptionPolicy struct {
	names map[string]struct{}
}

// NewExemptionPolicy construye la política a partir de la lista de nombres.
func NewExemptionPolicy(names []string) *ExemptionPolicy {
	p := &ExemptionPolicy{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if n == "" {
			continue
		}
		p.names[foldName(n)] = struct{}{}
	}
	return p
}

// IsExempt indica si el local es exento. Un nil nunca lo es.
func (p *ExemptionPolicy) IsExempt(l *entity.Locale) bool {
	if l == nil {
		return false
	}
	if l.Exempt {
		return true
	}
	if p == nil {
		return false
	}
	_, ok := p.names[foldName(l.Name)]
	return ok
}

// cases.Caser guarda estado; se crea uno por llamada.
func foldName(s string) string {
	return cases.Upper(language.Und).String(s)
}
