package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/inventory"
)

func TestExemptionPolicy_NombreSinDistinguirMayusculas(t *testing.T) {
	p := inventory.NewExemptionPolicy(inventory.DefaultExemptLocales)

	assert.True(t, p.IsExempt(&entity.Locale{Name: "SOHO"}))
	assert.True(t, p.IsExempt(&entity.Locale{Name: "soho"}))
	assert.True(t, p.IsExempt(&entity.Locale{Name: "Praderas"}))
	assert.False(t, p.IsExempt(&entity.Locale{Name: "El Punto"}))
	// coincidencia exacta: sin recorte de espacios ni subcadenas
	assert.False(t, p.IsExempt(&entity.Locale{Name: "SOHO "}))
	assert.False(t, p.IsExempt(&entity.Locale{Name: "SOHO Norte"}))
}

func TestExemptionPolicy_FlagDelLocal(t *testing.T) {
	p := inventory.NewExemptionPolicy(nil)

	assert.True(t, p.IsExempt(&entity.Locale{Name: "Feria", Exempt: true}))
	assert.False(t, p.IsExempt(&entity.Locale{Name: "SOHO"}))
	assert.False(t, p.IsExempt(nil))
}
