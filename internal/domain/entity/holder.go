package entity

import "fmt"

// DepositID es el identificador reservado del depósito central en la API y en el almacenamiento.
const DepositID = "deposit"

// Holder es un extremo de una transferencia: el depósito central o un local concreto.
// El valor cero no es válido; usar Deposit o LocaleRef.
type Holder struct {
	deposit  bool
	localeID string
}

// Deposit devuelve el holder del depósito central.
func Deposit() Holder { return Holder{deposit: true} }

// LocaleRef devuelve el holder de un local por ID.
func LocaleRef(id string) Holder { return Holder{localeID: id} }

// ParseHolder interpreta el identificador persistido ("deposit" o el ID de un local).
func ParseHolder(raw string) (Holder, error) {
	switch raw {
	case "":
		return Holder{}, fmt.Errorf("holder vacío")
	case DepositID:
		return Deposit(), nil
	default:
		return LocaleRef(raw), nil
	}
}

// IsDeposit indica si el holder es el depósito central.
func (h Holder) IsDeposit() bool { return h.deposit }

// IsZero indica un holder sin inicializar.
func (h Holder) IsZero() bool { return !h.deposit && h.localeID == "" }

// LocaleID devuelve el ID del local; vacío para el depósito.
func (h Holder) LocaleID() string { return h.localeID }

// String devuelve la forma persistida del holder.
func (h Holder) String() string {
	if h.deposit {
		return DepositID
	}
	return h.localeID
}

func (h Holder) MarshalText() ([]byte, error) {
	if h.IsZero() {
		return nil, fmt.Errorf("holder vacío")
	}
	return []byte(h.String()), nil
}

func (h *Holder) UnmarshalText(b []byte) error {
	parsed, err := ParseHolder(string(b))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
