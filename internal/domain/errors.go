package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrNotSupported        = errors.New("operación no soportada")
	ErrTransactionConflict = errors.New("conflicto de escritura concurrente")
	ErrStorage             = errors.New("fallo de almacenamiento")
)

// InsufficientStockError indica que el origen de una transferencia no alcanza la cantidad pedida.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	Holder    string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en %s. Disponible: %d", e.Holder, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// NotFoundError identifica el recurso ausente. errors.Is(err, ErrNotFound) es verdadero.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound construye un NotFoundError.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// InvalidInput envuelve ErrInvalidInput con un detalle legible.
func InvalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// StorageError envuelve un fallo de I/O del almacenamiento subyacente.
// No es reintentable por el motor; los conflictos de serialización usan ErrTransactionConflict.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// Storage envuelve err como StorageError salvo que ya sea un error de dominio conocido.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransactionConflict) || errors.Is(err, ErrDuplicate) || errors.Is(err, ErrStorage) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
