// Package domain defines the typed failure taxonomy of the transaction core.
// Every business operation surfaces one of these errors at its boundary with no
// partial state change; handlers map them to HTTP status codes. Only
// ConcurrencyConflictError is retried automatically (bounded) by the services.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError signals malformed or out-of-range input: quantity <= 0,
// negative price, missing reference, etc.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

// Validacionf builds a ValidationError with a formatted detail message.
func Validacionf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}

// NotFoundError signals that a referenced entity does not exist.
type NotFoundError struct {
	Entidad string
	ID      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Entidad, e.ID)
}

// InsufficientStockError signals a decrement that would drive stock negative.
// Names the first offending product of the operation.
type InsufficientStockError struct {
	ProductoID uuid.UUID
	Nombre     string
	Solicitado int
	Disponible int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: solicitado %d, disponible %d",
		e.Nombre, e.Solicitado, e.Disponible)
}

// OverReturnError signals a return whose quantity exceeds what remains
// returnable on the original invoice line (net of prior returns).
type OverReturnError struct {
	ProductoID uuid.UUID
	Solicitado int
	Restante   int
}

func (e *OverReturnError) Error() string {
	return fmt.Sprintf("devolución excede lo vendido para producto %s: solicitado %d, restante %d",
		e.ProductoID, e.Solicitado, e.Restante)
}

// InvalidReturnReferenceError signals a return citing a non-existent invoice.
type InvalidReturnReferenceError struct {
	FacturaID string
}

func (e *InvalidReturnReferenceError) Error() string {
	return fmt.Sprintf("factura %s inexistente o inválida para devolución", e.FacturaID)
}

// SessionAlreadyOpenError signals an open attempt on a register that already
// has an open session.
type SessionAlreadyOpenError struct {
	CajaID uuid.UUID
}

func (e *SessionAlreadyOpenError) Error() string {
	return fmt.Sprintf("la caja %s ya tiene una sesión abierta", e.CajaID)
}

// SessionClosedError signals a posting or close attempt on a closed session.
type SessionClosedError struct {
	SesionID uuid.UUID
}

func (e *SessionClosedError) Error() string {
	return fmt.Sprintf("la sesión de caja %s está cerrada", e.SesionID)
}

// ConcurrencyConflictError signals that a guarded stock update lost a race
// after its reservation passed. Callers retry a bounded number of times.
type ConcurrencyConflictError struct {
	Detail string
}

func (e *ConcurrencyConflictError) Error() string { return e.Detail }
