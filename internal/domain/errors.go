package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// ErrInvalidEdge indica que el traslado no va entre sedes padre-hija directas.
	ErrInvalidEdge = errors.New("las sedes no tienen relación directa en la jerarquía")

	// ErrStaleBatch indica que la escritura condicional no encontró la cantidad
	// observada (otro proceso modificó el lote entre la lectura y la escritura).
	ErrStaleBatch = errors.New("el lote fue modificado por otra operación")

	// ErrLedgerInconsistency señala que el stock ya fue descontado/acreditado pero
	// el registro contable (venta o traslado) no pudo crearse. No se revierte el
	// stock: requiere conciliación manual.
	ErrLedgerInconsistency = errors.New("stock movido sin registro contable, requiere conciliación manual")
)
