package repository

import (
	"context"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// StockBatchRepository es el puerto hacia el almacén de lotes. Solo expone
// operaciones fila a fila (lectura puntual, consulta filtrada, escritura
// condicional, insert y delete): el almacén remoto no ofrece transacciones
// multi-fila al motor, por eso las operaciones de venta/traslado compensan
// manualmente (saga) en application/stock.
type StockBatchRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockBatch, error)
	// FindCandidates devuelve los lotes asignables de (sede, producto):
	// calidad OK y cantidad > 0, ordenados por vencimiento ascendente y,
	// a igual vencimiento, por orden de llegada (created_at, id).
	FindCandidates(ctx context.Context, locationID, productID string) ([]*entity.StockBatch, error)
	// FindByBatchNumber busca el lote de (sede, producto) con ese número de lote.
	// Devuelve nil, nil si no existe.
	FindByBatchNumber(ctx context.Context, locationID, productID, batchNumber string) (*entity.StockBatch, error)
	// UpdateQtyOnHand escribe newQty solo si la fila aún tiene expectedQty
	// (compare-and-swap). Si la fila cambió o no existe, retorna domain.ErrStaleBatch.
	UpdateQtyOnHand(ctx context.Context, id string, expectedQty, newQty int64) error
	// RestoreQtyOnHand escribe qty sin condición. Solo lo usa la compensación:
	// última-cantidad-registrada gana al deshacer.
	RestoreQtyOnHand(ctx context.Context, id string, qty int64) error
	Insert(ctx context.Context, batch *entity.StockBatch) error
	Delete(ctx context.Context, id string) error
}
