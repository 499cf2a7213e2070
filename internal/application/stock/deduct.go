package stock

import (
	"context"
	"fmt"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/allocation"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// DeductionExecutor aplica un plan de deducción contra el almacén de lotes,
// un lote a la vez, registrando lo necesario para deshacer cada paso.
type DeductionExecutor struct {
	batches repository.StockBatchRepository
}

// NewDeductionExecutor construye el ejecutor.
func NewDeductionExecutor(batches repository.StockBatchRepository) *DeductionExecutor {
	return &DeductionExecutor{batches: batches}
}

// Apply descuenta cada entrada del plan en orden. Por entrada: relee el lote
// (para no actuar sobre datos viejos), y escribe cantidad-leída - a-descontar
// con escritura condicional sobre la cantidad leída.
//
// Al primer fallo se detiene y devuelve los UndoRecords acumulados ANTES del
// paso fallido: ese paso no dejó cambio durable y no necesita undo. El caller
// es responsable de invocar la compensación sobre los registros devueltos.
func (ex *DeductionExecutor) Apply(ctx context.Context, plan allocation.Plan) ([]UndoRecord, error) {
	undo := make([]UndoRecord, 0, len(plan.Entries))

	for _, e := range plan.Entries {
		b, err := ex.batches.GetByID(ctx, e.BatchID)
		if err != nil {
			return undo, fmt.Errorf("releer lote %s: %w", e.BatchID, err)
		}
		if b == nil {
			return undo, fmt.Errorf("releer lote %s: %w", e.BatchID, domain.ErrNotFound)
		}
		if b.QtyOnHand < e.Quantity {
			// Otro proceso consumió el lote entre el plan y la ejecución.
			return undo, fmt.Errorf("lote %s: %w", e.BatchID, domain.ErrStaleBatch)
		}
		if err := ex.batches.UpdateQtyOnHand(ctx, b.ID, b.QtyOnHand, b.QtyOnHand-e.Quantity); err != nil {
			return undo, fmt.Errorf("descontar lote %s: %w", b.ID, err)
		}
		undo = append(undo, UndoRecord{Kind: UndoDeduct, BatchID: b.ID, QtyBefore: b.QtyOnHand})
	}

	return undo, nil
}
