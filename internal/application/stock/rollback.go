package stock

import (
	"context"

	"github.com/jhoicas/lotes-api/internal/domain/repository"
	"github.com/jhoicas/lotes-api/pkg/logger"
)

// Rollback deshace pasos ya aplicados cuando un paso posterior falla. Es la
// mitad compensatoria de la saga: el log de undo se reproduce en orden inverso
// (el paso más reciente primero), imitando un log de transacción manual.
type Rollback struct {
	batches repository.StockBatchRepository
	log     *logger.Logger
}

// NewRollback construye el compensador.
func NewRollback(batches repository.StockBatchRepository, log *logger.Logger) *Rollback {
	return &Rollback{batches: batches, log: log.Component("stock.rollback")}
}

// Undo revierte los registros en orden inverso, al mejor esfuerzo: cada paso se
// intenta de forma independiente y un fallo se registra pero no impide intentar
// los demás. Nunca retorna error al caller; un undo fallido deja el lote para
// conciliación manual (el registro queda en el log con todos los datos).
func (r *Rollback) Undo(ctx context.Context, records []UndoRecord) {
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		var err error
		switch rec.Kind {
		case UndoDeduct, UndoCreditUpdate:
			// Última-cantidad-registrada gana: escritura sin condición.
			err = r.batches.RestoreQtyOnHand(ctx, rec.BatchID, rec.QtyBefore)
		case UndoCreditInsert:
			err = r.batches.Delete(ctx, rec.BatchID)
		default:
			r.log.Error().Str("kind", rec.Kind).Str("batch_id", rec.BatchID).
				Msg("registro de undo con tipo desconocido, se omite")
			continue
		}
		if err != nil {
			r.log.Error().Err(err).
				Str("kind", rec.Kind).
				Str("batch_id", rec.BatchID).
				Int64("qty_before", rec.QtyBefore).
				Msg("fallo al deshacer paso, continúa con los restantes")
			continue
		}
		r.log.Debug().Str("kind", rec.Kind).Str("batch_id", rec.BatchID).Msg("paso revertido")
	}
}
