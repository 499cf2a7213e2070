package stock

import (
	"context"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// QueryUseCase consultas de solo lectura sobre lotes y libro de ventas,
// con el mismo control de alcance por sede que las operaciones de escritura.
type QueryUseCase struct {
	batches   repository.StockBatchRepository
	sales     repository.SaleRepository
	hierarchy Hierarchy
}

// NewQueryUseCase construye el caso de uso de consulta.
func NewQueryUseCase(batches repository.StockBatchRepository, sales repository.SaleRepository, hierarchy Hierarchy) *QueryUseCase {
	return &QueryUseCase{batches: batches, sales: sales, hierarchy: hierarchy}
}

// ListBatches devuelve los lotes asignables de (sede, producto), en el mismo
// orden en que los consumiría una venta: vencimiento ascendente y luego llegada.
func (uc *QueryUseCase) ListBatches(ctx context.Context, userID, locationID, productID string) ([]*entity.StockBatch, error) {
	if locationID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkAccess(ctx, userID, locationID); err != nil {
		return nil, err
	}
	return uc.batches.FindCandidates(ctx, locationID, productID)
}

// ListSales lista las ventas registradas en una sede.
func (uc *QueryUseCase) ListSales(ctx context.Context, userID, locationID string, limit, offset int) ([]*entity.Sale, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkAccess(ctx, userID, locationID); err != nil {
		return nil, err
	}
	return uc.sales.ListByLocation(ctx, locationID, limit, offset)
}

func (uc *QueryUseCase) checkAccess(ctx context.Context, userID, locationID string) error {
	accessible, err := uc.hierarchy.AccessibleLocations(ctx, userID)
	if err != nil {
		return err
	}
	for _, id := range accessible {
		if id == locationID {
			return nil
		}
	}
	return domain.ErrForbidden
}
