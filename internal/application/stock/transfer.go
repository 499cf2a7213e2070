package stock

import (
	"context"
	"fmt"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/allocation"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
	"github.com/jhoicas/lotes-api/pkg/logger"
)

// TransferInput entrada para un traslado entre sedes.
type TransferInput struct {
	CompanyID      string
	UserID         string
	FromLocationID string
	ToLocationID   string
	ProductID      string
	Quantity       int64
}

// TransferResult resumen del traslado: qué lotes salieron del origen (y
// entraron, con el mismo número de lote, en el destino).
type TransferResult struct {
	Deductions []Deduction
	Message    string
}

// TransferUseCase orquesta el traslado: valida el eje en la jerarquía,
// planifica contra el origen, descuenta allí y acredita en destino. Cualquier
// fallo a mitad de camino compensa todo lo aplicado, créditos primero y luego
// deducciones (el paso más reciente se deshace primero).
type TransferUseCase struct {
	batches   repository.StockBatchRepository
	products  repository.ProductRepository
	locations repository.LocationRepository
	hierarchy Hierarchy
	deduct    *DeductionExecutor
	credit    *CreditExecutor
	rollback  *Rollback
	log       *logger.Logger
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	batches repository.StockBatchRepository,
	products repository.ProductRepository,
	locations repository.LocationRepository,
	hierarchy Hierarchy,
	log *logger.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		batches:   batches,
		products:  products,
		locations: locations,
		hierarchy: hierarchy,
		deduct:    NewDeductionExecutor(batches),
		credit:    NewCreditExecutor(batches),
		rollback:  NewRollback(batches, log),
		log:       log.Component("stock.transfer"),
	}
}

// Transfer ejecuta el traslado completo.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.Quantity <= 0 || input.ProductID == "" ||
		input.FromLocationID == "" || input.ToLocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.FromLocationID == input.ToLocationID {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.products.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != input.CompanyID {
		return nil, domain.ErrForbidden
	}

	from, err := uc.locations.GetByID(input.FromLocationID)
	if err != nil {
		return nil, err
	}
	to, err := uc.locations.GetByID(input.ToLocationID)
	if err != nil {
		return nil, err
	}
	if from == nil || to == nil || from.CompanyID != input.CompanyID || to.CompanyID != input.CompanyID {
		return nil, domain.ErrNotFound
	}

	// Solo se traslada entre sedes con relación padre-hija directa.
	direct, err := uc.hierarchy.IsDirectEdge(ctx, input.FromLocationID, input.ToLocationID)
	if err != nil {
		return nil, err
	}
	if !direct {
		return nil, domain.ErrInvalidEdge
	}
	if err := uc.checkAccess(ctx, input.UserID, input.FromLocationID); err != nil {
		return nil, err
	}

	candidates, err := uc.batches.FindCandidates(ctx, input.FromLocationID, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("consultar lotes candidatos: %w", err)
	}
	plan, err := allocation.BuildPlan(candidates, input.Quantity)
	if err != nil {
		return nil, err
	}

	sourceUndo, err := uc.deduct.Apply(ctx, plan)
	if err != nil {
		uc.rollback.Undo(ctx, sourceUndo)
		return nil, fmt.Errorf("deducción en origen: %w", err)
	}

	creditUndo, err := uc.credit.Apply(ctx, plan, input.CompanyID, input.ToLocationID, input.ProductID)
	if err != nil {
		// Créditos parciales primero, luego las deducciones del origen:
		// orden inverso global de aplicación.
		uc.rollback.Undo(ctx, creditUndo)
		uc.rollback.Undo(ctx, sourceUndo)
		return nil, fmt.Errorf("crédito en destino: %w", err)
	}

	uc.log.Info().
		Str("from", input.FromLocationID).
		Str("to", input.ToLocationID).
		Str("product_id", input.ProductID).
		Int64("quantity", input.Quantity).
		Int("batches", len(plan.Entries)).
		Msg("traslado completado")

	return &TransferResult{
		Deductions: deductionsFromPlan(plan),
		Message: fmt.Sprintf("trasladadas %d unidades de %s a %s en %d lote(s)",
			input.Quantity, from.Name, to.Name, len(plan.Entries)),
	}, nil
}

func (uc *TransferUseCase) checkAccess(ctx context.Context, userID, locationID string) error {
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
