package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/allocation"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
	"github.com/jhoicas/lotes-api/pkg/logger"
)

// Deduction resume cuánto salió de cada lote en una operación exitosa.
type Deduction struct {
	BatchNumber string
	Quantity    int64
	ExpiresAt   time.Time
}

func deductionsFromPlan(plan allocation.Plan) []Deduction {
	out := make([]Deduction, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		out = append(out, Deduction{BatchNumber: e.BatchNumber, Quantity: e.Quantity, ExpiresAt: e.ExpiresAt})
	}
	return out
}

// SaleInput entrada para ejecutar una venta en punto de venta.
type SaleInput struct {
	CompanyID  string
	UserID     string
	LocationID string
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	Currency   string // default COP
	SaleDate   time.Time
}

// SaleResult venta registrada más el detalle de lotes descontados.
type SaleResult struct {
	Sale       *entity.Sale
	Deductions []Deduction
}

// SaleUseCase orquesta la venta: valida, planifica (FIFO por vencimiento),
// descuenta lote a lote y, solo con todo el stock en firme, crea el registro
// en el libro de ventas.
type SaleUseCase struct {
	batches   repository.StockBatchRepository
	sales     repository.SaleRepository
	products  repository.ProductRepository
	hierarchy Hierarchy
	deduct    *DeductionExecutor
	rollback  *Rollback
	log       *logger.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	batches repository.StockBatchRepository,
	sales repository.SaleRepository,
	products repository.ProductRepository,
	hierarchy Hierarchy,
	log *logger.Logger,
) *SaleUseCase {
	return &SaleUseCase{
		batches:   batches,
		sales:     sales,
		products:  products,
		hierarchy: hierarchy,
		deduct:    NewDeductionExecutor(batches),
		rollback:  NewRollback(batches, log),
		log:       log.Component("stock.sale"),
	}
}

// Sell ejecuta la venta completa. Si la asignación no alcanza retorna
// InsufficientStockError sin tocar nada; si una deducción falla a mitad de
// camino compensa lo ya aplicado; si el libro de ventas falla después de
// descontar stock, NO se revierte: retorna ErrLedgerInconsistency y deja el
// detalle en el log para conciliación manual.
func (uc *SaleUseCase) Sell(ctx context.Context, input SaleInput) (*SaleResult, error) {
	if input.Quantity <= 0 || input.LocationID == "" || input.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if input.Currency == "" {
		input.Currency = "COP"
	}
	if input.SaleDate.IsZero() {
		input.SaleDate = time.Now()
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

	if err := uc.checkAccess(ctx, input.UserID, input.LocationID); err != nil {
		return nil, err
	}

	// Candidatos ya filtrados (calidad OK, cantidad > 0) y ordenados por
	// vencimiento ascendente; el plan es determinístico sobre ese orden.
	candidates, err := uc.batches.FindCandidates(ctx, input.LocationID, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("consultar lotes candidatos: %w", err)
	}
	plan, err := allocation.BuildPlan(candidates, input.Quantity)
	if err != nil {
		return nil, err
	}

	undo, err := uc.deduct.Apply(ctx, plan)
	if err != nil {
		uc.rollback.Undo(ctx, undo)
		return nil, fmt.Errorf("deducción de venta: %w", err)
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		CompanyID:  input.CompanyID,
		LocationID: input.LocationID,
		ProductID:  input.ProductID,
		Quantity:   input.Quantity,
		UnitPrice:  input.UnitPrice,
		Currency:   input.Currency,
		SaleDate:   input.SaleDate,
		CreatedAt:  now,
		CreatedBy:  input.UserID,
	}
	items := make([]*entity.SaleItem, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		items = append(items, &entity.SaleItem{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			BatchID:     e.BatchID,
			BatchNumber: e.BatchNumber,
			Quantity:    e.Quantity,
			ExpiresAt:   e.ExpiresAt,
		})
	}
	if err := uc.sales.Create(ctx, sale, items); err != nil {
		// El stock ya salió en firme y el registro contable no existe: estado
		// divergente que se reporta distinto de un fallo ordinario.
		uc.log.Error().Err(err).
			Str("sale_id", sale.ID).
			Str("location_id", input.LocationID).
			Str("product_id", input.ProductID).
			Int64("quantity", input.Quantity).
			Msg("stock descontado sin registro de venta, conciliar manualmente")
		return nil, fmt.Errorf("crear registro de venta: %w", domain.ErrLedgerInconsistency)
	}

	return &SaleResult{Sale: sale, Deductions: deductionsFromPlan(plan)}, nil
}

func (uc *SaleUseCase) checkAccess(ctx context.Context, userID, locationID string) error {
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
