package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotes-api/internal/application/stock"
	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

func transferDeps() (*fakeProducts, *fakeLocations, *fakeHierarchy) {
	products := &fakeProducts{products: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", CompanyID: "co-1", SKU: "SKU-1", Name: "Queso campesino"},
	}}
	hq := "loc-hq"
	locations := &fakeLocations{locations: map[string]*entity.Location{
		"loc-hq": {ID: "loc-hq", CompanyID: "co-1", Name: "Principal", Kind: entity.LocationKindHQ},
		"loc-1":  {ID: "loc-1", CompanyID: "co-1", Name: "Sucursal Norte", Kind: entity.LocationKindBranch, ParentID: &hq},
	}}
	hier := &fakeHierarchy{accessible: []string{"loc-hq", "loc-1"}, directEdge: true}
	return products, locations, hier
}

func transferInput(qty int64) stock.TransferInput {
	return stock.TransferInput{
		CompanyID:      "co-1",
		UserID:         "user-1",
		FromLocationID: "loc-hq",
		ToLocationID:   "loc-1",
		ProductID:      "prod-1",
		Quantity:       qty,
	}
}

func TestTransferUseCase_TrasladoExitosoConserva(t *testing.T) {
	store := newMemBatchStore(
		mkBatch("a", "loc-hq", "L-A", 5, "2025-01-01"),
		mkBatch("b", "loc-hq", "L-B", 10, "2025-02-01"),
		mkBatch("d", "loc-1", "L-A", 2, "2025-01-01"), // L-A ya existe en destino
	)
	products, locations, hier := transferDeps()
	uc := stock.NewTransferUseCase(store, products, locations, hier, testLogger())

	preSource := store.totalAt("loc-hq", "prod-1")
	preDest := store.totalAt("loc-1", "prod-1")

	res, err := uc.Transfer(context.Background(), transferInput(8))
	require.NoError(t, err)

	// Conservación del traslado: lo que sale del origen entra al destino.
	assert.Equal(t, preSource-8, store.totalAt("loc-hq", "prod-1"))
	assert.Equal(t, preDest+8, store.totalAt("loc-1", "prod-1"))

	// L-A se fusiona con el lote existente; L-B se crea en destino.
	assert.EqualValues(t, 7, store.qty("d"))
	created, err := store.FindByBatchNumber(context.Background(), "loc-1", "prod-1", "L-B")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.EqualValues(t, 3, created.QtyOnHand)

	require.Len(t, res.Deductions, 2)
	assert.Equal(t, "L-A", res.Deductions[0].BatchNumber)
	assert.NotEmpty(t, res.Message)
}

// Propiedad de completitud del rollback: si el crédito falla después de que
// todas las deducciones quedaron en firme, los lotes del origen vuelven a sus
// cantidades previas y el destino no refleja ningún crédito.
func TestTransferUseCase_FalloDeCreditoRevierteTodo(t *testing.T) {
	store := newMemBatchStore(
		mkBatch("a", "loc-hq", "L-A", 5, "2025-01-01"),
		mkBatch("b", "loc-hq", "L-B", 10, "2025-02-01"),
	)
	products, locations, hier := transferDeps()
	uc := stock.NewTransferUseCase(store, products, locations, hier, testLogger())

	// Las dos deducciones consumen las llamadas 1 y 2; ambos créditos son
	// inserts (no hay lotes en destino), así que el insert inyectado falla.
	store.failInsert = true

	_, err := uc.Transfer(context.Background(), transferInput(8))
	require.Error(t, err)
	assert.ErrorIs(t, err, errInjected)

	assert.EqualValues(t, 5, store.qty("a"), "deducción revertida")
	assert.EqualValues(t, 10, store.qty("b"), "deducción revertida")
	assert.EqualValues(t, 0, store.totalAt("loc-1", "prod-1"), "sin créditos en destino")
}

// Crédito parcial: la primera entrada acredita (update) y la segunda falla.
// Debe revertirse el crédito aplicado y luego las deducciones del origen.
func TestTransferUseCase_CreditoParcialSeRevierte(t *testing.T) {
	store := newMemBatchStore(
		mkBatch("a", "loc-hq", "L-A", 5, "2025-01-01"),
		mkBatch("b", "loc-hq", "L-B", 10, "2025-02-01"),
		mkBatch("d", "loc-1", "L-A", 2, "2025-01-01"),
	)
	products, locations, hier := transferDeps()
	uc := stock.NewTransferUseCase(store, products, locations, hier, testLogger())

	store.failInsert = true // L-A se acredita por update; L-B intenta insert y falla

	_, err := uc.Transfer(context.Background(), transferInput(8))
	require.Error(t, err)

	assert.EqualValues(t, 5, store.qty("a"))
	assert.EqualValues(t, 10, store.qty("b"))
	assert.EqualValues(t, 2, store.qty("d"), "el crédito parcial sobre el lote existente se revierte")
}

func TestTransferUseCase_FalloDeDeduccionIntermedio(t *testing.T) {
	store := newMemBatchStore(
		mkBatch("a", "loc-hq", "L-A", 5, "2025-01-01"),
		mkBatch("b", "loc-hq", "L-B", 10, "2025-02-01"),
	)
	store.failUpdateAt = 2
	products, locations, hier := transferDeps()
	uc := stock.NewTransferUseCase(store, products, locations, hier, testLogger())

	_, err := uc.Transfer(context.Background(), transferInput(8))
	require.Error(t, err)

	assert.EqualValues(t, 5, store.qty("a"), "la deducción en firme se revierte")
	assert.EqualValues(t, 10, store.qty("b"))
	assert.EqualValues(t, 0, store.totalAt("loc-1", "prod-1"))
}

func TestTransferUseCase_EjeNoDirectoRechazado(t *testing.T) {
	store := newMemBatchStore(mkBatch("a", "loc-hq", "L-A", 5, "2025-01-01"))
	products, locations, hier := transferDeps()
	hier.directEdge = false
	uc := stock.NewTransferUseCase(store, products, locations, hier, testLogger())

	_, err := uc.Transfer(context.Background(), transferInput(3))
	assert.ErrorIs(t, err, domain.ErrInvalidEdge)
	assert.EqualValues(t, 5, store.qty("a"))
}

func TestTransferUseCase_Validaciones(t *testing.T) {
	store := newMemBatchStore(mkBatch("a", "loc-hq", "L-A", 5, "2025-01-01"))
	products, locations, hier := transferDeps()
	uc := stock.NewTransferUseCase(store, products, locations, hier, testLogger())

	cases := []struct {
		name    string
		mutate  func(*stock.TransferInput)
		wantErr error
	}{
		{"cantidad cero", func(in *stock.TransferInput) { in.Quantity = 0 }, domain.ErrInvalidInput},
		{"mismo origen y destino", func(in *stock.TransferInput) { in.ToLocationID = in.FromLocationID }, domain.ErrInvalidInput},
		{"sin origen", func(in *stock.TransferInput) { in.FromLocationID = "" }, domain.ErrInvalidInput},
		{"sin destino", func(in *stock.TransferInput) { in.ToLocationID = "" }, domain.ErrInvalidInput},
		{"producto inexistente", func(in *stock.TransferInput) { in.ProductID = "prod-x" }, domain.ErrNotFound},
		{"sede destino inexistente", func(in *stock.TransferInput) { in.ToLocationID = "loc-x" }, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := transferInput(3)
			tc.mutate(&in)
			_, err := uc.Transfer(context.Background(), in)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.EqualValues(t, 5, store.qty("a"), "sin mutaciones")
		})
	}
}

func TestTransferUseCase_StockInsuficienteSinMutaciones(t *testing.T) {
	store := newMemBatchStore(mkBatch("a", "loc-hq", "L-A", 5, "2025-01-01"))
	products, locations, hier := transferDeps()
	uc := stock.NewTransferUseCase(store, products, locations, hier, testLogger())

	_, err := uc.Transfer(context.Background(), transferInput(6))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.EqualValues(t, 5, store.qty("a"))
	assert.EqualValues(t, 0, store.totalAt("loc-1", "prod-1"))
}

func TestTransferUseCase_OrigenFueraDeAlcance(t *testing.T) {
	store := newMemBatchStore(mkBatch("a", "loc-hq", "L-A", 5, "2025-01-01"))
	products, locations, hier := transferDeps()
	hier.accessible = []string{"loc-1"} // el usuario no opera la sede origen
	uc := stock.NewTransferUseCase(store, products, locations, hier, testLogger())

	_, err := uc.Transfer(context.Background(), transferInput(3))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.EqualValues(t, 5, store.qty("a"))
}
