package stock_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. Emulan el almacén remoto fila a fila: lecturas devuelven
// copias, la escritura condicional compara contra la cantidad esperada y se
// puede inyectar un fallo en la N-ésima escritura para probar la compensación.
// ──────────────────────────────────────────────────────────────────────────────

var errInjected = errors.New("fallo inyectado")

type memBatchStore struct {
	mu      sync.Mutex
	batches map[string]*entity.StockBatch
	order   map[string]int // orden de llegada para el desempate del query
	seq     int

	// inyección de fallos
	failUpdateAt  int // falla la N-ésima llamada a UpdateQtyOnHand (1-based; 0 = nunca)
	updateCalls   int
	failInsert    bool
	failRestoreID string // RestoreQtyOnHand falla para este lote
	failDeleteID  string // Delete falla para este lote
}

var _ repository.StockBatchRepository = (*memBatchStore)(nil)

func newMemBatchStore(batches ...*entity.StockBatch) *memBatchStore {
	s := &memBatchStore{batches: map[string]*entity.StockBatch{}, order: map[string]int{}}
	for _, b := range batches {
		s.put(b)
	}
	return s
}

func (s *memBatchStore) put(b *entity.StockBatch) {
	copied := *b
	s.batches[b.ID] = &copied
	s.order[b.ID] = s.seq
	s.seq++
}

func (s *memBatchStore) GetByID(_ context.Context, id string) (*entity.StockBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (s *memBatchStore) FindCandidates(_ context.Context, locationID, productID string) ([]*entity.StockBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.StockBatch
	for _, b := range s.batches {
		if b.LocationID == locationID && b.ProductID == productID && b.Allocatable() {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiresAt.Equal(out[j].ExpiresAt) {
			return out[i].ExpiresAt.Before(out[j].ExpiresAt)
		}
		return s.order[out[i].ID] < s.order[out[j].ID]
	})
	return out, nil
}

func (s *memBatchStore) FindByBatchNumber(_ context.Context, locationID, productID, batchNumber string) (*entity.StockBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.batches {
		if b.LocationID == locationID && b.ProductID == productID && b.BatchNumber == batchNumber {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memBatchStore) UpdateQtyOnHand(_ context.Context, id string, expectedQty, newQty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if s.failUpdateAt > 0 && s.updateCalls == s.failUpdateAt {
		return errInjected
	}
	b, ok := s.batches[id]
	if !ok || b.QtyOnHand != expectedQty {
		return domain.ErrStaleBatch
	}
	b.QtyOnHand = newQty
	return nil
}

func (s *memBatchStore) RestoreQtyOnHand(_ context.Context, id string, qty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == s.failRestoreID {
		return errInjected
	}
	b, ok := s.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.QtyOnHand = qty
	return nil
}

func (s *memBatchStore) Insert(_ context.Context, batch *entity.StockBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert {
		return errInjected
	}
	if _, exists := s.batches[batch.ID]; exists {
		return domain.ErrDuplicate
	}
	s.put(batch)
	return nil
}

func (s *memBatchStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == s.failDeleteID {
		return errInjected
	}
	if _, ok := s.batches[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.batches, id)
	return nil
}

// qty devuelve la cantidad actual de un lote (0 si no existe).
func (s *memBatchStore) qty(id string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.batches[id]; ok {
		return b.QtyOnHand
	}
	return 0
}

// totalAt suma el stock de (sede, producto) sobre todos los lotes.
func (s *memBatchStore) totalAt(locationID, productID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, b := range s.batches {
		if b.LocationID == locationID && b.ProductID == productID {
			total += b.QtyOnHand
		}
	}
	return total
}

// ──────────────────────────────────────────────────────────────────────────────

type memSaleRepo struct {
	mu         sync.Mutex
	sales      []*entity.Sale
	items      map[string][]*entity.SaleItem
	failCreate bool
}

var _ repository.SaleRepository = (*memSaleRepo)(nil)

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{items: map[string][]*entity.SaleItem{}}
}

func (r *memSaleRepo) Create(_ context.Context, sale *entity.Sale, items []*entity.SaleItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errInjected
	}
	r.sales = append(r.sales, sale)
	r.items[sale.ID] = items
	return nil
}

func (r *memSaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, []*entity.SaleItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.ID == id {
			return s, r.items[id], nil
		}
	}
	return nil, nil, nil
}

func (r *memSaleRepo) ListByLocation(_ context.Context, locationID string, limit, offset int) ([]*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Sale
	for _, s := range r.sales {
		if s.LocationID == locationID {
			out = append(out, s)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────

// fakeProducts solo implementa GetByID; el resto de la interfaz no se usa aquí.
type fakeProducts struct {
	repository.ProductRepository
	products map[string]*entity.Product
}

func (f *fakeProducts) GetByID(id string) (*entity.Product, error) {
	return f.products[id], nil
}

// fakeLocations implementa GetByID y ListChildren sobre un mapa.
type fakeLocations struct {
	repository.LocationRepository
	locations map[string]*entity.Location
}

func (f *fakeLocations) GetByID(id string) (*entity.Location, error) {
	return f.locations[id], nil
}

func (f *fakeLocations) ListChildren(parentID string) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, loc := range f.locations {
		if loc.ParentID != nil && *loc.ParentID == parentID {
			out = append(out, loc)
		}
	}
	return out, nil
}

// fakeHierarchy responde con valores fijos configurados por el test.
type fakeHierarchy struct {
	accessible []string
	directEdge bool
	err        error
}

func (f *fakeHierarchy) IsDirectEdge(_ context.Context, _, _ string) (bool, error) {
	return f.directEdge, f.err
}

func (f *fakeHierarchy) AccessibleLocations(_ context.Context, _ string) ([]string, error) {
	return f.accessible, f.err
}
