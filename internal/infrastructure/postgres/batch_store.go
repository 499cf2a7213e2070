package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ repository.StockBatchRepository = (*BatchStore)(nil)

const batchColumns = `id, company_id, product_id, location_id, batch_no, quantity_on_hand,
	quantity_reserved, unit_cost, manufactured_at, expires_at, quality, created_at, updated_at`

// BatchStore implementación del puerto StockBatchRepository sobre PostgreSQL.
// Solo escrituras fila a fila: el control de concurrencia es compare-and-swap
// sobre quantity_on_hand, nunca SELECT FOR UPDATE ni transacciones multi-fila.
type BatchStore struct {
	q Querier
}

// NewBatchStore construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchStore(q Querier) *BatchStore {
	return &BatchStore{q: q}
}

// GetByID obtiene un lote por ID. Devuelve nil, nil si no existe.
func (r *BatchStore) GetByID(ctx context.Context, id string) (*entity.StockBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM stock_batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// FindCandidates devuelve los lotes asignables de (sede, producto): calidad OK
// y cantidad > 0, ordenados por vencimiento ascendente y a igual vencimiento
// por orden de llegada. El desempate por id mantiene el orden estable.
func (r *BatchStore) FindCandidates(ctx context.Context, locationID, productID string) ([]*entity.StockBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM stock_batches
		WHERE location_id = $1 AND product_id = $2 AND quality = $3 AND quantity_on_hand > 0
		ORDER BY expires_at ASC, created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, locationID, productID, entity.QualityOK)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// FindByBatchNumber busca el lote de (sede, producto) con ese número de lote.
// Devuelve nil, nil si no existe.
func (r *BatchStore) FindByBatchNumber(ctx context.Context, locationID, productID, batchNumber string) (*entity.StockBatch, error) {
	query := `SELECT ` + batchColumns + `
		FROM stock_batches
		WHERE location_id = $1 AND product_id = $2 AND batch_no = $3`
	b, err := scanBatch(r.q.QueryRow(ctx, query, locationID, productID, batchNumber))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch by batch_no: %w", err)
	}
	return b, nil
}

// UpdateQtyOnHand escribe newQty solo si la fila aún tiene expectedQty.
// Si la fila cambió por otra operación concurrente (o no existe), el WHERE no
// matchea y se retorna domain.ErrStaleBatch para que el llamador replanifique.
func (r *BatchStore) UpdateQtyOnHand(ctx context.Context, id string, expectedQty, newQty int64) error {
	query := `
		UPDATE stock_batches SET quantity_on_hand = $2, updated_at = now()
		WHERE id = $1 AND quantity_on_hand = $3`
	cmd, err := r.q.Exec(ctx, query, id, newQty, expectedQty)
	if err != nil {
		return fmt.Errorf("update batch qty: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrStaleBatch
	}
	return nil
}

// RestoreQtyOnHand escribe qty sin condición: lo usa solo la compensación,
// donde la última cantidad registrada gana.
func (r *BatchStore) RestoreQtyOnHand(ctx context.Context, id string, qty int64) error {
	query := `UPDATE stock_batches SET quantity_on_hand = $2, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, qty)
	if err != nil {
		return fmt.Errorf("restore batch qty: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Insert persiste un lote nuevo.
func (r *BatchStore) Insert(ctx context.Context, batch *entity.StockBatch) error {
	query := `
		INSERT INTO stock_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		batch.ID, batch.CompanyID, batch.ProductID, batch.LocationID, batch.BatchNumber,
		batch.QtyOnHand, batch.QtyReserved, batch.UnitCost, batch.ManufacturedAt,
		batch.ExpiresAt, batch.Quality, batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// Delete elimina un lote. Lo usa la compensación para deshacer inserts de traslado.
func (r *BatchStore) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM stock_batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (*entity.StockBatch, error) {
	var b entity.StockBatch
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.ProductID, &b.LocationID, &b.BatchNumber,
		&b.QtyOnHand, &b.QtyReserved, &b.UnitCost, &b.ManufacturedAt,
		&b.ExpiresAt, &b.Quality, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
