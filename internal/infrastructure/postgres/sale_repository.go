package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador del libro de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta con su detalle por lote. La cabecera y el detalle
// van en inserts consecutivos; si el detalle falla la venta queda registrada
// sin trazabilidad completa y el error sube al llamador.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale, items []*entity.SaleItem) error {
	query := `
		INSERT INTO sales (id, company_id, location_id, product_id, quantity, unit_price, currency, sale_date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.CompanyID, sale.LocationID, sale.ProductID, sale.Quantity,
		sale.UnitPrice, sale.Currency, sale.SaleDate, sale.CreatedAt, sale.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	itemQuery := `
		INSERT INTO sale_items (id, sale_id, batch_id, batch_no, quantity, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, it := range items {
		_, err := r.q.Exec(ctx, itemQuery,
			it.ID, it.SaleID, it.BatchID, it.BatchNumber, it.Quantity, it.ExpiresAt,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta con su detalle por lote.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, []*entity.SaleItem, error) {
	query := `
		SELECT id, company_id, location_id, product_id, quantity, unit_price, currency, sale_date, created_at, created_by
		FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.CompanyID, &s.LocationID, &s.ProductID, &s.Quantity,
		&s.UnitPrice, &s.Currency, &s.SaleDate, &s.CreatedAt, &s.CreatedBy,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("get sale: %w", err)
	}

	itemQuery := `
		SELECT id, sale_id, batch_id, batch_no, quantity, expires_at
		FROM sale_items WHERE sale_id = $1 ORDER BY expires_at ASC`
	rows, err := r.q.Query(ctx, itemQuery, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	var items []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.BatchID, &it.BatchNumber, &it.Quantity, &it.ExpiresAt); err != nil {
			return nil, nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, &it)
	}
	return &s, items, rows.Err()
}

// ListByLocation lista ventas de una sede, más recientes primero.
func (r *SaleRepo) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT id, company_id, location_id, product_id, quantity, unit_price, currency, sale_date, created_at, created_by
		FROM sales WHERE location_id = $1 ORDER BY sale_date DESC, created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.LocationID, &s.ProductID, &s.Quantity,
			&s.UnitPrice, &s.Currency, &s.SaleDate, &s.CreatedAt, &s.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
