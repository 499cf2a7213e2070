package repository

import (
	"context"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para el libro de ventas.
// Create persiste la venta con su detalle por lote; es el último paso de la
// operación de venta y no participa del protocolo de compensación.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale, items []*entity.SaleItem) error
	GetByID(ctx context.Context, id string) (*entity.Sale, []*entity.SaleItem, error)
	ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.Sale, error)
}
