package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto perecedero o SKU del catálogo (multi-sede).
// El stock físico vive en StockBatch, por lote; aquí solo datos comerciales.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	TaxRate     decimal.Decimal // IVA Colombia: 0, 0.05 (5%), 0.19 (19%)
	UnitMeasure string
	ShelfLife   int // días de vida útil de referencia; informativo
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
