package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleRequest body para POST /api/stock/sales.
type SaleRequest struct {
	LocationID string          `json:"location_id" validate:"required,uuid"`
	ProductID  string          `json:"product_id" validate:"required,uuid"`
	Quantity   int64           `json:"qty" validate:"required,gt=0"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Currency   string          `json:"currency" validate:"omitempty,len=3"`
	SaleDate   *time.Time      `json:"sale_date"`
}

// TransferRequest body para POST /api/stock/transfers.
type TransferRequest struct {
	FromLocationID string `json:"from_location_id" validate:"required,uuid"`
	ToLocationID   string `json:"to_location_id" validate:"required,uuid"`
	ProductID      string `json:"product_id" validate:"required,uuid"`
	Quantity       int64  `json:"qty" validate:"required,gt=0"`
}

// DeductionDTO detalle de cuánto salió de cada lote.
type DeductionDTO struct {
	BatchNumber string    `json:"batch_no"`
	Quantity    int64     `json:"qty"`
	ExpiresAt   time.Time `json:"expiry_date"`
}

// SaleResponse respuesta de una venta exitosa.
type SaleResponse struct {
	Sale       SaleRecordDTO  `json:"sale_record"`
	Deductions []DeductionDTO `json:"deductions"`
}

// SaleRecordDTO registro del libro de ventas.
type SaleRecordDTO struct {
	ID         string          `json:"id"`
	LocationID string          `json:"location_id"`
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"qty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Currency   string          `json:"currency"`
	SaleDate   time.Time       `json:"sale_date"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TransferResponse respuesta de un traslado exitoso.
type TransferResponse struct {
	Deductions []DeductionDTO `json:"deductions"`
	Message    string         `json:"message"`
}

// BatchDTO salida de un lote disponible.
type BatchDTO struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	BatchNumber    string          `json:"batch_no"`
	QtyOnHand      int64           `json:"qty_on_hand"`
	QtyReserved    int64           `json:"qty_reserved"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	ManufacturedAt time.Time       `json:"manufactured_date"`
	ExpiresAt      time.Time       `json:"expiry_date"`
	Quality        string          `json:"quality"`
}

// InsufficientStockDTO payload del error de stock insuficiente.
type InsufficientStockDTO struct {
	Requested int64 `json:"requested"`
	Available int64 `json:"available"`
}
