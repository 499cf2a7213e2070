package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-api/internal/application/dto"
	"github.com/jhoicas/lotes-api/internal/application/stock"
	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/allocation"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// StockHandler maneja ventas, traslados y consultas de lotes (protegido).
type StockHandler struct {
	saleUC     *stock.SaleUseCase
	transferUC *stock.TransferUseCase
	queryUC    *stock.QueryUseCase
}

// NewStockHandler construye el handler de stock.
func NewStockHandler(saleUC *stock.SaleUseCase, transferUC *stock.TransferUseCase, queryUC *stock.QueryUseCase) *StockHandler {
	return &StockHandler{saleUC: saleUC, transferUC: transferUC, queryUC: queryUC}
}

// Sell godoc
// @Summary      Registrar venta (descuenta lotes FIFO por vencimiento)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "Datos de la venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente o lote modificado concurrentemente"
// @Router       /api/stock/sales [post]
func (h *StockHandler) Sell(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := stock.SaleInput{
		CompanyID:  companyID,
		UserID:     GetUserID(c),
		LocationID: in.LocationID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		Currency:   in.Currency,
	}
	if in.SaleDate != nil {
		input.SaleDate = *in.SaleDate
	}
	result, err := h.saleUC.Sell(c.Context(), input)
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaleResponse{
		Sale:       toSaleRecordDTO(result.Sale),
		Deductions: toDeductionDTOs(result.Deductions),
	})
}

// Transfer godoc
// @Summary      Trasladar stock entre sedes padre-hija
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "Datos del traslado"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse  "sin acceso o sedes sin relación directa"
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.transferUC.Transfer(c.Context(), stock.TransferInput{
		CompanyID:      companyID,
		UserID:         GetUserID(c),
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(dto.TransferResponse{
		Deductions: toDeductionDTOs(result.Deductions),
		Message:    result.Message,
	})
}

// ListBatches godoc
// @Summary      Listar lotes asignables de una sede y producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true  "ID de la sede"
// @Param        product_id   query  string  true  "ID del producto"
// @Success      200  {array}  dto.BatchDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/batches [get]
func (h *StockHandler) ListBatches(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	productID := c.Query("product_id")
	batches, err := h.queryUC.ListBatches(c.Context(), GetUserID(c), locationID, productID)
	if err != nil {
		return stockError(c, err)
	}
	out := make([]dto.BatchDTO, 0, len(batches))
	for _, b := range batches {
		out = append(out, toBatchDTO(b))
	}
	return c.JSON(out)
}

// ListSales godoc
// @Summary      Listar ventas de una sede
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true  "ID de la sede"
// @Param        limit        query  int     false "Límite"  default(20)
// @Param        offset       query  int     false "Offset"  default(0)
// @Success      200  {array}  dto.SaleRecordDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/sales [get]
func (h *StockHandler) ListSales(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	sales, err := h.queryUC.ListSales(c.Context(), GetUserID(c), locationID, page.Limit, page.Offset)
	if err != nil {
		return stockError(c, err)
	}
	out := make([]dto.SaleRecordDTO, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleRecordDTO(s))
	}
	return c.JSON(out)
}

// stockError traduce errores del motor de stock a respuestas HTTP.
// ErrLedgerInconsistency lleva código propio: el stock ya salió pero la venta
// no quedó registrada, y el operador debe saberlo en vez de reintentar a ciegas.
func stockError(c *fiber.Ctx, err error) error {
	var insufficient *allocation.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":    "INSUFFICIENT_STOCK",
			"message": insufficient.Error(),
			"detail": dto.InsufficientStockDTO{
				Requested: insufficient.Requested,
				Available: insufficient.Available,
			},
		})
	}
	switch {
	case errors.Is(err, domain.ErrLedgerInconsistency):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "LEDGER_INCONSISTENCY", Message: "stock descontado pero venta no registrada; requiere conciliación manual"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidEdge):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "INVALID_EDGE", Message: "las sedes no tienen relación padre-hija directa"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "sede fuera del alcance del usuario"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrStaleBatch):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STALE_BATCH", Message: "un lote fue modificado concurrentemente, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toDeductionDTOs(deductions []stock.Deduction) []dto.DeductionDTO {
	out := make([]dto.DeductionDTO, 0, len(deductions))
	for _, d := range deductions {
		out = append(out, dto.DeductionDTO{BatchNumber: d.BatchNumber, Quantity: d.Quantity, ExpiresAt: d.ExpiresAt})
	}
	return out
}

func toSaleRecordDTO(s *entity.Sale) dto.SaleRecordDTO {
	return dto.SaleRecordDTO{
		ID:         s.ID,
		LocationID: s.LocationID,
		ProductID:  s.ProductID,
		Quantity:   s.Quantity,
		UnitPrice:  s.UnitPrice,
		Currency:   s.Currency,
		SaleDate:   s.SaleDate,
		CreatedAt:  s.CreatedAt,
	}
}

func toBatchDTO(b *entity.StockBatch) dto.BatchDTO {
	return dto.BatchDTO{
		ID:             b.ID,
		ProductID:      b.ProductID,
		LocationID:     b.LocationID,
		BatchNumber:    b.BatchNumber,
		QtyOnHand:      b.QtyOnHand,
		QtyReserved:    b.QtyReserved,
		UnitCost:       b.UnitCost,
		ManufacturedAt: b.ManufacturedAt,
		ExpiresAt:      b.ExpiresAt,
		Quality:        b.Quality,
	}
}
