package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/ledger"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// LedgerHandler maneja las peticiones HTTP del libro de inventario (protegido).
type LedgerHandler struct {
	uc    *ledger.AppendEntryUseCase
	pdfUC *ledger.KardexPDFUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.AppendEntryUseCase, pdfUC *ledger.KardexPDFUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc, pdfUC: pdfUC}
}

// Append godoc
// @Summary      Registrar asiento en el libro de inventario
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AppendEntryRequest  true  "product_id, type (in|out|adjustment), quantity, reference"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/entries [post]
func (h *LedgerHandler) Append(c *fiber.Ctx) error {
	actor := GetUserID(c)
	if actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AppendEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.AppendFromRequest(c.Context(), actor, in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		if err == domain.ErrInsufficientStock {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// List godoc
// @Summary      Consultar el libro de inventario
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        type        query  string  false  "Filtrar por tipo (in|out|adjustment)"
// @Param        start_date  query  string  false  "Desde (RFC 3339 o YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta (RFC 3339 o YYYY-MM-DD)"
// @Success      200  {array}   dto.LedgerEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/entries [get]
func (h *LedgerHandler) List(c *fiber.Ctx) error {
	var in dto.ListLedgerRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	in.DefaultPage()

	filter := repository.LedgerFilter{
		ProductID: in.ProductID,
		Kind:      in.Type,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	if in.StartDate != "" {
		t, err := parseDate(in.StartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start_date inválida"})
		}
		filter.From = &t
	}
	if in.EndDate != "" {
		t, err := parseDate(in.EndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "end_date inválida"})
		}
		filter.To = &t
	}

	entries, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(entries), "entries": entries})
}

// ProductMovement godoc
// @Summary      Kardex de un producto (historial completo de asientos)
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {array}   dto.LedgerEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/products/{id}/entries [get]
func (h *LedgerHandler) ProductMovement(c *fiber.Ctx) error {
	entries, err := h.uc.ProductMovement(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(entries), "entries": entries})
}

// CurrentStock godoc
// @Summary      Balance actual de los productos activos (paginado)
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.CurrentStockResponse
// @Router       /api/ledger/stock [get]
func (h *LedgerHandler) CurrentStock(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	stock, err := h.uc.CurrentStock(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(stock)
}

// KardexPDF godoc
// @Summary      Kardex de un producto en PDF
// @Tags         ledger
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/products/{id}/kardex.pdf [get]
func (h *LedgerHandler) KardexPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.pdfUC.Generate(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// parseDate acepta RFC 3339 o fecha simple YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
