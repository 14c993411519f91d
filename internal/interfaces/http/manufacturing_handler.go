package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/usecase"
	"github.com/jhoicas/taller-api/internal/domain"
)

// ManufacturingHandler maneja las peticiones HTTP de órdenes de manufactura (protegido).
type ManufacturingHandler struct {
	uc *usecase.ManufacturingUseCase
}

// NewManufacturingHandler construye el handler.
func NewManufacturingHandler(uc *usecase.ManufacturingUseCase) *ManufacturingHandler {
	return &ManufacturingHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de manufactura con sus órdenes de trabajo
// @Description  Genera una orden de trabajo planned por cada centro, en
//
//	secuencia 1..N.
//
// @Tags         manufacturing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateManufacturingOrderRequest  true  "product_id, quantity, work_center_ids"
// @Success      201   {object}  dto.ManufacturingOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders [post]
func (h *ManufacturingHandler) Create(c *fiber.Ctx) error {
	actor := GetUserID(c)
	var in dto.CreateManufacturingOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mo, err := h.uc.Create(c.Context(), actor, in)
	if err != nil {
		return mapManufacturingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mo)
}

// List godoc
// @Summary      Listar órdenes de manufactura
// @Tags         manufacturing
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Success      200  {array}  dto.ManufacturingOrderResponse
// @Router       /api/manufacturing-orders [get]
func (h *ManufacturingHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(list), "manufacturing_orders": list})
}

// GetByID godoc
// @Summary      Obtener orden de manufactura
// @Tags         manufacturing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.ManufacturingOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders/{id} [get]
func (h *ManufacturingHandler) GetByID(c *fiber.Ctx) error {
	mo, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapManufacturingError(c, err)
	}
	return c.JSON(mo)
}

// UpdateStatus godoc
// @Summary      Cambiar el estado de una orden de manufactura
// @Tags         manufacturing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  object  true  "status"
// @Success      200   {object}  dto.ManufacturingOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders/{id}/status [patch]
func (h *ManufacturingHandler) UpdateStatus(c *fiber.Ctx) error {
	var in struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mo, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return mapManufacturingError(c, err)
	}
	return c.JSON(mo)
}

func mapManufacturingError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrConflict:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "la orden está en estado terminal"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
