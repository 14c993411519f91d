package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/workorder"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// WorkOrderHandler maneja las peticiones HTTP de órdenes de trabajo (protegido).
type WorkOrderHandler struct {
	uc *workorder.UseCase
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(uc *workorder.UseCase) *WorkOrderHandler {
	return &WorkOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkOrderRequest  true  "work_center_id, operation, priority"
// @Success      201   {object}  dto.WorkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/work-orders [post]
func (h *WorkOrderHandler) Create(c *fiber.Ctx) error {
	actor := GetUserID(c)
	var in dto.CreateWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Create(c.Context(), actor, in)
	if err != nil {
		return mapWorkOrderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// List godoc
// @Summary      Listar órdenes de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "Filtrar por estado"
// @Param        work_center  query  string  false  "Filtrar por centro"
// @Param        priority     query  string  false  "Filtrar por prioridad"
// @Success      200  {array}  dto.WorkOrderResponse
// @Router       /api/work-orders [get]
func (h *WorkOrderHandler) List(c *fiber.Ctx) error {
	var in dto.ListWorkOrdersRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	in.DefaultPage()
	orders, err := h.uc.List(c.Context(), repository.WorkOrderFilter{
		Status:       in.Status,
		WorkCenterID: in.WorkCenterID,
		Priority:     in.Priority,
		Limit:        in.Limit,
		Offset:       in.Offset,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(orders), "work_orders": orders})
}

// GetByID godoc
// @Summary      Obtener orden de trabajo con time tracking e incidencias
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id} [get]
func (h *WorkOrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapWorkOrderError(c, err)
	}
	return c.JSON(order)
}

// Transition godoc
// @Summary      Transicionar el estado de una orden de trabajo
// @Description  started sincroniza la ocupación del centro (guardia de doble
//
//	ocupación); completed libera el centro y fija progreso 100.
//
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la orden"
// @Param        body  body  dto.TransitionRequest  true  "status destino + comentario"
// @Success      200   {object}  dto.WorkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/status [patch]
func (h *WorkOrderHandler) Transition(c *fiber.Ctx) error {
	actor := GetUserID(c)
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Transition(c.Context(), c.Params("id"), in.Status, in.Comment, actor)
	if err != nil {
		return mapWorkOrderError(c, err)
	}
	return c.JSON(order)
}

// ReportIssue godoc
// @Summary      Reportar incidencia sobre una orden (la pasa a delayed)
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la orden"
// @Param        body  body  dto.ReportIssueRequest  true  "description"
// @Success      200   {object}  dto.WorkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/issues [post]
func (h *WorkOrderHandler) ReportIssue(c *fiber.Ctx) error {
	actor := GetUserID(c)
	var in dto.ReportIssueRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.ReportIssue(c.Context(), c.Params("id"), in.Description, actor)
	if err != nil {
		return mapWorkOrderError(c, err)
	}
	return c.JSON(order)
}

// Assign godoc
// @Summary      Asignar operario a una orden (sin cambiar su estado)
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la orden"
// @Param        body  body  dto.AssignRequest  true  "operator_id"
// @Success      200   {object}  dto.WorkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/assign [patch]
func (h *WorkOrderHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Assign(c.Context(), c.Params("id"), in.OperatorID)
	if err != nil {
		return mapWorkOrderError(c, err)
	}
	return c.JSON(order)
}

// GetByQR godoc
// @Summary      Resolver un código QR de planta a su orden activa
// @Description  Acepta el QR de una orden (WO_*) o de un centro (WC_*); para
//
//	centros devuelve la orden en ejecución en ese centro.
//
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código QR textual"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/work-orders/qr/{code} [get]
func (h *WorkOrderHandler) GetByQR(c *fiber.Ctx) error {
	order, err := h.uc.GetByQR(c.Context(), c.Params("code"))
	if err != nil {
		return mapWorkOrderError(c, err)
	}
	return c.JSON(order)
}

// mapWorkOrderError traduce errores de dominio a códigos HTTP.
func mapWorkOrderError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrInvalidTransition:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "transición de estado no permitida"})
	case domain.ErrWorkCenterBusy:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "WORK_CENTER_BUSY", Message: "el centro de trabajo está ocupado por otra orden"})
	case domain.ErrConflict:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de estado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
