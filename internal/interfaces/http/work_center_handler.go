package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/shopfloor"
	"github.com/jhoicas/taller-api/internal/application/usecase"
	"github.com/jhoicas/taller-api/internal/domain"
)

// WorkCenterHandler maneja las peticiones HTTP de centros de trabajo y la
// vista del taller (protegido).
type WorkCenterHandler struct {
	uc          *usecase.WorkCenterUseCase
	shopFloorUC *shopfloor.UseCase
}

// NewWorkCenterHandler construye el handler.
func NewWorkCenterHandler(uc *usecase.WorkCenterUseCase, shopFloorUC *shopfloor.UseCase) *WorkCenterHandler {
	return &WorkCenterHandler{uc: uc, shopFloorUC: shopFloorUC}
}

// Create godoc
// @Summary      Crear centro de trabajo
// @Tags         work-centers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkCenterRequest  true  "code, name, location, capacity"
// @Success      201   {object}  dto.WorkCenterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-centers [post]
func (h *WorkCenterHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkCenterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	wc, err := h.uc.Create(in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code y name son requeridos"})
		}
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CODE_EXISTS", Message: "el código ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(wc)
}

// List godoc
// @Summary      Listar centros de trabajo
// @Tags         work-centers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WorkCenterResponse
// @Router       /api/work-centers [get]
func (h *WorkCenterHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener centro de trabajo
// @Tags         work-centers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del centro"
// @Success      200  {object}  dto.WorkCenterResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/work-centers/{id} [get]
func (h *WorkCenterHandler) GetByID(c *fiber.Ctx) error {
	wc, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "centro no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(wc)
}

// ShopFloor godoc
// @Summary      Vista en vivo del taller
// @Description  Cada centro con la orden que lo ocupa y su estado derivado.
//
//	Los clientes deben complementar el websocket con este refetch
//	periódico (el canal de eventos es best-effort).
//
// @Tags         work-centers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ShopFloorItemResponse
// @Router       /api/shop-floor [get]
func (h *WorkCenterHandler) ShopFloor(c *fiber.Ctx) error {
	view, err := h.shopFloorUC.View(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(view)
}

// ToggleStatus godoc
// @Summary      Cambiar manualmente el estado de un centro
// @Description  Solo idle <-> maintenance y solo con el centro desocupado; la
//
//	ocupación la gobierna la máquina de estados de órdenes.
//
// @Tags         work-centers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del centro"
// @Param        body  body  dto.ToggleStatusRequest  true  "status (idle|maintenance)"
// @Success      200   {object}  dto.WorkCenterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-centers/{id}/status [patch]
func (h *WorkCenterHandler) ToggleStatus(c *fiber.Ctx) error {
	var in dto.ToggleStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	wc, err := h.shopFloorUC.ToggleStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status debe ser idle o maintenance"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "centro no encontrado"})
		}
		if err == domain.ErrConflict {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "WORK_CENTER_BUSY", Message: "el centro está ocupado por una orden"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(wc)
}
