package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/usecase"
	"github.com/jhoicas/taller-api/internal/domain"
)

// BOMHandler maneja las peticiones HTTP de listas de materiales (protegido).
type BOMHandler struct {
	uc *usecase.BOMUseCase
}

// NewBOMHandler construye el handler.
func NewBOMHandler(uc *usecase.BOMUseCase) *BOMHandler {
	return &BOMHandler{uc: uc}
}

// Create godoc
// @Summary      Crear lista de materiales
// @Tags         boms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBOMRequest  true  "product_id, name, components"
// @Success      201   {object}  dto.BOMResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/boms [post]
func (h *BOMHandler) Create(c *fiber.Ctx) error {
	actor := GetUserID(c)
	var in dto.CreateBOMRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	bom, err := h.uc.Create(actor, in)
	if err != nil {
		return mapBOMError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(bom)
}

// List godoc
// @Summary      Listar listas de materiales
// @Tags         boms
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BOMResponse
// @Router       /api/boms [get]
func (h *BOMHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener lista de materiales
// @Tags         boms
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la BOM"
// @Success      200  {object}  dto.BOMResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boms/{id} [get]
func (h *BOMHandler) GetByID(c *fiber.Ctx) error {
	bom, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return mapBOMError(c, err)
	}
	return c.JSON(bom)
}

// Update godoc
// @Summary      Actualizar lista de materiales
// @Tags         boms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la BOM"
// @Param        body  body  dto.UpdateBOMRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.BOMResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/boms/{id} [put]
func (h *BOMHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBOMRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	bom, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return mapBOMError(c, err)
	}
	return c.JSON(bom)
}

// Delete godoc
// @Summary      Eliminar lista de materiales
// @Tags         boms
// @Security     Bearer
// @Param        id  path  string  true  "ID de la BOM"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boms/{id} [delete]
func (h *BOMHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return mapBOMError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func mapBOMError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
