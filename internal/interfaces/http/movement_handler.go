package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/application/ledger"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

// MovementHandler movimientos contables (protegido).
type MovementHandler struct {
	uc *ledger.PostingUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *ledger.PostingUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Create contabiliza un movimiento nuevo.
// POST /api/movements
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	m, err := h.uc.CreateMovement(c.Context(), in.ToMovementInput(GetCompanyID(c), GetUserID(c)))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(m))
}

// GetByID GET /api/movements/:id
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.uc.GetMovement(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromMovement(m))
}

// List movimientos filtrados por cuenta y periodo; ?number= busca por consecutivo.
// GET /api/movements?account_id=&from=&to=&limit=&offset=
func (h *MovementHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if number := c.Query("number"); number != "" {
		m, err := h.uc.GetMovementByNumber(c.Context(), companyID, number)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(dto.MovementListResponse{
			Items: []dto.MovementResponse{dto.FromMovement(m)},
			Page:  dto.PageResponse{Limit: 1, Total: 1},
		})
	}

	filter, bad := movementFilter(c)
	if bad != "" {
		return badQuery(c, bad)
	}
	items, err := h.uc.ListMovements(c.Context(), companyID, filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(movementList(items, filter))
}

// Search movimientos por texto en causal, número o descripción. Acepta los mismos filtros que List.
// GET /api/movements/search?q=&account_id=&from=&to=&limit=&offset=
func (h *MovementHandler) Search(c *fiber.Ctx) error {
	filter, bad := movementFilter(c)
	if bad != "" {
		return badQuery(c, bad)
	}
	items, err := h.uc.SearchMovements(c.Context(), GetCompanyID(c), c.Query("q"), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(movementList(items, filter))
}

// movementFilter lee cuenta, período y página; devuelve el nombre del parámetro inválido si lo hay.
func movementFilter(c *fiber.Ctx) (repository.MovementFilter, string) {
	from, err := queryDate(c, "from", false)
	if err != nil {
		return repository.MovementFilter{}, "from"
	}
	to, err := queryDate(c, "to", true)
	if err != nil {
		return repository.MovementFilter{}, "to"
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	page.DefaultPage()
	return repository.MovementFilter{
		AccountID: c.Query("account_id"),
		From:      from,
		To:        to,
		Limit:     page.Limit,
		Offset:    page.Offset,
	}, ""
}

func movementList(items []*entity.Movement, f repository.MovementFilter) dto.MovementListResponse {
	out := dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}
	for _, m := range items {
		out.Items = append(out.Items, dto.FromMovement(m))
	}
	return out
}

// Update revierte el movimiento y lo vuelve a contabilizar con los cambios.
// PUT /api/movements/:id
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	m, err := h.uc.UpdateMovement(c.Context(), GetCompanyID(c), c.Params("id"), in.ToMovementUpdate())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromMovement(m))
}

// Delete revierte y elimina el movimiento.
// DELETE /api/movements/:id
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteMovement(c.Context(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
