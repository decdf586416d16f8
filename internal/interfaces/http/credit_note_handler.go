package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contabilidad-api/internal/application/billing"
	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

// CreditNoteHandler notas crédito (protegido).
type CreditNoteHandler struct {
	uc *billing.CreditNoteUseCase
}

// NewCreditNoteHandler construye el handler.
func NewCreditNoteHandler(uc *billing.CreditNoteUseCase) *CreditNoteHandler {
	return &CreditNoteHandler{uc: uc}
}

// Create POST /api/credit-notes
func (h *CreditNoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCreditNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cn, err := h.uc.CreateCreditNote(c.Context(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cn)
}

// GetByID GET /api/credit-notes/:id
func (h *CreditNoteHandler) GetByID(c *fiber.Ctx) error {
	cn, err := h.uc.GetCreditNote(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cn)
}

// Update PUT /api/credit-notes/:id
func (h *CreditNoteHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCreditNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cn, err := h.uc.UpdateCreditNote(c.Context(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cn)
}

// List notas crédito; ?invoice_id= y ?customer_id= filtran.
// GET /api/credit-notes
func (h *CreditNoteHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.ListCreditNotes(c.Context(), GetCompanyID(c), repository.CreditNoteFilter{
		InvoiceID:  c.Query("invoice_id"),
		CustomerID: c.Query("customer_id"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

// Delete DELETE /api/credit-notes/:id
func (h *CreditNoteHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteCreditNote(c.Context(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
