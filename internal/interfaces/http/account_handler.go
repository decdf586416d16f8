package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contabilidad-api/internal/application/chart"
	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// AccountHandler plan de cuentas (protegido).
type AccountHandler struct {
	uc *chart.UseCase
}

// NewAccountHandler construye el handler.
func NewAccountHandler(uc *chart.UseCase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

// Seed crea el plan de cuentas base de la empresa.
// POST /api/chart/seed
func (h *AccountHandler) Seed(c *fiber.Ctx) error {
	accounts, err := h.uc.Seed(c.Context(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromAccounts(accounts))
}

// List todas las cuentas, o solo las activas de un tipo con ?type=.
// GET /api/accounts
func (h *AccountHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var (
		accounts []*entity.Account
		err      error
	)
	if t := c.Query("type"); t != "" {
		accounts, err = h.uc.ByType(c.Context(), companyID, entity.BalanceType(t))
	} else {
		accounts, err = h.uc.List(c.Context(), companyID)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromAccounts(accounts))
}

// Tree árbol de cuentas activas con saldos.
// GET /api/accounts/tree
func (h *AccountHandler) Tree(c *fiber.Ctx) error {
	nodes, err := h.uc.Tree(c.Context(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromTree(nodes))
}

// Postable cuentas que admiten movimientos.
// GET /api/accounts/postable
func (h *AccountHandler) Postable(c *fiber.Ctx) error {
	accounts, err := h.uc.Postable(c.Context(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromAccounts(accounts))
}

// Search GET /api/accounts/search?q=
func (h *AccountHandler) Search(c *fiber.Ctx) error {
	accounts, err := h.uc.Search(c.Context(), GetCompanyID(c), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromAccounts(accounts))
}

// GetByCode cuenta con saldo y rutas completas.
// GET /api/accounts/:code
func (h *AccountHandler) GetByCode(c *fiber.Ctx) error {
	v, err := h.uc.GetAccount(c.Context(), GetCompanyID(c), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromAccountView(v))
}

// GetByID GET /api/accounts/id/:id
func (h *AccountHandler) GetByID(c *fiber.Ctx) error {
	v, err := h.uc.GetAccountByID(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromAccountView(v))
}

// Children GET /api/accounts/:code/children
func (h *AccountHandler) Children(c *fiber.Ctx) error {
	accounts, err := h.uc.Children(c.Context(), GetCompanyID(c), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromAccounts(accounts))
}

// Create POST /api/accounts
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	a, err := h.uc.CreateAccount(c.Context(), in.ToAccountInput(GetCompanyID(c)))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromAccount(a))
}

// Update PUT /api/accounts/:code
func (h *AccountHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	a, err := h.uc.UpdateAccount(c.Context(), GetCompanyID(c), c.Params("code"), in.ToAccountUpdate())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromAccount(a))
}

// Delete DELETE /api/accounts/:code
func (h *AccountHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteAccount(c.Context(), GetCompanyID(c), c.Params("code")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
