package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	pkgjwt "github.com/jhoicas/Contabilidad-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "contabilidad-test"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
)

var testTokens = mustIssuer(testJWTSecret, testIssuer)

func mustIssuer(secret, name string) *pkgjwt.Issuer {
	iss, err := pkgjwt.NewIssuer(secret, name, time.Hour)
	if err != nil {
		panic(err)
	}
	return iss
}

// tokenForRole header Authorization para la empresa de prueba con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	return bearer(t, testTokens, pkgjwt.Principal{UserID: testUserID, CompanyID: testCompanyID, Role: role})
}

func bearer(t *testing.T, iss *pkgjwt.Issuer, p pkgjwt.Principal) string {
	t.Helper()
	tok, err := iss.Issue(p)
	require.NoError(t, err)
	return "Bearer " + tok
}

// callWith como call pero con el header Authorization tal cual.
func callWith(t *testing.T, app *fiber.App, method, path, auth string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body dto.ErrorResponse
	decode(t, resp, &body)
	return body.Code
}

// ─── Política de lectura y escritura ───

func TestPolicy_RolesPorRuta(t *testing.T) {
	app := newAPI(t)
	seeded(t, app)

	nuevaCuenta := dto.CreateAccountRequest{
		Code: "114", Description: "Anticipos", BalanceType: "asset", ParentCode: "11", Postable: true,
	}
	tests := []struct {
		name   string
		role   string
		method string
		path   string
		body   any
		want   int
	}{
		{"viewer lee balance", pkgjwt.RoleViewer, http.MethodGet, "/api/reports/balance-sheet", nil, http.StatusOK},
		{"viewer lee plan", pkgjwt.RoleViewer, http.MethodGet, "/api/accounts", nil, http.StatusOK},
		{"viewer lee movimientos", pkgjwt.RoleViewer, http.MethodGet, "/api/movements", nil, http.StatusOK},
		{"viewer no contabiliza", pkgjwt.RoleViewer, http.MethodPost, "/api/movements", dto.CreateMovementRequest{}, http.StatusForbidden},
		{"viewer no siembra", pkgjwt.RoleViewer, http.MethodPost, "/api/chart/seed", nil, http.StatusForbidden},
		{"viewer no borra cuentas", pkgjwt.RoleViewer, http.MethodDelete, "/api/accounts/111", nil, http.StatusForbidden},
		{"viewer no factura", pkgjwt.RoleViewer, http.MethodPost, "/api/invoices", dto.CreateInvoiceRequest{}, http.StatusForbidden},
		{"contabile crea cuenta", pkgjwt.RoleAccountant, http.MethodPost, "/api/accounts", nuevaCuenta, http.StatusCreated},
		{"admin lee resumen", pkgjwt.RoleAdmin, http.MethodGet, "/api/reports/summary", nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, app, tt.method, tt.path, tt.role, tt.body)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestPolicy_TokenSinRol(t *testing.T) {
	app := newAPI(t)
	auth := bearer(t, testTokens, pkgjwt.Principal{UserID: testUserID, CompanyID: testCompanyID})

	for _, path := range []string{"/api/reports/balance-sheet", "/api/accounts"} {
		resp := callWith(t, app, http.MethodGet, path, auth)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Equal(t, "MISSING_ROLE", errorCode(t, resp))
	}
}

func TestPolicy_ErrorDeDominioConRolDeEscritura(t *testing.T) {
	app := newAPI(t)
	ids := seeded(t, app)

	// El rol pasa el filtro; el movimiento sobre una cuenta de agrupación lo rechaza el motor
	resp := call(t, app, http.MethodPost, "/api/movements", pkgjwt.RoleAccountant, dto.CreateMovementRequest{
		Reason:          "Cuenta de agrupación",
		DebitAccountID:  ids["11"],
		CreditAccountID: ids["41"],
		Amount:          decimal.NewFromInt(10),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}

// ─── Autenticación ───

func TestAuth_TokensRechazados(t *testing.T) {
	app := newAPI(t)
	principal := pkgjwt.Principal{UserID: testUserID, CompanyID: testCompanyID, Role: pkgjwt.RoleAdmin}

	expired, err := testTokens.IssueFor(principal, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name string
		auth string
		code string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema Basic", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"token basura", "Bearer abc.def.ghi", "INVALID_TOKEN"},
		{"vencido", "Bearer " + expired, "INVALID_TOKEN"},
		{"otro secreto", bearer(t, mustIssuer("otro-secreto", testIssuer), principal), "INVALID_TOKEN"},
		{"otro emisor", bearer(t, mustIssuer(testJWTSecret, "ledgerctl-externo"), principal), "INVALID_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callWith(t, app, http.MethodGet, "/api/accounts", tt.auth)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tt.code, errorCode(t, resp))
		})
	}
}

func TestAuth_EmpresaDelToken(t *testing.T) {
	app := newAPI(t)
	seeded(t, app)

	otra := bearer(t, testTokens, pkgjwt.Principal{UserID: "u2", CompanyID: "otra-empresa", Role: pkgjwt.RoleViewer})

	resp := callWith(t, app, http.MethodGet, "/api/accounts/111", otra)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "el plan sembrado es de la empresa del token")
	resp.Body.Close()

	resp = callWith(t, app, http.MethodGet, "/api/accounts", otra)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var accounts []dto.AccountResponse
	decode(t, resp, &accounts)
	assert.Empty(t, accounts)

	resp = callWith(t, app, http.MethodGet, "/api/accounts/111", tokenForRole(t, pkgjwt.RoleViewer))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
