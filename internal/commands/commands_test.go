package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contabilidad-api/pkg/config"
	"github.com/jhoicas/Contabilidad-api/pkg/jwt"
)

func withConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	prev := loadConfig
	loadConfig = func() (*config.Config, error) { return cfg, nil }
	t.Cleanup(func() { loadConfig = prev })
}

func memoryConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Env: "test", LogLevel: "error"},
		DB:     config.DBConfig{Driver: config.DriverMemory},
		JWT:    config.JWTConfig{Secret: "s3cret", Expiration: 60, Issuer: "ledgerctl"},
		Ledger: config.LedgerConfig{NumberRetries: config.DefaultNumberRetries},
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// ─── token ───

func TestToken_EmiteJWTValido(t *testing.T) {
	withConfig(t, memoryConfig())

	out, err := run(t, "token", "--company", "c1", "--role", jwt.RoleAccountant, "--user", "u9")
	require.NoError(t, err)

	tokens, err := jwt.NewIssuer("s3cret", "ledgerctl", time.Hour)
	require.NoError(t, err)
	p, err := tokens.Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, jwt.Principal{UserID: "u9", CompanyID: "c1", Role: jwt.RoleAccountant}, p)
}

func TestToken_RolDesconocido(t *testing.T) {
	withConfig(t, memoryConfig())
	_, err := run(t, "token", "--company", "c1", "--role", "bodeguero")
	assert.Error(t, err)
}

func TestToken_SinSecreto(t *testing.T) {
	cfg := memoryConfig()
	cfg.JWT.Secret = ""
	withConfig(t, cfg)
	_, err := run(t, "token", "--company", "c1")
	assert.Error(t, err)
}

// ─── seed / balance / migrate ───

func TestSeed_Memoria(t *testing.T) {
	withConfig(t, memoryConfig())
	out, err := run(t, "seed", "--company", "c1")
	require.NoError(t, err)
	assert.Contains(t, out, "18 cuentas creadas para c1")
}

func TestBalance_Memoria(t *testing.T) {
	withConfig(t, memoryConfig())
	out, err := run(t, "balance", "--company", "c1", "--as-of", "2025-12-31")
	require.NoError(t, err)
	assert.Contains(t, out, "Balance general al 2025-12-31")
	assert.Contains(t, out, "Pasivo + patrimonio")
}

func TestBalance_FechaInvalida(t *testing.T) {
	withConfig(t, memoryConfig())
	_, err := run(t, "balance", "--company", "c1", "--as-of", "31/12/2025")
	assert.Error(t, err)
}

func TestMigrate_RequierePostgres(t *testing.T) {
	withConfig(t, memoryConfig())
	_, err := run(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER=postgres")
}
