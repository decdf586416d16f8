package accounting_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/accounting"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

func seededChart(t *testing.T) *accounting.Chart {
	t.Helper()
	chart, err := accounting.NewChart(accounting.DefaultChart())
	require.NoError(t, err, "el plan base debe ser estructuralmente válido")
	return chart
}

func TestDefaultChart_RaicesNoPostables(t *testing.T) {
	chart := seededChart(t)

	roots := chart.Roots()
	require.Len(t, roots, 5)
	for _, r := range roots {
		assert.False(t, r.Postable, "la raíz %s debe ser solo de agrupación", r.Code)
		assert.Equal(t, 1, r.Level)
	}
	assert.Equal(t, 18, chart.Len())
}

func TestDefaultChart_NivelesPorProfundidad(t *testing.T) {
	chart := seededChart(t)

	cash, ok := chart.Lookup("111")
	require.True(t, ok)
	assert.Equal(t, 3, cash.Level)

	depth, err := chart.Depth("111")
	require.NoError(t, err)
	assert.Equal(t, cash.Level, depth)
}

func TestChart_ChildrenYPostables(t *testing.T) {
	chart := seededChart(t)

	children := chart.Children("11")
	codes := make([]string, 0, len(children))
	for _, c := range children {
		codes = append(codes, c.Code)
	}
	assert.Equal(t, []string{"111", "112", "113"}, codes)

	for _, a := range chart.Postable() {
		assert.True(t, a.Postable && a.Active)
		assert.False(t, chart.HasChildren(a.Code), "%s es postable pero agrupa cuentas", a.Code)
	}
}

func TestChart_RutasCompletas(t *testing.T) {
	chart := seededChart(t)

	code, err := chart.FullCode("112")
	require.NoError(t, err)
	assert.Equal(t, "1.11.112", code)

	desc, err := chart.FullDescription("112")
	require.NoError(t, err)
	assert.Equal(t, "ACTIVO > Activo Corriente > Bancos", desc)
}

func TestNewChart_DetectaCiclo(t *testing.T) {
	accounts := []*entity.Account{
		{Code: "A", Description: "a", BalanceType: entity.BalanceTypeAsset, ParentCode: "C"},
		{Code: "B", Description: "b", BalanceType: entity.BalanceTypeAsset, ParentCode: "A"},
		{Code: "C", Description: "c", BalanceType: entity.BalanceTypeAsset, ParentCode: "B"},
	}
	_, err := accounting.NewChart(accounts)
	require.Error(t, err)

	var serr *domain.StructuralError
	assert.True(t, errors.As(err, &serr), "debe ser StructuralError, fue %T", err)
	assert.ErrorIs(t, err, domain.ErrHierarchyCycle)
}

func TestNewChart_CodigoDuplicado(t *testing.T) {
	accounts := []*entity.Account{
		{Code: "1", Description: "a", BalanceType: entity.BalanceTypeAsset},
		{Code: "1", Description: "b", BalanceType: entity.BalanceTypeAsset},
	}
	_, err := accounting.NewChart(accounts)
	assert.ErrorIs(t, err, domain.ErrStructural)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestNewChart_PadreInexistente(t *testing.T) {
	accounts := []*entity.Account{
		{Code: "11", Description: "a", BalanceType: entity.BalanceTypeAsset, ParentCode: "1"},
	}
	_, err := accounting.NewChart(accounts)
	assert.ErrorIs(t, err, domain.ErrStructural)
}

func TestChart_WouldCycle(t *testing.T) {
	chart := seededChart(t)

	assert.True(t, chart.WouldCycle("1", "111"), "mover la raíz bajo su nieto cierra un ciclo")
	assert.True(t, chart.WouldCycle("11", "11"))
	assert.False(t, chart.WouldCycle("112", "12"))
}

func TestChart_SearchSinMayusculas(t *testing.T) {
	chart := seededChart(t)

	found := chart.Search("bANCOS")
	require.Len(t, found, 1)
	assert.Equal(t, "112", found[0].Code)
	assert.Empty(t, chart.Search("   "))
}

func TestChart_TreeOcultaInactivas(t *testing.T) {
	accounts := accounting.DefaultChart()
	for _, a := range accounts {
		if a.Code == "12" {
			a.Active = false
		}
	}
	chart, err := accounting.NewChart(accounts)
	require.NoError(t, err)

	tree := chart.Tree()
	require.Len(t, tree, 5)
	asset := tree[0]
	assert.Equal(t, "1", asset.Account.Code)
	require.Len(t, asset.Children, 1)
	assert.Equal(t, "11", asset.Children[0].Account.Code)
	assert.Len(t, asset.Children[0].Children, 3)
}

func TestChart_ByTypeSoloActivas(t *testing.T) {
	accounts := accounting.DefaultChart()
	for _, a := range accounts {
		if a.Code == "42" {
			a.Active = false
		}
	}
	chart, err := accounting.NewChart(accounts)
	require.NoError(t, err)

	revenue := chart.ByType(entity.BalanceTypeRevenue)
	codes := make([]string, 0, len(revenue))
	for _, a := range revenue {
		codes = append(codes, a.Code)
	}
	assert.Equal(t, []string{"4", "41"}, codes)
}
