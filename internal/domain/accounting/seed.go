package accounting

import "github.com/jhoicas/Contabilidad-api/internal/domain/entity"

type seedAccount struct {
	code, description string
	kind              entity.BalanceType
	parent            string
	postable          bool
}

// Plan de cuentas base: cinco raíces de agrupación y las subcuentas estándar.
var defaultChart = []seedAccount{
	{"1", "ACTIVO", entity.BalanceTypeAsset, "", false},
	{"2", "PASIVO", entity.BalanceTypeLiability, "", false},
	{"3", "PATRIMONIO", entity.BalanceTypeEquity, "", false},
	{"4", "INGRESOS", entity.BalanceTypeRevenue, "", false},
	{"5", "GASTOS", entity.BalanceTypeExpense, "", false},

	{"11", "Activo Corriente", entity.BalanceTypeAsset, "1", false},
	{"12", "Activo Fijo", entity.BalanceTypeAsset, "1", true},
	{"111", "Caja", entity.BalanceTypeAsset, "11", true},
	{"112", "Bancos", entity.BalanceTypeAsset, "11", true},
	{"113", "Clientes", entity.BalanceTypeAsset, "11", true},

	{"21", "Deudas", entity.BalanceTypeLiability, "2", false},
	{"211", "Proveedores", entity.BalanceTypeLiability, "21", true},
	{"212", "Impuestos por Pagar", entity.BalanceTypeLiability, "21", true},

	{"41", "Ingresos por Ventas", entity.BalanceTypeRevenue, "4", true},
	{"42", "Otros Ingresos", entity.BalanceTypeRevenue, "4", true},

	{"51", "Costos de Materias Primas", entity.BalanceTypeExpense, "5", true},
	{"52", "Costos por Servicios", entity.BalanceTypeExpense, "5", true},
	{"53", "Costos de Personal", entity.BalanceTypeExpense, "5", true},
}

// DefaultChart devuelve el plan de cuentas base, sin IDs ni empresa asignados.
// Level se calcula por la profundidad del padre (raíz = 1).
func DefaultChart() []*entity.Account {
	levels := make(map[string]int, len(defaultChart))
	out := make([]*entity.Account, 0, len(defaultChart))
	for _, s := range defaultChart {
		level := 1
		if s.parent != "" {
			level = levels[s.parent] + 1
		}
		levels[s.code] = level
		out = append(out, &entity.Account{
			Code:        s.code,
			Description: s.description,
			BalanceType: s.kind,
			ParentCode:  s.parent,
			Level:       level,
			Active:      true,
			Postable:    s.postable,
		})
	}
	return out
}
