package accounting

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// Chart plan de cuentas en memoria: arena de cuentas indexada por código.
// El padre se guarda como código y se resuelve a través de la arena, nunca como puntero,
// así el bosque no tiene ciclos de referencias. NewChart rechaza ciclos y padres inexistentes.
type Chart struct {
	byCode   map[string]*entity.Account
	byID     map[string]*entity.Account
	children map[string][]string
	ordered  []string // por nivel y código
}

// ChartNode nodo del árbol de cuentas con su saldo actual.
type ChartNode struct {
	Account  *entity.Account
	Balance  decimal.Decimal
	Children []*ChartNode
}

// NewChart construye el plan y verifica su estructura: códigos únicos, padres existentes, sin ciclos.
func NewChart(accounts []*entity.Account) (*Chart, error) {
	c := &Chart{
		byCode:   make(map[string]*entity.Account, len(accounts)),
		byID:     make(map[string]*entity.Account, len(accounts)),
		children: make(map[string][]string),
	}
	for _, a := range accounts {
		if _, dup := c.byCode[a.Code]; dup {
			return nil, &domain.StructuralError{Code: a.Code, Reason: "código duplicado", Err: domain.ErrDuplicate}
		}
		c.byCode[a.Code] = a
		if a.ID != "" {
			c.byID[a.ID] = a
		}
	}
	for _, a := range accounts {
		if a.ParentCode == "" {
			continue
		}
		if _, ok := c.byCode[a.ParentCode]; !ok {
			return nil, &domain.StructuralError{Code: a.Code, Reason: "cuenta padre " + a.ParentCode + " inexistente"}
		}
		c.children[a.ParentCode] = append(c.children[a.ParentCode], a.Code)
	}
	if err := c.CheckAcyclic(); err != nil {
		return nil, err
	}
	for _, codes := range c.children {
		sort.Strings(codes)
	}
	c.ordered = make([]string, 0, len(accounts))
	for code := range c.byCode {
		c.ordered = append(c.ordered, code)
	}
	sort.Slice(c.ordered, func(i, j int) bool {
		ai, aj := c.byCode[c.ordered[i]], c.byCode[c.ordered[j]]
		if ai.Level != aj.Level {
			return ai.Level < aj.Level
		}
		return ai.Code < aj.Code
	})
	return c, nil
}

// CheckAcyclic recorre las cadenas de padres una sola vez por cuenta (coloreado) y falla
// con StructuralError al encontrar un ciclo, sin recursión.
func (c *Chart) CheckAcyclic() error {
	const (
		unvisited = iota
		inPath
		done
	)
	state := make(map[string]int, len(c.byCode))
	for code := range c.byCode {
		if state[code] != unvisited {
			continue
		}
		var path []string
		cur := code
		for cur != "" && state[cur] == unvisited {
			state[cur] = inPath
			path = append(path, cur)
			parent, ok := c.byCode[cur]
			if !ok {
				break
			}
			cur = parent.ParentCode
		}
		if cur != "" && state[cur] == inPath {
			return &domain.StructuralError{Code: cur, Reason: "la cadena de padres forma un ciclo", Err: domain.ErrHierarchyCycle}
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return nil
}

// WouldCycle indica si asignar newParent como padre de code cerraría un ciclo.
func (c *Chart) WouldCycle(code, newParent string) bool {
	steps := 0
	for cur := newParent; cur != ""; steps++ {
		if cur == code || steps > len(c.byCode) {
			return true
		}
		a, ok := c.byCode[cur]
		if !ok {
			return false
		}
		cur = a.ParentCode
	}
	return false
}

// Len número de cuentas.
func (c *Chart) Len() int { return len(c.byCode) }

// Lookup busca una cuenta por código exacto.
func (c *Chart) Lookup(code string) (*entity.Account, bool) {
	a, ok := c.byCode[code]
	return a, ok
}

// LookupID busca una cuenta por ID.
func (c *Chart) LookupID(id string) (*entity.Account, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// All devuelve todas las cuentas ordenadas por nivel y código.
func (c *Chart) All() []*entity.Account {
	out := make([]*entity.Account, 0, len(c.ordered))
	for _, code := range c.ordered {
		out = append(out, c.byCode[code])
	}
	return out
}

// Children cuentas cuyo padre es code, ordenadas por código.
func (c *Chart) Children(code string) []*entity.Account {
	codes := c.children[code]
	out := make([]*entity.Account, 0, len(codes))
	for _, cc := range codes {
		out = append(out, c.byCode[cc])
	}
	return out
}

// HasChildren indica si la cuenta agrupa otras cuentas.
func (c *Chart) HasChildren(code string) bool {
	return len(c.children[code]) > 0
}

// Roots cuentas sin padre.
func (c *Chart) Roots() []*entity.Account {
	var out []*entity.Account
	for _, a := range c.All() {
		if a.IsRoot() {
			out = append(out, a)
		}
	}
	return out
}

// Postable cuentas que pueden recibir movimientos (postable y activas).
func (c *Chart) Postable() []*entity.Account {
	var out []*entity.Account
	for _, a := range c.All() {
		if a.CanPost() {
			out = append(out, a)
		}
	}
	return out
}

// ByType cuentas activas de un tipo.
func (c *Chart) ByType(t entity.BalanceType) []*entity.Account {
	var out []*entity.Account
	for _, a := range c.All() {
		if a.Active && a.BalanceType == t {
			out = append(out, a)
		}
	}
	return out
}

// Ancestors cadena de padres desde la raíz hasta el padre directo de code.
func (c *Chart) Ancestors(code string) ([]*entity.Account, error) {
	a, ok := c.byCode[code]
	if !ok {
		return nil, domain.AccountNotFound(code)
	}
	var chain []*entity.Account
	for cur := a.ParentCode; cur != ""; {
		if len(chain) >= len(c.byCode) {
			return nil, &domain.StructuralError{Code: code, Reason: "la cadena de padres forma un ciclo", Err: domain.ErrHierarchyCycle}
		}
		p, ok := c.byCode[cur]
		if !ok {
			return nil, &domain.StructuralError{Code: code, Reason: "cuenta padre " + cur + " inexistente"}
		}
		chain = append(chain, p)
		cur = p.ParentCode
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Depth nivel de la cuenta según su cadena de padres (raíz = 1).
func (c *Chart) Depth(code string) (int, error) {
	chain, err := c.Ancestors(code)
	if err != nil {
		return 0, err
	}
	return len(chain) + 1, nil
}

// FullCode código completo con la jerarquía, p. ej. "1.11.111".
func (c *Chart) FullCode(code string) (string, error) {
	return c.path(code, ".", func(a *entity.Account) string { return a.Code })
}

// FullDescription descripción completa con la jerarquía, p. ej. "ACTIVO > Activo Corriente > Caja".
func (c *Chart) FullDescription(code string) (string, error) {
	return c.path(code, " > ", func(a *entity.Account) string { return a.Description })
}

func (c *Chart) path(code, sep string, part func(*entity.Account) string) (string, error) {
	chain, err := c.Ancestors(code)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(chain)+1)
	for _, a := range chain {
		parts = append(parts, part(a))
	}
	parts = append(parts, part(c.byCode[code]))
	return strings.Join(parts, sep), nil
}

// Tree árbol de cuentas activas; una cuenta inactiva oculta también su subárbol.
func (c *Chart) Tree() []*ChartNode {
	var build func(a *entity.Account) *ChartNode
	build = func(a *entity.Account) *ChartNode {
		n := &ChartNode{Account: a, Balance: CurrentBalance(a)}
		for _, child := range c.Children(a.Code) {
			if child.Active {
				n.Children = append(n.Children, build(child))
			}
		}
		return n
	}
	var roots []*ChartNode
	for _, r := range c.Roots() {
		if r.Active {
			roots = append(roots, build(r))
		}
	}
	return roots
}

// Search cuentas cuyo código o descripción contiene term, sin distinguir mayúsculas.
func (c *Chart) Search(term string) []*entity.Account {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(term))
	if needle == "" {
		return nil
	}
	var out []*entity.Account
	for _, a := range c.All() {
		if strings.Contains(fold.String(a.Code), needle) || strings.Contains(fold.String(a.Description), needle) {
			out = append(out, a)
		}
	}
	return out
}
