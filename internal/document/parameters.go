package document

import (
	"fmt"
	"sort"
	"strings"

	"github.com/philipparndt/parambatch/internal/expression"
)

type parameter struct {
	name       string
	unit       string
	expression string
	comment    string
	user       bool
}

// parameterTable is an ordered set of parameters with their evaluated values
type parameterTable struct {
	params []parameter
	values map[string]float64
}

func (t *parameterTable) clone() *parameterTable {
	c := &parameterTable{
		params: make([]parameter, len(t.params)),
		values: make(map[string]float64, len(t.values)),
	}
	copy(c.params, t.params)
	for k, v := range t.values {
		c.values[k] = v
	}
	return c
}

func (t *parameterTable) index(name string) int {
	for i, p := range t.params {
		if p.name == name {
			return i
		}
	}
	return -1
}

// set overwrites an existing expression or appends a user parameter
func (t *parameterTable) set(name, unit, expr string) {
	if i := t.index(name); i >= 0 {
		t.params[i].expression = expr
		return
	}
	t.params = append(t.params, parameter{
		name:       name,
		unit:       unit,
		expression: expr,
		user:       true,
	})
}

// evaluate resolves every parameter in dependency order
func (t *parameterTable) evaluate() error {
	names := make([]string, len(t.params))
	for i, p := range t.params {
		names[i] = p.name
	}
	refs := make(map[string][]string, len(t.params))
	for _, p := range t.params {
		refs[p.name] = expression.References(p.expression, names)
	}

	values := make(map[string]float64, len(t.params))
	pending := make([]parameter, len(t.params))
	copy(pending, t.params)

	for len(pending) > 0 {
		var next []parameter
		for _, p := range pending {
			ready := true
			for _, ref := range refs[p.name] {
				if ref == p.name {
					return fmt.Errorf("parameter %s references itself", p.name)
				}
				if _, ok := values[ref]; !ok {
					ready = false
					break
				}
			}
			if !ready {
				next = append(next, p)
				continue
			}
			v, err := expression.Evaluate(p.expression, p.unit, values)
			if err != nil {
				return fmt.Errorf("parameter %s: %w", p.name, err)
			}
			values[p.name] = v
		}

		if len(next) == len(pending) {
			var stuck []string
			for _, p := range next {
				stuck = append(stuck, p.name)
			}
			sort.Strings(stuck)
			return fmt.Errorf("circular reference between parameters: %s", strings.Join(stuck, ", "))
		}
		pending = next
	}

	t.values = values
	return nil
}

func (t *parameterTable) value(name string) float64 {
	return t.values[name]
}
