// Package expression evaluates unit-aware parameter expressions such as
// "10 mm", "2 * height" or "(width + 0.5 in) / 2". Every length is
// normalised to millimetres before evaluation.
package expression

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// unit factors to millimetres
var unitFactors = map[string]float64{
	"mm": 1,
	"cm": 10,
	"m":  1000,
	"in": 25.4,
	"ft": 304.8,
}

// A quantity must not continue an identifier or another number.
var quantityPattern = regexp.MustCompile(`(^|[^\w.])(\d*\.?\d+(?:[eE][-+]?\d+)?)\s*(mm|cm|m|in|ft)\b`)

// Factor returns the millimetre factor for a unit name
func Factor(unit string) (float64, error) {
	f, ok := unitFactors[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", unit)
	}
	return f, nil
}

// IsUnit reports whether the name is a known length unit
func IsUnit(name string) bool {
	_, err := Factor(name)
	return err == nil
}

// ToMillimetres rewrites unit-suffixed literals into millimetre arithmetic.
// Every rewritten literal becomes a product so it is never mistaken for a
// unit-less number later on.
func ToMillimetres(source string) string {
	return quantityPattern.ReplaceAllStringFunc(source, func(m string) string {
		parts := quantityPattern.FindStringSubmatch(m)
		number := parts[2]
		if strings.HasPrefix(number, ".") {
			number = "0" + number
		}
		factor := strconv.FormatFloat(unitFactors[parts[3]], 'f', -1, 64)
		return parts[1] + "(" + number + " * " + factor + ")"
	})
}

// Evaluate computes an expression against the given parameter values (mm).
// Unit-less numbers that stand alone or as a term of a sum or difference
// carry the default unit. Factors such as the 2 in "2 * height" stay
// dimensionless.
func Evaluate(source string, defaultUnit string, env map[string]float64) (float64, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return 0, fmt.Errorf("empty expression")
	}

	factor, err := Factor(defaultUnit)
	if err != nil {
		return 0, err
	}

	if v, err := strconv.ParseFloat(source, 64); err == nil {
		return v * factor, nil
	}

	normalised := ToMillimetres(source)
	tree, err := parser.Parse(normalised)
	if err != nil {
		return 0, fmt.Errorf("invalid expression %q: %w", source, err)
	}
	if v, ok := numberValue(tree.Node); ok {
		return v * factor, nil
	}

	vars := make(map[string]any, len(env))
	for k, v := range env {
		vars[k] = v
	}

	program, err := expr.Compile(normalised,
		expr.Env(vars),
		expr.Patch(&defaultUnitPatcher{factor: factor}),
		expr.AsFloat64(),
	)
	if err != nil {
		return 0, fmt.Errorf("invalid expression %q: %w", source, err)
	}
	out, err := expr.Run(program, vars)
	if err != nil {
		return 0, fmt.Errorf("failed to evaluate %q: %w", source, err)
	}
	v, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("expression %q did not produce a number", source)
	}
	return v, nil
}

// defaultUnitPatcher scales bare numeric operands of + and - by the
// default unit factor.
type defaultUnitPatcher struct {
	factor float64
}

func (p *defaultUnitPatcher) Visit(node *ast.Node) {
	n, ok := (*node).(*ast.BinaryNode)
	if !ok || (n.Operator != "+" && n.Operator != "-") {
		return
	}
	p.scale(&n.Left)
	p.scale(&n.Right)
}

func (p *defaultUnitPatcher) scale(operand *ast.Node) {
	if _, ok := numberValue(*operand); !ok {
		return
	}
	ast.Patch(operand, &ast.BinaryNode{
		Operator: "*",
		Left:     *operand,
		Right:    &ast.FloatNode{Value: p.factor},
	})
}

// numberValue reports the value of a literal number, optionally signed
func numberValue(node ast.Node) (float64, bool) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return float64(n.Value), true
	case *ast.FloatNode:
		return n.Value, true
	case *ast.UnaryNode:
		v, ok := numberValue(n.Node)
		if !ok {
			return 0, false
		}
		switch n.Operator {
		case "-":
			return -v, true
		case "+":
			return v, true
		}
	}
	return 0, false
}

// References lists the identifiers of names that appear in the expression,
// in the order of names. An expression that does not parse has none.
func References(source string, names []string) []string {
	tree, err := parser.Parse(ToMillimetres(source))
	if err != nil {
		return nil
	}
	var c identifierCollector
	ast.Walk(&tree.Node, &c)

	var refs []string
	for _, name := range names {
		if _, ok := c.seen[name]; ok {
			refs = append(refs, name)
		}
	}
	return refs
}

type identifierCollector struct {
	seen map[string]struct{}
}

func (c *identifierCollector) Visit(node *ast.Node) {
	n, ok := (*node).(*ast.IdentifierNode)
	if !ok {
		return
	}
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	c.seen[n.Value] = struct{}{}
}
