package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var exprPattern = regexp.MustCompile(`^(\d*)d(\d+)([+-]\d+)?$`)

// Expression is a parsed "NdS+M" dice expression.
//
// Invariant: Count >= 1 and Sides >= 1 for any Expression returned by Parse or New.
type Expression struct {
	Raw      string `json:"raw"`
	Count    int    `json:"count"`
	Sides    int    `json:"sides"`
	Modifier int    `json:"modifier"`
}

// New builds an Expression from its parts and renders Raw.
//
// Precondition: count >= 1; sides >= 1.
func New(count, sides, modifier int) Expression {
	e := Expression{Count: count, Sides: sides, Modifier: modifier}
	e.Raw = e.String()
	return e
}

// String renders the expression in canonical form ("2d6", "1d8+2", "3d4-1").
func (e Expression) String() string {
	s := fmt.Sprintf("%dd%d", e.Count, e.Sides)
	if e.Modifier != 0 {
		s += fmt.Sprintf("%+d", e.Modifier)
	}
	return s
}

// Max returns the highest total this expression can produce.
func (e Expression) Max() int {
	return e.Count*e.Sides + e.Modifier
}

// Parse parses a dice expression string into an Expression.
// Supported forms: "d20", "2d6", "2d6+3", "4d8-2". Whitespace is ignored.
//
// Postcondition: Returns a valid Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.ReplaceAll(expr, " ", ""))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	m := exprPattern.FindStringSubmatch(s)
	if m == nil {
		return Expression{}, fmt.Errorf("dice: malformed expression %q", expr)
	}

	count := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", expr, err)
		}
		count = n
	}
	if count < 1 {
		return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", expr)
	}

	sides, err := strconv.Atoi(m[2])
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", expr, err)
	}
	if sides < 1 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 1", expr)
	}

	modifier := 0
	if m[3] != "" {
		modifier, err = strconv.Atoi(m[3])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
	}

	return Expression{Raw: expr, Count: count, Sides: sides, Modifier: modifier}, nil
}

// MustParse parses expr and panics on error. Useful for fixtures and constants.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}

// UnmarshalYAML lets catalog files spell damage as a plain scalar ("2d6").
func (e *Expression) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("dice: expression must be a string: %w", err)
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
