package beecalc

import (
	"errors"
	"strconv"

	"github.com/blakegarretson/beecalc/unit"
)

// SyntaxError is an error indicating that a line's canonical text does not
// parse under the arithmetic grammar.
type SyntaxError struct {
	// Msg is the parser's description of the failure.
	Msg string
}

func (err *SyntaxError) Error() string {
	return "syntax error: " + err.Msg
}

// BadOperatorError is an error indicating an operator with no registered
// implementation, or one applied to operands it has no meaning for.
type BadOperatorError struct {
	// Op is the operator token.
	Op string
}

func (err *BadOperatorError) Error() string {
	return "bad operator " + strconv.Quote(err.Op)
}

// UnknownFunctionError is an error indicating a call to a name that is
// neither a bound value nor a function table entry.
type UnknownFunctionError struct {
	// Name is the name that was called.
	Name string
}

func (err *UnknownFunctionError) Error() string {
	return "unknown function " + strconv.Quote(err.Name)
}

// UnknownIdentifierError is an error indicating a bare identifier that
// resolves to no constant, no variable, and no unit.
type UnknownIdentifierError struct {
	// Name is the identifier.
	Name string
}

func (err *UnknownIdentifierError) Error() string {
	return "unknown identifier " + strconv.Quote(err.Name)
}

// DivisionByZeroError is an error indicating a division or modulo with a
// zero divisor.
type DivisionByZeroError struct {
	// Op is "/" or "%".
	Op string
}

func (err *DivisionByZeroError) Error() string {
	return "division by zero in " + strconv.Quote(err.Op)
}

// UnsupportedNodeError is an error indicating a syntax-tree node kind the
// evaluator does not recognize. The grammar is closed over the kinds the
// evaluator handles, so this only fires on inputs the preprocessor let
// through that mean nothing here, such as string literals outside a unit
// constructor.
type UnsupportedNodeError struct {
	// Node is the node kind's name.
	Node string
}

func (err *UnsupportedNodeError) Error() string {
	return "unsupported operation " + err.Node
}

// Marker returns the short token displayed in place of a failed line's
// result. The longer classification comes from the error itself.
func Marker(err error) string {
	var (
		synErr  *SyntaxError
		opErr   *BadOperatorError
		fnErr   *UnknownFunctionError
		idErr   *UnknownIdentifierError
		zeroErr *DivisionByZeroError
		nodeErr *UnsupportedNodeError
		unitErr *unit.UnknownUnitError
		dimErr  *unit.IncompatibleUnitsError
	)
	switch {
	case errors.As(err, &synErr):
		return "?syntax"
	case errors.As(err, &opErr):
		return "?op"
	case errors.As(err, &fnErr):
		return "?func"
	case errors.As(err, &idErr):
		return "?name"
	case errors.As(err, &zeroErr):
		return "?div0"
	case errors.As(err, &unitErr):
		return "?unit"
	case errors.As(err, &dimErr):
		return "?units"
	case errors.As(err, &nodeErr):
		return "?node"
	}
	return "?err"
}
