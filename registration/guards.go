package registration

import "github.com/onexlabs/onex-go/workflow"

// Guard is a declarative transition condition over the flattened guard
// fields of (Context, Event).
//
// Evaluation rules:
//   - an unknown field evaluates to false, without error;
//   - an unsupported operator yields GUARD_EVALUATION_ERROR;
//   - operand types that do not fit the operator yield GUARD_TYPE_ERROR.
type Guard struct {
	Field string
	Op    string
	Value any
}

// Supported guard operators.
const (
	OpEq = "=="
	OpNe = "!="
	OpLt = "<"
	OpLe = "<="
	OpGt = ">"
	OpGe = ">="
)

// Evaluate resolves the guard against the field bag.
func (g Guard) Evaluate(fields map[string]any) (bool, error) {
	actual, known := fields[g.Field]
	if !known {
		return false, nil
	}

	switch g.Op {
	case OpEq, OpNe:
		eq, err := guardEqual(g, actual)
		if err != nil {
			return false, err
		}
		if g.Op == OpNe {
			return !eq, nil
		}
		return eq, nil
	case OpLt, OpLe, OpGt, OpGe:
		return guardCompare(g, actual)
	default:
		return false, workflow.NewError(workflow.CodeGuardEvaluation, "unsupported guard operator %q", g.Op).
			WithContext("field", g.Field).WithContext("op", g.Op)
	}
}

func guardEqual(g Guard, actual any) (bool, error) {
	switch want := g.Value.(type) {
	case bool:
		have, ok := actual.(bool)
		if !ok {
			return false, typeError(g, actual)
		}
		return have == want, nil
	case string:
		have, ok := actual.(string)
		if !ok {
			return false, typeError(g, actual)
		}
		return have == want, nil
	case int:
		have, ok := toInt(actual)
		if !ok {
			return false, typeError(g, actual)
		}
		return have == want, nil
	default:
		return false, typeError(g, actual)
	}
}

func guardCompare(g Guard, actual any) (bool, error) {
	want, ok := toInt(g.Value)
	if !ok {
		return false, typeError(g, actual)
	}
	have, ok := toInt(actual)
	if !ok {
		return false, typeError(g, actual)
	}

	switch g.Op {
	case OpLt:
		return have < want, nil
	case OpLe:
		return have <= want, nil
	case OpGt:
		return have > want, nil
	default:
		return have >= want, nil
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func typeError(g Guard, actual any) *workflow.Error {
	return workflow.NewError(workflow.CodeGuardType, "guard %s %s %v: operand type mismatch", g.Field, g.Op, g.Value).
		WithContext("field", g.Field).
		WithContext("actual", actual).
		WithContext("expected", g.Value)
}
