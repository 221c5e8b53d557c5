package automation

import (
	"fmt"
	"strconv"
	"strings"
)

// lookupField walks a dotted path into the payload. The second return value
// distinguishes "field absent" from "field present but nil".
func lookupField(payload map[string]interface{}, path string) (interface{}, bool) {
	if payload == nil || path == "" {
		return nil, false
	}

	parts := strings.Split(path, ".")
	var current interface{} = payload
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// evaluateCondition applies one comparator. A missing field fails every
// comparator except is_empty.
func evaluateCondition(cond RuleCondition, payload map[string]interface{}) bool {
	val, exists := lookupField(payload, cond.Field)

	switch cond.Operator {
	case OperatorIsEmpty:
		return !exists || val == nil || fmt.Sprintf("%v", val) == ""
	case OperatorIsSet:
		return exists && val != nil && fmt.Sprintf("%v", val) != ""
	}

	if !exists {
		return false
	}

	switch cond.Operator {
	case OperatorEquals:
		return fmt.Sprintf("%v", val) == fmt.Sprintf("%v", cond.Value)
	case OperatorNotEquals:
		return fmt.Sprintf("%v", val) != fmt.Sprintf("%v", cond.Value)
	case OperatorContains:
		return strings.Contains(fmt.Sprintf("%v", val), fmt.Sprintf("%v", cond.Value))
	case OperatorGreaterThan:
		a, b, ok := toFloats(val, cond.Value)
		return ok && a > b
	case OperatorLessThan:
		a, b, ok := toFloats(val, cond.Value)
		return ok && a < b
	default:
		return false
	}
}

// evaluateConditions is AND semantics; an empty list always matches
func evaluateConditions(conditions []RuleCondition, payload map[string]interface{}) bool {
	for _, cond := range conditions {
		if !evaluateCondition(cond, payload) {
			return false
		}
	}
	return true
}

func toFloats(a, b interface{}) (float64, float64, bool) {
	fa, ok1 := toFloat(a)
	fb, ok2 := toFloat(b)
	return fa, fb, ok1 && ok2
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
