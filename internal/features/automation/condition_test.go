package automation

import "testing"

func TestLookupField(t *testing.T) {
	payload := map[string]interface{}{
		"first_name": "Grace",
		"amount":     150.0,
		"member": map[string]interface{}{
			"contact": map[string]interface{}{
				"email": "grace@example.com",
			},
		},
	}

	tests := []struct {
		name   string
		path   string
		want   interface{}
		wantOk bool
	}{
		{"top level", "first_name", "Grace", true},
		{"nested path", "member.contact.email", "grace@example.com", true},
		{"missing key", "last_name", nil, false},
		{"missing nested", "member.contact.phone", nil, false},
		{"path through non-map", "first_name.x", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lookupField(payload, tt.path)
			if ok != tt.wantOk {
				t.Fatalf("lookupField(%q) ok = %v, want %v", tt.path, ok, tt.wantOk)
			}
			if ok && got != tt.want {
				t.Errorf("lookupField(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestEvaluateCondition(t *testing.T) {
	payload := map[string]interface{}{
		"stage":       "visitor",
		"visit_count": 3,
		"amount":      250.5,
		"email":       "someone@example.com",
		"note":        "",
		"tags":        "first-time,youth",
	}

	tests := []struct {
		name string
		cond RuleCondition
		want bool
	}{
		{"equals match", RuleCondition{Field: "stage", Operator: OperatorEquals, Value: "visitor"}, true},
		{"equals mismatch", RuleCondition{Field: "stage", Operator: OperatorEquals, Value: "member"}, false},
		{"equals missing field", RuleCondition{Field: "nope", Operator: OperatorEquals, Value: "x"}, false},
		{"not_equals", RuleCondition{Field: "stage", Operator: OperatorNotEquals, Value: "member"}, true},
		{"contains", RuleCondition{Field: "tags", Operator: OperatorContains, Value: "youth"}, true},
		{"contains mismatch", RuleCondition{Field: "tags", Operator: OperatorContains, Value: "senior"}, false},
		{"gt int", RuleCondition{Field: "visit_count", Operator: OperatorGreaterThan, Value: 2}, true},
		{"gt float boundary", RuleCondition{Field: "amount", Operator: OperatorGreaterThan, Value: 250.5}, false},
		{"lt", RuleCondition{Field: "amount", Operator: OperatorLessThan, Value: 300}, true},
		{"gt non-numeric", RuleCondition{Field: "stage", Operator: OperatorGreaterThan, Value: 1}, false},
		{"is_set present", RuleCondition{Field: "email", Operator: OperatorIsSet}, true},
		{"is_set missing", RuleCondition{Field: "phone", Operator: OperatorIsSet}, false},
		{"is_empty on empty string", RuleCondition{Field: "note", Operator: OperatorIsEmpty}, true},
		{"is_empty on missing field", RuleCondition{Field: "phone", Operator: OperatorIsEmpty}, true},
		{"is_empty on value", RuleCondition{Field: "email", Operator: OperatorIsEmpty}, false},
		{"unknown operator", RuleCondition{Field: "stage", Operator: "regex", Value: ".*"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evaluateCondition(tt.cond, payload); got != tt.want {
				t.Errorf("evaluateCondition(%+v) = %v, want %v", tt.cond, got, tt.want)
			}
		})
	}
}

func TestEvaluateConditionsAllMustMatch(t *testing.T) {
	payload := map[string]interface{}{
		"stage":       "visitor",
		"visit_count": 5,
	}

	match := []RuleCondition{
		{Field: "stage", Operator: OperatorEquals, Value: "visitor"},
		{Field: "visit_count", Operator: OperatorGreaterThan, Value: 3},
	}
	if !evaluateConditions(match, payload) {
		t.Error("expected all conditions to match")
	}

	oneFails := []RuleCondition{
		{Field: "stage", Operator: OperatorEquals, Value: "visitor"},
		{Field: "visit_count", Operator: OperatorLessThan, Value: 3},
	}
	if evaluateConditions(oneFails, payload) {
		t.Error("expected conjunction to fail when one condition fails")
	}

	if !evaluateConditions(nil, payload) {
		t.Error("empty condition list should always match")
	}
}
