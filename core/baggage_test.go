package core

import (
	"encoding/json"
	"testing"

	"github.com/farewatch/farewatch/schema"
	"github.com/stretchr/testify/assert"
)

func TestFormatBaggage(t *testing.T) {
	tests := []struct {
		name     string
		bags     *schema.BaggageAllowance
		expected string
	}{
		{"nil", nil, ""},
		{"empty", &schema.BaggageAllowance{}, ""},
		{"weight only", &schema.BaggageAllowance{Weight: json.RawMessage(`23`), WeightUnit: "KG"}, "23kg"},
		{"quantity only", &schema.BaggageAllowance{Quantity: json.RawMessage(`2`)}, "2PC"},
		{"both", &schema.BaggageAllowance{Quantity: json.RawMessage(`2`), Weight: json.RawMessage(`23`), WeightUnit: "KG"}, "2×23kg"},
		{"default unit", &schema.BaggageAllowance{Weight: json.RawMessage(`20`)}, "20kg"},
		{"pounds", &schema.BaggageAllowance{Weight: json.RawMessage(`50`), WeightUnit: "LB"}, "50lb"},
		{"zero quantity is present", &schema.BaggageAllowance{Quantity: json.RawMessage(`0`)}, "0PC"},
		{"string quantity", &schema.BaggageAllowance{Quantity: json.RawMessage(`"1"`)}, "1PC"},
		{"null weight", &schema.BaggageAllowance{Weight: json.RawMessage(`null`), Quantity: json.RawMessage(`1`)}, "1PC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatBaggage(tt.bags))
		})
	}
}

func TestFormatBaggage_FromJSON(t *testing.T) {
	var bags schema.BaggageAllowance
	assert.NoError(t, json.Unmarshal([]byte(`{"weight":23,"weightUnit":"KG","quantity":2}`), &bags))
	assert.Equal(t, "2×23kg", FormatBaggage(&bags))
}
