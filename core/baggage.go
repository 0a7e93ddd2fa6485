package core

import (
	"strings"

	"github.com/farewatch/farewatch/schema"
)

// FormatBaggage renders a checked-bag allowance as "2×23kg", "23kg", "1PC"
// or "" when nothing is known. A zero quantity still counts as present.
func FormatBaggage(bags *schema.BaggageAllowance) string {
	if bags == nil {
		return ""
	}
	quantity, hasQuantity := rawScalar(bags.Quantity)
	weight, hasWeight := rawScalar(bags.Weight)
	unit := strings.ToLower(bags.WeightUnit)
	if unit == "" {
		unit = "kg"
	}

	switch {
	case hasQuantity && hasWeight:
		return quantity + "×" + weight + unit
	case hasWeight:
		return weight + unit
	case hasQuantity:
		return quantity + "PC"
	default:
		return ""
	}
}
