// Package budget implements the cycle derivation and allocation-tracking
// core: ratio redistribution, pay-schedule arithmetic, cycle resolution, and
// per-bucket ledger aggregation. Everything here is a pure function over
// already-fetched data.
package budget

import "cadence/internal/model"

// RatioField names one leg of the needs/wants/savings split.
type RatioField string

const (
	FieldNeeds   RatioField = "needs"
	FieldWants   RatioField = "wants"
	FieldSavings RatioField = "savings"
)

// Adjust sets the chosen leg to value and redistributes the remainder across
// the other two legs proportionally to their current ratio to each other.
// When the other two legs sum to zero the remainder is floor-split, with the
// leftover going to the second leg. The result always sums to exactly 100:
// the last leg is computed as a remainder, never rounded independently.
func Adjust(r model.Ratio, field RatioField, value int) (model.Ratio, error) {
	if value < 0 || value > 100 {
		return r, validationErr(string(field), "percentage %d out of range [0,100]", value)
	}

	b, c, err := otherFields(field)
	if err != nil {
		return r, err
	}

	remaining := 100 - value
	bCur := legValue(r, b)
	cCur := legValue(r, c)

	var bNew int
	if bCur+cCur > 0 {
		bNew = roundDiv(remaining*bCur, bCur+cCur)
	} else {
		bNew = remaining / 2
	}
	cNew := remaining - bNew

	var out model.Ratio
	setLeg(&out, field, value)
	setLeg(&out, b, bNew)
	setLeg(&out, c, cNew)
	return out, nil
}

// otherFields returns the two untouched legs, in needs/wants/savings order.
func otherFields(field RatioField) (RatioField, RatioField, error) {
	switch field {
	case FieldNeeds:
		return FieldWants, FieldSavings, nil
	case FieldWants:
		return FieldNeeds, FieldSavings, nil
	case FieldSavings:
		return FieldNeeds, FieldWants, nil
	}
	return "", "", validationErr("field", "unknown ratio field %q", field)
}

func legValue(r model.Ratio, field RatioField) int {
	switch field {
	case FieldNeeds:
		return r.Needs
	case FieldWants:
		return r.Wants
	default:
		return r.Savings
	}
}

func setLeg(r *model.Ratio, field RatioField, v int) {
	switch field {
	case FieldNeeds:
		r.Needs = v
	case FieldWants:
		r.Wants = v
	default:
		r.Savings = v
	}
}

// roundDiv divides num by den rounding half up. Inputs are non-negative.
func roundDiv(num, den int) int {
	return (num + den/2) / den
}
