package errors

import (
	"math"
)

// CheckScalar checks a single configured value for NaN or Inf and returns a
// ValidationError naming the parameter if one is found.
func CheckScalar(param string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewValidationError(param, "must be a finite number", value)
	}
	return nil
}

// CheckPositive checks that value is finite and strictly greater than zero.
func CheckPositive(param string, value float64) error {
	if err := CheckScalar(param, value); err != nil {
		return err
	}
	if value <= 0 {
		return NewValidationError(param, "must be positive", value)
	}
	return nil
}

// CheckRange checks that lo and hi are finite, positive and ordered lo < hi.
func CheckRange(param string, lo, hi float64) error {
	if err := CheckPositive(param+".min", lo); err != nil {
		return err
	}
	if err := CheckPositive(param+".max", hi); err != nil {
		return err
	}
	if lo >= hi {
		return NewValidationError(param, "min must be less than max", [2]float64{lo, hi})
	}
	return nil
}
