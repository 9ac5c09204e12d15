package emissions

import "fmt"

// InvalidInputError rejects a shipment whose physical parameters violate a
// precondition. It is returned before any computation and is not retryable
// until the caller corrects the input.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// CalculationError wraps an unexpected failure during the per-shipment
// arithmetic, such as a non-finite intermediate value. It is always
// propagated to the caller, never absorbed.
type CalculationError struct {
	Mode string
	Err  error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("emission calculation failed (mode=%s): %v", e.Mode, e.Err)
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}

// BatchError reports which shipment aborted a portfolio aggregation. Batch
// calculations are all-or-nothing, so the caller gets the failing index and
// the underlying cause instead of a partial total.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("shipment %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
