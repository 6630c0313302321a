package totals

import (
	"context"
	"errors"
	"log"
)

var (
	// ErrLengthMismatch is returned when the price and quantity vectors differ in length.
	ErrLengthMismatch = errors.New("totals: price and quantity vectors must have equal length")

	// ErrBackendUnavailable is returned by the accelerated calculator before a
	// successful Init. It is always recoverable through the fallback path.
	ErrBackendUnavailable = errors.New("totals: accelerated backend unavailable")
)

// Calculator computes the summed price x quantity over two equal-length
// vectors. Implementations must agree numerically for all valid inputs.
type Calculator interface {
	SumProducts(prices []float64, quantities []int) (float64, error)
}

// DefaultCalculator is the always-available scalar routine.
type DefaultCalculator struct{}

func NewDefaultCalculator() *DefaultCalculator {
	return &DefaultCalculator{}
}

func (c *DefaultCalculator) SumProducts(prices []float64, quantities []int) (float64, error) {
	if len(prices) != len(quantities) {
		return 0, ErrLengthMismatch
	}

	var total float64
	for i, price := range prices {
		q := quantities[i]
		if q < 1 {
			q = 1
		}
		total += price * float64(q)
	}
	return total, nil
}

// AcceleratedCalculator is the optional fast-path backend. It must be
// initialized before use and may fail to initialize; callers are expected to
// keep a fallback ready.
type AcceleratedCalculator struct {
	ready bool
}

func NewAcceleratedCalculator() *AcceleratedCalculator {
	return &AcceleratedCalculator{}
}

// Init prepares the backend. The context bounds how long initialization may
// take; an expired context leaves the backend unavailable.
func (c *AcceleratedCalculator) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.ready = true
	return nil
}

func (c *AcceleratedCalculator) SumProducts(prices []float64, quantities []int) (float64, error) {
	if !c.ready {
		return 0, ErrBackendUnavailable
	}
	if len(prices) != len(quantities) {
		return 0, ErrLengthMismatch
	}

	// Blocked summation, four lanes per step.
	var s0, s1, s2, s3 float64
	n := len(prices)
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += prices[i] * float64(clampQty(quantities[i]))
		s1 += prices[i+1] * float64(clampQty(quantities[i+1]))
		s2 += prices[i+2] * float64(clampQty(quantities[i+2]))
		s3 += prices[i+3] * float64(clampQty(quantities[i+3]))
	}
	total := s0 + s1 + s2 + s3
	for ; i < n; i++ {
		total += prices[i] * float64(clampQty(quantities[i]))
	}
	return total, nil
}

func clampQty(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// FallbackCalculator runs the primary calculator and substitutes the fallback
// on any error, so path selection stays invisible to callers.
type FallbackCalculator struct {
	primary  Calculator
	fallback Calculator
}

func NewFallbackCalculator(primary, fallback Calculator) *FallbackCalculator {
	return &FallbackCalculator{primary: primary, fallback: fallback}
}

func (c *FallbackCalculator) SumProducts(prices []float64, quantities []int) (float64, error) {
	total, err := c.primary.SumProducts(prices, quantities)
	if err == nil {
		return total, nil
	}
	if !errors.Is(err, ErrBackendUnavailable) {
		log.Printf("totals: primary calculator failed, using fallback: %v", err)
	}
	return c.fallback.SumProducts(prices, quantities)
}

// NewCalculator wires the standard production chain: accelerated when it
// initializes within the context deadline, default otherwise.
func NewCalculator(ctx context.Context) Calculator {
	accelerated := NewAcceleratedCalculator()
	if err := accelerated.Init(ctx); err != nil {
		log.Printf("totals: accelerated backend init failed, using default: %v", err)
		return NewDefaultCalculator()
	}
	return NewFallbackCalculator(accelerated, NewDefaultCalculator())
}
