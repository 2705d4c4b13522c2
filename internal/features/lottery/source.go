package lottery

import "math/rand/v2"

// Source: источник равномерных чисел в [0, 1).
type Source interface {
	Float64() float64
}

// globalSource: общий генератор math/rand/v2, безопасен для горутин.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource возвращает генератор по умолчанию.
func DefaultSource() Source { return globalSource{} }
