package tensor

import "math"

// GELU approximation constants
const (
	geluSqrt2OverPi = 0.7978845608 // sqrt(2/π)
	geluCoeff       = 0.044715
)

// GELUScalar computes the Gaussian Error Linear Unit for a single value.
//
// The GELU function is defined as:
//
//	GELU(x) = 0.5 * x * (1 + tanh(sqrt(2/π) * (x + 0.044715 * x^3)))
//
// This is the tanh approximation from the original GPT-2 codebase and is
// more efficient to compute than the exact GELU formulation.
//
// Reference: https://arxiv.org/abs/1606.08415
func GELUScalar(x float64) float64 {
	x3 := x * x * x
	inner := x + geluCoeff*x3
	return 0.5 * x * (1 + math.Tanh(geluSqrt2OverPi*inner))
}

// GELU applies the Gaussian Error Linear Unit activation function
// element-wise.
//
// Input: tensor of any shape
// Output: tensor of the same shape with GELU applied element-wise
func (t *Tensor) GELU() *Tensor {
	result := NewTensor(t.Shape)
	for i := range t.Data {
		result.Data[i] = GELUScalar(t.Data[i])
	}
	return result
}
