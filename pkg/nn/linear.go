// Package nn provides the equivariant primitives the network blocks are
// built from: the grade-wise linear map, the RMS-style equivariant
// normalization, and the scalar-gated GELU activation. All primitives
// operate on multivector tensors of shape (..., channels, 16) and preserve
// the blade axis.
package nn

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"gatr/pkg/pga"
	"gatr/pkg/tensor"
)

// EquiLinear is a learned linear map over the channel axis, applied
// independently per blade grade. Keeping the five grade subspaces separate is
// what makes the map equivariant under the algebra's isometry group: a
// coefficient of grade g only ever mixes with same-blade coefficients of
// other channels, never across grades.
type EquiLinear struct {
	In  int // input channel count
	Out int // output channel count

	// weights[g] is the Out×In mixing matrix for grade g.
	weights [pga.NumGrades]*mat.Dense
}

// NewEquiLinear creates an equivariant linear map from in channels to out
// channels. Weights start at zero, matching a layer whose parameters are
// loaded or initialized afterwards (see InitXavier).
func NewEquiLinear(in, out int) (*EquiLinear, error) {
	if in <= 0 || out <= 0 {
		return nil, fmt.Errorf("equi linear channel counts must be positive, got in=%d out=%d", in, out)
	}

	l := &EquiLinear{In: in, Out: out}
	for g := range l.weights {
		l.weights[g] = mat.NewDense(out, in, nil)
	}
	return l, nil
}

// InitXavier fills all grade weights with Xavier-uniform values drawn from
// rng, so repeated runs with the same seed are reproducible.
func (l *EquiLinear) InitXavier(rng *rand.Rand) {
	limit := math.Sqrt(6.0 / float64(l.In+l.Out))
	for g := range l.weights {
		w := l.weights[g]
		for i := 0; i < l.Out; i++ {
			for j := 0; j < l.In; j++ {
				w.Set(i, j, (2*rng.Float64()-1)*limit)
			}
		}
	}
}

// GradeWeights returns the mixing matrix for one grade. The matrix is the
// layer's own parameter storage, not a copy.
func (l *EquiLinear) GradeWeights(grade int) (*mat.Dense, error) {
	if grade < 0 || grade >= pga.NumGrades {
		return nil, fmt.Errorf("invalid grade %d", grade)
	}
	return l.weights[grade], nil
}

// SetGradeWeights replaces the mixing matrix for one grade. The matrix must
// be Out×In.
func (l *EquiLinear) SetGradeWeights(grade int, w *mat.Dense) error {
	if grade < 0 || grade >= pga.NumGrades {
		return fmt.Errorf("invalid grade %d", grade)
	}
	r, c := w.Dims()
	if r != l.Out || c != l.In {
		return fmt.Errorf("grade %d weights must be %dx%d, got %dx%d", grade, l.Out, l.In, r, c)
	}
	l.weights[grade] = w
	return nil
}

// Forward maps the channel axis from In to Out channels, grade by grade.
//
// Input shape: (..., In, 16)
// Output shape: (..., Out, 16)
func (l *EquiLinear) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if x.NumDims() < 2 {
		return nil, fmt.Errorf("equi linear expects at least 2D input, got %dD", x.NumDims())
	}
	if x.Shape[x.NumDims()-1] != pga.NumBlades {
		return nil, fmt.Errorf("equi linear expects last dimension %d, got shape %v", pga.NumBlades, x.Shape)
	}
	if x.Shape[x.NumDims()-2] != l.In {
		return nil, fmt.Errorf("equi linear expects %d input channels, got shape %v", l.In, x.Shape)
	}

	outShape := make([]int, x.NumDims())
	copy(outShape, x.Shape)
	outShape[x.NumDims()-2] = l.Out
	result := tensor.NewTensor(outShape)

	leading := x.Size() / (l.In * pga.NumBlades)
	srcStride := l.In * pga.NumBlades
	dstStride := l.Out * pga.NumBlades

	for lead := 0; lead < leading; lead++ {
		src := x.Data[lead*srcStride : (lead+1)*srcStride]
		dst := result.Data[lead*dstStride : (lead+1)*dstStride]

		for g := 0; g < pga.NumGrades; g++ {
			blades := pga.GradeBlades(g)

			// Gather this grade's coefficients into an In×k matrix, mix the
			// channels with one matmul, scatter back.
			gathered := mat.NewDense(l.In, len(blades), nil)
			for c := 0; c < l.In; c++ {
				for t, b := range blades {
					gathered.Set(c, t, src[c*pga.NumBlades+b])
				}
			}

			var mixed mat.Dense
			mixed.Mul(l.weights[g], gathered)

			for c := 0; c < l.Out; c++ {
				for t, b := range blades {
					dst[c*pga.NumBlades+b] = mixed.At(c, t)
				}
			}
		}
	}

	return result, nil
}
