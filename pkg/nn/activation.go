package nn

import (
	"fmt"

	"gatr/pkg/pga"
	"gatr/pkg/tensor"
)

// ScalarGatedGELU applies a GELU gate derived from each multivector's
// scalar (grade-0) component to all sixteen components:
//
//	y[..., c, b] = GELU(x[..., c, 0]) * x[..., c, b]
//
// Gating by the scalar component keeps the nonlinearity equivariant: the
// gate value is invariant under the algebra's isometries, so every blade
// coefficient is scaled by the same isometry-independent factor.
//
// Input and output shapes are identical, (..., 16).
func ScalarGatedGELU(x *tensor.Tensor) (*tensor.Tensor, error) {
	if x.NumDims() < 1 || x.Shape[x.NumDims()-1] != pga.NumBlades {
		return nil, fmt.Errorf("scalar gated gelu expects last dimension %d, got shape %v",
			pga.NumBlades, x.Shape)
	}

	result := tensor.NewTensor(x.Shape)
	rows := x.Size() / pga.NumBlades

	for r := 0; r < rows; r++ {
		base := r * pga.NumBlades
		gate := tensor.GELUScalar(x.Data[base+pga.IdxScalar])
		for b := 0; b < pga.NumBlades; b++ {
			result.Data[base+b] = gate * x.Data[base+b]
		}
	}

	return result, nil
}
