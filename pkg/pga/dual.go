package pga

import (
	"fmt"

	"gatr/pkg/tensor"
)

// dualMap[i] gives the blade index and sign of the right complement of
// blade i: Dual(B_i) = Sign * B_Idx, chosen so that B_i ∧ Dual(B_i) = +e0123.
var dualMap = buildDualMap()

// undualMap inverts dualMap, so Undual(Dual(x)) == x.
var undualMap = buildUndualMap()

func buildDualMap() [NumBlades]productEntry {
	var out [NumBlades]productEntry
	full := bladeMask[IdxE0123]
	for i := 0; i < NumBlades; i++ {
		j := maskToBlade[bladeMask[i]^full]
		// B_i ∧ B_j = w * e0123 with w = ±1; the complement carries 1/w = w.
		w := bladeCanonSign[i] * bladeCanonSign[j] * reorderSign(bladeMask[i], bladeMask[j])
		out[i] = productEntry{Idx: j, Coeff: w}
	}
	return out
}

func buildUndualMap() [NumBlades]productEntry {
	var out [NumBlades]productEntry
	for i, e := range buildDualMap() {
		out[e.Idx] = productEntry{Idx: i, Coeff: e.Coeff}
	}
	return out
}

// Dual computes the right complement of every multivector in the tensor:
// for each blade B the unique blade C with B ∧ C = +e0123. It is a pure
// coefficient permutation with signs, so it is invertible even though the
// algebra's inner product is degenerate.
func Dual(x *tensor.Tensor) (*tensor.Tensor, error) {
	return applyBladeMap(x, &dualMap, "dual")
}

// Undual inverts Dual.
func Undual(x *tensor.Tensor) (*tensor.Tensor, error) {
	return applyBladeMap(x, &undualMap, "undual")
}

func applyBladeMap(x *tensor.Tensor, m *[NumBlades]productEntry, name string) (*tensor.Tensor, error) {
	rows, err := checkMultivector(x)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	result := tensor.NewTensor(x.Shape)
	for r := 0; r < rows; r++ {
		base := r * NumBlades
		for i := 0; i < NumBlades; i++ {
			e := m[i]
			result.Data[base+e.Idx] = e.Coeff * x.Data[base+i]
		}
	}
	return result, nil
}

// EquiJoin computes the equivariant join of two multivector tensors:
//
//	join(a, b) = Undual(Dual(a) ∧ Dual(b))
//
// If reference is non-nil, the result is additionally scaled by the
// reference's pseudoscalar (e0123) coefficient, which keeps the operation
// equivariant under orientation-reversing isometries. The reference may
// share the operands' full shape, have a channel axis of size 1, or omit
// the channel axis entirely; its coefficient broadcasts across channels.
// A nil reference leaves the join unscaled.
//
// Output channel count equals input channel count.
func EquiJoin(a, b, reference *tensor.Tensor) (*tensor.Tensor, error) {
	da, err := Dual(a)
	if err != nil {
		return nil, fmt.Errorf("equi join left operand: %w", err)
	}
	db, err := Dual(b)
	if err != nil {
		return nil, fmt.Errorf("equi join right operand: %w", err)
	}

	wedge, err := OuterProduct(da, db)
	if err != nil {
		return nil, fmt.Errorf("equi join: %w", err)
	}

	joined, err := Undual(wedge)
	if err != nil {
		return nil, fmt.Errorf("equi join: %w", err)
	}

	if reference == nil {
		return joined, nil
	}
	return scaleByPseudoscalar(joined, reference)
}

// scaleByPseudoscalar multiplies every multivector in x by the e0123
// coefficient of the corresponding reference multivector.
func scaleByPseudoscalar(x, reference *tensor.Tensor) (*tensor.Tensor, error) {
	if _, err := checkMultivector(reference); err != nil {
		return nil, fmt.Errorf("equi join reference: %w", err)
	}

	channels := 1
	if x.NumDims() >= 2 {
		channels = x.Shape[x.NumDims()-2]
	}
	refChannels := 0 // no channel axis
	if reference.NumDims() >= 2 {
		refChannels = reference.Shape[reference.NumDims()-2]
	}

	var refStride int // reference rows consumed per x row
	switch {
	case reference.ShapeEquals(x):
		refStride = 1
	case refChannels == 1 && reference.Size()*channels == x.Size():
		refStride = 0 // one reference row per channel group
	case refChannels != 1 && reference.NumDims() == x.NumDims()-1 && reference.Size()*channels == x.Size():
		refStride = 0
	default:
		return nil, fmt.Errorf("equi join reference shape %v incompatible with operand shape %v",
			reference.Shape, x.Shape)
	}

	result := tensor.NewTensor(x.Shape)
	rows := x.Size() / NumBlades
	for r := 0; r < rows; r++ {
		var scale float64
		if refStride == 1 {
			scale = reference.Data[r*NumBlades+IdxE0123]
		} else {
			scale = reference.Data[(r/channels)*NumBlades+IdxE0123]
		}
		base := r * NumBlades
		for i := 0; i < NumBlades; i++ {
			result.Data[base+i] = scale * x.Data[base+i]
		}
	}
	return result, nil
}
