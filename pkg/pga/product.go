package pga

import (
	"fmt"

	"gatr/pkg/tensor"
)

// productEntry is one non-zero term of a blade-pair product: blade i times
// blade j contributes Coeff * a_i * b_j to output blade Idx.
type productEntry struct {
	Idx   int
	Coeff float64
}

// geometricTable[i][j] holds the product of blade i and blade j, with
// Coeff == 0 marking an annihilated pair (shared e0 factor).
var geometricTable = buildGeometricTable()

// outerTable[i][j] holds the wedge of blade i and blade j, with Coeff == 0
// marking any pair of blades sharing a factor.
var outerTable = buildOuterTable()

func buildGeometricTable() [NumBlades][NumBlades]productEntry {
	var table [NumBlades][NumBlades]productEntry
	for i := 0; i < NumBlades; i++ {
		for j := 0; j < NumBlades; j++ {
			a, b := bladeMask[i], bladeMask[j]
			if a&b&1 != 0 {
				continue // e0 squares to zero
			}
			k := maskToBlade[a^b]
			// Shared e1..e3 factors square to +1; the only signs come from
			// re-sorting the factors and from the listed-vs-sorted blade
			// conventions on both operands and the result.
			coeff := bladeCanonSign[i] * bladeCanonSign[j] * reorderSign(a, b) * bladeCanonSign[k]
			table[i][j] = productEntry{Idx: k, Coeff: coeff}
		}
	}
	return table
}

func buildOuterTable() [NumBlades][NumBlades]productEntry {
	var table [NumBlades][NumBlades]productEntry
	for i := 0; i < NumBlades; i++ {
		for j := 0; j < NumBlades; j++ {
			a, b := bladeMask[i], bladeMask[j]
			if a&b != 0 {
				continue // wedge of blades sharing any factor vanishes
			}
			k := maskToBlade[a^b]
			coeff := bladeCanonSign[i] * bladeCanonSign[j] * reorderSign(a, b) * bladeCanonSign[k]
			table[i][j] = productEntry{Idx: k, Coeff: coeff}
		}
	}
	return table
}

// checkMultivector verifies that t has a multivector blade axis and returns
// the number of 16-component rows.
func checkMultivector(t *tensor.Tensor) (int, error) {
	if t.NumDims() < 1 || t.Shape[t.NumDims()-1] != NumBlades {
		return 0, fmt.Errorf("expected last dimension %d, got shape %v", NumBlades, t.Shape)
	}
	return t.Size() / NumBlades, nil
}

// GeometricProduct computes the PGA geometric product of two multivector
// tensors, elementwise over all leading axes. Both operands must have
// identical shapes (..., 16).
func GeometricProduct(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	rows, err := checkMultivector(a)
	if err != nil {
		return nil, fmt.Errorf("geometric product left operand: %w", err)
	}
	if !a.ShapeEquals(b) {
		return nil, fmt.Errorf("geometric product operands have mismatched shapes %v and %v",
			a.Shape, b.Shape)
	}

	return productWithTable(a, b, rows, &geometricTable), nil
}

// OuterProduct computes the wedge (exterior) product of two multivector
// tensors, elementwise over all leading axes. Both operands must have
// identical shapes (..., 16).
func OuterProduct(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	rows, err := checkMultivector(a)
	if err != nil {
		return nil, fmt.Errorf("outer product left operand: %w", err)
	}
	if !a.ShapeEquals(b) {
		return nil, fmt.Errorf("outer product operands have mismatched shapes %v and %v",
			a.Shape, b.Shape)
	}

	return productWithTable(a, b, rows, &outerTable), nil
}

func productWithTable(a, b *tensor.Tensor, rows int, table *[NumBlades][NumBlades]productEntry) *tensor.Tensor {
	result := tensor.NewTensor(a.Shape)

	for r := 0; r < rows; r++ {
		base := r * NumBlades
		av := a.Data[base : base+NumBlades]
		bv := b.Data[base : base+NumBlades]
		out := result.Data[base : base+NumBlades]

		for i := 0; i < NumBlades; i++ {
			if av[i] == 0 {
				continue
			}
			for j := 0; j < NumBlades; j++ {
				e := table[i][j]
				if e.Coeff == 0 {
					continue
				}
				out[e.Idx] += e.Coeff * av[i] * bv[j]
			}
		}
	}

	return result
}
