package pga

import (
	"testing"

	"gatr/pkg/tensor"
)

// unitBlade returns a single multivector with coefficient 1 on one blade.
func unitBlade(idx int) *tensor.Tensor {
	mv := tensor.NewTensor([]int{NumBlades})
	mv.Data[idx] = 1
	return mv
}

// expectBlades checks that mv carries exactly the given blade coefficients
// and zeros everywhere else.
func expectBlades(t *testing.T, mv *tensor.Tensor, want map[int]float64) {
	t.Helper()
	for i := 0; i < NumBlades; i++ {
		expected := want[i]
		if diff := mv.Data[i] - expected; diff > 1e-12 || diff < -1e-12 {
			t.Errorf("blade %d = %v, expected %v", i, mv.Data[i], expected)
		}
	}
}

// TestGeometricProduct_BasisVectors tests the defining relations of the
// algebra: e1..e3 square to one, e0 squares to zero, distinct vectors
// anticommute into bivectors.
func TestGeometricProduct_BasisVectors(t *testing.T) {
	// e1 * e1 = 1
	got, err := GeometricProduct(unitBlade(IdxE1), unitBlade(IdxE1))
	if err != nil {
		t.Fatalf("GeometricProduct failed: %v", err)
	}
	expectBlades(t, got, map[int]float64{IdxScalar: 1})

	// e0 * e0 = 0
	got, _ = GeometricProduct(unitBlade(IdxE0), unitBlade(IdxE0))
	expectBlades(t, got, nil)

	// e1 * e2 = e12, e2 * e1 = -e12
	got, _ = GeometricProduct(unitBlade(IdxE1), unitBlade(IdxE2))
	expectBlades(t, got, map[int]float64{IdxE12: 1})
	got, _ = GeometricProduct(unitBlade(IdxE2), unitBlade(IdxE1))
	expectBlades(t, got, map[int]float64{IdxE12: -1})
}

// TestGeometricProduct_HigherBlades tests products involving the reversed
// blade conventions (e31) and the trivector/pseudoscalar range.
func TestGeometricProduct_HigherBlades(t *testing.T) {
	// e3 * e1 = e31 under the listed basis (not -e13).
	got, err := GeometricProduct(unitBlade(IdxE3), unitBlade(IdxE1))
	if err != nil {
		t.Fatalf("GeometricProduct failed: %v", err)
	}
	expectBlades(t, got, map[int]float64{IdxE31: 1})

	// e123 * e123 = -1
	got, _ = GeometricProduct(unitBlade(IdxE123), unitBlade(IdxE123))
	expectBlades(t, got, map[int]float64{IdxScalar: -1})

	// e0123 * e0123 = 0 (shares e0 with itself)
	got, _ = GeometricProduct(unitBlade(IdxE0123), unitBlade(IdxE0123))
	expectBlades(t, got, nil)

	// e01 * e1 = e0
	got, _ = GeometricProduct(unitBlade(IdxE01), unitBlade(IdxE1))
	expectBlades(t, got, map[int]float64{IdxE0: 1})
}

// TestGeometricProduct_Bilinearity tests linearity over composite inputs.
func TestGeometricProduct_Bilinearity(t *testing.T) {
	// (2*e1 + 3*e2) * e2 = 2*e12 + 3
	a := tensor.NewTensor([]int{NumBlades})
	a.Data[IdxE1] = 2
	a.Data[IdxE2] = 3

	got, err := GeometricProduct(a, unitBlade(IdxE2))
	if err != nil {
		t.Fatalf("GeometricProduct failed: %v", err)
	}
	expectBlades(t, got, map[int]float64{IdxE12: 2, IdxScalar: 3})
}

// TestGeometricProduct_BatchedChannels tests that leading and channel axes
// are handled elementwise.
func TestGeometricProduct_BatchedChannels(t *testing.T) {
	a := tensor.NewTensor([]int{2, 2, NumBlades})
	b := tensor.NewTensor([]int{2, 2, NumBlades})
	for r := 0; r < 4; r++ {
		a.Data[r*NumBlades+IdxE1] = float64(r + 1)
		b.Data[r*NumBlades+IdxE1] = 1
	}

	got, err := GeometricProduct(a, b)
	if err != nil {
		t.Fatalf("GeometricProduct failed: %v", err)
	}
	for r := 0; r < 4; r++ {
		if got.Data[r*NumBlades+IdxScalar] != float64(r+1) {
			t.Errorf("row %d scalar = %v, expected %d", r, got.Data[r*NumBlades+IdxScalar], r+1)
		}
	}
}

// TestGeometricProduct_ShapeMismatch tests the fail-fast error path.
func TestGeometricProduct_ShapeMismatch(t *testing.T) {
	a := tensor.NewTensor([]int{2, NumBlades})
	b := tensor.NewTensor([]int{3, NumBlades})
	if _, err := GeometricProduct(a, b); err == nil {
		t.Fatal("expected shape mismatch error, got nil")
	}

	c := tensor.NewTensor([]int{2, 8})
	if _, err := GeometricProduct(c, c); err == nil {
		t.Fatal("expected blade-axis error, got nil")
	}
}

// TestOuterProduct tests the wedge: shared factors annihilate, disjoint
// factors combine with the reordering sign.
func TestOuterProduct(t *testing.T) {
	// e1 ∧ e1 = 0
	got, err := OuterProduct(unitBlade(IdxE1), unitBlade(IdxE1))
	if err != nil {
		t.Fatalf("OuterProduct failed: %v", err)
	}
	expectBlades(t, got, nil)

	// e1 ∧ e2 = e12
	got, _ = OuterProduct(unitBlade(IdxE1), unitBlade(IdxE2))
	expectBlades(t, got, map[int]float64{IdxE12: 1})

	// e0 ∧ e123 = e0123
	got, _ = OuterProduct(unitBlade(IdxE0), unitBlade(IdxE123))
	expectBlades(t, got, map[int]float64{IdxE0123: 1})

	// e0 ∧ e01 = 0 (shared e0 vanishes in the wedge, unlike the geometric
	// product where only e0^2 = 0 applies)
	got, _ = OuterProduct(unitBlade(IdxE0), unitBlade(IdxE01))
	expectBlades(t, got, nil)
}

// TestBladeGradeTables sanity-checks the grade bookkeeping used by the
// linear layer.
func TestBladeGradeTables(t *testing.T) {
	wantSizes := map[int]int{0: 1, 1: 4, 2: 6, 3: 4, 4: 1}
	total := 0
	for g := 0; g < NumGrades; g++ {
		blades := GradeBlades(g)
		if len(blades) != wantSizes[g] {
			t.Errorf("grade %d has %d blades, expected %d", g, len(blades), wantSizes[g])
		}
		for _, b := range blades {
			if BladeGrade(b) != g {
				t.Errorf("blade %d reported grade %d, expected %d", b, BladeGrade(b), g)
			}
			total++
		}
	}
	if total != NumBlades {
		t.Errorf("grade partition covers %d blades, expected %d", total, NumBlades)
	}
}
