package nn

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"gatr/pkg/pga"
	"gatr/pkg/tensor"
)

// identityDense builds an n×n identity matrix.
func identityDense(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// setAllGrades installs the same square weight matrix for every grade.
func setAllGrades(t *testing.T, l *EquiLinear, w *mat.Dense) {
	t.Helper()
	for g := 0; g < pga.NumGrades; g++ {
		if err := l.SetGradeWeights(g, mat.DenseCopyOf(w)); err != nil {
			t.Fatalf("SetGradeWeights(%d) failed: %v", g, err)
		}
	}
}

// TestNewEquiLinear tests construction validation.
func TestNewEquiLinear(t *testing.T) {
	if _, err := NewEquiLinear(0, 4); err == nil {
		t.Error("expected error for zero input channels")
	}
	if _, err := NewEquiLinear(4, -1); err == nil {
		t.Error("expected error for negative output channels")
	}

	l, err := NewEquiLinear(2, 4)
	if err != nil {
		t.Fatalf("NewEquiLinear failed: %v", err)
	}
	if l.In != 2 || l.Out != 4 {
		t.Errorf("channel counts = (%d, %d), expected (2, 4)", l.In, l.Out)
	}
}

// TestEquiLinear_IdentityWeights tests that identity mixing matrices give
// the identity map.
func TestEquiLinear_IdentityWeights(t *testing.T) {
	l, _ := NewEquiLinear(2, 2)
	setAllGrades(t, l, identityDense(2))

	rng := rand.New(rand.NewSource(1))
	x := tensor.NewTensor([]int{3, 2, pga.NumBlades})
	for i := range x.Data {
		x.Data[i] = 2*rng.Float64() - 1
	}

	y, err := l.Forward(x)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	if !y.Equals(x, 1e-12) {
		t.Error("identity weights changed the input")
	}
}

// TestEquiLinear_GradeSeparation tests that each grade mixes independently:
// scaling only the grade-1 weights must scale exactly the vector blades.
func TestEquiLinear_GradeSeparation(t *testing.T) {
	l, _ := NewEquiLinear(1, 1)
	setAllGrades(t, l, identityDense(1))

	doubled := mat.NewDense(1, 1, []float64{2})
	if err := l.SetGradeWeights(1, doubled); err != nil {
		t.Fatalf("SetGradeWeights failed: %v", err)
	}

	x := tensor.NewTensor([]int{1, pga.NumBlades})
	for b := 0; b < pga.NumBlades; b++ {
		x.Data[b] = 1
	}

	y, err := l.Forward(x)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	for b := 0; b < pga.NumBlades; b++ {
		want := 1.0
		if pga.BladeGrade(b) == 1 {
			want = 2.0
		}
		if y.Data[b] != want {
			t.Errorf("blade %d = %v, expected %v", b, y.Data[b], want)
		}
	}
}

// TestEquiLinear_ChannelMixing tests the channel contraction itself.
func TestEquiLinear_ChannelMixing(t *testing.T) {
	l, _ := NewEquiLinear(2, 1)
	w := mat.NewDense(1, 2, []float64{1, 10})
	for g := 0; g < pga.NumGrades; g++ {
		if err := l.SetGradeWeights(g, mat.DenseCopyOf(w)); err != nil {
			t.Fatalf("SetGradeWeights failed: %v", err)
		}
	}

	x := tensor.NewTensor([]int{2, pga.NumBlades})
	x.Data[pga.IdxScalar] = 3              // channel 0
	x.Data[pga.NumBlades+pga.IdxScalar] = 5 // channel 1

	y, err := l.Forward(x)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	if y.Data[pga.IdxScalar] != 53 {
		t.Errorf("mixed scalar = %v, expected 53", y.Data[pga.IdxScalar])
	}
}

// TestEquiLinear_ShapeProjection tests the channel-axis projection and the
// fail-fast paths.
func TestEquiLinear_ShapeProjection(t *testing.T) {
	l, _ := NewEquiLinear(1, 32)

	x := tensor.NewTensor([]int{4, 10, 1, pga.NumBlades})
	y, err := l.Forward(x)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	wantShape := []int{4, 10, 32, pga.NumBlades}
	for i, dim := range wantShape {
		if y.Shape[i] != dim {
			t.Fatalf("output shape = %v, expected %v", y.Shape, wantShape)
		}
	}

	// Wrong channel count fails fast.
	bad := tensor.NewTensor([]int{4, 10, 2, pga.NumBlades})
	if _, err := l.Forward(bad); err == nil {
		t.Error("expected channel count error, got nil")
	}

	// Wrong blade axis fails fast.
	bad = tensor.NewTensor([]int{4, 1, 8})
	if _, err := l.Forward(bad); err == nil {
		t.Error("expected blade axis error, got nil")
	}
}

// TestEquiLinear_InitXavier tests that seeded initialization is
// reproducible and bounded.
func TestEquiLinear_InitXavier(t *testing.T) {
	a, _ := NewEquiLinear(4, 8)
	b, _ := NewEquiLinear(4, 8)
	a.InitXavier(rand.New(rand.NewSource(5)))
	b.InitXavier(rand.New(rand.NewSource(5)))

	for g := 0; g < pga.NumGrades; g++ {
		wa, _ := a.GradeWeights(g)
		wb, _ := b.GradeWeights(g)
		if !mat.Equal(wa, wb) {
			t.Errorf("grade %d weights differ across identical seeds", g)
		}
	}

	wa, _ := a.GradeWeights(0)
	if mat.Norm(wa, 1) == 0 {
		t.Error("InitXavier left weights at zero")
	}
}
